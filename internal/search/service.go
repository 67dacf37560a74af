package search

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"evidence-platform/internal/audit"
	"evidence-platform/internal/cases"
	"evidence-platform/internal/evidence"
	"evidence-platform/internal/submission"
)

// Repository runs cross-entity searches against the backing store.
type Repository interface {
	Search(ctx context.Context, f Filter) ([]Row, error)
}

// Service answers search queries and renders exports. Searches are read-only;
// every export leaves a DATA_EXPORTED audit record.
type Service struct {
	repo        Repository
	cases       *cases.Service
	evidence    *evidence.Service
	submissions *submission.Service
	auditor     *audit.Service
	maxLimit    int
}

func NewService(repo Repository, caseSvc *cases.Service, evidenceSvc *evidence.Service, submissionSvc *submission.Service, auditSvc *audit.Service, maxLimit int) *Service {
	if maxLimit <= 0 {
		maxLimit = 200
	}
	return &Service{
		repo:        repo,
		cases:       caseSvc,
		evidence:    evidenceSvc,
		submissions: submissionSvc,
		auditor:     auditSvc,
		maxLimit:    maxLimit,
	}
}

// Search runs a filter composition over evidence and submissions. Every
// filter is optional; a blank term matches everything, so case-scoped or
// date-range-only queries are valid.
func (s *Service) Search(ctx context.Context, f Filter) ([]Row, error) {
	f.Term = strings.TrimSpace(f.Term)
	switch f.Kind {
	case "", KindEvidence, KindSubmission:
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, f.Kind)
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > s.maxLimit {
		f.Limit = s.maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.Search(ctx, f)
}

var csvHeader = []string{"kind", "id", "title", "detail", "case_number", "created_at"}

// exportPageSize bounds a single store round-trip while the dump pages
// through the whole collection.
const exportPageSize = 500

// ExportCSV writes a flat dump of one collection (evidence or submissions),
// optionally scoped to a single case. An empty result still produces the
// header line so downstream tooling gets a well-formed file.
func (s *Service) ExportCSV(ctx context.Context, actorID, actorRole, ip, kind, caseID string, w io.Writer) error {
	if kind != KindEvidence && kind != KindSubmission {
		return fmt.Errorf("%w: export kind must be %q or %q", ErrInvalidArgument, KindEvidence, KindSubmission)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	total := 0
	for offset := 0; ; offset += exportPageSize {
		// Empty term matches everything; this is a dump, not a search.
		rows, err := s.repo.Search(ctx, Filter{
			Kind:   kind,
			CaseID: caseID,
			Limit:  exportPageSize,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		for _, r := range rows {
			rec := []string{r.Kind, r.ID, r.Title, r.Detail, r.CaseNumber, r.CreatedAt.UTC().Format(time.RFC3339)}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		total += len(rows)
		if len(rows) < exportPageSize {
			break
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	s.auditor.Log(ctx, audit.Event{
		ActorID:      actorID,
		ActorRole:    actorRole,
		Action:       audit.ActionDataExported,
		ResourceType: kind,
		Detail:       fmt.Sprintf("csv rows=%d", total),
		IPAddress:    ip,
	})
	return nil
}

// ExportCaseReport renders a PDF summary of one case: its metadata, every
// evidence item with its fingerprint, and the submissions linked to it.
func (s *Service) ExportCaseReport(ctx context.Context, actorID, actorRole, ip, caseID string, w io.Writer) error {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		if errors.Is(err, cases.ErrNotFound) {
			return fmt.Errorf("%w: case %s", ErrNotFound, caseID)
		}
		return err
	}
	items, err := s.evidence.ListByCase(ctx, caseID)
	if err != nil {
		return err
	}
	subs, err := s.submissions.List(ctx, submission.ListFilter{CaseID: caseID})
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Case Report "+c.CaseNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Case Report: "+c.CaseNumber)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	reportLine(pdf, "Title", c.Title)
	reportLine(pdf, "Status", string(c.Status))
	reportLine(pdf, "Opened", c.CreatedAt.UTC().Format(time.RFC3339))
	if c.Description != "" {
		reportLine(pdf, "Description", c.Description)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Evidence (%d)", len(items)))
	pdf.Ln(10)
	pdf.SetFont("Courier", "", 9)
	for _, e := range items {
		pdf.Cell(0, 5, fmt.Sprintf("%s  %d bytes", e.Filename, e.Size))
		pdf.Ln(5)
		pdf.Cell(0, 5, "  sha256 "+e.DigestHex)
		pdf.Ln(6)
	}
	if len(items) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "No evidence on file.")
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Submissions (%d)", len(subs)))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	for _, sub := range subs {
		pdf.Cell(0, 6, fmt.Sprintf("%s <%s>, age %s", sub.Name, sub.Email, strconv.Itoa(sub.Age)))
		pdf.Ln(6)
	}
	if len(subs) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "No submissions linked to this case.")
		pdf.Ln(6)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	s.auditor.Log(ctx, audit.Event{
		ActorID:      actorID,
		ActorRole:    actorRole,
		Action:       audit.ActionDataExported,
		ResourceType: "case",
		ResourceID:   caseID,
		Detail:       "pdf report",
		IPAddress:    ip,
	})
	return nil
}

func reportLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(30, 6, label)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, value, "", "L", false)
}
