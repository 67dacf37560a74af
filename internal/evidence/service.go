package evidence

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"evidence-platform/internal/audit"

	"github.com/google/uuid"
)

// Repository is the persistence contract for evidence metadata.
// Rows are insert-only: digest and storage key never change after commit.
type Repository interface {
	Insert(ctx context.Context, e Evidence) error
	GetByID(ctx context.Context, id string) (Evidence, error)
	ListByCase(ctx context.Context, caseID string) ([]Evidence, error)
}

// CaseDirectory resolves case references. Satisfied by cases.Service.
type CaseDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service is the evidence intake pipeline plus read paths.
//
// Intake coordinates the blob store and the metadata store with a
// compensating delete instead of a distributed transaction: any failure
// after the blob write removes the blob before the error is returned, so
// no blob exists without a row and no row without a blob.
type Service struct {
	repo     Repository
	blobs    BlobStore
	casedir  CaseDirectory
	audit    *audit.Service
	log      *slog.Logger
	maxBytes int64
	clock    func() time.Time
}

func NewService(repo Repository, blobs BlobStore, casedir CaseDirectory, auditSvc *audit.Service, log *slog.Logger, maxBytes int64) *Service {
	if log == nil {
		log = slog.Default()
	}
	if maxBytes <= 0 {
		maxBytes = 50 << 20
	}
	return &Service{
		repo:     repo,
		blobs:    blobs,
		casedir:  casedir,
		audit:    auditSvc,
		log:      log,
		maxBytes: maxBytes,
		clock:    time.Now,
	}
}

// Intake runs the full pipeline for one upload:
//
//  1. validate the case reference and the declared size
//  2. stream the bytes into the blob store under a generated key,
//     enforcing the size limit as a hard cutoff
//  3. fingerprint the persisted bytes (read-back, so the digest matches
//     exactly what is stored, not what was sent)
//  4. commit the metadata row, deleting the blob if the commit fails
//  5. best-effort EVIDENCE_UPLOADED audit record
//
// Steps 1-4 surface typed errors and leave no partial state; step 5 never
// affects the caller-visible result.
func (s *Service) Intake(ctx context.Context, actorID, actorRole, ip string, req IntakeRequest) (Evidence, error) {
	if strings.TrimSpace(req.CaseID) == "" {
		return Evidence{}, fmt.Errorf("%w: case_id is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(req.Filename) == "" {
		return Evidence{}, fmt.Errorf("%w: filename is required", ErrInvalidArgument)
	}
	if req.Content == nil {
		return Evidence{}, fmt.Errorf("%w: no file content", ErrInvalidArgument)
	}
	if req.DeclaredSize > s.maxBytes {
		return Evidence{}, fmt.Errorf("%w: declared size %d exceeds %d", ErrTooLarge, req.DeclaredSize, s.maxBytes)
	}

	ok, err := s.casedir.Exists(ctx, req.CaseID)
	if err != nil {
		return Evidence{}, fmt.Errorf("%w: resolving case: %v", ErrStorage, err)
	}
	if !ok {
		return Evidence{}, fmt.Errorf("%w: %s", ErrCaseNotFound, req.CaseID)
	}

	// The key is storage-generated; the untrusted filename never reaches a
	// path component.
	key := uuid.NewString()

	// Read one byte past the limit so an at-limit upload and an over-limit
	// upload are distinguishable.
	written, err := s.blobs.Save(ctx, key, io.LimitReader(req.Content, s.maxBytes+1))
	if err != nil {
		s.discardBlob(ctx, key)
		return Evidence{}, err
	}
	if written > s.maxBytes {
		s.discardBlob(ctx, key)
		return Evidence{}, fmt.Errorf("%w: stream exceeded %d bytes", ErrTooLarge, s.maxBytes)
	}
	if req.DeclaredSize > 0 && written != req.DeclaredSize {
		s.discardBlob(ctx, key)
		return Evidence{}, fmt.Errorf("%w: got %d bytes, declared %d", ErrStorage, written, req.DeclaredSize)
	}

	fp, err := s.fingerprintStored(ctx, key, req.Filename)
	if err != nil {
		s.discardBlob(ctx, key)
		return Evidence{}, err
	}

	ev := Evidence{
		ID:          uuid.NewString(),
		CaseID:      req.CaseID,
		Filename:    req.Filename,
		StorageKey:  key,
		DigestHex:   fp.DigestHex,
		Size:        fp.Size,
		ContentType: fp.DetectedType,
		UploadedBy:  actorID,
		CreatedAt:   s.clock().UTC(),
	}

	if err := s.repo.Insert(ctx, ev); err != nil {
		// Compensating action: the blob must not outlive a failed commit.
		s.discardBlob(ctx, key)
		return Evidence{}, fmt.Errorf("%w: metadata commit: %v", ErrStorage, err)
	}

	s.audit.Log(ctx, audit.Event{
		ActorID:      actorID,
		ActorRole:    actorRole,
		Action:       audit.ActionEvidenceUploaded,
		ResourceType: "evidence",
		ResourceID:   ev.ID,
		Detail:       ev.Filename,
		IPAddress:    ip,
	})
	return ev, nil
}

func (s *Service) fingerprintStored(ctx context.Context, key, filename string) (Fingerprint, error) {
	rc, err := s.blobs.Open(ctx, key)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("%w: read-back: %v", ErrStorage, err)
	}
	defer rc.Close()
	return ComputeFingerprint(rc, filename)
}

func (s *Service) discardBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		// Cleanup failure leaves an orphan; log loudly, the primary error
		// still goes to the caller.
		s.log.Error("orphaned blob cleanup failed", "key", key, "err", err)
	}
}

func (s *Service) ListByCase(ctx context.Context, caseID string) ([]Evidence, error) {
	if caseID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListByCase(ctx, caseID)
}

// Download resolves one evidence item and opens its stored bytes.
// The caller owns the returned reader. A DOWNLOADED audit record is written
// best-effort.
func (s *Service) Download(ctx context.Context, actorID, actorRole, ip, id string) (Evidence, io.ReadCloser, error) {
	if id == "" {
		return Evidence{}, nil, ErrInvalidArgument
	}
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Evidence{}, nil, err
	}
	rc, err := s.blobs.Open(ctx, ev.StorageKey)
	if err != nil {
		return Evidence{}, nil, err
	}

	s.audit.Log(ctx, audit.Event{
		ActorID:      actorID,
		ActorRole:    actorRole,
		Action:       audit.ActionEvidenceDownloaded,
		ResourceType: "evidence",
		ResourceID:   ev.ID,
		Detail:       ev.Filename,
		IPAddress:    ip,
	})
	return ev, rc, nil
}
