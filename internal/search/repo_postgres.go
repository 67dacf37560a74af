package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PostgresRepo searches evidence and submissions with a single UNION query so
// mixed result sets share one global recency ordering.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Search(ctx context.Context, f Filter) ([]Row, error) {
	pattern := "%" + f.Term + "%"
	args := []any{pattern}

	evidenceSel := `
SELECT 'evidence' AS kind, e.id::text, e.filename AS title, e.sha256 AS detail,
       c.case_number, e.created_at
FROM evidence e
JOIN cases c ON c.id = e.case_id
WHERE (e.filename ILIKE $1 OR e.sha256 ILIKE $1)`

	submissionSel := `
SELECT 'submission' AS kind, s.id::text, s.name AS title, COALESCE(s.comments, '') AS detail,
       COALESCE(c.case_number, '') AS case_number, s.created_at
FROM submissions s
LEFT JOIN cases c ON c.id = s.case_id
WHERE (s.name ILIKE $1 OR s.email ILIKE $1 OR s.comments ILIKE $1)`

	if f.CaseID != "" {
		args = append(args, f.CaseID)
		n := len(args)
		evidenceSel += fmt.Sprintf(" AND e.case_id = $%d", n)
		submissionSel += fmt.Sprintf(" AND s.case_id = $%d::uuid", n)
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		n := len(args)
		evidenceSel += fmt.Sprintf(" AND e.created_at >= $%d", n)
		submissionSel += fmt.Sprintf(" AND s.created_at >= $%d", n)
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		n := len(args)
		evidenceSel += fmt.Sprintf(" AND e.created_at <= $%d", n)
		submissionSel += fmt.Sprintf(" AND s.created_at <= $%d", n)
	}

	var b strings.Builder
	switch f.Kind {
	case KindEvidence:
		b.WriteString(evidenceSel)
	case KindSubmission:
		b.WriteString(submissionSel)
	default:
		b.WriteString(evidenceSel)
		b.WriteString("\nUNION ALL")
		b.WriteString(submissionSel)
	}

	args = append(args, f.Limit, f.Offset)
	fmt.Fprintf(&b, "\nORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Kind, &row.ID, &row.Title, &row.Detail, &row.CaseNumber, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return out, nil
}
