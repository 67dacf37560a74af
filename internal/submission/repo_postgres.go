package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// PostgresRepo persists submissions.
//
// Assumed schema: submissions(id UUID PK, name TEXT, email TEXT, age INT,
// role TEXT, recommend TEXT, comments TEXT, languages TEXT,
// case_id UUID NULL REFERENCES cases, created_at TIMESTAMPTZ).
// languages holds a JSON array for parity with the public form payload.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Insert(ctx context.Context, s Submission) error {
	langs, err := json.Marshal(s.Languages)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO submissions (id, name, email, age, role, recommend, comments, languages, case_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, $10)
`
	_, err = r.db.ExecContext(ctx, q,
		s.ID,
		s.Name,
		s.Email,
		s.Age,
		s.Role,
		s.Recommend,
		s.Comments,
		string(langs),
		s.CaseID,
		s.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) List(ctx context.Context, f ListFilter) ([]Submission, error) {
	var b strings.Builder
	b.WriteString(`
SELECT id, name, email, age, role, recommend, comments, languages, COALESCE(case_id::text, ''), created_at
FROM submissions
WHERE 1=1`)
	var args []any

	if f.CaseID != "" {
		args = append(args, f.CaseID)
		fmt.Fprintf(&b, " AND case_id = $%d", len(args))
	}

	args = append(args, f.Limit)
	limitIdx := len(args)
	args = append(args, f.Offset)
	offsetIdx := len(args)
	fmt.Fprintf(&b, " ORDER BY created_at DESC LIMIT $%d OFFSET $%d", limitIdx, offsetIdx)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var s Submission
		var langs string
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Email,
			&s.Age,
			&s.Role,
			&s.Recommend,
			&s.Comments,
			&langs,
			&s.CaseID,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		if langs != "" {
			if err := json.Unmarshal([]byte(langs), &s.Languages); err != nil {
				s.Languages = nil
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
