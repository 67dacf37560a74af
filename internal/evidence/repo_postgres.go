package evidence

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo persists evidence metadata.
//
// Assumed schema: evidence(id UUID PK, case_id UUID NOT NULL REFERENCES cases,
// filename TEXT NOT NULL, storage_key TEXT UNIQUE NOT NULL, sha256 CHAR(64),
// size_bytes BIGINT, content_type TEXT, uploaded_by UUID, created_at TIMESTAMPTZ).
// Insert-only: digest and storage key are immutable, so no UPDATE exists.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const evidenceColumns = `id, case_id, filename, storage_key, sha256, size_bytes, content_type, uploaded_by, created_at`

func (r *PostgresRepo) Insert(ctx context.Context, e Evidence) error {
	const q = `
INSERT INTO evidence (` + evidenceColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.CaseID,
		e.Filename,
		e.StorageKey,
		e.DigestHex,
		e.Size,
		e.ContentType,
		e.UploadedBy,
		e.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Evidence, error) {
	const q = `SELECT ` + evidenceColumns + ` FROM evidence WHERE id = $1`
	var e Evidence
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&e.ID,
		&e.CaseID,
		&e.Filename,
		&e.StorageKey,
		&e.DigestHex,
		&e.Size,
		&e.ContentType,
		&e.UploadedBy,
		&e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Evidence{}, ErrNotFound
	}
	if err != nil {
		return Evidence{}, err
	}
	return e, nil
}

func (r *PostgresRepo) ListByCase(ctx context.Context, caseID string) ([]Evidence, error) {
	const q = `SELECT ` + evidenceColumns + ` FROM evidence WHERE case_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Evidence
	for rows.Next() {
		var e Evidence
		if err := rows.Scan(
			&e.ID,
			&e.CaseID,
			&e.Filename,
			&e.StorageKey,
			&e.DigestHex,
			&e.Size,
			&e.ContentType,
			&e.UploadedBy,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
