package cases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"evidence-platform/pkg/utils"
)

// PostgresRepo persists cases.
//
// Assumed schema: cases(id UUID PK, case_number TEXT UNIQUE NOT NULL,
// title TEXT NOT NULL, description TEXT, status TEXT NOT NULL,
// assigned_to UUID NULL, created_by UUID NOT NULL,
// created_at TIMESTAMPTZ, updated_at TIMESTAMPTZ).
// case_number immutability is enforced here: no UPDATE ever touches it.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const caseColumns = `id, case_number, title, COALESCE(description, ''), status, COALESCE(assigned_to::text, ''), created_by, created_at, updated_at`

func (r *PostgresRepo) Insert(ctx context.Context, c Case) error {
	const q = `
INSERT INTO cases (id, case_number, title, description, status, assigned_to, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
`
	_, err := r.db.ExecContext(ctx, q,
		c.ID,
		c.CaseNumber,
		c.Title,
		c.Description,
		string(c.Status),
		c.AssignedTo,
		c.CreatedBy,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrDuplicateNumber
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Case, error) {
	q := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) Exists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT 1 FROM cases WHERE id = $1`
	var one int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostgresRepo) List(ctx context.Context, f ListFilter) ([]Case, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + caseColumns + ` FROM cases WHERE 1=1`)
	var args []any

	if f.Status != "" {
		args = append(args, string(f.Status))
		fmt.Fprintf(&b, " AND status = $%d", len(args))
	}
	if f.AssignedTo != "" {
		args = append(args, f.AssignedTo)
		fmt.Fprintf(&b, " AND assigned_to = $%d", len(args))
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

	var out []Case
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update applies a partial update as read-patch-write inside one
// transaction. The row lock keeps concurrent patches from interleaving, and
// an explicit empty-string assignee clears the assignment (NULL in storage).
func (r *PostgresRepo) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Case, error) {
	var out Case
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		cur, err := r.scanOne(tx.QueryRowContext(ctx,
			`SELECT `+caseColumns+` FROM cases WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		if req.Title != nil {
			cur.Title = *req.Title
		}
		if req.Description != nil {
			cur.Description = *req.Description
		}
		if req.Status != nil {
			cur.Status = *req.Status
		}
		if req.AssignedTo != nil {
			cur.AssignedTo = *req.AssignedTo
		}
		cur.UpdatedAt = now

		const q = `
UPDATE cases
SET title       = $1,
    description = NULLIF($2, ''),
    status      = $3,
    assigned_to = NULLIF($4, '')::uuid,
    updated_at  = $5
WHERE id = $6`
		if _, err := tx.ExecContext(ctx, q,
			cur.Title,
			cur.Description,
			string(cur.Status),
			cur.AssignedTo,
			now,
			id,
		); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return Case{}, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepo) scanOne(row *sql.Row) (Case, error) {
	c, err := r.scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Case{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepo) scanRow(row rowScanner) (Case, error) {
	var c Case
	var status string
	err := row.Scan(
		&c.ID,
		&c.CaseNumber,
		&c.Title,
		&c.Description,
		&status,
		&c.AssignedTo,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return Case{}, err
	}
	c.Status = Status(status)
	return c, nil
}
