package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PostgresRepo persists audit events in the audit_events table.
//
// Assumed schema:
//   id UUID PRIMARY KEY,
//   seq BIGSERIAL,            -- tie-break, assigned atomically by the store
//   actor_id UUID NULL,
//   actor_role TEXT,
//   action TEXT NOT NULL,
//   resource_type TEXT NOT NULL,
//   resource_id TEXT,
//   detail TEXT,
//   ip_address TEXT,
//   created_at TIMESTAMPTZ NOT NULL
// No UPDATE/DELETE statements exist in this package.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (
  id, actor_id, actor_role, action, resource_type, resource_id, detail, ip_address, created_at
) VALUES (
  $1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.ActorID,
		e.ActorRole,
		string(e.Action),
		e.ResourceType,
		e.ResourceID,
		e.Detail,
		e.IPAddress,
		e.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) Query(ctx context.Context, f Filter) ([]Event, error) {
	var b strings.Builder
	b.WriteString(`
SELECT id, seq, COALESCE(actor_id::text, ''), actor_role, action, resource_type, resource_id, detail, ip_address, created_at
FROM audit_events
WHERE 1=1`)
	var args []any

	if f.ActorID != "" {
		args = append(args, f.ActorID)
		fmt.Fprintf(&b, " AND actor_id = $%d", len(args))
	}
	if f.Action != "" {
		args = append(args, string(f.Action))
		fmt.Fprintf(&b, " AND action = $%d", len(args))
	}
	if f.ResourceType != "" {
		args = append(args, f.ResourceType)
		fmt.Fprintf(&b, " AND resource_type = $%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		fmt.Fprintf(&b, " AND created_at >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		fmt.Fprintf(&b, " AND created_at <= $%d", len(args))
	}

	args = append(args, f.Limit)
	limitIdx := len(args)
	args = append(args, f.Offset)
	offsetIdx := len(args)
	fmt.Fprintf(&b, " ORDER BY created_at ASC, seq ASC LIMIT $%d OFFSET $%d", limitIdx, offsetIdx)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var action string
		if err := rows.Scan(
			&e.ID,
			&e.Seq,
			&e.ActorID,
			&e.ActorRole,
			&action,
			&e.ResourceType,
			&e.ResourceID,
			&e.Detail,
			&e.IPAddress,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.Action = Action(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
