package audit

import "time"

// Event is an immutable, append-only audit log record: the chain of custody
// for everything security-relevant that happens in the system.
//
// Invariants:
// - Events are never updated or deleted; no such method exists on any repository.
// - Ordering is (created_at, seq): seq is assigned atomically at insert time
//   and breaks ties under coarse timestamp resolution.
// - Actor and ip capture are best-effort; do not block critical flows on audit failures.
//
// Storage (Postgres):
// - Table audit_events with an INSERT-only policy and seq BIGSERIAL.
// - Optional: trigger to prevent UPDATE/DELETE.
// - Retention/rotation is an operational concern outside this service.

type Event struct {
	ID string `json:"id" db:"id"`

	// Seq is assigned by the store, not the caller.
	Seq int64 `json:"seq" db:"seq"`

	// ActorID is empty for unauthenticated actions (failed logins, public submissions).
	ActorID   string `json:"actor_id,omitempty" db:"actor_id"`
	ActorRole string `json:"actor_role,omitempty" db:"actor_role"`

	// Action is the business category of the record.
	Action Action `json:"action" db:"action"`

	// Affected resource.
	ResourceType string `json:"resource_type" db:"resource_type"`
	ResourceID   string `json:"resource_id,omitempty" db:"resource_id"`

	// Detail is a short human-readable description for internal ops.
	Detail string `json:"detail,omitempty" db:"detail"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Action string

const (
	ActionLoginSuccess       Action = "LOGIN_SUCCESS"
	ActionLoginFailed        Action = "LOGIN_FAILED"
	ActionUserRegistered     Action = "USER_REGISTERED"
	ActionCaseCreated        Action = "CASE_CREATED"
	ActionCaseUpdated        Action = "CASE_UPDATED"
	ActionEvidenceUploaded   Action = "EVIDENCE_UPLOADED"
	ActionEvidenceDownloaded Action = "EVIDENCE_DOWNLOADED"
	ActionSubmissionCreated  Action = "SUBMISSION_CREATED"
	ActionDataExported       Action = "DATA_EXPORTED"
)

// Filter narrows a ledger query. Zero values mean "no constraint".
type Filter struct {
	ActorID      string
	Action       Action
	ResourceType string
	From         time.Time
	To           time.Time
	Limit        int
	Offset       int
}
