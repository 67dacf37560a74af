package evidence

import (
	"errors"
	"io"
	"time"
)

var (
	ErrNotFound        = errors.New("evidence: not found")
	ErrInvalidArgument = errors.New("evidence: invalid argument")
	// ErrCaseNotFound is a validation failure: the upload referenced a case
	// that does not resolve. Reported like bad input, not like a missing resource.
	ErrCaseNotFound = errors.New("evidence: case not found")
	ErrTooLarge     = errors.New("evidence: upload exceeds size limit")
	// ErrStorage covers stream truncation and blob/db I/O failures. Surfaced
	// to callers as a retryable server-side failure after local cleanup.
	ErrStorage = errors.New("evidence: storage failure")
)

// Evidence is one uploaded artifact.
//
// Invariants:
// - Belongs to exactly one case.
// - DigestHex and StorageKey are immutable once persisted; a re-upload is a
//   new record, never an in-place update (no deduplication by digest).
// - Filename is the untrusted client-supplied name, retained for display only.
//   It never appears in any storage path.
type Evidence struct {
	ID          string    `json:"id" db:"id"`
	CaseID      string    `json:"case_id" db:"case_id"`
	Filename    string    `json:"filename" db:"filename"`
	StorageKey  string    `json:"-" db:"storage_key"`
	DigestHex   string    `json:"sha256" db:"sha256"`
	Size        int64     `json:"size" db:"size_bytes"`
	ContentType string    `json:"content_type" db:"content_type"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// IntakeRequest carries one upload through the pipeline.
// DeclaredSize is the client's size hint; <= 0 means unknown, in which case
// the limit is enforced as a hard cutoff while streaming.
type IntakeRequest struct {
	CaseID       string
	Filename     string
	Content      io.Reader
	DeclaredSize int64
}
