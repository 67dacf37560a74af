package cases

import "time"

// Status is the case lifecycle domain. Transitions are deliberately
// unconstrained beyond membership in this set: investigations reopen.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusClosed     Status = "closed"
)

func IsValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	default:
		return false
	}
}

// Case is one investigation record.
//
// Invariants:
// - CaseNumber is the external-facing identifier; unique and immutable after creation.
// - Cases are never hard-deleted; lifecycle is soft via Status only.
type Case struct {
	ID          string    `json:"id" db:"id"`
	CaseNumber  string    `json:"case_number" db:"case_number"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	Status      Status    `json:"status" db:"status"`
	AssignedTo  string    `json:"assigned_to,omitempty" db:"assigned_to"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateRequest struct {
	CaseNumber  string `json:"case_number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	AssignedTo  string `json:"assigned_to,omitempty"`
}

// UpdateRequest is a partial update; nil fields are left untouched.
// CaseNumber is absent on purpose: it cannot change.
type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
}

// ListFilter narrows List. Zero values mean "no constraint".
type ListFilter struct {
	Status     Status
	AssignedTo string
	Limit      int
	Offset     int
}
