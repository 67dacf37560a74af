package search

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("search: not found")
	ErrInvalidArgument = errors.New("search: invalid argument")
)

// Row is one hit in a cross-entity search. Kind distinguishes the source
// table so mixed result sets stay self-describing.
type Row struct {
	Kind       string    `json:"kind"`
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail,omitempty"`
	CaseNumber string    `json:"case_number,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	KindEvidence   = "evidence"
	KindSubmission = "submission"
)

type Filter struct {
	Term   string
	Kind   string // empty, "evidence" or "submission"
	CaseID string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}
