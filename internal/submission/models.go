package submission

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var ErrInvalidArgument = errors.New("submission: invalid argument")

// Submission is one public-intake report. It may come from an anonymous
// sender and is only loosely linked to a case. Unlike evidence it carries no
// content digest, but it flows through the same storage and export paths.
type Submission struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Age       int       `json:"age" db:"age"`
	Role      string    `json:"role" db:"role"`
	Recommend string    `json:"recommend" db:"recommend"`
	Comments  string    `json:"comments,omitempty" db:"comments"`
	Languages []string  `json:"languages,omitempty" db:"languages"`
	CaseID    string    `json:"case_id,omitempty" db:"case_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Age       *int     `json:"age"`
	Role      string   `json:"role"`
	Recommend string   `json:"recommend"`
	Comments  string   `json:"comments,omitempty"`
	Languages []string `json:"languages,omitempty"`
	CaseID    string   `json:"case_id,omitempty"`
}

// ListFilter narrows List. Zero values mean "no constraint".
type ListFilter struct {
	CaseID string
	Limit  int
	Offset int
}

// ValidationError reports every failing field at once, keyed the way the
// public form expects them back.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "submission: invalid fields: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidArgument }
