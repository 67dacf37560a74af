package submission

import (
	"context"
	"regexp"
	"strings"
	"time"

	"evidence-platform/internal/audit"

	"github.com/google/uuid"
)

// Repository is the persistence contract for submissions.
type Repository interface {
	Insert(ctx context.Context, s Submission) error
	List(ctx context.Context, f ListFilter) ([]Submission, error)
}

type Service struct {
	repo  Repository
	audit *audit.Service
	clock func() time.Time
}

func NewService(repo Repository, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, audit: auditSvc, clock: time.Now}
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Create accepts a public report. There is no authenticated actor: the audit
// record carries only the origin address.
func (s *Service) Create(ctx context.Context, ip string, req CreateRequest) (Submission, error) {
	fields := map[string]string{}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields["name"] = "Please enter your name"
	}
	email := strings.TrimSpace(req.Email)
	if !emailRe.MatchString(email) {
		fields["email"] = "Please enter a valid email"
	}
	if req.Age == nil {
		fields["age"] = "Please enter your age"
	} else if *req.Age < 0 || *req.Age > 120 {
		fields["age"] = "Enter a valid age"
	}
	if req.Role == "" {
		fields["role"] = "Please select a role"
	}
	if req.Recommend == "" {
		fields["recommend"] = "Please choose an option"
	}
	if len(fields) > 0 {
		return Submission{}, &ValidationError{Fields: fields}
	}

	sub := Submission{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Age:       *req.Age,
		Role:      req.Role,
		Recommend: req.Recommend,
		Comments:  req.Comments,
		Languages: req.Languages,
		CaseID:    strings.TrimSpace(req.CaseID),
		CreatedAt: s.clock().UTC(),
	}

	if err := s.repo.Insert(ctx, sub); err != nil {
		return Submission{}, err
	}

	s.audit.Log(ctx, audit.Event{
		Action:       audit.ActionSubmissionCreated,
		ResourceType: "submissions",
		ResourceID:   sub.ID,
		IPAddress:    ip,
	})
	return sub, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Submission, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}
