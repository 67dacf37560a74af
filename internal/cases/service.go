package cases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"evidence-platform/internal/audit"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("cases: not found")
	ErrInvalidArgument = errors.New("cases: invalid argument")
	ErrDuplicateNumber = errors.New("cases: case number already exists")
)

// Repository is the persistence contract for cases.
type Repository interface {
	Insert(ctx context.Context, c Case) error
	GetByID(ctx context.Context, id string) (Case, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f ListFilter) ([]Case, error)
	Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Case, error)
}

type Service struct {
	repo  Repository
	audit *audit.Service
	clock func() time.Time
}

func NewService(repo Repository, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, audit: auditSvc, clock: time.Now}
}

func (s *Service) Create(ctx context.Context, actorID, actorRole, ip string, req CreateRequest) (Case, error) {
	req.CaseNumber = strings.TrimSpace(req.CaseNumber)
	req.Title = strings.TrimSpace(req.Title)

	if req.CaseNumber == "" {
		return Case{}, fmt.Errorf("%w: case_number is required", ErrInvalidArgument)
	}
	if len(req.Title) < 5 {
		return Case{}, fmt.Errorf("%w: title must be at least 5 characters", ErrInvalidArgument)
	}

	now := s.clock().UTC()
	c := Case{
		ID:          uuid.NewString(),
		CaseNumber:  req.CaseNumber,
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusOpen,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, c); err != nil {
		return Case{}, err
	}

	s.audit.Log(ctx, audit.Event{
		ActorID:      actorID,
		ActorRole:    actorRole,
		Action:       audit.ActionCaseCreated,
		ResourceType: "cases",
		ResourceID:   c.ID,
		IPAddress:    ip,
	})
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (Case, error) {
	if id == "" {
		return Case{}, ErrInvalidArgument
	}
	return s.repo.GetByID(ctx, id)
}

// Exists reports whether a case id resolves. Used by the evidence intake
// pipeline to validate case references before touching the blob store.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Case, error) {
	if f.Status != "" && !IsValidStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, f.Status)
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, actorID, actorRole, ip, id string, req UpdateRequest) (Case, error) {
	if id == "" {
		return Case{}, ErrInvalidArgument
	}
	if req.Status != nil && !IsValidStatus(*req.Status) {
		return Case{}, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, *req.Status)
	}
	if req.Title != nil && len(strings.TrimSpace(*req.Title)) < 5 {
		return Case{}, fmt.Errorf("%w: title must be at least 5 characters", ErrInvalidArgument)
	}

	updated, err := s.repo.Update(ctx, id, req, s.clock().UTC())
	if err != nil {
		return Case{}, err
	}

	var changed []string
	if req.Title != nil {
		changed = append(changed, "title")
	}
	if req.Description != nil {
		changed = append(changed, "description")
	}
	if req.Status != nil {
		changed = append(changed, "status="+string(*req.Status))
	}
	if req.AssignedTo != nil {
		changed = append(changed, "assigned_to")
	}

	s.audit.Log(ctx, audit.Event{
		ActorID:      actorID,
		ActorRole:    actorRole,
		Action:       audit.ActionCaseUpdated,
		ResourceType: "cases",
		ResourceID:   id,
		Detail:       strings.Join(changed, ","),
		IPAddress:    ip,
	})
	return updated, nil
}
