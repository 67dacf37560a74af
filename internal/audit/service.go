package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only. No Update/Delete methods are provided by design.
// Append must be safe under concurrent callers; the store's atomic insert
// (not an in-process lock) provides the sequence ordering.

type Repository interface {
	Append(ctx context.Context, e Event) error
	Query(ctx context.Context, f Filter) ([]Event, error)
}

// Service is the audit ledger.
//
// IMPORTANT:
// - Callers treat Log as fire-and-forget: a lost audit row must never abort
//   the action it accompanies. Record retries once, then the failure is
//   logged and swallowed.
// - Query results are totally ordered by (created_at, seq) ascending.

type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

// Record appends one event, retrying once on failure.
// Returns the stored event id; most callers should use Log instead.
func (s *Service) Record(ctx context.Context, e Event) (string, error) {
	if s.repo == nil {
		return "", errors.New("audit: repository not configured")
	}
	if e.Action == "" || e.ResourceType == "" {
		return "", ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}

	err := s.repo.Append(ctx, e)
	if err != nil {
		// One retry before giving up; transient insert failures are common
		// under connection churn.
		err = s.repo.Append(ctx, e)
	}
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

// Log is the best-effort side channel used inline by business logic.
// Failures are logged internally and never surfaced to the caller.
func (s *Service) Log(ctx context.Context, e Event) {
	if _, err := s.Record(ctx, e); err != nil {
		s.log.Error("audit write failed",
			"action", string(e.Action),
			"resource_type", e.ResourceType,
			"resource_id", e.ResourceID,
			"err", err,
		)
	}
}

// Query returns events ordered by created_at ascending with seq as tie-break,
// guaranteeing a total order even under coarse timestamp resolution.
func (s *Service) Query(ctx context.Context, f Filter) ([]Event, error) {
	if s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.Query(ctx, f)
}
