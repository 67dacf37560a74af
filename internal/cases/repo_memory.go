package cases

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory repository useful for tests.
// It is not intended for production use.

type MemoryRepo struct {
	mu    sync.Mutex
	cases map[string]Case
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{cases: make(map[string]Case)}
}

func (r *MemoryRepo) Insert(ctx context.Context, c Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.cases {
		if existing.CaseNumber == c.CaseNumber {
			return ErrDuplicateNumber
		}
	}
	r.cases[c.ID] = c
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok {
		return Case{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cases[id]
	return ok, nil
}

func (r *MemoryRepo) List(ctx context.Context, f ListFilter) ([]Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Case, 0, len(r.cases))
	for _, c := range r.cases {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.AssignedTo != "" && c.AssignedTo != f.AssignedTo {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []Case{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok {
		return Case{}, ErrNotFound
	}
	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	if req.AssignedTo != nil {
		c.AssignedTo = *req.AssignedTo
	}
	c.UpdatedAt = now
	r.cases[id] = c
	return c, nil
}
