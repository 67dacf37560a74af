package evidence

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory metadata repository useful for tests.
// FailInsert forces the next Insert to fail, for exercising the
// compensating-delete path.

type MemoryRepo struct {
	mu         sync.Mutex
	rows       map[string]Evidence
	FailInsert error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Evidence)}
}

func (r *MemoryRepo) Insert(ctx context.Context, e Evidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailInsert != nil {
		return r.FailInsert
	}
	if _, ok := r.rows[e.ID]; ok {
		return errors.New("duplicate id")
	}
	r.rows[e.ID] = e
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Evidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok {
		return Evidence{}, ErrNotFound
	}
	return e, nil
}

func (r *MemoryRepo) ListByCase(ctx context.Context, caseID string) ([]Evidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Evidence
	for _, e := range r.rows {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// All returns every stored row, for assertions.
func (r *MemoryRepo) All() []Evidence {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Evidence, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, e)
	}
	return out
}
