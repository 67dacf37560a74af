package submission

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory repository useful for tests.

type MemoryRepo struct {
	mu   sync.Mutex
	rows []Submission
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Insert(ctx context.Context, s Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, s)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, f ListFilter) ([]Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Submission, 0, len(r.rows))
	for _, s := range r.rows {
		if f.CaseID != "" && s.CaseID != f.CaseID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []Submission{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
