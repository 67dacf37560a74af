package search

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryEntry pairs a result row with the case it belongs to, since Row
// itself only carries the display fields.
type MemoryEntry struct {
	Row    Row
	CaseID string
}

// MemoryRepo is an in-memory Repository used in tests.
type MemoryRepo struct {
	mu      sync.Mutex
	entries []MemoryEntry
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Add(e MemoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *MemoryRepo) Search(_ context.Context, f Filter) ([]Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	term := strings.ToLower(f.Term)
	var out []Row
	for _, e := range r.entries {
		if f.Kind != "" && e.Row.Kind != f.Kind {
			continue
		}
		if f.CaseID != "" && e.CaseID != f.CaseID {
			continue
		}
		if !f.From.IsZero() && e.Row.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Row.CreatedAt.After(f.To) {
			continue
		}
		if !strings.Contains(strings.ToLower(e.Row.Title), term) &&
			!strings.Contains(strings.ToLower(e.Row.Detail), term) {
			continue
		}
		out = append(out, e.Row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
