package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecord_RequiresActionAndResourceType(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)

	if _, err := svc.Record(context.Background(), Event{ResourceType: "evidence"}); err == nil {
		t.Fatalf("expected error for missing action")
	}
	if _, err := svc.Record(context.Background(), Event{Action: ActionCaseCreated}); err == nil {
		t.Fatalf("expected error for missing resource type")
	}
}

func TestRecord_FillsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	id, err := svc.Record(context.Background(), Event{
		ActorID:      "u1",
		ActorRole:    "investigator",
		Action:       ActionEvidenceUploaded,
		ResourceType: "evidence",
		ResourceID:   "e1",
		IPAddress:    "1.2.3.4",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if evs[0].CreatedAt.IsZero() {
		t.Fatalf("expected timestamp assigned")
	}
	if evs[0].IPAddress != "1.2.3.4" {
		t.Fatalf("expected ip captured")
	}
}

// flakyRepo fails the first Append and succeeds on retry.
type flakyRepo struct {
	inner    *MemoryRepo
	failures int
	calls    int
}

func (r *flakyRepo) Append(ctx context.Context, e Event) error {
	r.calls++
	if r.calls <= r.failures {
		return errors.New("insert failed")
	}
	return r.inner.Append(ctx, e)
}

func (r *flakyRepo) Query(ctx context.Context, f Filter) ([]Event, error) {
	return r.inner.Query(ctx, f)
}

func TestRecord_RetriesOnceThenSucceeds(t *testing.T) {
	repo := &flakyRepo{inner: NewMemoryRepo(), failures: 1}
	svc := NewService(repo, nil)

	if _, err := svc.Record(context.Background(), Event{
		Action:       ActionLoginSuccess,
		ResourceType: "users",
	}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected 2 append calls, got %d", repo.calls)
	}
}

func TestLog_SwallowsPersistentFailure(t *testing.T) {
	repo := &flakyRepo{inner: NewMemoryRepo(), failures: 10}
	svc := NewService(repo, nil)

	// Must not panic or propagate anything.
	svc.Log(context.Background(), Event{Action: ActionLoginFailed, ResourceType: "users"})
	if len(repo.inner.Events()) != 0 {
		t.Fatalf("expected no events persisted")
	}
}

func TestQuery_TotalOrderUnderConcurrentAppends(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	// Freeze the clock so every event shares one coarse timestamp and only
	// the sequence number can order them.
	now := time.Unix(1700000000, 0).UTC()
	svc.clock = func() time.Time { return now }

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Log(context.Background(), Event{Action: ActionCaseUpdated, ResourceType: "cases"})
		}()
	}
	wg.Wait()

	out, err := svc.Query(context.Background(), Filter{Limit: 100})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 50 {
		t.Fatalf("expected 50 events, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].CreatedAt.Before(out[i-1].CreatedAt) {
			t.Fatalf("timestamps out of order at %d", i)
		}
		if out[i].Seq <= out[i-1].Seq {
			t.Fatalf("seq not strictly increasing at %d: %d then %d", i, out[i-1].Seq, out[i].Seq)
		}
	}
}

func TestQuery_Filters(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	svc.Log(context.Background(), Event{ActorID: "a", Action: ActionCaseCreated, ResourceType: "cases"})
	svc.Log(context.Background(), Event{ActorID: "b", Action: ActionEvidenceUploaded, ResourceType: "evidence"})
	svc.Log(context.Background(), Event{ActorID: "a", Action: ActionEvidenceDownloaded, ResourceType: "evidence"})

	out, err := svc.Query(context.Background(), Filter{ActorID: "a"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 events for actor a, got %d", len(out))
	}

	out, err = svc.Query(context.Background(), Filter{ResourceType: "evidence"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 evidence events, got %d", len(out))
	}
}
