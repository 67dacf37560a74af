package evidence

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	n, err := s.Save(ctx, "key-1", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes written, got %d", n)
	}

	rc, err := s.Open(ctx, "key-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello" {
		t.Fatalf("round trip mismatch: %q", data)
	}

	if err := s.Delete(ctx, "key-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Open(ctx, "key-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent key is not an error; the compensating path may run
	// after a partial write already cleaned up.
	if err := s.Delete(ctx, "key-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestLocalStore_RejectsPathKeys(t *testing.T) {
	s, _ := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "..", "a/b", `a\b`, "../escape"} {
		if _, err := s.Save(ctx, key, strings.NewReader("x")); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Save(%q): expected ErrInvalidArgument, got %v", key, err)
		}
		if _, err := s.Open(ctx, key); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Open(%q): expected ErrInvalidArgument, got %v", key, err)
		}
	}
}

func TestLocalStore_SaveRefusesOverwrite(t *testing.T) {
	s, _ := NewLocalStore(t.TempDir())
	ctx := context.Background()

	if _, err := s.Save(ctx, "k", strings.NewReader("first")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Save(ctx, "k", strings.NewReader("second")); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage on overwrite, got %v", err)
	}

	rc, _ := s.Open(ctx, "k")
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "first" {
		t.Fatalf("stored blob mutated: %q", data)
	}
}
