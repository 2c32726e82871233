package database

import (
	"testing"

	"github.com/raftkv/raftkv/internal/raft"
)

func TestStoreSetGetDelete(t *testing.T) {
	s := New()
	if _, ok := s.Get("k"); ok {
		t.Fatalf("expected missing key")
	}
	s.Set("k", "v1")
	if v, ok := s.Get("k"); !ok || v != "v1" {
		t.Fatalf("Get(k) = %q, %v, want v1, true", v, ok)
	}
	s.Set("k", "v2")
	if v, _ := s.Get("k"); v != "v2" {
		t.Fatalf("expected last-writer-wins, got %q", v)
	}
	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Fatalf("expected key deleted")
	}
}

func TestStoreApplyCommands(t *testing.T) {
	s := New()

	if _, err := s.Apply(&raft.LogRecord{Action: raft.LogRecord_SET, Key: "a", Value: "1"}); err != nil {
		t.Fatalf("Apply SET: %v", err)
	}
	if v, ok := s.Get("a"); !ok || v != "1" {
		t.Fatalf("expected a=1 after apply, got %q, %v", v, ok)
	}

	out, err := s.Apply(&raft.LogRecord{Action: raft.LogRecord_GET, Key: "a"})
	if err != nil || string(out) != "1" {
		t.Fatalf("Apply GET = %q, %v, want 1, nil", out, err)
	}

	if _, err := s.Apply(&raft.LogRecord{Action: raft.LogRecord_GET, Key: "missing"}); err != ErrKeyNotFound {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if _, err := s.Apply(&raft.LogRecord{Action: raft.LogRecord_DEL, Key: "a"}); err != nil {
		t.Fatalf("Apply DEL: %v", err)
	}
	if _, ok := s.Get("a"); ok {
		t.Fatalf("expected a removed after DEL")
	}
}
