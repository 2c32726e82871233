package raft

import "testing"

func TestLogAppendAndGet(t *testing.T) {
	l := NewLog("")
	if idx := l.LastIndex(); idx != 0 {
		t.Fatalf("expected empty log to have LastIndex 0, got %d", idx)
	}

	entries := []*LogRecord{
		{Index: 1, Term: 1, Kind: LogRecord_COMMAND, Action: LogRecord_SET, Key: "a", Value: "1"},
		{Index: 2, Term: 1, Kind: LogRecord_COMMAND, Action: LogRecord_SET, Key: "b", Value: "2"},
	}
	if err := l.Append(entries); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if idx := l.LastIndex(); idx != 2 {
		t.Fatalf("expected LastIndex 2, got %d", idx)
	}
	if term := l.LastTerm(); term != 1 {
		t.Fatalf("expected LastTerm 1, got %d", term)
	}
	if e := l.Get(1); e == nil || e.Key != "a" {
		t.Fatalf("Get(1) = %v, want key a", e)
	}
	if e := l.Get(3); e != nil {
		t.Fatalf("Get(3) = %v, want nil", e)
	}
}

func TestLogAppendOutOfOrder(t *testing.T) {
	l := NewLog("")
	err := l.Append([]*LogRecord{{Index: 2, Term: 1}})
	if err != ErrOutOfOrder {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
}

func TestLogSliceCapsAtMaxAppendEntries(t *testing.T) {
	l := NewLog("")
	entries := make([]*LogRecord, 0, MaxAppendEntries+10)
	for i := 1; i <= MaxAppendEntries+10; i++ {
		entries = append(entries, &LogRecord{Index: uint64(i), Term: 1})
	}
	if err := l.Append(entries); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got := l.Slice(1, uint64(MaxAppendEntries+11))
	if len(got) != MaxAppendEntries {
		t.Fatalf("expected Slice to cap at %d entries, got %d", MaxAppendEntries, len(got))
	}
}

func TestLogSliceNHonorsCustomCap(t *testing.T) {
	l := NewLog("")
	entries := make([]*LogRecord, 0, MaxAppendEntries+10)
	for i := 1; i <= MaxAppendEntries+10; i++ {
		entries = append(entries, &LogRecord{Index: uint64(i), Term: 1})
	}
	if err := l.Append(entries); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if got := l.SliceN(1, uint64(MaxAppendEntries+11), 5); len(got) != 5 {
		t.Fatalf("expected SliceN to cap at 5 entries, got %d", len(got))
	}
	if got := l.SliceN(1, uint64(MaxAppendEntries+11), 0); len(got) != MaxAppendEntries {
		t.Fatalf("expected SliceN(max=0) to fall back to MaxAppendEntries, got %d", len(got))
	}
}

func TestLogTruncateSuffixRefusesCommitted(t *testing.T) {
	l := NewLog("")
	l.Append([]*LogRecord{{Index: 1, Term: 1}, {Index: 2, Term: 1}, {Index: 3, Term: 1}})
	if err := l.TruncateSuffix(2, 2); err != ErrTruncateCommitted {
		t.Fatalf("expected ErrTruncateCommitted, got %v", err)
	}
	if err := l.TruncateSuffix(3, 2); err != nil {
		t.Fatalf("TruncateSuffix(3, 2): %v", err)
	}
	if idx := l.LastIndex(); idx != 2 {
		t.Fatalf("expected LastIndex 2 after truncate, got %d", idx)
	}
}

func TestLogReconcileIdempotentOnMatchingEntries(t *testing.T) {
	l := NewLog("")
	l.Append([]*LogRecord{{Index: 1, Term: 1}, {Index: 2, Term: 1}})

	// Same entries resent: no-op, nothing truncated.
	if err := l.Reconcile(0, []*LogRecord{{Index: 1, Term: 1}, {Index: 2, Term: 1}}, 0); err != nil {
		t.Fatalf("Reconcile (idempotent): %v", err)
	}
	if idx := l.LastIndex(); idx != 2 {
		t.Fatalf("expected LastIndex 2, got %d", idx)
	}

	// Conflicting term at index 2: truncate and replace.
	if err := l.Reconcile(1, []*LogRecord{{Index: 2, Term: 2}, {Index: 3, Term: 2}}, 0); err != nil {
		t.Fatalf("Reconcile (conflict): %v", err)
	}
	if term, _ := l.TermAt(2); term != 2 {
		t.Fatalf("expected entry 2 to have term 2 after reconcile, got %d", term)
	}
	if idx := l.LastIndex(); idx != 3 {
		t.Fatalf("expected LastIndex 3 after reconcile, got %d", idx)
	}
}

func TestLogReconcileRefusesToTruncateCommitted(t *testing.T) {
	l := NewLog("")
	l.Append([]*LogRecord{{Index: 1, Term: 1}, {Index: 2, Term: 1}})
	err := l.Reconcile(0, []*LogRecord{{Index: 1, Term: 2}}, 2)
	if err != ErrTruncateCommitted {
		t.Fatalf("expected ErrTruncateCommitted, got %v", err)
	}
}

func TestLogCompactPrefixNotImplemented(t *testing.T) {
	l := NewLog("")
	if err := l.CompactPrefix(1); err != ErrNotImplemented {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}
