package raft

import "testing"

func TestTermStoreSetClearsVoteOnNewTerm(t *testing.T) {
	ts := NewTermStore("")
	if ts.CurrentTerm() != 0 {
		t.Fatalf("expected initial term 0, got %d", ts.CurrentTerm())
	}

	candidate := &Node{Id: "node-a"}
	if err := ts.Set(1, candidate); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ts.CurrentTerm() != 1 {
		t.Fatalf("expected term 1, got %d", ts.CurrentTerm())
	}
	if ts.VotedFor().GetId() != "node-a" {
		t.Fatalf("expected voted_for node-a, got %v", ts.VotedFor())
	}

	// A new term clears the vote (spec.md I4): callers pass nil explicitly.
	if err := ts.Set(2, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ts.VotedFor() != nil {
		t.Fatalf("expected voted_for to be cleared, got %v", ts.VotedFor())
	}
}
