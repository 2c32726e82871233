package node

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/raftkv/raftkv/internal/raft"
)

// noopTransport/noopASM stand in where a test drives Node state directly
// and never lets replication or application actually run.
type noopTransport struct{}

func (noopTransport) RequestVote(ctx context.Context, peer string, req *raft.VoteRequest) (*raft.VoteReply, error) {
	return nil, errors.New("noopTransport: unused")
}

func (noopTransport) AppendEntries(ctx context.Context, peer string, req *raft.AppendRequest) (*raft.AppendReply, error) {
	return nil, errors.New("noopTransport: unused")
}

type noopASM struct{}

func (noopASM) Apply(entry *raft.LogRecord) ([]byte, error) { return nil, nil }

// TestAdvanceCommitDoesNotCountPriorTermEntryByMatchAlone reproduces
// spec.md §8 scenario 6: a leader elected in a later term must not commit
// an entry written by an earlier-term leader on match_index count alone,
// even once a majority has replicated it. Only a current-term entry at a
// higher index reaching majority may advance commit_index -- which then
// commits the earlier entry transitively. This is the single correctness
// fix advanceCommitLocked adds over the teacher's commitRecords, which
// advances on majority match_index with no term check.
func TestAdvanceCommitDoesNotCountPriorTermEntryByMatchAlone(t *testing.T) {
	cfg := DefaultConfig("b-node", "b-node", []string{"p1", "p2"})
	terms := raft.NewTermStore("")
	logStore := raft.NewLog("")
	n := New(cfg, terms, logStore, noopTransport{}, noopASM{}, zerolog.Nop())
	defer n.Stop()

	n.mu.Lock()
	defer n.mu.Unlock()

	// B was leader in term 1 with [(1,1),(2,1)], crashed before replicating
	// index 2 to a majority.
	if err := n.terms.Set(1, nil); err != nil {
		t.Fatalf("terms.Set(1): %v", err)
	}
	if err := n.log.Append([]*raft.LogRecord{
		{Index: 1, Term: 1, Kind: raft.LogRecord_NOOP},
		{Index: 2, Term: 1, Kind: raft.LogRecord_COMMAND, Action: raft.LogRecord_SET, Key: "x", Value: "1"},
	}); err != nil {
		t.Fatalf("log.Append: %v", err)
	}

	// B is re-elected leader in term 2 and appends its entry NoOp at index 3.
	n.role = Leader
	if err := n.terms.Set(2, nil); err != nil {
		t.Fatalf("terms.Set(2): %v", err)
	}
	if err := n.log.Append([]*raft.LogRecord{
		{Index: 3, Term: 2, Kind: raft.LogRecord_NOOP},
	}); err != nil {
		t.Fatalf("log.Append(noop): %v", err)
	}

	// One peer has now replicated through index 2 (a majority counting
	// self), but index 2's term (1) does not match current_term (2).
	n.peers["p1"].matchIndex = 2
	n.advanceCommitLocked()
	if n.commitIndex != 0 {
		t.Fatalf("expected commit_index to stay 0 -- a prior-term entry must not "+
			"commit on match count alone, got %d", n.commitIndex)
	}

	// The same peer now also replicates the term-2 NoOp at index 3: a
	// majority now holds a current-term entry, so commit_index may advance,
	// carrying index 2 along with it transitively.
	n.peers["p1"].matchIndex = 3
	n.advanceCommitLocked()
	if n.commitIndex != 3 {
		t.Fatalf("expected commit_index to advance to 3 once a current-term "+
			"entry reaches majority, got %d", n.commitIndex)
	}
}
