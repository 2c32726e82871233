package raft

import (
	"fmt"
	"os"

	"github.com/golang/protobuf/proto"
)

// TermStore is the durable term/vote cell described by spec.md §4.2
// PersistentState (current_term, voted_for). It wraps a *TermRecord
// protobuf message and persists it as a whole on every change, mirroring
// WriteTerm/ReadTerm in the teacher.
type TermStore struct {
	filename string
	record   *TermRecord
}

// NewTermStore opens (or initializes) a TermStore backed by filename.
func NewTermStore(filename string) *TermStore {
	record := &TermRecord{Term: 0, VotedFor: nil}
	if filename != "" {
		if data, err := os.ReadFile(filename); err == nil {
			_ = proto.Unmarshal(data, record)
		}
	}
	return &TermStore{filename: filename, record: record}
}

// CurrentTerm returns the last durably-recorded term.
func (t *TermStore) CurrentTerm() uint64 { return t.record.Term }

// VotedFor returns the candidate voted for in CurrentTerm(), or nil.
func (t *TermStore) VotedFor() *Node { return t.record.VotedFor }

// Set durably records (term, votedFor) together, per spec.md I4: voted_for
// is set iff current_term equals the term in which the vote was granted.
func (t *TermStore) Set(term uint64, votedFor *Node) error {
	record := &TermRecord{Term: term, VotedFor: votedFor}
	if t.filename != "" {
		out, err := proto.Marshal(record)
		if err != nil {
			return fmt.Errorf("%w: marshal term: %v", ErrDurability, err)
		}
		if err := os.WriteFile(t.filename, out, 0644); err != nil {
			return fmt.Errorf("%w: write term: %v", ErrDurability, err)
		}
	}
	t.record = record
	return nil
}
