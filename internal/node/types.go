package node

import (
	"context"
	"fmt"
	"time"

	"github.com/raftkv/raftkv/internal/raft"
)

// Role is exactly one of Follower, Candidate, or Leader (spec.md §3).
type Role int

const (
	Follower Role = iota
	Candidate
	Leader
)

func (r Role) String() string {
	switch r {
	case Follower:
		return "Follower"
	case Candidate:
		return "Candidate"
	case Leader:
		return "Leader"
	default:
		return "Unknown"
	}
}

// Config carries the tunables of spec.md §6.3.
type Config struct {
	ID                 string
	ClientAddr         string
	Peers              []string
	ElectionTimeoutMin time.Duration
	ElectionTimeoutMax time.Duration
	HeartbeatInterval  time.Duration
	MaxAppendEntries   int
	SubmitTimeout      time.Duration
}

// DefaultConfig fills in spec.md §6.3's defaults.
func DefaultConfig(id, clientAddr string, peers []string) Config {
	return Config{
		ID:                 id,
		ClientAddr:         clientAddr,
		Peers:              peers,
		ElectionTimeoutMin: 150 * time.Millisecond,
		ElectionTimeoutMax: 300 * time.Millisecond,
		HeartbeatInterval:  50 * time.Millisecond,
		MaxAppendEntries:   raft.MaxAppendEntries,
		SubmitTimeout:      2 * time.Second,
	}
}

// Transport is the collaborator interface the Node Core uses to reach
// peers (spec.md §6.1). Production wiring is internal/raftclient's gRPC
// implementation; tests substitute an in-process fake.
type Transport interface {
	RequestVote(ctx context.Context, peer string, req *raft.VoteRequest) (*raft.VoteReply, error)
	AppendEntries(ctx context.Context, peer string, req *raft.AppendRequest) (*raft.AppendReply, error)
}

// ApplicationStateMachine is the black box of spec.md §4.4: it receives
// committed commands in index order, exactly once each.
type ApplicationStateMachine interface {
	Apply(entry *raft.LogRecord) ([]byte, error)
}

// SubmitRequest is a client command submission (spec.md §6.2).
type SubmitRequest struct {
	Action         raft.LogRecord_Action
	Key            string
	Value          string
	ClientID       string
	SequenceNumber uint64
}

// SubmitResult is what a leader returns once an entry has applied locally.
type SubmitResult struct {
	Index  uint64
	Result []byte
	Err    error
}

// NotLeaderError is returned by Submit when this node is not the leader
// (spec.md §6.2 / §7 "Not leader").
type NotLeaderError struct {
	LeaderHint string
}

func (e *NotLeaderError) Error() string {
	if e.LeaderHint == "" {
		return "raft: not leader, no known leader hint"
	}
	return fmt.Sprintf("raft: not leader, leader_hint=%s", e.LeaderHint)
}

type peerState struct {
	nextIndex      uint64
	matchIndex     uint64
	available      bool
	backoffAttempt int
	trigger        chan struct{}
}

func newPeerState() *peerState {
	return &peerState{available: true, trigger: make(chan struct{}, 1)}
}

type dedupEntry struct {
	sequenceNumber uint64
	result         *SubmitResult
}
