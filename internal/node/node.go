// Package node implements the Raft role state machine: leader election,
// log replication, and the commit rule (spec.md §4.2-§4.3). It owns the
// two persistent collaborators (internal/raft.Log, internal/raft.TermStore)
// and drives a pluggable ApplicationStateMachine once entries commit.
package node

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"github.com/raftkv/raftkv/internal/raft"
)

const (
	voteRPCTimeout   = 100 * time.Millisecond
	appendRPCTimeout = 100 * time.Millisecond
	dedupCacheSize   = 4096
)

// Node is the single-owner state machine described by spec.md §4.2/§4.3.
// Every field below mu is read or written only while holding mu; RPC calls
// to peers are always made outside the lock so a slow or dead peer never
// stalls the others.
type Node struct {
	mu sync.Mutex

	id         string
	clientAddr string
	peerIDs    []string

	role     Role
	leaderID string

	terms *raft.TermStore
	log   *raft.Log

	commitIndex uint64
	lastApplied uint64

	peers map[string]*peerState

	votesGranted map[string]bool

	pending map[uint64]chan *SubmitResult

	dedup *lru.Cache

	transport Transport
	asm       ApplicationStateMachine

	cfg Config

	electionReset chan struct{}
	stopCh        chan struct{}

	logger zerolog.Logger
}

// New constructs a Node and starts its background peer-replication
// goroutines. Callers must still drive OnElectionTimeout/OnHeartbeatTick
// from a statemgr.Manager (or equivalent) for it to do anything.
func New(cfg Config, terms *raft.TermStore, logStore *raft.Log, transport Transport, asm ApplicationStateMachine, logger zerolog.Logger) *Node {
	cache, err := lru.New(dedupCacheSize)
	if err != nil {
		panic(err) // constant positive size, cannot fail
	}
	n := &Node{
		id:            cfg.ID,
		clientAddr:    cfg.ClientAddr,
		peerIDs:       append([]string{}, cfg.Peers...),
		role:          Follower,
		terms:         terms,
		log:           logStore,
		peers:         make(map[string]*peerState),
		votesGranted:  make(map[string]bool),
		pending:       make(map[uint64]chan *SubmitResult),
		dedup:         cache,
		transport:     transport,
		asm:           asm,
		cfg:           cfg,
		electionReset: make(chan struct{}, 1),
		stopCh:        make(chan struct{}),
		logger:        logger.With().Str("node_id", cfg.ID).Logger(),
	}
	for _, p := range n.peerIDs {
		n.peers[p] = newPeerState()
	}
	for _, p := range n.peerIDs {
		go n.runPeerReplication(p)
	}
	return n
}

// Stop halts the peer-replication goroutines. Safe to call once.
func (n *Node) Stop() { close(n.stopCh) }

// ID returns this node's identity (its gRPC listen address).
func (n *Node) ID() string { return n.id }

// Role returns the current role.
func (n *Node) Role() Role {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.role
}

// ElectionResetSignal is read by a statemgr.Manager to know when to redraw
// and rearm the randomized election timer (spec.md §5: reset on granting a
// vote, on a valid AppendEntries from the current-term leader, and on
// becoming Candidate).
func (n *Node) ElectionResetSignal() <-chan struct{} { return n.electionReset }

func (n *Node) signalElectionReset() {
	select {
	case n.electionReset <- struct{}{}:
	default:
	}
}

// Status is a snapshot for the client gateway's GET /v1/status.
type Status struct {
	ID          string
	Role        Role
	Term        uint64
	CommitIndex uint64
	LastApplied uint64
	LeaderHint  string
}

// StatusSnapshot returns a point-in-time snapshot of this node's role/term/index.
func (n *Node) StatusSnapshot() Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Status{
		ID:          n.id,
		Role:        n.role,
		Term:        n.terms.CurrentTerm(),
		CommitIndex: n.commitIndex,
		LastApplied: n.lastApplied,
		LeaderHint:  n.leaderID,
	}
}

func (n *Node) majority() int {
	return (len(n.peerIDs)+1)/2 + 1
}

func (n *Node) fatal(err error) {
	n.logger.Fatal().Err(err).Msg("durable write failed, node cannot continue")
}

// --- common rule (spec.md §4.2.4) -------------------------------------

// applyCommonTermRuleLocked demotes this node to Follower and persists the
// higher term whenever an incoming message's term exceeds current_term.
// Must run before any role-specific handling, for every RPC.
func (n *Node) applyCommonTermRuleLocked(term uint64) {
	if term > n.terms.CurrentTerm() {
		n.stepDownLocked(term)
	}
}

func (n *Node) stepDownLocked(term uint64) {
	if term > n.terms.CurrentTerm() {
		if err := n.terms.Set(term, nil); err != nil {
			n.fatal(err)
			return
		}
	}
	n.role = Follower
	n.leaderID = ""
}

// --- election (spec.md §4.2.2, §4.2.3) --------------------------------

// OnElectionTimeout is driven by a statemgr.Manager when the randomized
// election timer fires. A Leader ignores it; a Follower or Candidate
// starts a new election.
func (n *Node) OnElectionTimeout() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.role == Leader {
		return
	}
	n.becomeCandidateLocked()
}

func (n *Node) becomeCandidateLocked() {
	n.role = Candidate
	n.leaderID = ""
	newTerm := n.terms.CurrentTerm() + 1
	self := &raft.Node{Id: n.id, ClientAddr: n.clientAddr}
	if err := n.terms.Set(newTerm, self); err != nil {
		n.fatal(err)
		return
	}
	n.votesGranted = make(map[string]bool)
	n.signalElectionReset()

	n.logger.Info().Uint64("term", newTerm).Msg("starting election")

	if n.majority() <= 1 {
		// singleton cluster: self-vote is already a majority.
		n.becomeLeaderLocked()
		return
	}

	lastIdx := n.log.LastIndex()
	lastTerm := n.log.LastTerm()
	for _, p := range n.peerIDs {
		go n.requestVoteFrom(p, newTerm, lastIdx, lastTerm, self)
	}
}

func (n *Node) requestVoteFrom(peer string, term, lastIdx, lastTerm uint64, candidate *raft.Node) {
	ctx, cancel := context.WithTimeout(context.Background(), voteRPCTimeout)
	defer cancel()
	req := &raft.VoteRequest{Term: term, Candidate: candidate, LastLogIndex: lastIdx, LastLogTerm: lastTerm}
	resp, err := n.transport.RequestVote(ctx, peer, req)
	if err != nil {
		n.logger.Warn().Err(err).Str("peer", peer).Msg("RequestVote RPC failed")
		return
	}
	n.onVoteResponse(peer, term, resp)
}

func (n *Node) onVoteResponse(peer string, electionTerm uint64, resp *raft.VoteReply) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.applyCommonTermRuleLocked(resp.Term)
	if n.role != Candidate || n.terms.CurrentTerm() != electionTerm {
		return // stale response from a prior or abandoned election
	}
	if !resp.VoteGranted {
		return
	}
	n.votesGranted[peer] = true
	if 1+len(n.votesGranted) >= n.majority() {
		n.becomeLeaderLocked()
	}
}

func (n *Node) becomeLeaderLocked() {
	n.role = Leader
	n.leaderID = n.id
	n.logger.Info().Uint64("term", n.terms.CurrentTerm()).Msg("elected leader")

	last := n.log.LastIndex()
	for _, p := range n.peerIDs {
		ps := n.peers[p]
		ps.nextIndex = last + 1
		ps.matchIndex = 0
		ps.available = true
		ps.backoffAttempt = 0
	}

	noop := &raft.LogRecord{Index: last + 1, Term: n.terms.CurrentTerm(), Kind: raft.LogRecord_NOOP}
	if err := n.log.Append([]*raft.LogRecord{noop}); err != nil {
		n.fatal(err)
		return
	}
	n.advanceCommitLocked()
	n.triggerReplicationLocked()
}

// --- RPC handlers (spec.md §4.3.1, §4.3.2) ----------------------------

// HandleVote implements RequestVote (spec.md §4.3.1).
func (n *Node) HandleVote(req *raft.VoteRequest) *raft.VoteReply {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.applyCommonTermRuleLocked(req.Term)
	current := n.terms.CurrentTerm()
	if req.Term < current {
		return &raft.VoteReply{Term: current, VoteGranted: false}
	}

	votedFor := n.terms.VotedFor()
	eligible := votedFor == nil || votedFor.Id == req.Candidate.GetId()
	upToDate := n.isUpToDateLocked(req.LastLogTerm, req.LastLogIndex)

	if eligible && upToDate {
		if err := n.terms.Set(current, req.Candidate); err != nil {
			n.fatal(err)
			return &raft.VoteReply{Term: current, VoteGranted: false}
		}
		n.signalElectionReset()
		return &raft.VoteReply{Term: current, VoteGranted: true}
	}
	return &raft.VoteReply{Term: current, VoteGranted: false}
}

func (n *Node) isUpToDateLocked(candTerm, candIndex uint64) bool {
	localTerm := n.log.LastTerm()
	localIndex := n.log.LastIndex()
	if candTerm != localTerm {
		return candTerm > localTerm
	}
	return candIndex >= localIndex
}

// HandleAppend implements AppendEntries (spec.md §4.3.2).
func (n *Node) HandleAppend(req *raft.AppendRequest) *raft.AppendReply {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.applyCommonTermRuleLocked(req.Term)
	current := n.terms.CurrentTerm()
	if req.Term < current {
		return &raft.AppendReply{Term: current, Success: false}
	}

	if n.role != Leader {
		n.role = Follower
	}
	n.leaderID = req.Leader.GetId()
	n.signalElectionReset()

	prev := req.PrevLogIndex
	if prev > 0 {
		t, ok := n.log.TermAt(prev)
		if !ok || t != req.PrevLogTerm {
			ci, ct := n.conflictHintLocked(prev)
			return &raft.AppendReply{Term: current, Success: false, ConflictIndex: ci, ConflictTerm: ct}
		}
	}

	if len(req.Entries) > 0 {
		if err := n.log.Reconcile(prev, req.Entries, n.commitIndex); err != nil {
			if errors.Is(err, raft.ErrTruncateCommitted) || errors.Is(err, raft.ErrDurability) {
				n.fatal(err)
			}
			return &raft.AppendReply{Term: current, Success: false}
		}
	}

	lastNew := prev + uint64(len(req.Entries))
	if req.LeaderCommit > n.commitIndex {
		newCommit := req.LeaderCommit
		if lastNew < newCommit {
			newCommit = lastNew
		}
		if last := n.log.LastIndex(); newCommit > last {
			newCommit = last
		}
		if newCommit > n.commitIndex {
			n.commitIndex = newCommit
			n.applyCommittedLocked()
		}
	}

	return &raft.AppendReply{Term: current, Success: true}
}

// conflictHintLocked implements the optional fast-backup hint of
// spec.md §4.3.2: point the leader at the first index of the
// conflicting term, or just past the end of a too-short log.
func (n *Node) conflictHintLocked(prev uint64) (uint64, uint64) {
	last := n.log.LastIndex()
	if last < prev {
		return last + 1, 0
	}
	term, ok := n.log.TermAt(prev)
	if !ok {
		return prev, 0
	}
	idx := prev
	for idx > 1 {
		t, ok := n.log.TermAt(idx - 1)
		if !ok || t != term {
			break
		}
		idx--
	}
	return idx, term
}

// --- replication (spec.md §4.2.1 leader entry, §4.3.2) ----------------

func (n *Node) triggerReplicationLocked() {
	for _, p := range n.peerIDs {
		n.signalTriggerLocked(p)
	}
}

func (n *Node) signalTriggerLocked(peer string) {
	ps := n.peers[peer]
	if ps == nil {
		return
	}
	select {
	case ps.trigger <- struct{}{}:
	default:
	}
}

func (n *Node) signalTrigger(peer string) {
	n.mu.Lock()
	n.signalTriggerLocked(peer)
	n.mu.Unlock()
}

func (n *Node) runPeerReplication(peer string) {
	n.mu.Lock()
	ps := n.peers[peer]
	n.mu.Unlock()
	if ps == nil {
		return
	}
	for {
		select {
		case <-n.stopCh:
			return
		case <-ps.trigger:
			n.replicateOnce(peer)
		}
	}
}

func (n *Node) replicateOnce(peer string) {
	n.mu.Lock()
	if n.role != Leader {
		n.mu.Unlock()
		return
	}
	term := n.terms.CurrentTerm()
	ps := n.peers[peer]
	prevIndex := ps.nextIndex - 1
	prevTerm, _ := n.log.TermAt(prevIndex)
	entries := n.log.SliceN(ps.nextIndex, n.log.LastIndex()+1, n.cfg.MaxAppendEntries)
	leaderCommit := n.commitIndex
	self := &raft.Node{Id: n.id, ClientAddr: n.clientAddr}
	n.mu.Unlock()

	req := &raft.AppendRequest{
		Term:         term,
		Leader:       self,
		PrevLogIndex: prevIndex,
		PrevLogTerm:  prevTerm,
		Entries:      entries,
		LeaderCommit: leaderCommit,
	}

	ctx, cancel := context.WithTimeout(context.Background(), appendRPCTimeout)
	defer cancel()
	resp, err := n.transport.AppendEntries(ctx, peer, req)
	if err != nil {
		n.logger.Debug().Err(err).Str("peer", peer).Msg("AppendEntries RPC failed")
		n.markUnavailableAndRetry(peer)
		return
	}
	n.onAppendResponse(peer, term, prevIndex, len(entries), resp)
}

func (n *Node) markUnavailableAndRetry(peer string) {
	n.mu.Lock()
	ps := n.peers[peer]
	if ps == nil {
		n.mu.Unlock()
		return
	}
	ps.available = false
	ps.backoffAttempt++
	attempt := ps.backoffAttempt
	n.mu.Unlock()

	delay := backoffDelay(attempt)
	go func() {
		select {
		case <-time.After(delay):
			n.signalTrigger(peer)
		case <-n.stopCh:
		}
	}()
}

func (n *Node) onAppendResponse(peer string, sentTerm, prevIndex uint64, sentCount int, resp *raft.AppendReply) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.applyCommonTermRuleLocked(resp.Term)
	if n.role != Leader || n.terms.CurrentTerm() != sentTerm {
		return
	}
	ps := n.peers[peer]
	if ps == nil {
		return
	}
	ps.available = true
	ps.backoffAttempt = 0

	if resp.Success {
		matched := prevIndex + uint64(sentCount)
		if matched > ps.matchIndex {
			ps.matchIndex = matched
		}
		ps.nextIndex = ps.matchIndex + 1
		n.advanceCommitLocked()
		if ps.nextIndex <= n.log.LastIndex() {
			n.signalTriggerLocked(peer)
		}
		return
	}

	if resp.ConflictIndex > 0 {
		ps.nextIndex = resp.ConflictIndex
	} else if ps.nextIndex > 1 {
		ps.nextIndex--
	}
	n.signalTriggerLocked(peer)
}

// advanceCommitLocked implements the corrected commit rule of spec.md
// §4.2.1: commit_index may only advance to an N that a majority of
// match_index values (including self) have reached AND whose entry's
// term equals current_term. Entries from earlier terms are never
// committed directly; they commit only as a side effect of a
// current-term entry at a higher index committing (Raft §5.4.2).
func (n *Node) advanceCommitLocked() {
	currentTerm := n.terms.CurrentTerm()
	last := n.log.LastIndex()
	for N := last; N > n.commitIndex; N-- {
		t, ok := n.log.TermAt(N)
		if !ok || t != currentTerm {
			continue
		}
		count := 1
		for _, p := range n.peerIDs {
			if n.peers[p].matchIndex >= N {
				count++
			}
		}
		if count >= n.majority() {
			n.commitIndex = N
			break
		}
	}
	n.applyCommittedLocked()
}

// applyCommittedLocked drives newly-committed entries into the ASM in
// order, records client-dedup results, and wakes any Submit caller
// waiting on that index (spec.md §4.4, §6.2).
func (n *Node) applyCommittedLocked() {
	for n.lastApplied < n.commitIndex {
		n.lastApplied++
		entry := n.log.Get(n.lastApplied)
		if entry == nil {
			continue
		}
		var result *SubmitResult
		if entry.Kind == raft.LogRecord_COMMAND {
			out, err := n.asm.Apply(entry)
			result = &SubmitResult{Index: entry.Index, Result: out, Err: err}
			if entry.ClientId != "" {
				n.dedup.Add(entry.ClientId, dedupEntry{sequenceNumber: entry.SequenceNumber, result: result})
			}
		} else {
			result = &SubmitResult{Index: entry.Index}
		}
		if ch, ok := n.pending[entry.Index]; ok {
			ch <- result
			delete(n.pending, entry.Index)
		}
	}
}

// --- client submission (spec.md §6.2) ---------------------------------

// Submit appends a client command and blocks until it has applied locally
// (or ctx is done). Only the Leader accepts submissions.
func (n *Node) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	n.mu.Lock()
	if n.role != Leader {
		hint := n.leaderID
		n.mu.Unlock()
		return nil, &NotLeaderError{LeaderHint: hint}
	}

	if req.ClientID != "" {
		if v, ok := n.dedup.Get(req.ClientID); ok {
			entry := v.(dedupEntry)
			if entry.sequenceNumber == req.SequenceNumber {
				n.mu.Unlock()
				return entry.result, nil
			}
		}
	}

	idx := n.log.LastIndex() + 1
	entry := &raft.LogRecord{
		Index:          idx,
		Term:           n.terms.CurrentTerm(),
		Kind:           raft.LogRecord_COMMAND,
		Action:         req.Action,
		Key:            req.Key,
		Value:          req.Value,
		ClientId:       req.ClientID,
		SequenceNumber: req.SequenceNumber,
	}
	if err := n.log.Append([]*raft.LogRecord{entry}); err != nil {
		if errors.Is(err, raft.ErrDurability) {
			n.fatal(err)
		}
		n.mu.Unlock()
		return nil, err
	}
	ch := make(chan *SubmitResult, 1)
	n.pending[idx] = ch
	n.advanceCommitLocked() // singleton cluster: self already is a majority
	n.triggerReplicationLocked()
	n.mu.Unlock()

	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		n.mu.Lock()
		delete(n.pending, idx)
		n.mu.Unlock()
		return nil, ctx.Err()
	}
}

// --- heartbeat tick -----------------------------------------------------

// OnHeartbeatTick is driven by a statemgr.Manager at cfg.HeartbeatInterval.
// Followers and Candidates ignore it.
func (n *Node) OnHeartbeatTick() {
	n.mu.Lock()
	if n.role != Leader {
		n.mu.Unlock()
		return
	}
	n.triggerReplicationLocked()
	n.mu.Unlock()
}
