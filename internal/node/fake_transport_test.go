package node_test

import (
	"context"
	"errors"
	"sync"

	"github.com/raftkv/raftkv/internal/node"
	"github.com/raftkv/raftkv/internal/raft"
)

// errPartitioned simulates the "transport failure" edge case of spec.md
// §7 without involving any real network.
var errPartitioned = errors.New("fake transport: peer unreachable")

// registry is the shared in-process "network" for a cluster_test cluster:
// a map of node id -> Node, plus a set of ids currently cut off from
// everyone else.
type registry struct {
	mu          sync.Mutex
	nodes       map[string]*node.Node
	partitioned map[string]bool
}

func newRegistry() *registry {
	return &registry{nodes: make(map[string]*node.Node), partitioned: make(map[string]bool)}
}

func (r *registry) register(id string, n *node.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[id] = n
}

func (r *registry) blocked(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.partitioned[id]
}

func (r *registry) partition(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partitioned[id] = true
}

func (r *registry) heal(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.partitioned, id)
}

// fakeTransport is a node.Transport bound to a single cluster member
// (`from`); RequestVote/AppendEntries are delivered synchronously to the
// destination Node's handlers.
type fakeTransport struct {
	from string
	reg  *registry
}

func (f *fakeTransport) RequestVote(ctx context.Context, peer string, req *raft.VoteRequest) (*raft.VoteReply, error) {
	if f.reg.blocked(f.from) || f.reg.blocked(peer) {
		return nil, errPartitioned
	}
	f.reg.mu.Lock()
	n := f.reg.nodes[peer]
	f.reg.mu.Unlock()
	if n == nil {
		return nil, errors.New("fake transport: unknown peer " + peer)
	}
	return n.HandleVote(req), nil
}

func (f *fakeTransport) AppendEntries(ctx context.Context, peer string, req *raft.AppendRequest) (*raft.AppendReply, error) {
	if f.reg.blocked(f.from) || f.reg.blocked(peer) {
		return nil, errPartitioned
	}
	f.reg.mu.Lock()
	n := f.reg.nodes[peer]
	f.reg.mu.Unlock()
	if n == nil {
		return nil, errors.New("fake transport: unknown peer " + peer)
	}
	return n.HandleAppend(req), nil
}

// fakeASM is a trivial map-backed ApplicationStateMachine for tests that
// don't need the full radix-tree Store.
type fakeASM struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeASM() *fakeASM { return &fakeASM{data: make(map[string]string)} }

func (a *fakeASM) Apply(entry *raft.LogRecord) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch entry.Action {
	case raft.LogRecord_SET:
		a.data[entry.Key] = entry.Value
	case raft.LogRecord_DEL:
		delete(a.data, entry.Key)
	case raft.LogRecord_GET:
		if v, ok := a.data[entry.Key]; ok {
			return []byte(v), nil
		}
		return nil, errors.New("not found")
	}
	return nil, nil
}

func (a *fakeASM) get(key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.data[key]
	return v, ok
}
