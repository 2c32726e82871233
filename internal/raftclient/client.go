// Package raftclient implements node.Transport over gRPC: it dials each
// peer lazily, redials on failure, and exposes RequestVote/AppendEntries
// as plain synchronous calls (the caller supplies its own context
// deadline). Modeled on leifdb's ForeignNode connection pool.
package raftclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/raftkv/raftkv/internal/raft"
)

// Manager owns one lazily-dialed gRPC connection per peer address.
type Manager struct {
	mu    sync.Mutex
	conns map[string]*peerConn
}

type peerConn struct {
	conn   *grpc.ClientConn
	client raft.RaftClient
}

// NewManager returns a Manager with no connections yet established.
func NewManager() *Manager {
	return &Manager{conns: make(map[string]*peerConn)}
}

func (m *Manager) clientFor(peer string) (raft.RaftClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pc, ok := m.conns[peer]; ok && pc.conn.GetState().String() != "SHUTDOWN" {
		return pc.client, nil
	}

	conn, err := grpc.Dial(peer, grpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("raftclient: dial %s: %w", peer, err)
	}
	pc := &peerConn{conn: conn, client: raft.NewRaftClient(conn)}
	m.conns[peer] = pc
	log.Debug().Str("peer", peer).Msg("dialed peer")
	return pc.client, nil
}

// RequestVote implements node.Transport.
func (m *Manager) RequestVote(ctx context.Context, peer string, req *raft.VoteRequest) (*raft.VoteReply, error) {
	client, err := m.clientFor(peer)
	if err != nil {
		return nil, err
	}
	return client.RequestVote(ctx, req)
}

// AppendEntries implements node.Transport.
func (m *Manager) AppendEntries(ctx context.Context, peer string, req *raft.AppendRequest) (*raft.AppendReply, error) {
	client, err := m.clientFor(peer)
	if err != nil {
		return nil, err
	}
	return client.AppendLogs(ctx, req)
}

// Close tears down every open connection. Intended for graceful shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for peer, pc := range m.conns {
		if err := pc.conn.Close(); err != nil {
			log.Warn().Err(err).Str("peer", peer).Msg("error closing peer connection")
		}
	}
	m.conns = make(map[string]*peerConn)
}
