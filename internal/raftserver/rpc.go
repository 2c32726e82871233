// Package raftserver adapts a *node.Node to the inbound gRPC Raft peer
// protocol (spec.md §6.1).
package raftserver

import (
	"context"
	"net"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/raftkv/raftkv/internal/node"
	"github.com/raftkv/raftkv/internal/raft"
)

type server struct {
	raft.UnimplementedRaftServer
	Node *node.Node
}

// RequestVote handles RPC vote requests from other nodes.
func (s *server) RequestVote(ctx context.Context, v *raft.VoteRequest) (*raft.VoteReply, error) {
	log.Debug().Msgf("Received vote request: %v", v)
	return s.Node.HandleVote(v), nil
}

// AppendLogs handles RPC log-append requests from other nodes.
func (s *server) AppendLogs(ctx context.Context, a *raft.AppendRequest) (*raft.AppendReply, error) {
	log.Debug().Msgf("Received append request: %v", a)
	return s.Node.HandleAppend(a), nil
}

// InstallSnapshot is reserved; log compaction is out of scope (spec.md §1,
// §9), so this always reports Unimplemented rather than silently
// succeeding.
func (s *server) InstallSnapshot(ctx context.Context, r *raft.InstallSnapshotRequest) (*raft.InstallSnapshotReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "InstallSnapshot is not implemented")
}

// StartRaftServer constructs and starts a gRPC server for Raft protocol routes.
// Note: `lis` must already be bound to the node's raft_addr.
func StartRaftServer(lis net.Listener, n *node.Node) *grpc.Server {
	s := grpc.NewServer()
	raft.RegisterRaftServer(s, &server{Node: n})
	go func() {
		if err := s.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("gRPC failed to serve")
		}
	}()
	return s
}
