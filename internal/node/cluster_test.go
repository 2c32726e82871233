package node_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/raftkv/raftkv/internal/node"
	"github.com/raftkv/raftkv/internal/raft"
	"github.com/raftkv/raftkv/internal/statemgr"
)

type cluster struct {
	ids   []string
	nodes map[string]*node.Node
	asms  map[string]*fakeASM
	mgrs  map[string]*statemgr.Manager
	reg   *registry
}

func newCluster(t *testing.T, n int) *cluster {
	t.Helper()
	ids := make([]string, n)
	for i := range ids {
		ids[i] = string(rune('a'+i)) + "-node"
	}

	reg := newRegistry()
	c := &cluster{
		ids:   ids,
		nodes: make(map[string]*node.Node),
		asms:  make(map[string]*fakeASM),
		mgrs:  make(map[string]*statemgr.Manager),
		reg:   reg,
	}

	for _, id := range ids {
		peers := make([]string, 0, n-1)
		for _, other := range ids {
			if other != id {
				peers = append(peers, other)
			}
		}
		cfg := node.DefaultConfig(id, id, peers)
		cfg.ElectionTimeoutMin = 30 * time.Millisecond
		cfg.ElectionTimeoutMax = 60 * time.Millisecond
		cfg.HeartbeatInterval = 10 * time.Millisecond
		cfg.SubmitTimeout = time.Second

		terms := raft.NewTermStore("")
		logStore := raft.NewLog("")
		asm := newFakeASM()
		transport := &fakeTransport{from: id, reg: reg}

		nd := node.New(cfg, terms, logStore, transport, asm, zerolog.Nop())
		reg.register(id, nd)
		c.nodes[id] = nd
		c.asms[id] = asm

		mgr := statemgr.New(nd, cfg.ElectionTimeoutMin, cfg.ElectionTimeoutMax, cfg.HeartbeatInterval, zerolog.Nop())
		c.mgrs[id] = mgr
		go mgr.Run()
	}
	return c
}

func (c *cluster) stop() {
	for _, mgr := range c.mgrs {
		mgr.Stop()
	}
	for _, n := range c.nodes {
		n.Stop()
	}
}

// awaitLeader polls until exactly one node reports itself Leader, or fails
// the test after timeout.
func (c *cluster) awaitLeader(t *testing.T, timeout time.Duration) *node.Node {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var leader *node.Node
		count := 0
		for _, n := range c.nodes {
			if n.Role() == node.Leader {
				count++
				leader = n
			}
		}
		if count == 1 {
			return leader
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no single leader emerged within %s", timeout)
	return nil
}

func TestClusterElectsASingleLeader(t *testing.T) {
	c := newCluster(t, 3)
	defer c.stop()
	c.awaitLeader(t, 2*time.Second)
}

func TestClusterReplicatesCommittedCommand(t *testing.T) {
	c := newCluster(t, 3)
	defer c.stop()
	leader := c.awaitLeader(t, 2*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := leader.Submit(ctx, node.SubmitRequest{Action: raft.LogRecord_SET, Key: "x", Value: "1"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		allReplicated := true
		for _, asm := range c.asms {
			if v, ok := asm.get("x"); !ok || v != "1" {
				allReplicated = false
			}
		}
		if allReplicated {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("command did not replicate to all nodes in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestClusterRejectsWriteOnFollower(t *testing.T) {
	c := newCluster(t, 3)
	defer c.stop()
	leader := c.awaitLeader(t, 2*time.Second)

	var follower *node.Node
	for id, n := range c.nodes {
		if n != leader {
			follower = c.nodes[id]
			break
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := follower.Submit(ctx, node.SubmitRequest{Action: raft.LogRecord_SET, Key: "x", Value: "1"})
	nl, ok := err.(*node.NotLeaderError)
	if !ok {
		t.Fatalf("expected *NotLeaderError, got %v", err)
	}
	if nl.LeaderHint != leader.ID() {
		t.Fatalf("expected leader hint %s, got %s", leader.ID(), nl.LeaderHint)
	}
}

func TestClusterElectsNewLeaderAfterPartition(t *testing.T) {
	c := newCluster(t, 3)
	defer c.stop()
	leader := c.awaitLeader(t, 2*time.Second)

	c.reg.partition(leader.ID())
	defer c.reg.heal(leader.ID())

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		var newLeader *node.Node
		count := 0
		for _, n := range c.nodes {
			if n == leader {
				continue
			}
			if n.Role() == node.Leader {
				count++
				newLeader = n
			}
		}
		if count == 1 && newLeader != leader {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("no new leader elected after partitioning the old leader")
}

func TestClusterOldLeaderStepsDownAfterHealing(t *testing.T) {
	c := newCluster(t, 3)
	defer c.stop()
	oldLeader := c.awaitLeader(t, 2*time.Second)

	c.reg.partition(oldLeader.ID())
	// Wait for a new leader among the remaining two.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		done := false
		for _, n := range c.nodes {
			if n != oldLeader && n.Role() == node.Leader {
				done = true
			}
		}
		if done {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	c.reg.heal(oldLeader.ID())

	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if oldLeader.Role() != node.Leader {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("old leader never stepped down after healing")
}
