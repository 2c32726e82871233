// Package statemgr owns the wall-clock side of Raft: the randomized
// election timer and the fixed-interval heartbeat timer described by
// spec.md §4.2/§5. It holds no consensus state itself -- every tick is
// handed to the Node Core, which decides what (if anything) to do with it.
package statemgr

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/raftkv/raftkv/internal/node"
)

// seedCounter diversifies Manager seeds created in quick succession (e.g.
// several cluster members spun up in the same process), where
// time.Now().UnixNano() alone could repeat on a coarse system clock.
var seedCounter int64

// driver is the subset of *node.Node that Manager depends on, so tests
// can substitute a fake.
type driver interface {
	OnElectionTimeout()
	OnHeartbeatTick()
	ElectionResetSignal() <-chan struct{}
}

// Manager runs the two timers in its own goroutine.
type Manager struct {
	n driver

	electionMin time.Duration
	electionMax time.Duration
	heartbeat   time.Duration

	rng *rand.Rand

	stopCh chan struct{}
	logger zerolog.Logger
}

// New constructs a Manager for n. Call Run to start driving timers.
//
// Each Manager carries its own *rand.Rand seeded from the current time
// rather than drawing from the global math/rand source: a go.mod pinned
// below 1.20 gets that source's deterministic seed=1 default, which would
// make every node's first election-timeout draw identical and defeat the
// randomized-timeout split vote avoidance spec.md §9 requires.
func New(n *node.Node, electionMin, electionMax, heartbeat time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		n:           n,
		electionMin: electionMin,
		electionMax: electionMax,
		heartbeat:   heartbeat,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano() + atomic.AddInt64(&seedCounter, 1))),
		stopCh:      make(chan struct{}),
		logger:      logger,
	}
}

func (m *Manager) randomElectionTimeout() time.Duration {
	span := m.electionMax - m.electionMin
	if span <= 0 {
		return m.electionMin
	}
	return m.electionMin + time.Duration(m.rng.Int63n(int64(span)))
}

// Run blocks, driving OnElectionTimeout/OnHeartbeatTick until Stop is
// called. Intended to be run in its own goroutine.
func (m *Manager) Run() {
	election := time.NewTimer(m.randomElectionTimeout())
	heartbeat := time.NewTicker(m.heartbeat)
	defer election.Stop()
	defer heartbeat.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-election.C:
			m.n.OnElectionTimeout()
			election.Reset(m.randomElectionTimeout())
		case <-heartbeat.C:
			m.n.OnHeartbeatTick()
		case <-m.n.ElectionResetSignal():
			if !election.Stop() {
				<-election.C
			}
			election.Reset(m.randomElectionTimeout())
		}
	}
}

// Stop halts the Manager's timer loop. Safe to call once.
func (m *Manager) Stop() { close(m.stopCh) }
