// Package database implements the application state machine (ASM) of
// spec.md §4.4: a deterministic key-value store that applies committed
// log records in order. It is backed by an immutable radix tree so that
// Query can take a consistent snapshot without blocking concurrent Apply
// calls.
package database

import (
	"fmt"
	"sync"

	iradix "github.com/hashicorp/go-immutable-radix"
	"github.com/rs/zerolog/log"

	"github.com/raftkv/raftkv/internal/raft"
)

// ErrKeyNotFound is returned by Apply for a GET of an absent key.
var ErrKeyNotFound = fmt.Errorf("database: key not found")

// Store is the ASM: the Node applies committed mutations exactly once in
// index order, but Query is reachable from the HTTP gateway on its own
// goroutine concurrently with an in-flight Apply, so the tree pointer
// itself still needs a lock even though the tree's nodes are immutable.
type Store struct {
	mu   sync.RWMutex
	tree *iradix.Tree
}

// New returns an empty Store.
func New() *Store {
	return &Store{tree: iradix.New()}
}

// Set inserts or overwrites key, last-writer-wins (spec.md §4.4).
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn := s.tree.Txn()
	txn.Insert([]byte(key), value)
	s.tree = txn.Commit()
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn := s.tree.Txn()
	txn.Delete([]byte(key))
	s.tree = txn.Commit()
}

// Get returns the current value of key, and whether it exists.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	tree := s.tree
	s.mu.RUnlock()
	v, ok := tree.Get([]byte(key))
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Apply implements node.ApplicationStateMachine: it decodes one
// committed LogRecord and mutates the tree accordingly, returning the
// read value for GET commands so Node.Submit can hand it back to the
// waiting client (spec.md §4.4, §6.2).
func (s *Store) Apply(entry *raft.LogRecord) ([]byte, error) {
	switch entry.Action {
	case raft.LogRecord_SET:
		s.Set(entry.Key, entry.Value)
		log.Debug().Str("key", entry.Key).Uint64("index", entry.Index).Msg("applied SET")
		return nil, nil
	case raft.LogRecord_DEL:
		s.Delete(entry.Key)
		log.Debug().Str("key", entry.Key).Uint64("index", entry.Index).Msg("applied DEL")
		return nil, nil
	case raft.LogRecord_GET:
		v, ok := s.Get(entry.Key)
		if !ok {
			return nil, ErrKeyNotFound
		}
		return []byte(v), nil
	case raft.LogRecord_NONE:
		return nil, nil
	default:
		return nil, fmt.Errorf("database: unknown action %v", entry.Action)
	}
}

// Query performs a non-mutating read against the current tree snapshot.
// Unlike Apply, it does not go through the log -- callers decide their
// own consistency requirements (spec.md §4.4 "query consistency is the
// caller's responsibility").
func (s *Store) Query(key string) (string, bool) {
	return s.Get(key)
}

// Len reports the number of keys currently stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}
