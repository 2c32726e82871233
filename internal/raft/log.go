package raft

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/protobuf/proto"
	"github.com/rs/zerolog/log"
)

// Log is the ordered, append-oriented sequence of LogRecords described by
// spec.md §4.1. It wraps a *LogStore protobuf message directly, following
// the teacher's pattern of using the generated message as the in-memory
// representation, and persists the whole store to a single file on every
// mutation. The log and the term/vote cell (TermStore.Set) are written
// separately; there is no group commit of the two.
type Log struct {
	mu       sync.RWMutex
	store    *LogStore
	filename string
}

// NewLog opens (or initializes) a Log backed by filename. An empty or
// missing file yields an empty log, matching ReadLogs's behavior in the
// teacher.
func NewLog(filename string) *Log {
	store := &LogStore{Entries: make([]*LogRecord, 0)}
	if filename != "" {
		if data, err := os.ReadFile(filename); err == nil {
			if err := proto.Unmarshal(data, store); err != nil {
				log.Error().Err(err).Str("file", filename).
					Msg("Failed to unmarshal log file, starting from an empty log")
				store = &LogStore{Entries: make([]*LogRecord, 0)}
			}
		}
	}
	return &Log{store: store, filename: filename}
}

// persist writes the whole log to disk. Must be called with mu held.
func (l *Log) persist() error {
	if l.filename == "" {
		return nil
	}
	out, err := proto.Marshal(l.store)
	if err != nil {
		return fmt.Errorf("%w: marshal log: %v", ErrDurability, err)
	}
	if dir := filepath.Dir(l.filename); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("%w: log dir: %v", ErrDurability, err)
		}
	}
	if err := os.WriteFile(l.filename, out, 0644); err != nil {
		return fmt.Errorf("%w: write log: %v", ErrDurability, err)
	}
	return nil
}

// Append appends entries at the end of the log. entries must carry
// strictly increasing indices starting at last_index()+1 (spec.md §4.1).
func (l *Log) Append(entries []*LogRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(entries)
}

func (l *Log) appendLocked(entries []*LogRecord) error {
	if len(entries) == 0 {
		return nil
	}
	expect := l.lastIndexLocked() + 1
	for _, e := range entries {
		if e.Index != expect {
			return ErrOutOfOrder
		}
		expect++
	}
	l.store.Entries = append(l.store.Entries, entries...)
	if err := l.persist(); err != nil {
		return err
	}
	return nil
}

// Get returns the entry at index, or nil if it does not exist.
func (l *Log) Get(index uint64) *LogRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.getLocked(index)
}

func (l *Log) getLocked(index uint64) *LogRecord {
	if index == 0 || index > uint64(len(l.store.Entries)) {
		return nil
	}
	return l.store.Entries[index-1]
}

// Slice returns entries in the half-open range [from, to), capped to the
// package-default MaxAppendEntries, for replication batching (spec.md §4.1).
func (l *Log) Slice(from, to uint64) []*LogRecord {
	return l.SliceN(from, to, MaxAppendEntries)
}

// SliceN is Slice with a caller-supplied batch cap, so a Node can honor its
// configured max_append_entries (spec.md §6.3) rather than the package
// default.
func (l *Log) SliceN(from, to uint64, max int) []*LogRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	last := uint64(len(l.store.Entries))
	if from < 1 {
		from = 1
	}
	if to > last+1 {
		to = last + 1
	}
	if max <= 0 {
		max = MaxAppendEntries
	}
	if to > from+uint64(max) {
		to = from + uint64(max)
	}
	if from >= to {
		return nil
	}
	out := make([]*LogRecord, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, l.store.Entries[i-1])
	}
	return out
}

// LastIndex returns the index of the last entry, or 0 if the log is empty.
func (l *Log) LastIndex() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastIndexLocked()
}

func (l *Log) lastIndexLocked() uint64 {
	return uint64(len(l.store.Entries))
}

// LastTerm returns the term of the last entry, or 0 if the log is empty.
func (l *Log) LastTerm() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastTermLocked()
}

func (l *Log) lastTermLocked() uint64 {
	if len(l.store.Entries) == 0 {
		return 0
	}
	return l.store.Entries[len(l.store.Entries)-1].Term
}

// TermAt returns the term of the entry at index and whether it exists.
func (l *Log) TermAt(index uint64) (uint64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e := l.getLocked(index)
	if e == nil {
		return 0, false
	}
	return e.Term, true
}

// TruncateSuffix deletes entries with index >= fromIndex. It is forbidden
// to truncate at or below commitIndex; doing so is a fatal invariant
// break (spec.md §4.1) and returns ErrTruncateCommitted instead of acting.
func (l *Log) TruncateSuffix(fromIndex, commitIndex uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if fromIndex <= commitIndex {
		return ErrTruncateCommitted
	}
	if fromIndex > uint64(len(l.store.Entries)) {
		return nil
	}
	l.store.Entries = l.store.Entries[:fromIndex-1]
	return l.persist()
}

// CompactPrefix is reserved for snapshotting; the algorithm is out of
// scope for this repository (spec.md §1, §4.1, §9).
func (l *Log) CompactPrefix(upToIndex uint64) error {
	return ErrNotImplemented
}

// Entries returns a defensive copy of the full entry slice.
func (l *Log) Entries() []*LogRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*LogRecord, len(l.store.Entries))
	copy(out, l.store.Entries)
	return out
}

// Reconcile implements spec.md §4.3.2 step 4: for each entry starting at
// prevLogIndex+1, truncate on first term mismatch and append the
// remainder; matching entries are left in place (idempotence). It takes
// mu itself, so callers must not hold it.
func (l *Log) Reconcile(prevLogIndex uint64, entries []*LogRecord, commitIndex uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := prevLogIndex + 1
	i := 0
	for ; i < len(entries); i++ {
		existing := l.getLocked(idx)
		if existing == nil {
			break
		}
		if existing.Term != entries[i].Term {
			if idx <= commitIndex {
				return ErrTruncateCommitted
			}
			l.store.Entries = l.store.Entries[:idx-1]
			break
		}
		// identical entry already present: idempotent no-op
		idx++
	}
	if i < len(entries) {
		if err := l.appendLocked(entries[i:]); err != nil {
			return err
		}
	} else if len(entries) > 0 {
		// every entry already matched: nothing was truncated or
		// appended; the unchanged log is written out again.
		if err := l.persist(); err != nil {
			return err
		}
	}
	return nil
}
