package raft

import "errors"

var (
	// ErrNotImplemented is returned by the reserved, unspecified snapshot
	// boundary Log.CompactPrefix. See spec.md §1, §9.
	ErrNotImplemented = errors.New("raft: log compaction is not implemented")

	// ErrOutOfOrder is returned by Append when the supplied batch does not
	// start at last_index+1.
	ErrOutOfOrder = errors.New("raft: append batch does not start at last_index+1")

	// ErrTruncateCommitted is returned by TruncateSuffix when asked to
	// remove an entry at or below commit_index. Violating this is a fatal
	// invariant break per spec.md §4.1.
	ErrTruncateCommitted = errors.New("raft: refusing to truncate committed log suffix")

	// ErrDurability wraps any I/O failure while persisting the log or the
	// term/vote cell. Per spec.md §7, this is fatal for the node.
	ErrDurability = errors.New("raft: durable write failed")
)

// MaxAppendEntries bounds the number of entries a single AppendEntries
// batch carries, per spec.md §4.1 / §6.3 max_append_entries (default 100).
const MaxAppendEntries = 100
