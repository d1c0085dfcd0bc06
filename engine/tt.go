package engine

import "github.com/Pekorus/Phoenix-Chess-Engine/board"

// Bound classifies how a TransEntry's value relates to the search window
// that produced it.
type Bound int

const (
	Exact Bound = iota
	LowerBound
	UpperBound
)

// TransEntry is the spec's TransTableEntry: a cached search result for one
// Zobrist key.
type TransEntry struct {
	Key      uint64
	Value    int
	Depth    int
	BestMove board.Move
	Bound    Bound
	stale    bool
}

// TranspositionTable is a closed-world, fixed-capacity, Zobrist-keyed store.
// Single-threaded per spec.md §4.3 — no locking, no CAS gate; the teacher's
// deepReplaceTransTable guards every bucket access with a CAS spinlock
// because several search goroutines probe concurrently, a condition
// spec.md §5 rules out for this design.
type TranspositionTable struct {
	entries []TransEntry
	size    uint64
	filled  int
}

// NewTranspositionTable allocates a table of capacity+1 entries, bucket
// index = key mod (capacity+1) —
// the Java original's ChessTransTable sizes its backing map the same way
// (`mapSize = entryCount+1`, `zobrist % mapSize`), one slot wider than the
// requested capacity rather than an exact match.
func NewTranspositionTable(capacity int) *TranspositionTable {
	if capacity < 1 {
		capacity = 1
	}
	size := capacity + 1
	tt := &TranspositionTable{
		entries: make([]TransEntry, size),
		size:    uint64(size),
	}
	tt.Clear()
	return tt
}

func (tt *TranspositionTable) bucket(key uint64) *TransEntry {
	return &tt.entries[key%tt.size]
}

// Probe returns the entry stored at key's bucket, iff its stored key
// matches (collisions across different positions are suppressed here,
// per spec.md §4.3).
func (tt *TranspositionTable) Probe(key uint64) (TransEntry, bool) {
	e := tt.bucket(key)
	if e.stale || e.Key != key {
		return TransEntry{}, false
	}
	return *e, true
}

// Insert stores entry, replacing the bucket's occupant iff it is stale,
// shallower-or-equal in depth, or holds the same key (a same-position
// update is always allowed), per spec.md §4.3.
func (tt *TranspositionTable) Insert(entry TransEntry) {
	e := tt.bucket(entry.Key)
	if e.stale || e.Key == entry.Key || e.Depth <= entry.Depth {
		if e.stale {
			tt.filled++
		}
		*e = entry
	}
}

// Clear empties the table. Invoked between move requests.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TransEntry{stale: true}
	}
	tt.filled = 0
}

// FillPercent reports the table's occupancy as a percentage, used by
// AnalyticsReport.TTFill.
func (tt *TranspositionTable) FillPercent() int {
	return tt.filled * 100 / len(tt.entries)
}
