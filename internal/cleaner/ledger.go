package cleaner

import (
	"sync"

	"github.com/Pamacea/shadow-secret/internal/injector"
)

// Ledger is a concurrency-safe registry of file snapshots keyed by path.
// It is the single source of truth for which files still need restoring.
type Ledger struct {
	mu        sync.Mutex
	snapshots map[string]*injector.Snapshot
}

func NewLedger() *Ledger {
	return &Ledger{
		snapshots: make(map[string]*injector.Snapshot),
	}
}

// Register records a snapshot for its path. Registering the same path
// again replaces the previous snapshot rather than stacking entries, so
// a restore always writes the state captured by the latest injection.
func (l *Ledger) Register(snapshot *injector.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshots[snapshot.Path()] = snapshot
}

// Drain removes and returns all registered snapshots. After Drain the
// ledger is empty, so concurrent restore paths cannot double-restore the
// same files.
func (l *Ledger) Drain() []*injector.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	drained := make([]*injector.Snapshot, 0, len(l.snapshots))
	for _, snapshot := range l.snapshots {
		drained = append(drained, snapshot)
	}
	l.snapshots = make(map[string]*injector.Snapshot)
	return drained
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.snapshots)
}

func (l *Ledger) IsEmpty() bool {
	return l.Len() == 0
}
