package fieldstore

import (
	"sync"

	"github.com/google/uuid"
)

// snapshot is an immutable, time-adjusted copy of a Store captured by Backup.
// Only the SnapshotManager that created it holds its content.
type snapshot struct {
	ID        string
	Timestamp int64
	Keys      int
	Fields    int

	data content
}

// info describes the snapshot without exposing its content.
func (s *snapshot) info() SnapshotInfo {
	return SnapshotInfo{ID: s.ID, Timestamp: s.Timestamp, Keys: s.Keys, Fields: s.Fields}
}

// SnapshotInfo is the public description of a stored snapshot.
type SnapshotInfo struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Keys      int    `json:"keys"`
	Fields    int    `json:"fields"`
}

// SnapshotManager keeps an ordered history of snapshots of one Store and
// restores the store from it.
type SnapshotManager struct {
	mu      sync.Mutex
	store   *Store
	history *history
}

// NewSnapshotManager returns a manager with an empty history for store.
func NewSnapshotManager(store *Store) *SnapshotManager {
	return &SnapshotManager{
		store:   store,
		history: newHistory(),
	}
}

// Backup captures the records live at now, each re-based to now with its
// remaining ttl, and stores the copy under now, superseding any snapshot
// already taken at now. It returns the number of records captured.
func (m *SnapshotManager) Backup(now int64) int {
	data, n := m.store.capture(now)
	snap := &snapshot{
		ID:        uuid.NewString(),
		Timestamp: now,
		Keys:      len(data),
		Fields:    n,
		data:      data,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.history.put(snap)
	return n
}

// Restore replaces the store's entire content with a copy of the snapshot
// whose timestamp is the greatest one not after restoreTimestamp. Restored
// records keep the timestamp and ttl they were captured with. When no such
// snapshot exists the store is left untouched and Restore returns false.
//
// now does not take part in selecting the snapshot.
func (m *SnapshotManager) Restore(now, restoreTimestamp int64) bool {
	m.mu.Lock()
	snap, ok := m.history.floor(restoreTimestamp)
	m.mu.Unlock()
	if !ok {
		return false
	}

	m.store.replace(snap.data.clone())
	return true
}

// Floor describes the snapshot Restore would select for ts.
func (m *SnapshotManager) Floor(ts int64) (SnapshotInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.history.floor(ts)
	if !ok {
		return SnapshotInfo{}, false
	}
	return snap.info(), true
}

// Snapshots lists the history in ascending timestamp order.
func (m *SnapshotManager) Snapshots() []SnapshotInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SnapshotInfo, 0, m.history.len())
	m.history.ascend(func(s *snapshot) bool {
		out = append(out, s.info())
		return true
	})
	return out
}

// Len returns the number of snapshots held.
func (m *SnapshotManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.len()
}
