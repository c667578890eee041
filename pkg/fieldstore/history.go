package fieldstore

import "github.com/google/btree"

const historyDegree = 8

// history holds snapshots ordered by capture timestamp, at most one per
// timestamp.
type history struct {
	tree *btree.BTreeG[*snapshot]
}

func newHistory() *history {
	return &history{
		tree: btree.NewG(historyDegree, func(a, b *snapshot) bool {
			return a.Timestamp < b.Timestamp
		}),
	}
}

// put stores snap, superseding any snapshot captured at the same timestamp.
// It reports whether one was superseded.
func (h *history) put(snap *snapshot) bool {
	_, replaced := h.tree.ReplaceOrInsert(snap)
	return replaced
}

// floor returns the snapshot with the greatest timestamp <= ts.
func (h *history) floor(ts int64) (*snapshot, bool) {
	var found *snapshot
	h.tree.DescendLessOrEqual(&snapshot{Timestamp: ts}, func(s *snapshot) bool {
		found = s
		return false
	})
	return found, found != nil
}

func (h *history) ascend(fn func(*snapshot) bool) {
	h.tree.Ascend(fn)
}

func (h *history) len() int {
	return h.tree.Len()
}
