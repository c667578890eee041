package fieldstore

// Compact physically removes every record expired as of now and drops keys
// left without fields. It returns the number of records removed.
//
// Compaction is indistinguishable from lazy filtering as long as the caller's
// timestamps never go backwards: a record expired at now stays expired at
// every later time. A caller that queries a time before now after compacting
// may find records absent that were live then.
func (s *Store) Compact(now int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, fields := range s.data {
		for field, rec := range fields {
			if rec.Expired(now) {
				delete(fields, field)
				removed++
			}
		}
		if len(fields) == 0 {
			delete(s.data, key)
		}
	}
	return removed
}
