package fieldstore

// Record is one field's stored value.
type Record struct {
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
	TTL       int64  `json:"ttl"`
}

// Permanent reports whether the record never expires.
func (r Record) Permanent() bool {
	return r.TTL <= 0
}

// elapsed returns now - Timestamp for now >= Timestamp. The difference always
// fits in a uint64 even when it does not fit in an int64.
func (r Record) elapsed(now int64) uint64 {
	return uint64(now) - uint64(r.Timestamp)
}

// Expired reports whether the record is expired as of now, that is
// now >= Timestamp+TTL evaluated without overflow.
func (r Record) Expired(now int64) bool {
	if r.Permanent() || now < r.Timestamp {
		return false
	}
	return r.elapsed(now) >= uint64(r.TTL)
}

// Remaining returns the time-to-live left as of now, never negative.
// Permanent records report 0. A remainder too large for an int64 reports
// EndOfTime.
func (r Record) Remaining(now int64) int64 {
	if r.Permanent() {
		return 0
	}
	if now >= r.Timestamp {
		e := r.elapsed(now)
		if e >= uint64(r.TTL) {
			return 0
		}
		return r.TTL - int64(e)
	}
	ahead := uint64(r.Timestamp) - uint64(now)
	if ahead > uint64(EndOfTime-r.TTL) {
		return EndOfTime
	}
	return r.TTL + int64(ahead)
}

// Entry pairs a field name with its record.
type Entry struct {
	Field string `json:"field"`
	Record
}

// String renders the entry the way scans present it: "field(value)".
func (e Entry) String() string {
	return e.Field + "(" + e.Value + ")"
}
