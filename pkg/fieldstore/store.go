// Package fieldstore is an embeddable two-level key-value store.
//
// Each key holds a set of fields, and each field holds a Record: a value, the
// logical timestamp it was written at, and an optional time-to-live. Time is
// never read from a clock; every operation that cares about expiry takes the
// caller's notion of "now" as an int64. Expired records are filtered lazily on
// read rather than evicted in the background.
//
// A SnapshotManager keeps an ordered history of filtered copies of a Store and
// can restore the store to the copy captured at or before a given timestamp.
package fieldstore

import "math"

// EndOfTime is the largest representable logical timestamp. The plain Get,
// Delete, Scan and ScanByPrefix forms evaluate expiry as of EndOfTime.
const EndOfTime int64 = math.MaxInt64

type setOptions struct {
	timestamp int64
	ttl       int64
}

// Option configures a Set operation.
type Option func(*setOptions)

// At sets the logical timestamp the record is written at. Defaults to 0.
func At(ts int64) Option {
	return func(o *setOptions) {
		o.timestamp = ts
	}
}

// WithTTL sets a time-to-live on the record. Zero means the record never
// expires; a negative ttl is clamped to zero.
func WithTTL(ttl int64) Option {
	return func(o *setOptions) {
		if ttl < 0 {
			ttl = 0
		}
		o.ttl = ttl
	}
}
