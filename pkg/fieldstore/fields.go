package fieldstore

import (
	"sort"
	"strings"
	"sync"
)

// content is the key -> field -> record mapping. A key is never present with
// an empty field map.
type content map[string]map[string]Record

// clone returns a deep copy. Records are values, so copying the inner maps is
// enough.
func (c content) clone() content {
	out := make(content, len(c))
	for key, fields := range c {
		cp := make(map[string]Record, len(fields))
		for field, rec := range fields {
			cp[field] = rec
		}
		out[key] = cp
	}
	return out
}

func (c content) fieldCount() int {
	n := 0
	for _, fields := range c {
		n += len(fields)
	}
	return n
}

// Store is the live key -> field -> record mapping. The zero value is not
// usable; construct with New. All methods are safe for concurrent use and each
// call is atomic with respect to the others.
type Store struct {
	mu   sync.Mutex
	data content
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(content)}
}

// Set inserts or overwrites the record for key/field. Without options the
// record is written at timestamp 0 and never expires.
func (s *Store) Set(key, field, value string, opts ...Option) {
	o := &setOptions{}
	for _, opt := range opts {
		opt(o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.data[key]
	if !ok {
		fields = make(map[string]Record)
		s.data[key] = fields
	}
	fields[field] = Record{Value: value, Timestamp: o.timestamp, TTL: o.ttl}
}

// Get returns the field's value as of EndOfTime.
func (s *Store) Get(key, field string) (string, bool) {
	return s.GetAt(key, field, EndOfTime)
}

// GetAt returns the field's value if it exists and is not expired as of now.
func (s *Store) GetAt(key, field string, now int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[key][field]
	if !ok || rec.Expired(now) {
		return "", false
	}
	return rec.Value, true
}

// Delete removes the field as of EndOfTime.
func (s *Store) Delete(key, field string) bool {
	return s.DeleteAt(key, field, EndOfTime)
}

// DeleteAt removes the field's record if it is present and not expired as of
// now, dropping the key once its last field is gone. It reports whether a
// record was removed. Other expired records under the key are left in place.
func (s *Store) DeleteAt(key, field string, now int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.data[key]
	if !ok {
		return false
	}
	rec, ok := fields[field]
	if !ok || rec.Expired(now) {
		return false
	}

	delete(fields, field)
	if len(fields) == 0 {
		delete(s.data, key)
	}
	return true
}

// Scan renders every field under key as of EndOfTime.
func (s *Store) Scan(key string) []string {
	return s.ScanAt(key, EndOfTime)
}

// ScanAt renders the live fields under key as "field(value)", sorted by field
// name. An absent key yields an empty slice.
func (s *Store) ScanAt(key string, now int64) []string {
	return render(s.EntriesAt(key, "", now))
}

// ScanByPrefix is ScanByPrefixAt as of EndOfTime.
func (s *Store) ScanByPrefix(key, prefix string) []string {
	return s.ScanByPrefixAt(key, prefix, EndOfTime)
}

// ScanByPrefixAt is ScanAt restricted to fields whose name starts with prefix.
// An empty prefix matches every field.
func (s *Store) ScanByPrefixAt(key, prefix string, now int64) []string {
	return render(s.EntriesAt(key, prefix, now))
}

// EntriesAt returns the live entries under key whose field starts with prefix,
// sorted by field name.
func (s *Store) EntriesAt(key, prefix string, now int64) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := s.data[key]
	entries := make([]Entry, 0, len(fields))
	for field, rec := range fields {
		if !strings.HasPrefix(field, prefix) || rec.Expired(now) {
			continue
		}
		entries = append(entries, Entry{Field: field, Record: rec})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Field < entries[j].Field
	})
	return entries
}

// Len returns the number of records physically held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.fieldCount()
}

// KeyCount returns the number of keys physically held.
func (s *Store) KeyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// capture returns a deep copy holding only the records live at now, each
// re-based to now with its remaining ttl. Permanent records are always kept.
// Keys left without fields are omitted. The second result is the number of
// records captured.
func (s *Store) capture(now int64) (content, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(content)
	n := 0
	for key, fields := range s.data {
		kept := make(map[string]Record)
		for field, rec := range fields {
			if rec.Permanent() {
				kept[field] = Record{Value: rec.Value, Timestamp: now}
				continue
			}
			remaining := rec.Remaining(now)
			if remaining <= 0 {
				continue
			}
			kept[field] = Record{Value: rec.Value, Timestamp: now, TTL: remaining}
		}
		if len(kept) == 0 {
			continue
		}
		out[key] = kept
		n += len(kept)
	}
	return out, n
}

// replace swaps the live content for c. The caller must not retain c.
func (s *Store) replace(c content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = c
}

func render(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}
