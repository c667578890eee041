package script

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dotcommander/fieldkv/pkg/fieldstore"
)

// Lookup is the value of a get or get_at command.
type Lookup struct {
	Found bool   `json:"found"`
	Value string `json:"value"`
}

type handler func(s *Session, args []string) (any, error)

type verb struct {
	name     string
	args     []string
	mutating bool
	summary  string
	run      handler
}

func (v verb) usage() string {
	if len(v.args) == 0 {
		return v.name
	}
	return v.name + " " + strings.Join(v.args, " ")
}

// VerbInfo describes a verb for schema output.
type VerbInfo struct {
	Name     string   `json:"name"`
	Args     []string `json:"args"`
	Mutating bool     `json:"mutating"`
	Summary  string   `json:"summary"`
}

//nolint:gochecknoglobals // static dispatch table
var verbs = map[string]verb{
	"set": {
		name: "set", args: []string{"key", "field", "value"}, mutating: true,
		summary: "Store a permanent value written at timestamp 0",
		run: func(s *Session, a []string) (any, error) {
			s.store.Set(a[0], a[1], a[2])
			return nil, nil
		},
	},
	"set_at": {
		name: "set_at", args: []string{"key", "field", "value", "timestamp"}, mutating: true,
		summary: "Store a permanent value stamped at timestamp",
		run: func(s *Session, a []string) (any, error) {
			ts, err := parseInt("set_at", "timestamp", a[3])
			if err != nil {
				return nil, err
			}
			s.store.Set(a[0], a[1], a[2], fieldstore.At(ts))
			return nil, nil
		},
	},
	"set_at_with_ttl": {
		name: "set_at_with_ttl", args: []string{"key", "field", "value", "timestamp", "ttl"}, mutating: true,
		summary: "Store a value that expires ttl units after timestamp (0 means permanent)",
		run: func(s *Session, a []string) (any, error) {
			ts, err := parseInt("set_at_with_ttl", "timestamp", a[3])
			if err != nil {
				return nil, err
			}
			ttl, err := parseInt("set_at_with_ttl", "ttl", a[4])
			if err != nil {
				return nil, err
			}
			if ttl < 0 {
				return nil, &CommandError{Code: CodeInvalidArgument, Verb: "set_at_with_ttl", Arg: "ttl", Message: "ttl must not be negative"}
			}
			s.store.Set(a[0], a[1], a[2], fieldstore.At(ts), fieldstore.WithTTL(ttl))
			return nil, nil
		},
	},
	"get": {
		name: "get", args: []string{"key", "field"},
		summary: "Read a field at the end of time",
		run: func(s *Session, a []string) (any, error) {
			v, ok := s.store.Get(a[0], a[1])
			return Lookup{Found: ok, Value: v}, nil
		},
	},
	"get_at": {
		name: "get_at", args: []string{"key", "field", "timestamp"},
		summary: "Read a field as seen at timestamp",
		run: func(s *Session, a []string) (any, error) {
			ts, err := parseInt("get_at", "timestamp", a[2])
			if err != nil {
				return nil, err
			}
			v, ok := s.store.GetAt(a[0], a[1], ts)
			return Lookup{Found: ok, Value: v}, nil
		},
	},
	"delete": {
		name: "delete", args: []string{"key", "field"}, mutating: true,
		summary: "Remove a live field at the end of time",
		run: func(s *Session, a []string) (any, error) {
			return s.store.Delete(a[0], a[1]), nil
		},
	},
	"delete_at": {
		name: "delete_at", args: []string{"key", "field", "timestamp"}, mutating: true,
		summary: "Remove a field that is live at timestamp",
		run: func(s *Session, a []string) (any, error) {
			ts, err := parseInt("delete_at", "timestamp", a[2])
			if err != nil {
				return nil, err
			}
			return s.store.DeleteAt(a[0], a[1], ts), nil
		},
	},
	"scan": {
		name: "scan", args: []string{"key"},
		summary: "List live fields of a key as field(value), sorted by field",
		run: func(s *Session, a []string) (any, error) {
			return s.store.Scan(a[0]), nil
		},
	},
	"scan_at": {
		name: "scan_at", args: []string{"key", "timestamp"},
		summary: "List fields of a key live at timestamp",
		run: func(s *Session, a []string) (any, error) {
			ts, err := parseInt("scan_at", "timestamp", a[1])
			if err != nil {
				return nil, err
			}
			return s.store.ScanAt(a[0], ts), nil
		},
	},
	"scan_by_prefix": {
		name: "scan_by_prefix", args: []string{"key", "prefix"},
		summary: "List live fields of a key whose name starts with prefix",
		run: func(s *Session, a []string) (any, error) {
			return s.store.ScanByPrefix(a[0], a[1]), nil
		},
	},
	"scan_by_prefix_at": {
		name: "scan_by_prefix_at", args: []string{"key", "prefix", "timestamp"},
		summary: "List fields starting with prefix that are live at timestamp",
		run: func(s *Session, a []string) (any, error) {
			ts, err := parseInt("scan_by_prefix_at", "timestamp", a[2])
			if err != nil {
				return nil, err
			}
			return s.store.ScanByPrefixAt(a[0], a[1], ts), nil
		},
	},
	"backup": {
		name: "backup", args: []string{"timestamp"}, mutating: true,
		summary: "Snapshot records live at timestamp; returns the record count",
		run: func(s *Session, a []string) (any, error) {
			ts, err := parseInt("backup", "timestamp", a[0])
			if err != nil {
				return nil, err
			}
			return s.snapshots.Backup(ts), nil
		},
	},
	"restore": {
		name: "restore", args: []string{"timestamp", "restore_timestamp"}, mutating: true,
		summary: "Replace the store with the latest snapshot taken at or before restore_timestamp",
		run: func(s *Session, a []string) (any, error) {
			now, err := parseInt("restore", "timestamp", a[0])
			if err != nil {
				return nil, err
			}
			at, err := parseInt("restore", "restore_timestamp", a[1])
			if err != nil {
				return nil, err
			}
			return s.snapshots.Restore(now, at), nil
		},
	},
	"compact": {
		name: "compact", args: []string{"timestamp"}, mutating: true,
		summary: "Drop records expired at timestamp; returns the number removed",
		run: func(s *Session, a []string) (any, error) {
			ts, err := parseInt("compact", "timestamp", a[0])
			if err != nil {
				return nil, err
			}
			return s.store.Compact(ts), nil
		},
	},
	"snapshots": {
		name: "snapshots",
		summary: "List stored snapshots ordered by timestamp",
		run: func(s *Session, _ []string) (any, error) {
			return s.snapshots.Snapshots(), nil
		},
	},
}

// Verbs returns the verb table sorted by name.
func Verbs() []VerbInfo {
	out := make([]VerbInfo, 0, len(verbs))
	for _, v := range verbs {
		args := v.args
		if args == nil {
			args = []string{}
		}
		out = append(out, VerbInfo{Name: v.name, Args: args, Mutating: v.mutating, Summary: v.summary})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func parseInt(verbName, arg, raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &CommandError{
			Code:    CodeInvalidArgument,
			Verb:    verbName,
			Arg:     arg,
			Message: arg + " must be an integer, got " + strconv.Quote(raw),
		}
	}
	return n, nil
}
