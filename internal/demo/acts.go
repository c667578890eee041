package demo

// DemoContext holds shared state passed between steps.
type DemoContext struct {
	SnapshotID string
}

// StepFunc is a function that runs a single demo step.
type StepFunc func(r *Runner, ctx *DemoContext) error

// Step represents a single named step within an act.
type Step struct {
	Name    string
	Fn      StepFunc
	Insight string
}

// Act represents a named act with narration and steps.
type Act struct {
	Number    int
	Name      string
	Narration []string
	Steps     []Step
}

// BuildActs returns all acts with their steps. Every act runs against the
// same session, so later levels see the records earlier levels wrote.
func BuildActs() []Act {
	return []Act{
		{
			Number: 1,
			Name:   "Basic Operations",
			Narration: []string{
				"Write, read and delete fields of a record.",
				"Plain writes are permanent and stamped at timestamp 0; plain reads look from the end of time.",
			},
			Steps: []Step{
				{Name: "write_fields", Fn: stepWriteFields, Insight: "A key holds any number of fields; each write replaces the field's previous value."},
				{Name: "read_field", Fn: stepReadField},
				{Name: "delete_field", Fn: stepDeleteField, Insight: "Delete reports whether a live field was removed."},
				{Name: "read_deleted_field", Fn: stepReadDeletedField},
			},
		},
		{
			Number: 2,
			Name:   "Scanning Fields",
			Narration: []string{
				"List every live field of a key, or only those whose name starts with a prefix.",
				"Results are sorted by field name and rendered as field(value).",
			},
			Steps: []Step{
				{Name: "write_fields", Fn: stepWriteScanFields},
				{Name: "scan_key", Fn: stepScanKey, Insight: "Scan order is byte order of the field names."},
				{Name: "scan_by_prefix", Fn: stepScanByPrefix},
			},
		},
		{
			Number: 3,
			Name:   "TTL Expiration",
			Narration: []string{
				"Records written with a ttl are visible from their timestamp until timestamp+ttl.",
				"Every read takes the caller's notion of now.",
			},
			Steps: []Step{
				{Name: "write_expiring_fields", Fn: stepWriteExpiring},
				{Name: "read_before_expiry", Fn: stepReadBeforeExpiry},
				{Name: "read_after_expiry", Fn: stepReadAfterExpiry, Insight: "At t=12 field X (written at 1 with ttl 10) is gone; nothing was deleted."},
				{Name: "scan_before_expiry", Fn: stepScanBeforeExpiry},
				{Name: "scan_after_expiry", Fn: stepScanAfterExpiry},
			},
		},
		{
			Number: 4,
			Name:   "Backup & Restore",
			Narration: []string{
				"Backup captures the records live at a timestamp, re-based to that timestamp with their remaining ttl.",
				"Restore replaces the store with the latest snapshot taken at or before the requested time.",
			},
			Steps: []Step{
				{Name: "write_field_with_ttl", Fn: stepWriteBackupField},
				{Name: "backup", Fn: stepBackup, Insight: "Four records survive at t=15: A.field2, B.BC, B.BD and D.Z. C's fields expired before the backup."},
				{Name: "list_snapshots", Fn: stepListSnapshots},
				{Name: "write_after_backup", Fn: stepWriteAfterBackup},
				{Name: "restore", Fn: stepRestore, Insight: "The store now holds exactly the snapshot's records; D.W was written after the backup and is gone."},
				{Name: "scan_restored", Fn: stepScanRestored, Insight: "Z had 15 units left at t=15, so it lives until t=30."},
				{Name: "restore_before_history", Fn: stepRestoreBeforeHistory},
			},
		},
	}
}
