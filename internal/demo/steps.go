package demo

import (
	"fmt"

	"github.com/dotcommander/fieldkv/internal/script"
	"github.com/dotcommander/fieldkv/pkg/fieldstore"
)

func found(v string) script.Lookup { return script.Lookup{Found: true, Value: v} }

var absent = script.Lookup{}

func runAll(r *Runner, lines ...string) error {
	for _, line := range lines {
		if _, err := r.exec(line); err != nil {
			return err
		}
	}
	return nil
}

// Level 1: Basic Operations

func stepWriteFields(r *Runner, _ *DemoContext) error {
	return runAll(r, "set A field1 value1", "set A field2 value2")
}

func stepReadField(r *Runner, _ *DemoContext) error {
	return r.expect("get A field1", found("value1"))
}

func stepDeleteField(r *Runner, _ *DemoContext) error {
	return r.expect("delete A field1", true)
}

func stepReadDeletedField(r *Runner, _ *DemoContext) error {
	return r.expect("get A field1", absent)
}

// Level 2: Scanning Fields

func stepWriteScanFields(r *Runner, _ *DemoContext) error {
	return runAll(r, "set B BC E", "set B BD F")
}

func stepScanKey(r *Runner, _ *DemoContext) error {
	return r.expect("scan B", []string{"BC(E)", "BD(F)"})
}

func stepScanByPrefix(r *Runner, _ *DemoContext) error {
	return r.expect("scan_by_prefix B BC", []string{"BC(E)"})
}

// Level 3: TTL Expiration

func stepWriteExpiring(r *Runner, _ *DemoContext) error {
	return runAll(r,
		"set_at_with_ttl C X 100 1 10",
		"set_at_with_ttl C Y 200 5 10",
	)
}

func stepReadBeforeExpiry(r *Runner, _ *DemoContext) error {
	return r.expect("get_at C X 9", found("100"))
}

func stepReadAfterExpiry(r *Runner, _ *DemoContext) error {
	return r.expect("get_at C X 12", absent)
}

func stepScanBeforeExpiry(r *Runner, _ *DemoContext) error {
	return r.expect("scan_at C 9", []string{"X(100)", "Y(200)"})
}

func stepScanAfterExpiry(r *Runner, _ *DemoContext) error {
	return r.expect("scan_at C 12", []string{"Y(200)"})
}

// Level 4: Backup & Restore

func stepWriteBackupField(r *Runner, _ *DemoContext) error {
	return runAll(r, "set_at_with_ttl D Z 500 10 20")
}

func stepBackup(r *Runner, _ *DemoContext) error {
	return r.expect("backup 15", 4)
}

func stepListSnapshots(r *Runner, ctx *DemoContext) error {
	v, err := r.exec("snapshots")
	if err != nil {
		return err
	}
	snaps, ok := v.([]fieldstore.SnapshotInfo)
	if !ok || len(snaps) != 1 {
		return fmt.Errorf("expected exactly one snapshot, got %#v", v)
	}
	if snaps[0].Timestamp != 15 || snaps[0].Fields != 4 {
		return fmt.Errorf("unexpected snapshot %+v", snaps[0])
	}
	ctx.SnapshotID = snaps[0].ID
	r.printDetail("snapshot %s at t=%d: %d keys, %d fields", snaps[0].ID, snaps[0].Timestamp, snaps[0].Keys, snaps[0].Fields)
	return nil
}

func stepWriteAfterBackup(r *Runner, _ *DemoContext) error {
	return runAll(r, "set_at D W 600 16")
}

func stepRestore(r *Runner, ctx *DemoContext) error {
	if err := r.expect("restore 20 15", true); err != nil {
		return err
	}
	info, ok := r.session.Snapshots().Floor(15)
	if !ok || info.ID != ctx.SnapshotID {
		return fmt.Errorf("restored from %q, want snapshot %q", info.ID, ctx.SnapshotID)
	}
	return nil
}

func stepScanRestored(r *Runner, _ *DemoContext) error {
	return r.expect("scan_at D 20", []string{"Z(500)"})
}

func stepRestoreBeforeHistory(r *Runner, _ *DemoContext) error {
	return r.expect("restore 20 5", false)
}
