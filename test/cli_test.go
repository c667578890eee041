// Package test runs the fieldkv binary end to end: scripts go in on stdin or
// as files and JSON responses come back one per line.
package test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fieldkvTestBin is the path to the built fieldkv binary for integration tests.
var fieldkvTestBin string

// TestMain builds the fieldkv binary once before running all tests in this package.
func TestMain(m *testing.M) {
	cwd, _ := os.Getwd()
	repoRoot := cwd
	if strings.HasSuffix(cwd, string(os.PathSeparator)+"test") {
		repoRoot = filepath.Join(cwd, "..")
	}

	binDir, err := os.MkdirTemp("", "fieldkv-test-bin-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: create bin dir: %v\n", err)
		os.Exit(1)
	}

	binPath := filepath.Join(binDir, "fieldkv")
	buildCmd := exec.Command("go", "build", "-o", binPath, "./cmd/fieldkv")
	buildCmd.Dir = repoRoot
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to build fieldkv binary: %v\n", err)
		os.Exit(1)
	}
	fieldkvTestBin = binPath

	code := m.Run()

	_ = os.RemoveAll(binDir)
	os.Exit(code)
}

type response struct {
	Success   bool              `json:"success"`
	Data      json.RawMessage   `json:"data"`
	Error     string            `json:"error"`
	ErrorCode string            `json:"error_code"`
	Context   map[string]string `json:"error_context"`
	Action    string            `json:"suggested_action"`
}

// harness isolates HOME so the binary never reads a developer's config.
type harness struct {
	t    *testing.T
	home string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, home: t.TempDir()}
}

// fieldkv runs the binary with stdin and returns stdout and the exit code.
// stderr (log lines) is discarded.
func (h *harness) fieldkv(stdin string, args ...string) (string, int) {
	h.t.Helper()
	cmd := exec.Command(fieldkvTestBin, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+h.home,
		"FIELDKV_PRETTY_JSON=",
		"FIELDKV_LOG_LEVEL=error",
		"FIELDKV_COLOR=never",
	)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return stdout.String(), 0
	case errors.As(err, &exitErr):
		return stdout.String(), exitErr.ExitCode()
	default:
		require.NoError(h.t, err)
		return "", -1
	}
}

func parseResponses(t *testing.T, out string) []response {
	t.Helper()
	var resps []response
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var r response
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r), "failed to parse JSON: %s", sc.Text())
		resps = append(resps, r)
	}
	return resps
}

func value(t *testing.T, r response, into any) {
	t.Helper()
	require.True(t, r.Success, "command failed: %s", r.Error)
	var wrapper struct {
		Value json.RawMessage `json:"value"`
	}
	require.NoError(t, json.Unmarshal(r.Data, &wrapper))
	require.NoError(t, json.Unmarshal(wrapper.Value, into))
}

func TestFourLevelsOnOneStore(t *testing.T) {
	h := newHarness(t)
	script := `
# Level 1
set A field1 value1
set A field2 value2
get A field1
delete A field1
get A field1

# Level 2
set B BC E
set B BD F
scan B
scan_by_prefix B BC

# Level 3
set_at_with_ttl C X 100 1 10
set_at_with_ttl C Y 200 5 10
get_at C X 9
get_at C X 12
scan_at C 9
scan_at C 12

# Level 4
set_at_with_ttl D Z 500 10 20
backup 15
set_at D W 600 16
restore 20 15
scan_at D 20
`
	out, code := h.fieldkv(script, "run")
	require.Equal(t, 0, code, out)

	resps := parseResponses(t, out)
	require.Len(t, resps, 20)

	type lookup struct {
		Found bool   `json:"found"`
		Value string `json:"value"`
	}
	var l lookup
	value(t, resps[2], &l)
	require.Equal(t, lookup{Found: true, Value: "value1"}, l)

	var deleted bool
	value(t, resps[3], &deleted)
	require.True(t, deleted)

	l = lookup{}
	value(t, resps[4], &l)
	require.False(t, l.Found)

	var scan []string
	value(t, resps[7], &scan)
	require.Equal(t, []string{"BC(E)", "BD(F)"}, scan)
	value(t, resps[8], &scan)
	require.Equal(t, []string{"BC(E)"}, scan)

	l = lookup{}
	value(t, resps[11], &l)
	require.Equal(t, "100", l.Value)
	l = lookup{}
	value(t, resps[12], &l)
	require.False(t, l.Found)
	value(t, resps[13], &scan)
	require.Equal(t, []string{"X(100)", "Y(200)"}, scan)
	value(t, resps[14], &scan)
	require.Equal(t, []string{"Y(200)"}, scan)

	var captured int
	value(t, resps[16], &captured)
	require.Equal(t, 4, captured)

	var restored bool
	value(t, resps[18], &restored)
	require.True(t, restored)

	value(t, resps[19], &scan)
	require.Equal(t, []string{"Z(500)"}, scan)
}

func TestRunReportsErrorsWithCodes(t *testing.T) {
	h := newHarness(t)

	out, code := h.fieldkv("frobnicate\nset_at_with_ttl A B C 1 -3\nget A\nset A B 1\n", "run")
	require.Equal(t, 1, code)

	resps := parseResponses(t, out)
	require.Len(t, resps, 4)
	require.Equal(t, "UNKNOWN_VERB", resps[0].ErrorCode)
	require.Equal(t, "INVALID_ARGUMENT", resps[1].ErrorCode)
	require.Equal(t, "ttl", resps[1].Context["arg"])
	require.Equal(t, "INVALID_COMMAND", resps[2].ErrorCode)
	require.Contains(t, resps[2].Action, "get key field")
	require.True(t, resps[3].Success)
}

func TestRunStopOnError(t *testing.T) {
	h := newHarness(t)

	out, code := h.fieldkv("set A B 1\nbogus\nset A C 2\n", "run", "--stop-on-error")
	require.Equal(t, 1, code)
	require.Len(t, parseResponses(t, out), 2)
}

func TestRunFromFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "script.kv")
	require.NoError(t, os.WriteFile(path, []byte("set \"my key\" f \"a b\"\nscan \"my key\"\n"), 0o600))

	out, code := h.fieldkv("", "run", path)
	require.Equal(t, 0, code, out)

	resps := parseResponses(t, out)
	require.Len(t, resps, 2)
	var scan []string
	value(t, resps[1], &scan)
	require.Equal(t, []string{"f(a b)"}, scan)
}

func TestVersionAndSchema(t *testing.T) {
	h := newHarness(t)

	out, code := h.fieldkv("", "--version")
	require.Equal(t, 0, code)
	resps := parseResponses(t, out)
	require.Len(t, resps, 1)
	require.True(t, resps[0].Success)

	out, code = h.fieldkv("", "schema")
	require.Equal(t, 0, code)
	resps = parseResponses(t, out)
	require.Len(t, resps, 1)

	var data struct {
		Verbs []struct {
			Name string `json:"name"`
		} `json:"verbs"`
	}
	require.NoError(t, json.Unmarshal(resps[0].Data, &data))
	require.Len(t, data.Verbs, 15)
}

func TestDemoFast(t *testing.T) {
	h := newHarness(t)

	out, code := h.fieldkv("", "demo", "--fast")
	require.Equal(t, 0, code, out)
	require.Contains(t, out, "Level 4: Backup & Restore")
	require.Contains(t, out, "0 failed")
}

func TestConfigCreatedOnFirstRun(t *testing.T) {
	h := newHarness(t)

	_, code := h.fieldkv("", "run")
	require.Equal(t, 0, code)

	_, err := os.Stat(filepath.Join(h.home, ".config", "fieldkv", "config.yaml"))
	require.NoError(t, err)
}
