package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/fieldkv/internal/output"
	"github.com/dotcommander/fieldkv/internal/script"
)

type envelope struct {
	Success   bool              `json:"success"`
	Data      json.RawMessage   `json:"data"`
	Error     string            `json:"error"`
	ErrorCode string            `json:"error_code"`
	Context   map[string]string `json:"error_context"`
}

func decodeLines(t *testing.T, raw string) []envelope {
	t.Helper()
	var out []envelope
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		var e envelope
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e), sc.Text())
		out = append(out, e)
	}
	return out
}

func requireFlagExists(t *testing.T, cmd *cobra.Command, name string) {
	t.Helper()
	f := cmd.Flags().Lookup(name)
	require.NotNil(t, f)
}

func TestNewRunCmd_Flags(t *testing.T) {
	cmd := NewRunCmd()
	require.Equal(t, "run [file]", cmd.Use)
	requireFlagExists(t, cmd, "stop-on-error")
}

func TestNewDemoCmd_Flags(t *testing.T) {
	cmd := NewDemoCmd()
	requireFlagExists(t, cmd, "fast")
	requireFlagExists(t, cmd, "continue-on-error")
}

func TestRunScript_PrintsOneResponsePerCommand(t *testing.T) {
	var buf bytes.Buffer
	in := strings.NewReader("# setup\nset A B 1\nget A B\nscan A\n")

	err := runScript(context.Background(), script.NewSession(), in, output.Config{Writer: &buf}, false)
	require.NoError(t, err)

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 3)
	for _, l := range lines {
		require.True(t, l.Success)
	}

	var get struct {
		Line  int           `json:"line"`
		Verb  string        `json:"verb"`
		Value script.Lookup `json:"value"`
	}
	require.NoError(t, json.Unmarshal(lines[1].Data, &get))
	assert.Equal(t, 3, get.Line)
	assert.Equal(t, "get", get.Verb)
	assert.Equal(t, script.Lookup{Found: true, Value: "1"}, get.Value)

	var scan struct {
		Value []string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(lines[2].Data, &scan))
	assert.Equal(t, []string{"B(1)"}, scan.Value)
}

func TestRunScript_FailureKeepsGoingButFails(t *testing.T) {
	var buf bytes.Buffer
	in := strings.NewReader("bogus A\nset A B 1\n")

	err := runScript(context.Background(), script.NewSession(), in, output.Config{Writer: &buf}, false)
	require.Error(t, err)
	require.IsType(t, printedError{}, err)

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 2)
	assert.False(t, lines[0].Success)
	assert.Equal(t, script.CodeUnknownVerb, lines[0].ErrorCode)
	assert.Equal(t, "1", lines[0].Context["line"])
	assert.True(t, lines[1].Success)
}

func TestRunScript_StopOnError(t *testing.T) {
	var buf bytes.Buffer
	s := script.NewSession()
	in := strings.NewReader("set_at_with_ttl A B C 1 -1\nset A B 1\n")

	err := runScript(context.Background(), s, in, output.Config{Writer: &buf}, true)
	require.Error(t, err)
	require.EqualError(t, err, "error already printed")

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 1)
	assert.Equal(t, script.CodeInvalidArgument, lines[0].ErrorCode)
	assert.Equal(t, 0, s.Store().Len())
}

func TestRunCmd_ReadsFileArgument(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "level4.kv")
	content := strings.Join([]string{
		"set_at_with_ttl D Z 500 10 20",
		"backup 15",
		"set_at D W 600 16",
		"restore 20 15",
		"scan_at D 20",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	root := newRootCmd("test", new(slog.LevelVar))
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"run", path})
	require.NoError(t, root.Execute())

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 5)

	var scan struct {
		Value []string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(lines[4].Data, &scan))
	require.Equal(t, []string{"Z(500)"}, scan.Value)
}

func TestRunCmd_ReadsStdin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRootCmd("test", new(slog.LevelVar))

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetIn(strings.NewReader("set A B 1\nbackup 5\n"))
	root.SetArgs([]string{"run", "-"})
	require.NoError(t, root.Execute())

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 2)

	var backup struct {
		Value int `json:"value"`
	}
	require.NoError(t, json.Unmarshal(lines[1].Data, &backup))
	require.Equal(t, 1, backup.Value)
}

func TestRunCmd_MissingFileReturnsPrintedError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := NewRunCmd()

	err := cmd.RunE(cmd, []string{filepath.Join(t.TempDir(), "missing.kv")})
	require.Error(t, err)
	require.EqualError(t, err, "error already printed")
	require.IsType(t, printedError{}, err)
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRootCmd("test", new(slog.LevelVar))
	root.SetOut(&bytes.Buffer{})
	root.SetIn(strings.NewReader(""))
	root.SetArgs([]string{"--log-level", "loud", "run"})

	err := root.Execute()
	require.Error(t, err)
	require.IsType(t, printedError{}, err)
}

func TestRootCmd_LogLevelFlagSetsLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	level := new(slog.LevelVar)
	root := newRootCmd("test", level)
	root.SetOut(&bytes.Buffer{})
	root.SetIn(strings.NewReader(""))
	root.SetArgs([]string{"--log-level", "debug", "run"})

	require.NoError(t, root.Execute())
	require.Equal(t, slog.LevelDebug, level.Level())
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	root := newRootCmd("test", new(slog.LevelVar))
	require.NotNil(t, root.PersistentFlags().Lookup("pretty"))
	require.NotNil(t, root.PersistentFlags().Lookup("log-level"))
	requireFlagExists(t, root, "version")
}

func TestDemoCmd_FastRunPasses(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FIELDKV_COLOR", "never")
	root := newRootCmd("test", new(slog.LevelVar))

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"demo", "--fast"})
	require.NoError(t, root.Execute())
	require.Contains(t, buf.String(), "0 failed")
}
