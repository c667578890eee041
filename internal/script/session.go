// Package script executes line-oriented commands against a field store and
// its snapshot history.
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dotcommander/fieldkv/pkg/fieldstore"
)

// Result is the outcome of one executed line.
type Result struct {
	Line    int    `json:"line,omitempty"`
	Command string `json:"command"`
	Verb    string `json:"verb,omitempty"`
	Value   any    `json:"value"`
}

// Session owns a store and the snapshot manager bound to it. Commands run
// through one session observe each other's effects.
type Session struct {
	store     *fieldstore.Store
	snapshots *fieldstore.SnapshotManager
	logger    *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for per-command debug output.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates a session over an empty store.
func NewSession(opts ...SessionOption) *Session {
	store := fieldstore.New()
	s := &Session{
		store:     store,
		snapshots: fieldstore.NewSnapshotManager(store),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the session's store.
func (s *Session) Store() *fieldstore.Store { return s.store }

// Snapshots returns the session's snapshot manager.
func (s *Session) Snapshots() *fieldstore.SnapshotManager { return s.snapshots }

// ExecLine parses and executes a single line. Blank and comment lines
// return ErrSkip.
func (s *Session) ExecLine(line string) (Result, error) {
	cmd, err := Parse(line)
	if err != nil {
		return Result{Command: cmd.Raw}, err
	}
	return s.Exec(cmd)
}

// Exec runs a parsed command.
func (s *Session) Exec(cmd Command) (Result, error) {
	res := Result{Line: cmd.Line, Command: cmd.Raw, Verb: cmd.Verb}

	v, ok := verbs[cmd.Verb]
	if !ok {
		return res, &CommandError{
			Code:    CodeUnknownVerb,
			Verb:    cmd.Verb,
			Line:    cmd.Line,
			Message: "unknown verb",
		}
	}
	if len(cmd.Args) != len(v.args) {
		return res, &CommandError{
			Code:    CodeInvalidCommand,
			Verb:    v.name,
			Line:    cmd.Line,
			Message: fmt.Sprintf("expected %d arguments, got %d", len(v.args), len(cmd.Args)),
			Usage:   v.usage(),
		}
	}

	value, err := v.run(s, cmd.Args)
	if err != nil {
		var ce *CommandError
		if errors.As(err, &ce) {
			ce.Line = cmd.Line
			ce.Usage = v.usage()
		}
		return res, err
	}

	s.logger.Debug("script command", "line", cmd.Line, "verb", v.name, "mutating", v.mutating)
	res.Value = value
	return res, nil
}

// Run executes every line read from r in order and hands each result to fn.
// Blank and comment lines are skipped. A non-nil error from fn stops the
// run and is returned; ctx is checked before each line.
func (s *Session) Run(ctx context.Context, r io.Reader, fn func(Result, error) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, err := Parse(sc.Text())
		if errors.Is(err, ErrSkip) {
			continue
		}
		if err != nil {
			var ce *CommandError
			if errors.As(err, &ce) {
				ce.Line = lineNo
			}
			if ferr := fn(Result{Line: lineNo, Command: cmd.Raw}, err); ferr != nil {
				return ferr
			}
			continue
		}

		cmd.Line = lineNo
		res, err := s.Exec(cmd)
		if ferr := fn(res, err); ferr != nil {
			return ferr
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read script at line %d: %w", lineNo+1, err)
	}
	return nil
}
