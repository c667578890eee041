// Package demo implements the colorized, self-checking walkthrough of the
// field store: every step runs a script command against one shared session
// and verifies the result.
package demo

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/dotcommander/fieldkv/internal/app"
	"github.com/dotcommander/fieldkv/internal/script"
)

// ANSI color constants.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
	colorBgBlue = "\033[44m"
)

// Options controls presentation of a demo run.
type Options struct {
	Color app.ColorMode
	Pause time.Duration
	Fast  bool
}

// Runner holds the demo execution state.
type Runner struct {
	session *script.Session
	out     io.Writer
	color   bool
	fast    bool
	pause   time.Duration
}

// NewRunner creates a runner over a fresh session writing to out.
func NewRunner(out io.Writer, opts Options) *Runner {
	return &Runner{
		session: script.NewSession(),
		out:     out,
		color:   useColor(out, opts.Color),
		fast:    opts.Fast,
		pause:   opts.Pause,
	}
}

func useColor(out io.Writer, mode app.ColorMode) bool {
	switch mode {
	case app.ColorAlways:
		return true
	case app.ColorNever:
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Session exposes the store session the acts run against.
func (r *Runner) Session() *script.Session { return r.session }

func (r *Runner) colorize(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + colorReset
}

// printAct prints an act header.
func (r *Runner) printAct(number int, name string) {
	header := fmt.Sprintf("  Level %d: %s  ", number, name)
	if r.color {
		fmt.Fprintf(r.out, "\n%s%s%s\n", colorBold+colorBgBlue+colorWhite, header, colorReset)
	} else {
		fmt.Fprintf(r.out, "\n=== Level %d: %s ===\n", number, name)
	}
}

func (r *Runner) printNarration(lines []string) {
	for _, line := range lines {
		fmt.Fprintf(r.out, "  %s\n", r.colorize(colorWhite, line))
	}
	fmt.Fprintln(r.out)
}

func (r *Runner) printStep(name string) {
	fmt.Fprintf(r.out, "  %s %s\n", r.colorize(colorBold+colorCyan, "●"), r.colorize(colorBold+colorCyan, name))
}

func (r *Runner) printCommand(line string) {
	fmt.Fprintf(r.out, "    %s\n", r.colorize(colorDim, "> "+line))
}

func (r *Runner) printPass() {
	fmt.Fprintf(r.out, "    %s\n", r.colorize(colorGreen, "✓"))
}

func (r *Runner) printFail(err error) {
	fmt.Fprintf(r.out, "    %s %s\n", r.colorize(colorRed, "✗"), r.colorize(colorRed, err.Error()))
}

func (r *Runner) printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(r.out, "      %s\n", r.colorize(colorDim, msg))
}

// printInsight prints a post-step insight in a distinctive dim style.
func (r *Runner) printInsight(msg string) {
	if msg == "" {
		return
	}
	if r.color {
		fmt.Fprintf(r.out, "    %s %s\n", colorDim+colorWhite+"→"+colorReset, colorDim+colorWhite+msg+colorReset)
	} else {
		fmt.Fprintf(r.out, "    → %s\n", msg)
	}
}

// exec runs one script line against the shared session.
func (r *Runner) exec(line string) (any, error) {
	r.printCommand(line)
	res, err := r.session.ExecLine(line)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", line, err)
	}
	return res.Value, nil
}

// expect runs line and compares its value with want.
func (r *Runner) expect(line string, want any) error {
	got, err := r.exec(line)
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(got, want) {
		return fmt.Errorf("%s: got %#v, want %#v", line, got, want)
	}
	r.printDetail("%v", describe(got))
	return nil
}

func describe(v any) any {
	switch x := v.(type) {
	case script.Lookup:
		if !x.Found {
			return "(absent)"
		}
		return fmt.Sprintf("%q", x.Value)
	case nil:
		return "ok"
	default:
		return x
	}
}

// RunAll runs all acts in order, returning pass/fail counts.
func (r *Runner) RunAll(continueOnError bool) (passed, failed int) {
	ctx := &DemoContext{}

	for _, act := range BuildActs() {
		r.printAct(act.Number, act.Name)
		r.printNarration(act.Narration)

		for _, step := range act.Steps {
			r.printStep(step.Name)
			if err := step.Fn(r, ctx); err != nil {
				r.printFail(err)
				failed++
				if !continueOnError {
					fmt.Fprintf(r.out, "\n%s\n", r.colorize(colorRed+colorBold, "Stopped on first failure. Use --continue-on-error to proceed."))
					return passed, failed
				}
				continue
			}
			r.printPass()
			r.printInsight(step.Insight)
			passed++
			if !r.fast && r.pause > 0 {
				time.Sleep(r.pause)
			}
		}
	}

	return passed, failed
}
