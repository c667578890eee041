// Command demo runs the colorized, self-checking walkthrough of the field
// store in-process: basic operations, scanning, TTL expiry and snapshots.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dotcommander/fieldkv/internal/app"
	"github.com/dotcommander/fieldkv/internal/demo"
)

func main() {
	var continueOnError bool
	var fast bool
	var color string
	flag.BoolVar(&continueOnError, "continue-on-error", false, "Continue after step failures")
	flag.BoolVar(&fast, "fast", false, "Skip the pause after each successful step")
	flag.StringVar(&color, "color", "", "Color output: auto, always or never (default from config)")
	flag.Parse()

	rt, err := app.EffectiveRuntime()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ignoring config: %v\n", err)
	}

	opts := demo.Options{Color: rt.Color, Pause: rt.DemoPause, Fast: fast}
	switch mode := app.ColorMode(color); mode {
	case "":
	case app.ColorAuto, app.ColorAlways, app.ColorNever:
		opts.Color = mode
	default:
		fmt.Fprintf(os.Stderr, "Invalid -color %q\n", color)
		os.Exit(2)
	}

	r := demo.NewRunner(os.Stdout, opts)
	passed, failed := r.RunAll(continueOnError)

	_, _ = fmt.Fprintf(os.Stdout, "\n%d passed, %d failed, %d total\n", passed, failed, passed+failed)
	if failed > 0 {
		os.Exit(1)
	}
}
