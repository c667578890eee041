package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/fieldkv/internal/app"
	"github.com/dotcommander/fieldkv/internal/demo"
)

// NewDemoCmd creates the demo command.
func NewDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through the four levels of the store with verified steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fast, _ := cmd.Flags().GetBool("fast")
			continueOnError, _ := cmd.Flags().GetBool("continue-on-error")

			rt, _ := app.EffectiveRuntime()
			out := cmd.OutOrStdout()
			r := demo.NewRunner(out, demo.Options{
				Color: rt.Color,
				Pause: rt.DemoPause,
				Fast:  fast,
			})
			passed, failed := r.RunAll(continueOnError)

			_, _ = fmt.Fprintf(out, "\n%d passed, %d failed, %d total\n", passed, failed, passed+failed)
			if failed > 0 {
				return printedError{err: fmt.Errorf("%d demo steps failed", failed)}
			}
			return nil
		},
	}

	cmd.Flags().Bool("fast", false, "Skip the pause after each successful step")
	cmd.Flags().Bool("continue-on-error", false, "Continue after step failures")
	return cmd
}
