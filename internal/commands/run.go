package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/fieldkv/internal/output"
	"github.com/dotcommander/fieldkv/internal/script"
)

var errStopped = errors.New("stopped on first failing command")

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Execute a command script from a file or stdin",
		Long: "Executes one command per line against a fresh in-memory store and prints one JSON " +
			"response per command. Lines starting with # are comments. Use - or no argument for stdin.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return cmdErr(fmt.Errorf("open script: %w", err))
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg := output.DefaultConfig()
			cfg.Writer = cmd.OutOrStdout()
			return runScript(ctx, script.NewSession(), in, cfg, stopOnError)
		},
	}

	cmd.Flags().Bool("stop-on-error", false, "Stop at the first failing command")
	return cmd
}

// runScript executes r line by line and prints a response per command. Any
// failing command makes the run fail once every response has been written.
func runScript(ctx context.Context, s *script.Session, r io.Reader, cfg output.Config, stopOnError bool) error {
	executed, failed := 0, 0
	err := s.Run(ctx, r, func(res script.Result, err error) error {
		executed++
		if err != nil {
			failed++
			slog.Debug("script command failed", "line", res.Line, "error", err.Error())
			if perr := output.PrintWith(cfg, output.Error(err)); perr != nil {
				return perr
			}
			if stopOnError {
				return errStopped
			}
			return nil
		}
		return output.PrintWith(cfg, output.Success(res))
	})

	slog.Info("script finished", "executed", executed, "failed", failed)

	switch {
	case errors.Is(err, errStopped):
		return printedError{err: err}
	case err != nil:
		return cmdErr(err)
	case failed > 0:
		return printedError{err: fmt.Errorf("%d of %d commands failed", failed, executed)}
	}
	return nil
}
