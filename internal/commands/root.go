package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/fieldkv/internal/app"
	"github.com/dotcommander/fieldkv/internal/output"
)

// Execute runs the CLI application. Cancelling ctx stops a running script
// between commands.
func Execute(ctx context.Context, version string) error {
	rt, settingsErr := app.EffectiveRuntime()

	level := new(slog.LevelVar)
	level.Set(rt.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if settingsErr != nil {
		slog.Warn("config ignored, using defaults", "error", settingsErr.Error())
	}
	output.SetPretty(rt.PrettyJSON)

	root := newRootCmd(version, level)
	err := root.ExecuteContext(ctx)
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			_ = output.PrintError(err)
			slog.Error("command failed", "error", err.Error())
		}
	}
	return err
}

func newRootCmd(version string, level *slog.LevelVar) *cobra.Command {
	root := &cobra.Command{
		Use:           "fieldkv",
		Short:         "Timestamped field store with TTL expiry and point-in-time snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				slog.Warn("could not create config dir", "error", err.Error())
			}

			if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
				output.SetPretty(true)
			}
			if raw, _ := cmd.Flags().GetString("log-level"); raw != "" {
				lvl, ok := app.ParseLogLevel(raw)
				if !ok {
					return cmdErr(errors.New("invalid --log-level " + raw))
				}
				level.Set(lvl)
			}
			return nil
		},
	}

	root.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	root.PersistentFlags().String("log-level", "", "Log level for stderr: debug|info|warn|error")
	root.Flags().BoolP("version", "v", false, "version for fieldkv")

	root.AddCommand(NewRunCmd())
	root.AddCommand(NewDemoCmd())
	root.AddCommand(NewSchemaCmd(root))

	return root
}
