package commands

import (
	"context"
	"fastfood-ratings/internal/components/telemetry"
	"fastfood-ratings/internal/config"
	"fastfood-ratings/lib/serviceutil"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// state is set up by the root command before any subcommand runs.
var state struct {
	cfg      config.Config
	tel      telemetry.API
	closeLog func() error
	tracing  telemetry.Tracing
}

var rootCmd = &cobra.Command{
	Use:   "ratings",
	Short: "ratings collects google and yelp ratings of fast food restaurants and compares them.",
	// running without a subcommand starts the interactive session
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		state.cfg = cfg
		state.closeLog = telemetry.InitSlog(telemetry.SlogOptions{
			Verbose: verbose,
			LogFile: cfg.Log.File,
		})
		state.tel = telemetry.SlogAPI{}

		state.tracing, err = telemetry.SetupTracing(cmd.Context(), "ratings", cfg.Telemetry)
		if err != nil {
			slog.Warn("failed to setup tracing, continuing without it", "err", err)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "The config file to read, a <name>.local.<ext> file next to it is merged on top.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information.")
}

// shutdown flushes traces and closes the log file, it runs whether the command failed or not.
func shutdown() {
	err := state.tracing.Shutdown(context.Background())
	if err != nil {
		slog.Warn("failed to flush traces", "err", err)
	}
	state.tracing = telemetry.Tracing{}
	if state.closeLog != nil {
		state.closeLog()
		state.closeLog = nil
	}
}

// execute runs the command line `args`, nil means os.Args.
func execute(ctx context.Context, args []string) error {
	defer shutdown()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func ExecuteContext(ctx context.Context) {
	err := execute(ctx, nil)
	if err != nil {
		serviceutil.Fatal("ratings", err)
	}
}
