package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/workshop/cmd/cli/commands"
	"github.com/jakechorley/workshop/internal/config"
	"github.com/jakechorley/workshop/pkg/metrics"
	"github.com/jakechorley/workshop/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     *commands.AppContext

	// promRecorder is set when a metrics textfile is configured
	promRecorder *metrics.PrometheusRecorder
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Workshop CLI - Schedule families across visiting days",
		Long: `A CLI tool for assigning families to workshop visiting days, scoring
submissions, comparing strategies, and publishing stored runs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	// Commands read app at run time, after initApp has filled it in
	app = &commands.AppContext{}
	rootCmd.AddCommand(commands.ScheduleCmd(app))
	rootCmd.AddCommand(commands.ScoreCmd(app))
	rootCmd.AddCommand(commands.CompareCmd(app))
	rootCmd.AddCommand(commands.ListRunsCmd(app))
	rootCmd.AddCommand(commands.PublishCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and metrics
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env, logging.Options{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("data_path", app.Cfg.DataPath),
		zap.String("database_driver", app.Cfg.Database.Driver))

	app.Recorder = metrics.NewNop()
	if app.Cfg.Metrics.Textfile != "" {
		promRecorder, err = metrics.NewPrometheus(prometheus.NewRegistry(), app.Cfg.Metrics.Namespace)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		app.Recorder = promRecorder
		app.Logger.Debug("Metrics enabled", zap.String("textfile", app.Cfg.Metrics.Textfile))
	}

	return nil
}

// shutdown writes the metrics textfile and releases the database
func shutdown() {
	if app.Logger == nil {
		return
	}

	if promRecorder != nil {
		if err := promRecorder.WriteTextfile(app.Cfg.Metrics.Textfile); err != nil {
			app.Logger.Error("Failed to write metrics", zap.Error(err))
		}
	}

	if err := app.Close(); err != nil {
		app.Logger.Error("Failed to close database", zap.Error(err))
	}

	app.Logger.Sync()
}
