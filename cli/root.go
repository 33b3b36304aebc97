package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srgchrksv/ieltspodcaster/config"
)

var cfgFile string

// SetupRootCmd configures the root command with all subcommands and flags.
// Running the binary without a subcommand starts the HTTP server.
func SetupRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ieltspodcaster",
		Short:         "IELTS speaking practice generator",
		Long:          `Generates IELTS speaking interviews with a language model and voices them as podcasts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to a YAML config file (defaults and environment only when empty)")

	rootCmd.AddCommand(serveCmd(), dialogueCmd(), pruneCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := SetupRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, nil, err
	}
	logger := newLogger(cfg.Log)
	// also routes the standard log package through logger
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
