// package main is the entry point for the chainlink tool
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alan/chainlink/cmd"
	cachecmd "github.com/alan/chainlink/cmd/cache"
	configcmd "github.com/alan/chainlink/cmd/config"
	"github.com/alan/chainlink/cmd/migrate"
	"github.com/alan/chainlink/cmd/resolve"
	"github.com/alan/chainlink/cmd/tree"
	"github.com/alan/chainlink/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	var configFile string
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   "chainlink",
		Short: "A CLI tool for exploring stacked pull requests on GitHub",
		Long: `chainlink shows how pull requests are stacked on each other: the PRs a
pull request builds on, the PRs built on top of it, and its siblings sharing
the same base branch. Results are cached locally so repeat lookups are instant.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(logLevel, logFormat)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", cmd.DefaultConfigFile, "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "text", "Log format (text, json)")

	// Create commands with access to the global config file
	rootCmd.AddCommand(resolve.NewResolveCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(tree.NewTreeCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(migrate.NewMigrateCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(cachecmd.NewCacheCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(configcmd.NewConfigCmd(&configFile, config.LoadConfig, config.SaveConfig))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func setupLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	// stdout carries command output
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}

	slog.SetDefault(slog.New(handler))
}
