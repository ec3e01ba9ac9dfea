// Package main provides the entry point for the schoolscan CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/log"
)

// NewRootCmd creates the root command for schoolscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schoolscan",
		Short: "Collect and normalize international-school data",
		Long: `schoolscan collects data about international schools in Japan.

It crawls school websites into flat page records, aggregates those
records into one record per school, scrapes the school-directory
listing pages, and merges bilingual directory exports into a single
normalized file.

All stages read and write plain JSON files, so each command can be run
on its own or re-run over an earlier command's output.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewAggregateCmd())
	cmd.AddCommand(NewMergeCmd())
	cmd.AddCommand(NewDirectoryCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the structured logger used by all commands.
// Page bodies routinely run to tens of kilobytes, so the handler trims
// oversized string attributes before they hit the terminal.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewTrimLogger(os.Stderr, verbose)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, so a
// long crawl can stop between pages and still write what it has.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// loadFileConfig resolves and loads the YAML config file into cfg.
// An explicitly given path must exist; otherwise a missing file just
// leaves the defaults in place.
func loadFileConfig(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.SiteConfigs = file
	file.Crawl.Apply(cfg)
	return nil
}

// requireInputFile fails early for a missing input file, before the
// command opens or truncates any output.
func requireInputFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", path)
		}
		return fmt.Errorf("check input file %s: %w", path, err)
	}
	return nil
}
