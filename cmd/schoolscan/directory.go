package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/directory"
	"github.com/edudata/schoolscan/internal/model"
	"github.com/edudata/schoolscan/internal/report"
)

// NewDirectoryCmd creates the directory command.
func NewDirectoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Scrape the school-directory listings",
		Long: `Directory scrapes the international-school directory's regional
listing pages into flat school cards.

With --details it also visits each school's own page and fills in the
Q&A detail sections. The detail pass is slow on purpose (the site
throttles hard) and saves progress every few schools, so an interrupted
run resumes where it left off: schools that already carry details in
the output file are skipped.

Examples:
  # Scrape the listing pages
  schoolscan directory

  # Scrape listings and enrich each school with details
  schoolscan directory --details

  # Resume an interrupted detail pass
  schoolscan directory --details -o japanese_schools_output.json`,
		RunE: runDirectoryCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultDirectoryOutput,
		"Output file for the school cards")
	cmd.Flags().Bool("details", false,
		"Also fetch each school's detail page")
	cmd.Flags().Duration("delay", config.DefaultLocationDelay,
		"Pause between listing pages")
	cmd.Flags().Duration("detail-delay", config.DefaultDetailDelay,
		"Pause between school detail pages")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .schoolscan in current or home directory)")

	return cmd
}

// runDirectoryCmd executes the directory command.
func runDirectoryCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	cfg.LocationDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return err
	}
	cfg.DetailDelay, err = cmd.Flags().GetDuration("detail-delay")
	if err != nil {
		return err
	}
	details, err := cmd.Flags().GetBool("details")
	if err != nil {
		return err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := loadFileConfig(cfg); err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	startedAt := time.Now()

	cards, err := directoryCards(ctx, cfg, details, logger)
	if err != nil {
		return err
	}

	if details {
		enricher := directory.NewEnricher(nil,
			directory.WithEnricherLogger(logger),
			directory.WithAttempts(cfg.DetailAttempts),
			directory.WithRetryDelay(cfg.DetailRetryDelay),
			directory.WithDetailDelay(cfg.DetailDelay),
			directory.WithSaveEvery(cfg.SaveEvery),
		)
		saveFn := func(cards []model.SchoolCard) error {
			return report.WriteJSONFile(cfg.OutputFile, cards)
		}
		if err := enricher.Enrich(ctx, cards, saveFn); err != nil {
			return err
		}
	} else if err := report.WriteJSONFile(cfg.OutputFile, cards); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	summary := &report.Summary{
		Command:     "directory",
		StartedAt:   startedAt,
		Duration:    time.Since(startedAt).Round(time.Millisecond),
		OutputFile:  cfg.OutputFile,
		OutputCount: len(cards),
	}
	writer := report.NewSimpleWriter(cmd.OutOrStdout())
	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

// directoryCards returns the cards to work on: an existing output file
// when resuming a detail pass, otherwise a fresh listing scrape.
func directoryCards(ctx context.Context, cfg *config.Config, details bool, logger *slog.Logger) ([]model.SchoolCard, error) {
	if details {
		if _, err := os.Stat(cfg.OutputFile); err == nil {
			cards, err := loadCards(cfg.OutputFile)
			if err != nil {
				return nil, err
			}
			logger.Info("resuming from existing output", "file", cfg.OutputFile, "schools", len(cards))
			return cards, nil
		}
	}

	scraper := directory.NewScraper(
		directory.WithScraperLogger(logger),
		directory.WithScraperUserAgent(cfg.UserAgent),
		directory.WithLocationDelay(cfg.LocationDelay),
	)
	cards, err := scraper.ScrapeAll(ctx, cfg.DirectoryLocations())
	if err != nil {
		return nil, fmt.Errorf("scrape listings: %w", err)
	}
	if cards == nil {
		cards = []model.SchoolCard{}
	}
	return cards, nil
}
