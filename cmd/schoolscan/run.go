package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/database"
	"github.com/edudata/schoolscan/internal/pipeline"
	"github.com/edudata/schoolscan/internal/report"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full crawl-and-aggregate pipeline",
		Long: `Run executes the whole workflow in one go: load seeds, crawl every
site, archive the pages, write the scraped batch file, aggregate, and
write the normalized batch file.

It is equivalent to running crawl followed by aggregate with the
default file names.

Examples:
  # Run end to end with the defaults
  schoolscan run

  # Run against a different seeds file into a separate directory
  schoolscan run --seeds sites.json --out-dir ./out`,
		RunE: runRunCmd,
	}

	cmd.Flags().StringP("seeds", "s", config.DefaultSeedsFile,
		"Seeds file with {id, url} entries")
	cmd.Flags().String("out-dir", "",
		"Directory for the batch files (default: current directory)")
	cmd.Flags().Bool("no-db", false,
		"Do not archive crawled pages")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .schoolscan in current or home directory)")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := loadFileConfig(cfg); err != nil {
		return err
	}

	cfg.SeedsFile, err = cmd.Flags().GetString("seeds")
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return err
	}
	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return err
	}
	cfg.SaveToDB = !noDB
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := requireInputFile(cfg.SeedsFile); err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	run := &pipeline.Run{
		Config:    cfg,
		OutDir:    outDir,
		StartedAt: time.Now(),
	}

	if cfg.SaveToDB {
		archive, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open archive database: %w", err)
		}
		defer archive.Close()
		run.Archive = archive
	}

	if err := pipeline.DefaultPipeline(logger).Execute(ctx, run); err != nil {
		return err
	}

	summary := &report.Summary{
		Command:     "run",
		StartedAt:   run.StartedAt,
		Duration:    time.Since(run.StartedAt).Round(time.Millisecond),
		OutputFile:  config.DefaultAggregateOutput,
		InputCount:  len(run.Seeds),
		OutputCount: len(run.Schools),
		Skipped:     run.Skipped,
	}
	for _, school := range run.Schools {
		summary.Sites = append(summary.Sites, report.SiteSummary{
			SiteID:    school.Source.ID,
			Title:     school.Source.Title,
			Pages:     len(school.Content.SubPages),
			Links:     len(school.Links),
			ScrapedAt: school.Source.ScrapedAt,
		})
	}

	writer := report.NewSimpleWriter(cmd.OutOrStdout())
	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}
