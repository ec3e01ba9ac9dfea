package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/database"
	"github.com/edudata/schoolscan/internal/model"
	"github.com/edudata/schoolscan/internal/pipeline"
	"github.com/edudata/schoolscan/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl seed school sites into page records",
		Long: `Crawl walks each seed site breadth-first and writes the extracted
pages as a flat JSON batch file.

Seeds come from a JSON file of {id, url} entries. Links are only
followed while they stay under the seed URL, so a seed with a path
scopes the crawl to that subtree. Every crawl is also archived in a
local SQLite database so --skip-recent can avoid re-crawling sites.

Examples:
  # Crawl the seeds in urls.json
  schoolscan crawl

  # Crawl a different seeds file with a larger page budget
  schoolscan crawl --seeds sites.json --max-pages 50

  # Respect robots.txt and skip sites crawled in the last day
  schoolscan crawl --robots --skip-recent 24h

  # Crawl without touching the archive database
  schoolscan crawl --no-db`,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("seeds", "s", config.DefaultSeedsFile,
		"Seeds file with {id, url} entries")
	cmd.Flags().StringP("output", "o", config.DefaultCrawlOutput,
		"Output file for the page records")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum pages to visit per seed site")
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Politeness delay between fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout")
	cmd.Flags().Bool("robots", false,
		"Respect robots.txt disallow rules when enqueueing links")
	cmd.Flags().Duration("skip-recent", 0,
		"Skip sites crawled within this window (requires the archive database)")
	cmd.Flags().String("db-dir", "",
		"Directory for the archive database (default: XDG data dir)")
	cmd.Flags().Bool("no-db", false,
		"Do not archive crawled pages")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .schoolscan in current or home directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCrawlConfig(cmd)
	if err != nil {
		return err
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

	run := &pipeline.Run{Config: cfg, StartedAt: time.Now()}

	if cfg.SaveToDB {
		archive, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open archive database: %w", err)
		}
		defer archive.Close()
		run.Archive = archive
		logger.Info("archive opened", "dir", cfg.DBDir)
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewLoadSeedsStep(logger),
		pipeline.NewCrawlStep(logger),
		pipeline.NewArchiveStep(logger),
	)
	if err := p.Execute(ctx, run); err != nil {
		return err
	}

	pages := run.Pages
	if pages == nil {
		pages = []model.PageRecord{}
	}
	if err := report.WriteJSONFile(cfg.OutputFile, pages); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	summary := buildCrawlSummary(run, cfg, time.Since(run.StartedAt))
	writer := report.NewSimpleWriter(cmd.OutOrStdout())
	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

// buildCrawlConfig creates a Config from the crawl command's flags.
func buildCrawlConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := loadFileConfig(cfg); err != nil {
		return nil, err
	}

	cfg.SeedsFile, err = cmd.Flags().GetString("seeds")
	if err != nil {
		return nil, err
	}
	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Flags beat file-level crawl defaults, but only when the user
	// actually set them.
	if cmd.Flags().Changed("max-pages") || cfg.MaxPages == 0 {
		cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("delay") {
		cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}

	cfg.RespectRobots, err = cmd.Flags().GetBool("robots")
	if err != nil {
		return nil, err
	}
	cfg.SkipRecent, err = cmd.Flags().GetDuration("skip-recent")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	return cfg, nil
}

// buildCrawlSummary folds per-site crawl results into a run summary.
func buildCrawlSummary(run *pipeline.Run, cfg *config.Config, elapsed time.Duration) *report.Summary {
	summary := &report.Summary{
		Command:     "crawl",
		StartedAt:   run.StartedAt,
		Duration:    elapsed.Round(time.Millisecond),
		OutputFile:  cfg.OutputFile,
		InputCount:  len(run.Seeds),
		OutputCount: len(run.Pages),
		Skipped:     run.Skipped,
	}

	for _, site := range run.Sites {
		siteSummary := report.SiteSummary{
			SiteID: site.SiteID,
			Pages:  site.Stats.PagesExtracted,
		}
		for _, page := range run.Pages {
			if !isSitePage(page.ID, site.SiteID) {
				continue
			}
			if siteSummary.Title == "" {
				siteSummary.Title = page.Title
				siteSummary.ScrapedAt = page.ScrapedAt
			}
			siteSummary.Links += len(page.Links)
		}
		summary.Sites = append(summary.Sites, siteSummary)
	}

	return summary
}

// isSitePage reports whether a composite page id belongs to a site.
func isSitePage(pageID, siteID string) bool {
	return len(pageID) > len(siteID) &&
		pageID[:len(siteID)] == siteID &&
		pageID[len(siteID)] == '-'
}
