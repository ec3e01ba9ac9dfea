package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/edudata/schoolscan/internal/aggregate"
	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/model"
	"github.com/edudata/schoolscan/internal/report"
)

// NewAggregateCmd creates the aggregate command.
func NewAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate page records into per-school records",
		Long: `Aggregate reads a crawled page-record batch and folds it into one
record per school site.

Records are grouped by site key (by default the numeric prefix of each
page id) in first-seen order. The first page of a group becomes the
school's source page; later pages become deduplicated sub-pages, and
header lists and links are merged across the group.

Examples:
  # Aggregate the default crawl output
  schoolscan aggregate

  # Aggregate an arbitrary batch, grouping by URL segment
  schoolscan aggregate -i pages.json --key-strategy url-segment

  # Also write a Markdown summary
  schoolscan aggregate --summary aggregate-report.md`,
		RunE: runAggregateCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultCrawlOutput,
		"Input page-record batch file")
	cmd.Flags().StringP("output", "o", config.DefaultAggregateOutput,
		"Output file for the school records")
	cmd.Flags().StringP("key-strategy", "k", config.KeyStrategyIDPrefix,
		"Site key derivation: id-prefix or url-segment")
	cmd.Flags().String("summary", "",
		"Write a Markdown summary to this file")

	return cmd
}

// runAggregateCmd executes the aggregate command.
func runAggregateCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.InputFile, err = cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	cfg.KeyStrategy, err = cmd.Flags().GetString("key-strategy")
	if err != nil {
		return err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("summary")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := requireInputFile(cfg.InputFile); err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	startedAt := time.Now()

	pages, err := loadPages(cfg.InputFile)
	if err != nil {
		return err
	}

	keyFunc, err := aggregate.KeyFuncFor(cfg.KeyStrategy)
	if err != nil {
		return err
	}

	aggregator := aggregate.NewAggregator(
		aggregate.WithKeyFunc(keyFunc),
		aggregate.WithAggregatorLogger(logger),
	)
	schools := aggregator.Aggregate(pages)
	if schools == nil {
		schools = []*model.SchoolRecord{}
	}

	if err := report.WriteJSONFile(cfg.OutputFile, schools); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	summary := buildAggregateSummary(pages, schools, cfg, startedAt, time.Since(startedAt))

	if cfg.ReportFile != "" {
		if err := writeMarkdownSummary(cfg.ReportFile, summary); err != nil {
			return err
		}
	}

	writer := report.NewSimpleWriter(cmd.OutOrStdout())
	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

// loadPages reads a page-record batch file.
func loadPages(path string) ([]model.PageRecord, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var pages []model.PageRecord
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}
	return pages, nil
}

// buildAggregateSummary folds aggregation results into a run summary.
func buildAggregateSummary(pages []model.PageRecord, schools []*model.SchoolRecord, cfg *config.Config, startedAt time.Time, elapsed time.Duration) *report.Summary {
	summary := &report.Summary{
		Command:     "aggregate",
		StartedAt:   startedAt,
		Duration:    elapsed.Round(time.Millisecond),
		OutputFile:  cfg.OutputFile,
		InputCount:  len(pages),
		OutputCount: len(schools),
	}

	for _, school := range schools {
		summary.Sites = append(summary.Sites, report.SiteSummary{
			SiteID:    school.Source.ID,
			Title:     school.Source.Title,
			Pages:     len(school.Content.SubPages),
			Links:     len(school.Links),
			ScrapedAt: school.Source.ScrapedAt,
		})
	}

	return summary
}

// writeMarkdownSummary writes the Markdown variant of a summary.
func writeMarkdownSummary(path string, summary *report.Summary) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer f.Close()

	writer := report.NewMarkdownWriter(f)
	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("write markdown summary: %w", err)
	}
	return nil
}
