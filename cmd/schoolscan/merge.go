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

// NewMergeCmd creates the merge command.
func NewMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge English and Japanese directory exports",
		Long: `Merge combines an English and a Japanese school-card export into one
bilingual record per school.

Cards are matched by the last segment of their URL, so the two exports
must describe the same directory. Unsuffixed fields of each card fill
the record's _en or _jp slot; detail sections pass through verbatim as
structured data, and staff lists are deduplicated by name and role.

Examples:
  # Merge the default directory exports
  schoolscan merge

  # Merge explicit files into a custom output
  schoolscan merge --en schools_en.json --jp schools_jp.json -o merged.json`,
		RunE: runMergeCmd,
	}

	cmd.Flags().String("en", config.DefaultMergeEnglishInput,
		"English school-card export")
	cmd.Flags().String("jp", config.DefaultMergeJapaneseInput,
		"Japanese school-card export")
	cmd.Flags().StringP("output", "o", config.DefaultMergeOutput,
		"Output file for the bilingual records")

	return cmd
}

// runMergeCmd executes the merge command.
func runMergeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.EnglishFile, err = cmd.Flags().GetString("en")
	if err != nil {
		return err
	}
	cfg.JapaneseFile, err = cmd.Flags().GetString("jp")
	if err != nil {
		return err
	}
	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if err := requireInputFile(cfg.EnglishFile); err != nil {
		return err
	}
	if err := requireInputFile(cfg.JapaneseFile); err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	startedAt := time.Now()

	english, err := loadCards(cfg.EnglishFile)
	if err != nil {
		return err
	}
	japanese, err := loadCards(cfg.JapaneseFile)
	if err != nil {
		return err
	}

	merger := aggregate.NewMerger(aggregate.WithMergerLogger(logger))
	records := merger.Merge(english, japanese)
	if records == nil {
		records = []*model.BilingualRecord{}
	}

	if err := report.WriteJSONFile(cfg.OutputFile, records); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	summary := &report.Summary{
		Command:     "merge",
		StartedAt:   startedAt,
		Duration:    time.Since(startedAt).Round(time.Millisecond),
		OutputFile:  cfg.OutputFile,
		InputCount:  len(english) + len(japanese),
		OutputCount: len(records),
	}
	writer := report.NewSimpleWriter(cmd.OutOrStdout())
	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

// loadCards reads a school-card export file.
func loadCards(path string) ([]model.SchoolCard, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var cards []model.SchoolCard
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}
	return cards, nil
}
