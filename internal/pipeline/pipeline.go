package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/crawler"
	"github.com/edudata/schoolscan/internal/database"
	"github.com/edudata/schoolscan/internal/model"
)

// Run carries the accumulated state of one end-to-end run.
// Steps read what earlier steps produced and append their own results.
type Run struct {
	// Config is the effective configuration for this run.
	Config *config.Config

	// OutDir is the directory batch files are written to.
	// Empty means the current working directory.
	OutDir string

	// Archive is the optional crawl archive. When nil, archive steps
	// are skipped. The caller owns the handle and closes it.
	Archive *database.CrawlDB

	// Seeds are the sites to crawl, in seed-file order.
	Seeds []config.Seed

	// Pages are the page records produced by crawling, across all sites.
	Pages []model.PageRecord

	// Schools are the aggregated per-school records.
	Schools []*model.SchoolRecord

	// Sites records the per-site crawl outcomes.
	Sites []SiteResult

	// StartedAt is when Execute began.
	StartedAt time.Time

	// StepsRun lists the names of the steps that were executed.
	StepsRun []string

	// Skipped counts seeds that were not crawled (invalid entries and
	// sites with a recent archived crawl).
	Skipped int

	// TimedOut reports whether the run was cut short by context
	// cancellation.
	TimedOut bool

	// ErrorMessage holds the first step failure, for summaries.
	ErrorMessage string
}

// SiteResult is the outcome of crawling one seed site.
type SiteResult struct {
	// SiteID is the seed's id, the prefix of its page ids.
	SiteID string

	// SeedURL is the URL the crawl started from.
	SeedURL string

	// Stats are the crawl counters for this site.
	Stats crawler.CrawlStats
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the
// accumulated run state from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., priority, dependencies)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the run to modify.
	// Returns an error if the step fails critically; non-critical
	// problems should be recorded in the run and return nil.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and recorded in the
// run, but subsequent steps still execute.
//
// Design decision: This option exists because some failures (e.g., the
// archive directory being unwritable) shouldn't prevent writing the
// batch files. However, the default is to stop on error because early
// failures often indicate fundamental problems (e.g., a missing seeds
// file).
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps handle their own cancellation points (the crawl
// step checks between sites). This allows graceful cleanup between
// steps while still respecting cancellation.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete (failures are recorded in the run).
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	for _, step := range p.steps {
		// Check for cancellation before starting each step
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			run.TimedOut = true
			return ctx.Err()
		default:
			// Continue with execution
		}

		p.logger.Info("executing step", "step", step.Name())

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)

			if run.ErrorMessage == "" {
				run.ErrorMessage = err.Error()
			}

			// Stop or continue based on configuration
			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed", "step", step.Name())
		}

		run.StepsRun = append(run.StepsRun, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
