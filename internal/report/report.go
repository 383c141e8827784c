// Package report post-processes the runner's Allure results into a report.
// Each step is best-effort: a failing step is logged as a warning and the
// pipeline moves on, so a partial report still gets written.
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/geneai/bddctl/internal/allure"
	"github.com/geneai/bddctl/internal/config"
	"github.com/geneai/bddctl/internal/fs"
	"github.com/geneai/bddctl/internal/logging"
)

// Outcome is what the caller needs to finish the process.
type Outcome struct {
	ExitCode  int
	Generated bool
	Archive   string
	// Warnings names the steps that failed.
	Warnings []string
}

type Option func(*Aggregator)

func WithGenerator(g Generator) Option {
	return func(a *Aggregator) {
		a.generator = g
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

type Aggregator struct {
	cfg       *config.Config
	generator Generator
	logger    *log.Logger
	now       func() time.Time
}

func New(cfg *config.Config, opts ...Option) *Aggregator {
	a := Aggregator{
		cfg:    cfg,
		logger: logging.Discard(),
		now:    time.Now,
	}

	for _, o := range opts {
		o(&a)
	}

	if a.generator == nil {
		a.generator = NewCLIGenerator(cfg.Runner.Generator)
	}

	return &a
}

// Run post-processes the results of a run. failed is whether the runner
// exited nonzero; it alone decides the exit code.
func (a *Aggregator) Run(ctx context.Context, failed bool) Outcome {
	var out Outcome
	if failed {
		out.ExitCode = 1
	}

	ac := a.cfg.Allure
	if ac.ResultsDir == "" {
		return out
	}

	if ac.Environment {
		a.step(&out, "write environment metadata", func() error {
			return WriteEnvironment(ac.ResultsDir, a.cfg, a.now())
		})
	}

	if !ac.Generate {
		return out
	}

	if !fs.IsDir(ac.ResultsDir) {
		a.logger.Warn().Str("dir", ac.ResultsDir).Msg("No allure results found; skipping report generation.")
		return out
	}

	a.step(&out, "preserve history", a.carryHistory)

	a.step(&out, "write categories.json", func() error {
		_, err := WriteCategories(ac.ResultsDir)
		return err
	})

	if a.cfg.Run.TreatBrokenAsFailed {
		a.step(&out, "normalize statuses", func() error {
			n, err := NormalizeStatuses(ac.ResultsDir)
			a.logger.Info().Int("files", n).Msg("Normalized broken statuses to failed for Allure display.")
			return err
		})
	}

	a.logger.Info().Msg("Generating Allure report...")
	if err := a.generator.Generate(ctx, ac.ResultsDir, ac.ReportDir, ac.Clean); err != nil {
		a.logger.Error().Err(err).Msg("Allure report generation failed")
		return out
	}

	out.Generated = true
	a.logger.Info().Msgf("Allure report generated at ./%s", ac.ReportDir)

	a.step(&out, "post-process report widgets", func() error {
		return RebuildWidgets(ac.ReportDir, "launch-"+uuid.NewString())
	})

	a.step(&out, "write "+QuickSummaryFile, func() error {
		return WriteQuickSummary(ctx, ac.ReportDir)
	})

	if a.cfg.Archive.Enabled {
		a.step(&out, "archive report", func() error {
			return a.archive(&out)
		})
	}

	return out
}

// step runs fn and downgrades any error or panic to a warning.
func (a *Aggregator) step(out *Outcome, name string, fn func() error) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()

		return fn()
	}()

	if err != nil {
		out.Warnings = append(out.Warnings, name)
		a.logger.Warn().Err(err).Str("step", name).Msgf("Failed to %s", name)
	}
}

// carryHistory seeds the results with the previous report's history so
// trends survive runs that do not clean.
func (a *Aggregator) carryHistory() error {
	ac := a.cfg.Allure
	if ac.ReportDir == "" {
		return nil
	}

	src := filepath.Join(ac.ReportDir, allure.HistoryDir)
	if !fs.IsDir(src) {
		return nil
	}

	return fs.CopyDir(src, filepath.Join(ac.ResultsDir, allure.HistoryDir))
}

func (a *Aggregator) archive(out *Outcome) error {
	dest, err := Archive(a.cfg.Allure.ReportDir, a.cfg.Archive.Root, a.now())
	if err != nil {
		return err
	}

	out.Archive = dest
	a.logger.Info().Str("dir", dest).Msg("Archived Allure report snapshot")

	removed, err := Prune(a.cfg.Archive.Root, a.cfg.Archive.Limit)
	for _, pth := range removed {
		a.logger.Debug().Str("dir", pth).Msg("Pruned archived report")
	}

	return err
}
