package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/routemod/pkg/config"
	"github.com/walteh/routemod/pkg/log"
	"github.com/walteh/routemod/pkg/runner"
)

// 🔧 RootOpts carries the flags shared by every subcommand.
type RootOpts struct {
	ConfigFile string
}

// LoadConfig loads and validates the engine configuration.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// consoleLogger builds the console logger used for run summaries.
func consoleLogger() *log.Logger {
	return log.New(os.Stdout, zerolog.GlobalLevel())
}

// printReport writes the run summary: candidate count, one line per
// modified file, one line per failed file, warnings, trailing total.
// Per-file errors are reported here but do not change the exit status.
func printReport(ui *log.Logger, report *runner.Report) {
	ui.CandidateCount(report.Scanned)
	for _, path := range report.ModifiedPaths {
		ui.FileFixed(path)
	}
	for _, failure := range report.Failures {
		ui.FileError(failure.Path, failure.Err)
	}
	for _, warning := range report.Warnings {
		ui.Warning(warning)
	}
	ui.Summary(report.Modified, report.Errored)
}
