package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/routemod/pkg/runner"
)

// NewRunCmd creates a new run command
func NewRunCmd(opts *RootOpts) *cobra.Command {
	var (
		dryRun bool
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply the configured rewrite rules to the tree",
		Long: `Run executes one batch over the configured root.
It will:
1. Enumerate candidate files (dynamic route paths matching the extension filter)
2. Evaluate each rule's guard per file
3. Apply the rules that pass and write changed files back in place
4. Print one line per modified file and a trailing total

Per-file failures are reported inline and never abort the batch. Re-running
over a partially migrated tree is safe: guards recognize migrated files and
skip them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)

			cfg, err := opts.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if jobs > 0 {
				cfg.Jobs = jobs
			}

			r, err := runner.New(runner.Options{
				Selector: cfg.Selector(),
				Rules:    cfg.BuildRules(),
				Jobs:     cfg.Jobs,
				DryRun:   dryRun,
			})
			if err != nil {
				return errors.Errorf("creating runner: %w", err)
			}

			ui := consoleLogger()
			ui.Header("rewriting " + cfg.Root)

			report, err := r.Run(ctx)
			if err != nil {
				return errors.Errorf("running batch: %w", err)
			}

			printReport(ui, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "evaluate rules without writing any file")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "worker count, overrides the config value")

	return cmd
}
