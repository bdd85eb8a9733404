package commands

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/routemod/pkg/log"
	"github.com/walteh/routemod/pkg/runner"
)

// debounceWindow batches rapid editor events into one re-run.
const debounceWindow = 500 * time.Millisecond

// NewWatchCmd creates a new watch command
func NewWatchCmd(opts *RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the rules whenever the tree changes",
		Long: `Watch runs one batch immediately, then watches the root and re-runs
whenever files change. Guard idempotence makes repeated passes safe: files
the engine already migrated are recognized and skipped, including the ones
it rewrote itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "watch").Logger().WithContext(ctx)
			logger := zerolog.Ctx(ctx)

			cfg, err := opts.LoadConfig(ctx)
			if err != nil {
				return err
			}

			r, err := runner.New(runner.Options{
				Selector: cfg.Selector(),
				Rules:    cfg.BuildRules(),
				Jobs:     cfg.Jobs,
			})
			if err != nil {
				return errors.Errorf("creating runner: %w", err)
			}

			ui := consoleLogger()
			user := log.NewUserLogger(ctx)

			// The first pass prints the full run summary. Later passes are
			// triggered by file events and print one outcome line per file,
			// which reads better interleaved with editor activity.
			first := true
			runOnce := func() {
				report, err := r.Run(ctx)
				if err != nil {
					ui.Errorf("batch failed: %v", err)
					return
				}
				if first {
					first = false
					printReport(ui, report)
					return
				}
				for _, path := range report.ModifiedPaths {
					user.LogFileChange(log.FileFixed, path, "")
				}
				for _, failure := range report.Failures {
					user.LogFileChange(log.FileErrored, failure.Path, failure.Err.Error())
				}
				if report.Modified == 0 && report.Errored == 0 {
					user.LogFileChange(log.FileSkipped, cfg.Root, "no changes")
				}
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return errors.Errorf("creating watcher: %w", err)
			}
			defer watcher.Close()

			if err := watchTree(watcher, cfg.Root); err != nil {
				return err
			}

			ui.Header("watching " + cfg.Root)
			runOnce()

			// The timer is armed on the first event and re-armed on every
			// following one, so a burst of editor writes triggers one pass.
			debounce := time.NewTimer(debounceWindow)
			if !debounce.Stop() {
				<-debounce.C
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-debounce.C:
					runOnce()
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op.Has(fsnotify.Create) {
						// New directories need their own watch before events
						// under them can arrive.
						if err := watchTree(watcher, event.Name); err != nil {
							logger.Debug().Str("path", event.Name).Err(err).Msg("watch add failed")
						}
					}
					if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename) {
						debounce.Reset(debounceWindow)
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn().Err(err).Msg("watcher error")
				}
			}
		},
	}

	return cmd
}

// watchTree registers path and every directory below it. Non-directories
// are ignored, as are paths that vanished between the event and the walk.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // directory disappeared mid-walk, skip it
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
