// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runner orchestrates one batch run: select candidates, guard and
// apply every configured rule per file, write changed files back, and
// account for everything in a Report.
package runner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/routemod/pkg/rule"
	"github.com/walteh/routemod/pkg/selector"
)

// 🔧 Options configures a Runner. Everything is explicit; there are no
// process-wide defaults.
type Options struct {
	Selector *selector.Selector
	Rules    []rule.Rule
	Jobs     int  // worker count; values below 2 run sequentially
	DryRun   bool // evaluate and report, but never write
}

// 🏃 Runner executes the configured rules over the selected tree.
type Runner struct {
	opts Options
}

// 🏭 New creates a runner.
func New(opts Options) (*Runner, error) {
	if opts.Selector == nil {
		return nil, errors.Errorf("selector is required")
	}
	if len(opts.Rules) == 0 {
		return nil, errors.Errorf("at least one rule is required")
	}
	return &Runner{opts: opts}, nil
}

// 🏃 Run executes one batch. Selection errors abort before any file is
// touched. Per-file errors are absorbed into the report and the batch
// continues; nothing raises past this boundary once selection succeeds.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	files, err := r.opts.Selector.Select(ctx)
	if err != nil {
		return nil, errors.Errorf("selecting candidates: %w", err)
	}

	var report *Report
	if r.opts.Jobs > 1 {
		report = r.runParallel(ctx, files)
	} else {
		report = r.runSequential(ctx, files)
	}

	report.Scanned = len(files)
	report.sortLists()
	return report, nil
}

// 🔄 runSequential processes files one at a time, in selection order.
func (r *Runner) runSequential(ctx context.Context, files []string) *Report {
	report := &Report{}
	for _, rel := range files {
		r.processFile(ctx, rel, report)
	}
	return report
}

// ⚡ runParallel partitions work by path across Jobs workers. No two rule
// applications ever see the same file, and each worker owns a report shard,
// so no cross-file synchronization is needed beyond the final merge.
func (r *Runner) runParallel(ctx context.Context, files []string) *Report {
	paths := make(chan string)
	shards := make([]Report, r.opts.Jobs)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.opts.Jobs; i++ {
		shard := &shards[i]
		g.Go(func() error {
			for rel := range paths {
				r.processFile(gctx, rel, shard)
			}
			return nil
		})
	}

	for _, rel := range files {
		paths <- rel
	}
	close(paths)
	_ = g.Wait() // workers absorb per-file failures and never return errors

	report := &Report{}
	for i := range shards {
		report.Merge(&shards[i])
	}
	return report
}

// 📄 processFile reads one file, runs every rule whose guard applies, and
// writes the result back when anything changed. Failures are logged and
// counted, never propagated.
func (r *Runner) processFile(ctx context.Context, rel string, report *Report) {
	logger := zerolog.Ctx(ctx)
	sel := r.opts.Selector

	abs := filepath.Join(sel.Root, filepath.FromSlash(rel))

	info, err := os.Stat(abs)
	if err != nil {
		logger.Error().Str("file", rel).Err(err).Msg("stat failed")
		report.fail(rel, err)
		return
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		logger.Error().Str("file", rel).Err(err).Msg("read failed")
		report.fail(rel, err)
		return
	}

	f := &rule.File{
		Path:    abs,
		Rel:     rel,
		Content: content,
		Params:  sel.Convention.Extract(rel),
	}

	matched := false
	changed := false
	for _, rl := range r.opts.Rules {
		if !rl.Guard(ctx, f) {
			continue
		}
		matched = true

		res, err := rl.Transform(ctx, f)
		if err != nil {
			logger.Error().Str("file", rel).Str("rule", rl.Name()).Err(err).Msg("transform failed")
			report.fail(rel, errors.Errorf("rule %s: %w", rl.Name(), err))
			return
		}
		report.Warnings = append(report.Warnings, res.Warnings...)
		if res.Changed {
			f.Content = res.Content
			changed = true
		}
	}

	if matched {
		report.Matched++
	}
	if !changed {
		report.Skipped++
		return
	}

	if !r.opts.DryRun {
		if err := os.WriteFile(abs, f.Content, info.Mode().Perm()); err != nil {
			logger.Error().Str("file", rel).Err(err).Msg("write failed")
			report.fail(rel, err)
			return
		}
	}

	logger.Debug().Str("file", rel).Msg("file modified")
	report.Modified++
	report.ModifiedPaths = append(report.ModifiedPaths, rel)
}
