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

package runner

import "sort"

// 📄 FileFailure records one file the runner had to give up on, and why.
type FileFailure struct {
	Path string
	Err  error
}

// 📊 Report accumulates the outcome of one batch run. The runner owns it for
// the duration of the run; once returned it is never mutated again. Exactly
// one of Modified/Skipped/Errored accounts for each scanned file.
type Report struct {
	Scanned  int // candidate files enumerated
	Matched  int // files where at least one guard applied
	Modified int // files written back with changes
	Skipped  int // files evaluated and left unchanged
	Errored  int // files that failed to read, transform, or write

	ModifiedPaths []string      // relative paths written back, sorted
	Warnings      []string      // per-file precision gaps, sorted
	Failures      []FileFailure // one entry per Errored file, sorted by path
}

// 🔗 Merge folds another shard into r. Used by the parallel runner, where
// each worker accumulates its own shard and the shards are combined once all
// workers are done.
func (r *Report) Merge(other *Report) {
	r.Scanned += other.Scanned
	r.Matched += other.Matched
	r.Modified += other.Modified
	r.Skipped += other.Skipped
	r.Errored += other.Errored
	r.ModifiedPaths = append(r.ModifiedPaths, other.ModifiedPaths...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Failures = append(r.Failures, other.Failures...)
}

// fail counts one errored file and keeps its path and cause for the summary.
func (r *Report) fail(rel string, err error) {
	r.Errored++
	r.Failures = append(r.Failures, FileFailure{Path: rel, Err: err})
}

// sortLists puts the path lists in deterministic order. Sequential runs
// already append in walk order; after a parallel merge the order depends on
// scheduling, so both paths normalize the same way.
func (r *Report) sortLists() {
	sort.Strings(r.ModifiedPaths)
	sort.Strings(r.Warnings)
	sort.Slice(r.Failures, func(i, j int) bool { return r.Failures[i].Path < r.Failures[j].Path })
}
