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

// Package rule defines the rewrite rule contract shared by every
// transformation the batch runner applies.
package rule

import (
	"context"
)

// 📄 File is one candidate file, fully loaded. Content is owned by the rule
// invocation processing it; rules never share a buffer across files.
type File struct {
	Path    string   // absolute path
	Rel     string   // path relative to the selection root, slash-separated
	Content []byte   // current content, updated between rules as they change it
	Params  []string // ordered route parameter names extracted from the path
}

// 📦 Result is the outcome of one rule application.
type Result struct {
	Content  []byte   // rewritten content; equal to the input when Changed is false
	Changed  bool     // true iff Content differs from the input
	Warnings []string // non-fatal precision gaps hit during the transform
}

// 🎯 Rule is a named (Guard, Transform) pair.
//
// Guard is a pure predicate deciding apply vs skip for a file. It must
// recognize a file already in the rule's target state and skip it, which is
// what makes re-running a whole batch over a partially-migrated tree
// converge. Transform must be a no-op on its own output.
type Rule interface {
	Name() string
	Guard(ctx context.Context, f *File) bool
	Transform(ctx context.Context, f *File) (Result, error)
}
