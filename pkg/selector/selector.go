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

// Package selector enumerates candidate files for a batch transformation run.
package selector

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/routemod/pkg/routeparam"
)

// 🔍 Selector enumerates files under Root that carry at least one bracketed
// (dynamic) directory segment and match the extension filter. Enumeration is
// lexical, so repeated walks over an unchanged tree yield the same order.
type Selector struct {
	Root       string                // root directory, must exist
	Extensions []string              // file extensions to keep, e.g. [".ts"]; empty keeps all
	Ignore     []string              // doublestar patterns matched against the relative path
	Convention routeparam.Convention // bracket/spread spelling
}

// 🏃 Walk visits every candidate file in deterministic order, calling fn with
// the path relative to Root. Enumeration errors (missing root, unreadable
// directory) abort the walk; they are selection failures, not per-file ones.
func (s *Selector) Walk(ctx context.Context, fn func(rel string) error) error {
	logger := zerolog.Ctx(ctx)

	return filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return errors.Errorf("walk cancelled: %w", err)
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if !s.matchesExtension(rel) {
			return nil
		}
		if !s.Convention.IsDynamic(rel) {
			return nil
		}
		if s.ignored(ctx, rel) {
			logger.Debug().Str("file", rel).Msg("file ignored by pattern")
			return nil
		}

		return fn(rel)
	})
}

// 📋 Select collects the full candidate list. Convenience over Walk for
// callers that need the count up front.
func (s *Selector) Select(ctx context.Context) ([]string, error) {
	var files []string
	err := s.Walk(ctx, func(rel string) error {
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("selecting files under %s: %w", s.Root, err)
	}
	return files, nil
}

// 🔍 matchesExtension checks the extension filter.
func (s *Selector) matchesExtension(rel string) bool {
	if len(s.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(rel)
	for _, want := range s.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// 🔍 ignored checks the ignore globs against the relative path.
func (s *Selector) ignored(ctx context.Context, rel string) bool {
	for _, pattern := range s.Ignore {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
