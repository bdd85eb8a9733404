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

package rule

import (
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔄 SubstitutionRule replaces every occurrence of Old with New. It covers
// the simple migrations (import path rewrites, null-safety insertion,
// service renames) that share the runner with the signature rule.
type SubstitutionRule struct {
	RuleName string
	Old      string
	New      string
	FileGlob string // optional doublestar pattern restricting which files apply
}

// Name implements Rule.
func (r *SubstitutionRule) Name() string {
	return r.RuleName
}

// 🔍 Guard applies only when Old is still present. Once replaced, Old is
// gone and the rule skips, so repeated runs are no-ops.
func (r *SubstitutionRule) Guard(ctx context.Context, f *File) bool {
	if r.FileGlob != "" {
		matched, err := doublestar.Match(r.FileGlob, f.Rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", r.FileGlob).Str("path", f.Rel).Err(err).Msg("error matching pattern")
			return false
		}
		if !matched {
			return false
		}
	}
	return strings.Contains(string(f.Content), r.Old)
}

// 🔄 Transform implements Rule.
func (r *SubstitutionRule) Transform(ctx context.Context, f *File) (Result, error) {
	src := string(f.Content)
	out := strings.ReplaceAll(src, r.Old, r.New)
	return Result{
		Content: []byte(out),
		Changed: out != src,
	}, nil
}

// ✅ Validate rejects rules that cannot hold the idempotence invariant.
func (r *SubstitutionRule) Validate() error {
	if r.RuleName == "" {
		return errors.Errorf("substitution rule: name is required")
	}
	if r.Old == "" {
		return errors.Errorf("rule %s: old text is required", r.RuleName)
	}
	if strings.Contains(r.New, r.Old) {
		return errors.Errorf("rule %s: new text contains old text, rule would never converge", r.RuleName)
	}
	return nil
}
