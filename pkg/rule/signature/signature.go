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

// Package signature migrates synchronous dynamic-route handler signatures to
// the async params pattern: the declared params type is wrapped in
// Promise<...> and each route parameter gains an awaited binding statement
// inside the handler body.
package signature

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/routemod/pkg/rule"
)

// migratedMarker is the wrapper token present in any already-migrated file.
// Its presence anywhere makes both Guard and Transform skip the file.
const migratedMarker = "Promise<{"

const defaultIndent = "    "

// 🎯 Rule rewrites handler params signatures. Zero value is ready to use.
type Rule struct {
	// Indent is prepended to inserted binding statements. Defaults to four
	// spaces, matching the handler bodies this targets.
	Indent string
}

// 🏭 New creates the signature migration rule.
func New() *Rule {
	return &Rule{}
}

// Name implements rule.Rule.
func (r *Rule) Name() string {
	return "dynamic-route-params"
}

// 🔍 Guard applies only to files with a fixed parameter set, a synchronous
// params annotation, and no migrated marker. Repeated runs over a partially
// migrated tree therefore converge: once a file is wrapped, the marker makes
// every later pass skip it.
func (r *Rule) Guard(ctx context.Context, f *rule.File) bool {
	if len(f.Params) == 0 {
		return false
	}
	src := string(f.Content)
	if strings.Contains(src, migratedMarker) {
		return false
	}
	return len(findAnnotations(src)) > 0
}

// 🔄 Transform rewrites every matching annotation and ensures each parameter
// has an awaited binding statement. Returns the input unchanged when the
// file is already migrated (second defense against double-wrapping, on top
// of Guard) or when no annotation fits the parameter set.
func (r *Rule) Transform(ctx context.Context, f *rule.File) (rule.Result, error) {
	src := string(f.Content)
	res := rule.Result{Content: f.Content}

	if len(f.Params) == 0 || strings.Contains(src, migratedMarker) {
		return res, nil
	}

	out, wrapped := r.wrapAnnotations(src, f.Params)
	if !wrapped {
		return res, nil
	}

	out, missing := r.upgradeBindings(out, f.Params)
	if len(missing) > 0 {
		anchored := r.insertBindings(out, missing)
		if anchored == "" {
			warning := fmt.Sprintf("%s: no guarded-block anchor, bindings for %s not inserted",
				f.Rel, strings.Join(missing, ", "))
			zerolog.Ctx(ctx).Warn().Str("file", f.Rel).Strs("params", missing).Msg("no insertion anchor found")
			res.Warnings = append(res.Warnings, warning)
		} else {
			out = anchored
		}
	}

	res.Changed = out != src
	res.Content = []byte(out)
	return res, nil
}

// wrapAnnotations wraps every annotation whose type text fits the parameter
// set in Promise<...>, in one left-to-right pass so earlier rewrites cannot
// shift later match offsets.
func (r *Rule) wrapAnnotations(src string, params []string) (string, bool) {
	var b strings.Builder
	last := 0
	wrapped := false
	for _, ann := range findAnnotations(src) {
		typ := src[ann.start:ann.end]
		if !typeMatches(typ, params) {
			continue
		}
		b.WriteString(src[last:ann.start])
		b.WriteString("Promise<")
		b.WriteString(typ)
		b.WriteString(">")
		last = ann.end
		wrapped = true
	}
	if !wrapped {
		return src, false
	}
	b.WriteString(src[last:])
	return b.String(), true
}

// upgradeBindings walks the parameters in path order and rewrites every
// synchronous binding each one has, so a file with several handlers is fully
// migrated in a single pass. Awaited bindings are left alone, and a
// parameter with no binding anywhere is returned for insertion.
func (r *Rule) upgradeBindings(src string, params []string) (string, []string) {
	var missing []string
	for _, name := range params {
		found := false
		pos := 0
		for {
			start, end, awaited, ok := findBinding(src, name, pos)
			if !ok {
				break
			}
			found = true
			if awaited {
				pos = end
				continue
			}
			stmt := bindingStmt(name)
			src = src[:start] + stmt + src[end:]
			pos = start + len(stmt)
		}
		if !found {
			missing = append(missing, name)
		}
	}
	return src, missing
}

// insertBindings splices one binding statement per parameter, in order,
// immediately after the guarded-block anchor. A single splice against the
// original anchor keeps the statements in parameter order without
// recomputing offsets per insertion. Returns "" when no anchor exists.
func (r *Rule) insertBindings(src string, params []string) string {
	anchor := findTryAnchor(src)
	if anchor < 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(src[:anchor])
	for _, name := range params {
		b.WriteString("\n")
		b.WriteString(r.indent())
		b.WriteString(bindingStmt(name))
	}
	b.WriteString(src[anchor:])
	return b.String()
}

func (r *Rule) indent() string {
	if r.Indent != "" {
		return r.Indent
	}
	return defaultIndent
}

func bindingStmt(name string) string {
	return "const { " + name + " } = await params;"
}
