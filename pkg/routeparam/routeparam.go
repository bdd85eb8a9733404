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

// Package routeparam extracts dynamic route parameter names from file paths.
//
// Route trees encode variable path components as bracketed directory names,
// e.g. app/api/orgs/[orgId]/members/[userId]/route.ts. Each bracketed
// segment names one parameter. A segment whose bracket content starts with
// the spread marker (e.g. [...slug]) is a catch-all: it marks the path as
// dynamic but contributes no parameter name.
package routeparam

import (
	"path/filepath"
	"strings"
)

// 🔧 Convention describes how variable path components are spelled.
type Convention struct {
	Open   string // opening bracket, e.g. "["
	Close  string // closing bracket, e.g. "]"
	Spread string // catch-all prefix inside brackets, e.g. "..."
}

// 🏭 Default returns the bracket convention used by the route trees we target.
func Default() Convention {
	return Convention{Open: "[", Close: "]", Spread: "..."}
}

// 🔍 IsDynamic reports whether any directory segment between the path's root
// and the file carries a bracket pair. The file name itself is not considered.
func (c Convention) IsDynamic(path string) bool {
	for _, seg := range dirSegments(path) {
		if strings.Contains(seg, c.Open) && strings.Contains(seg, c.Close) {
			return true
		}
	}
	return false
}

// 📝 Extract returns the ordered parameter names encoded in the path's
// directory segments, outermost first. Catch-all segments are dropped.
// Malformed brackets yield no name rather than an error.
func (c Convention) Extract(path string) []string {
	var params []string
	for _, seg := range dirSegments(path) {
		if !strings.HasPrefix(seg, c.Open) || !strings.HasSuffix(seg, c.Close) {
			continue
		}
		name := seg[len(c.Open) : len(seg)-len(c.Close)]
		if name == "" || strings.HasPrefix(name, c.Spread) {
			continue
		}
		params = append(params, name)
	}
	return params
}

// dirSegments splits the directory portion of path into clean segments.
func dirSegments(path string) []string {
	dir := filepath.ToSlash(filepath.Dir(path))
	if dir == "." || dir == "/" {
		return nil
	}
	return strings.Split(strings.Trim(dir, "/"), "/")
}
