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

package signature

// findTryAnchor returns the offset just past the first `) { try {` token
// run: the close of a parameter list, the body open, and the opening of the
// body's guarded block. New binding statements are inserted there. Returns
// -1 when the file has no such anchor; the caller records a warning and
// leaves the body alone.
func findTryAnchor(src string) int {
	for i := 0; i < len(src); i++ {
		if src[i] != ')' {
			continue
		}
		j := skipSpace(src, i+1)
		if j >= len(src) || src[j] != '{' {
			continue
		}
		j = skipSpace(src, j+1)
		j, ok := matchWord(src, j, "try")
		if !ok {
			continue
		}
		j = skipSpace(src, j)
		if j >= len(src) || src[j] != '{' {
			continue
		}
		return j + 1
	}
	return -1
}
