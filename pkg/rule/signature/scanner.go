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

// A narrow hand-rolled scanner over brace/paren nesting. It recognizes just
// the token shapes the migration needs (params type annotation, binding
// statement, guarded-block anchor) without building a grammar. String
// literals and comments are skipped when balancing braces so that a brace
// inside a template literal cannot derail a match.

// isIdentByte reports whether c can appear inside an identifier.
func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// skipSpace returns the index of the first non-whitespace byte at or after i.
func skipSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// matchWord matches the identifier word at s[i] with word boundaries on both
// sides, returning the index just past it.
func matchWord(s string, i int, word string) (int, bool) {
	if i < 0 || i+len(word) > len(s) || s[i:i+len(word)] != word {
		return 0, false
	}
	if i > 0 && isIdentByte(s[i-1]) {
		return 0, false
	}
	j := i + len(word)
	if j < len(s) && isIdentByte(s[j]) {
		return 0, false
	}
	return j, true
}

// containsWord reports whether word occurs anywhere in s as a whole
// identifier.
func containsWord(s, word string) bool {
	for i := 0; i+len(word) <= len(s); i++ {
		if _, ok := matchWord(s, i, word); ok {
			return true
		}
	}
	return false
}

// skipString returns the index just past the string literal opening at s[i].
// Handles backslash escapes; an unterminated literal runs to end of input.
func skipString(s string, i int) int {
	quote := s[i]
	i++
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return i
}

// skipComment returns the index just past the comment opening at s[i], or
// i+1 when s[i] does not open one.
func skipComment(s string, i int) int {
	if i+1 >= len(s) || s[i] != '/' {
		return i + 1
	}
	switch s[i+1] {
	case '/':
		for i < len(s) && s[i] != '\n' {
			i++
		}
		return i
	case '*':
		for i += 2; i+1 < len(s); i++ {
			if s[i] == '*' && s[i+1] == '/' {
				return i + 2
			}
		}
		return len(s)
	default:
		return i + 1
	}
}

// scanBlock returns the index just past the brace block opening at s[i].
// s[i] must be '{'. Returns -1 when the block never closes.
func scanBlock(s string, i int) int {
	depth := 0
	for i < len(s) {
		switch s[i] {
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
			if depth == 0 {
				return i
			}
		case '\'', '"', '`':
			i = skipString(s, i)
		case '/':
			i = skipComment(s, i)
		default:
			i++
		}
	}
	return -1
}

// annotation marks the record-type text of one synchronous params signature,
// i.e. the `{ ... }` in `{ params }: { params: { ... } }`.
type annotation struct {
	start, end int // half-open range into the source
}

// matchParamsSignature attempts to match the full destructured-params shape
// starting at the '{' at src[i] and returns the inner type range. Only
// brace-opened types match, so a Promise<...> annotation never does.
func matchParamsSignature(src string, i int) (annotation, bool) {
	j := skipSpace(src, i+1)
	j, ok := matchWord(src, j, "params")
	if !ok {
		return annotation{}, false
	}
	j = skipSpace(src, j)
	if j >= len(src) || src[j] != '}' {
		return annotation{}, false
	}
	j = skipSpace(src, j+1)
	if j >= len(src) || src[j] != ':' {
		return annotation{}, false
	}
	j = skipSpace(src, j+1)
	if j >= len(src) || src[j] != '{' {
		return annotation{}, false
	}
	j = skipSpace(src, j+1)
	j, ok = matchWord(src, j, "params")
	if !ok {
		return annotation{}, false
	}
	j = skipSpace(src, j)
	if j >= len(src) || src[j] != ':' {
		return annotation{}, false
	}
	j = skipSpace(src, j+1)
	if j >= len(src) || src[j] != '{' {
		return annotation{}, false
	}
	end := scanBlock(src, j)
	if end < 0 {
		return annotation{}, false
	}
	return annotation{start: j, end: end}, true
}

// findAnnotations returns every synchronous params annotation in src, in
// source order, non-overlapping.
func findAnnotations(src string) []annotation {
	var anns []annotation
	for i := 0; i < len(src); i++ {
		if src[i] != '{' {
			continue
		}
		ann, ok := matchParamsSignature(src, i)
		if !ok {
			continue
		}
		anns = append(anns, ann)
		i = ann.end - 1
	}
	return anns
}

// typeMatches reports whether the record type text fits the parameter set.
// A single parameter demands the exact one-field shape `{ name: string }`.
// Several parameters use the looser heuristic of every name appearing
// somewhere inside the block; handler signatures with multiple params are
// homogeneous enough in practice that this has not misfired.
func typeMatches(typ string, params []string) bool {
	if len(params) == 1 {
		j := skipSpace(typ, 1)
		j, ok := matchWord(typ, j, params[0])
		if !ok {
			return false
		}
		j = skipSpace(typ, j)
		if j >= len(typ) || typ[j] != ':' {
			return false
		}
		j = skipSpace(typ, j+1)
		j, ok = matchWord(typ, j, "string")
		if !ok {
			return false
		}
		j = skipSpace(typ, j)
		return j == len(typ)-1 && typ[j] == '}'
	}
	for _, name := range params {
		if !containsWord(typ, name) {
			return false
		}
	}
	return true
}

// findBinding locates the first binding statement for name at or after
// from, either `const { name } = params;` or `const { name } = await
// params`. The returned range covers the statement through its semicolon
// when present. The synchronous form requires the semicolon so that member
// accesses like `params.foo` are never mistaken for a binding. Callers
// resume past the returned range to visit every binding in the file.
func findBinding(src, name string, from int) (start, end int, awaited, ok bool) {
	for i := from; i < len(src); i++ {
		j, matched := matchWord(src, i, "const")
		if !matched {
			continue
		}
		j = skipSpace(src, j)
		if j >= len(src) || src[j] != '{' {
			continue
		}
		j = skipSpace(src, j+1)
		j, matched = matchWord(src, j, name)
		if !matched {
			continue
		}
		j = skipSpace(src, j)
		if j >= len(src) || src[j] != '}' {
			continue
		}
		j = skipSpace(src, j+1)
		if j >= len(src) || src[j] != '=' {
			continue
		}
		j = skipSpace(src, j+1)
		isAwait := false
		if k, matchedAwait := matchWord(src, j, "await"); matchedAwait {
			isAwait = true
			j = skipSpace(src, k)
		}
		j, matched = matchWord(src, j, "params")
		if !matched {
			continue
		}
		stmtEnd := j
		if semi := skipSpace(src, stmtEnd); semi < len(src) && src[semi] == ';' {
			stmtEnd = semi + 1
		} else if !isAwait {
			// sync form without a terminator is some other expression
			continue
		}
		return i, stmtEnd, isAwait, true
	}
	return 0, 0, false, false
}
