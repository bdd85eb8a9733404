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

package log

import (
	"context"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

func init() {
	// Skipped-file lines go through the debug printer.
	pterm.EnableDebugMessages()
}

// 📢 UserLogger provides user-friendly feedback for the scan and watch
// surfaces, where per-file pterm lines read better than raw log output.
type UserLogger struct {
	log zerolog.Logger
}

// 🎨 FileChangeType represents what happened to a file during a pass
type FileChangeType int

const (
	FileCandidate FileChangeType = iota
	FileFixed
	FileSkipped
	FileErrored
)

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 Candidate prints one candidate file with its route parameters.
func (u *UserLogger) Candidate(path string, params []string) {
	u.LogFileChange(FileCandidate, path, strings.Join(params, ", "))
}

// 📝 LogFileChange prints one file outcome with an appropriate printer.
func (u *UserLogger) LogFileChange(changeType FileChangeType, path, description string) {
	line := path
	if description != "" {
		line += " " + pterm.Gray("("+description+")")
	}

	switch changeType {
	case FileFixed:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✓"}).Println(line)
	case FileSkipped:
		pterm.Debug.WithPrefix(pterm.Prefix{Text: "-"}).Println(line)
	case FileErrored:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "✗"}).Println(line)
	default:
		pterm.Info.WithPrefix(pterm.Prefix{Text: "•"}).Println(line)
	}

	u.log.Debug().Str("file", path).Str("description", description).Msg("file change")
}
