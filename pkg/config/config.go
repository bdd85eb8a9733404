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

// Package config holds the explicit engine configuration: root path,
// extension filter, bracket conventions, and the ordered rule list. Nothing
// here is a process-wide default; the runner receives all of it as a value.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/routemod/pkg/routeparam"
	"github.com/walteh/routemod/pkg/rule"
	"github.com/walteh/routemod/pkg/rule/signature"
	"github.com/walteh/routemod/pkg/selector"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔧 BracketArgs spells the variable-path-component convention.
type BracketArgs struct {
	Open   string `json:"open,omitempty" yaml:"open,omitempty"`
	Close  string `json:"close,omitempty" yaml:"close,omitempty"`
	Spread string `json:"spread,omitempty" yaml:"spread,omitempty"`
}

// 🔧 SignatureArgs configures the dynamic-route params migration rule.
type SignatureArgs struct {
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Indent   string `json:"indent,omitempty" yaml:"indent,omitempty"`
}

// 🔄 SubstitutionArgs configures one plain old→new replacement rule.
type SubstitutionArgs struct {
	Name     string `json:"name" yaml:"name"`
	Old      string `json:"old" yaml:"old"`
	New      string `json:"new" yaml:"new"`
	FileGlob string `json:"file_glob,omitempty" yaml:"file_glob,omitempty"`
}

// 🔧 RulesArgs is the ordered rule list. Substitutions run in declaration
// order, before the signature rule.
type RulesArgs struct {
	Signature     SignatureArgs      `json:"signature,omitempty" yaml:"signature,omitempty"`
	Substitutions []SubstitutionArgs `json:"substitutions,omitempty" yaml:"substitutions,omitempty"`
}

// 📚 Config represents the complete engine configuration
type Config struct {
	Root           string      `json:"root" yaml:"root"`
	Extensions     []string    `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	IgnorePatterns []string    `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`
	Brackets       BracketArgs `json:"brackets,omitempty" yaml:"brackets,omitempty"`
	Rules          RulesArgs   `json:"rules,omitempty" yaml:"rules,omitempty"`
	Jobs           int         `json:"jobs,omitempty" yaml:"jobs,omitempty"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks the configuration and fills defaults.
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		return errors.Errorf("root is required")
	}
	cfg.Root = filepath.Clean(cfg.Root)

	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".ts"}
	}
	if cfg.Brackets.Open == "" {
		cfg.Brackets.Open = "["
	}
	if cfg.Brackets.Close == "" {
		cfg.Brackets.Close = "]"
	}
	if cfg.Brackets.Spread == "" {
		cfg.Brackets.Spread = "..."
	}
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative")
	}

	for i := range cfg.Rules.Substitutions {
		sub := cfg.Rules.Substitutions[i]
		r := rule.SubstitutionRule{RuleName: sub.Name, Old: sub.Old, New: sub.New, FileGlob: sub.FileGlob}
		if err := r.Validate(); err != nil {
			return errors.Errorf("substitution %d: %w", i, err)
		}
	}

	if cfg.Rules.Signature.Disabled && len(cfg.Rules.Substitutions) == 0 {
		return errors.Errorf("no rules enabled")
	}

	return nil
}

// 🧭 Convention returns the bracket convention as a value.
func (cfg *Config) Convention() routeparam.Convention {
	return routeparam.Convention{
		Open:   cfg.Brackets.Open,
		Close:  cfg.Brackets.Close,
		Spread: cfg.Brackets.Spread,
	}
}

// 🔍 Selector builds the path selector for this configuration.
func (cfg *Config) Selector() *selector.Selector {
	return &selector.Selector{
		Root:       cfg.Root,
		Extensions: cfg.Extensions,
		Ignore:     cfg.IgnorePatterns,
		Convention: cfg.Convention(),
	}
}

// 📋 BuildRules materializes the ordered rule list.
func (cfg *Config) BuildRules() []rule.Rule {
	var rules []rule.Rule
	for _, sub := range cfg.Rules.Substitutions {
		rules = append(rules, &rule.SubstitutionRule{
			RuleName: sub.Name,
			Old:      sub.Old,
			New:      sub.New,
			FileGlob: sub.FileGlob,
		})
	}
	if !cfg.Rules.Signature.Disabled {
		rules = append(rules, &signature.Rule{Indent: cfg.Rules.Signature.Indent})
	}
	return rules
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s (%d substitutions, signature=%t)",
		cfg.Root, len(cfg.Rules.Substitutions), !cfg.Rules.Signature.Disabled)
}
