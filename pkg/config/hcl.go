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

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// hclConfig is the HCL decoding schema, converted to the model after decode.
type hclConfig struct {
	Root           string    `hcl:"root"`
	Extensions     []string  `hcl:"extensions,optional"`
	IgnorePatterns []string  `hcl:"ignore_patterns,optional"`
	Jobs           int       `hcl:"jobs,optional"`
	Brackets       *struct {
		Open   string `hcl:"open,optional"`
		Close  string `hcl:"close,optional"`
		Spread string `hcl:"spread,optional"`
	} `hcl:"brackets,block"`
	Signature *struct {
		Disabled bool   `hcl:"disabled,optional"`
		Indent   string `hcl:"indent,optional"`
	} `hcl:"signature,block"`
	Substitutions []struct {
		Name     string `hcl:"name,label"`
		Old      string `hcl:"old"`
		New      string `hcl:"new"`
		FileGlob string `hcl:"file_glob,optional"`
	} `hcl:"substitution,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Root:           raw.Root,
		Extensions:     raw.Extensions,
		IgnorePatterns: raw.IgnorePatterns,
		Jobs:           raw.Jobs,
	}
	if raw.Brackets != nil {
		cfg.Brackets = BracketArgs{
			Open:   raw.Brackets.Open,
			Close:  raw.Brackets.Close,
			Spread: raw.Brackets.Spread,
		}
	}
	if raw.Signature != nil {
		cfg.Rules.Signature = SignatureArgs{
			Disabled: raw.Signature.Disabled,
			Indent:   raw.Signature.Indent,
		}
	}
	for _, sub := range raw.Substitutions {
		cfg.Rules.Substitutions = append(cfg.Rules.Substitutions, SubstitutionArgs{
			Name:     sub.Name,
			Old:      sub.Old,
			New:      sub.New,
			FileGlob: sub.FileGlob,
		})
	}

	return cfg, nil
}
