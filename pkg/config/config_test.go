package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `root: ./app/api
extensions:
  - .ts
ignore_patterns:
  - "**/*.test.ts"
rules:
  signature:
    indent: "  "
  substitutions:
    - name: core-imports
      old: "@studio/core/services/"
      new: "../../packages/core/src/services/"
    - name: null-safety
      old: ".project.name"
      new: ".project?.name || 'Unknown'"
      file_glob: "analytics/**"
jobs: 4
`

const hclConfigSource = `root = "./app/api"
extensions = [".ts", ".tsx"]

brackets {
  open   = "["
  close  = "]"
  spread = "..."
}

signature {
  indent = "  "
}

substitution "core-imports" {
  old = "@studio/core/services/"
  new = "../../packages/core/src/services/"
}
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "routemod.yaml", yamlConfig)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean("./app/api"), cfg.Root)
	assert.Equal(t, []string{".ts"}, cfg.Extensions)
	assert.Equal(t, []string{"**/*.test.ts"}, cfg.IgnorePatterns)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "  ", cfg.Rules.Signature.Indent)
	require.Len(t, cfg.Rules.Substitutions, 2)
	assert.Equal(t, "core-imports", cfg.Rules.Substitutions[0].Name)
	assert.Equal(t, "analytics/**", cfg.Rules.Substitutions[1].FileGlob)

	// defaults filled in by Validate
	assert.Equal(t, "[", cfg.Brackets.Open)
	assert.Equal(t, "]", cfg.Brackets.Close)
	assert.Equal(t, "...", cfg.Brackets.Spread)
}

func TestLoad_HCL(t *testing.T) {
	path := writeConfig(t, "routemod.hcl", hclConfigSource)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean("./app/api"), cfg.Root)
	assert.Equal(t, []string{".ts", ".tsx"}, cfg.Extensions)
	require.Len(t, cfg.Rules.Substitutions, 1)
	assert.Equal(t, "core-imports", cfg.Rules.Substitutions[0].Name)
	assert.False(t, cfg.Rules.Signature.Disabled)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		content   string
		wantError string
	}{
		{
			name:      "unknown_extension",
			filename:  "routemod.toml",
			content:   "root = 'x'",
			wantError: "no parser found",
		},
		{
			name:      "missing_root",
			filename:  "routemod.yaml",
			content:   "extensions: ['.ts']\n",
			wantError: "root is required",
		},
		{
			name:      "unknown_yaml_field",
			filename:  "routemod.yaml",
			content:   "root: x\nbogus: true\n",
			wantError: "parsing YAML",
		},
		{
			name:      "negative_jobs",
			filename:  "routemod.yaml",
			content:   "root: x\njobs: -1\n",
			wantError: "jobs must not be negative",
		},
		{
			name:     "all_rules_disabled",
			filename: "routemod.yaml",
			content: `root: x
rules:
  signature:
    disabled: true
`,
			wantError: "no rules enabled",
		},
		{
			name:     "non_convergent_substitution",
			filename: "routemod.yaml",
			content: `root: x
rules:
  substitutions:
    - name: plural
      old: member
      new: members
`,
			wantError: "never converge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.filename, tt.content)
			_, err := Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestConfig_BuildRules(t *testing.T) {
	cfg := &Config{
		Root: ".",
		Rules: RulesArgs{
			Substitutions: []SubstitutionArgs{
				{Name: "a", Old: "x", New: "y"},
			},
		},
	}
	require.NoError(t, cfg.Validate())

	rules := cfg.BuildRules()
	require.Len(t, rules, 2)
	assert.Equal(t, "a", rules[0].Name())
	assert.Equal(t, "dynamic-route-params", rules[1].Name())
}

func TestConfig_BuildRules_SignatureDisabled(t *testing.T) {
	cfg := &Config{
		Root: ".",
		Rules: RulesArgs{
			Signature:     SignatureArgs{Disabled: true},
			Substitutions: []SubstitutionArgs{{Name: "a", Old: "x", New: "y"}},
		},
	}
	require.NoError(t, cfg.Validate())

	rules := cfg.BuildRules()
	require.Len(t, rules, 1)
	assert.Equal(t, "a", rules[0].Name())
}
