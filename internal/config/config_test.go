package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "svdoc.yaml")
	content := `format: markdown
output_dir: docs
sources:
  include: ["rtl/**/*.sv"]
  exclude: ["rtl/tb_*.sv"]
lint:
  enabled: true
  strict: true
  rules:
    undocumented_port: error
    unbounded_parameter: "off"
concurrency:
  max_parallel_files: 4
cache:
  enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Format != "markdown" {
		t.Fatalf("expected format markdown, got %q", cfg.Format)
	}
	if cfg.OutputDir != "docs" {
		t.Fatalf("expected output_dir docs, got %q", cfg.OutputDir)
	}
	if len(cfg.Sources.Include) != 1 || cfg.Sources.Include[0] != "rtl/**/*.sv" {
		t.Fatalf("unexpected include: %v", cfg.Sources.Include)
	}
	if !cfg.Lint.Enabled || !cfg.Lint.Strict {
		t.Fatalf("expected lint enabled and strict, got %+v", cfg.Lint)
	}
	if cfg.Concurrency.MaxParallelFiles != 4 {
		t.Fatalf("expected max_parallel_files 4, got %d", cfg.Concurrency.MaxParallelFiles)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Dir != defaultCacheDir {
		t.Fatalf("expected cache enabled in %s, got %+v", defaultCacheDir, cfg.Cache)
	}

	if got := cfg.GetRuleSeverity("undocumented_port", "warning"); got != "error" {
		t.Fatalf("expected override error, got %q", got)
	}
	if got := cfg.GetRuleSeverity("undocumented_parameter", "warning"); got != "warning" {
		t.Fatalf("expected default warning, got %q", got)
	}
	if cfg.IsRuleEnabled("unbounded_parameter") {
		t.Fatalf("expected unbounded_parameter to be off")
	}
	if !cfg.IsRuleEnabled("undocumented_parameter") {
		t.Fatalf("expected unconfigured rule to be enabled")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "svdoc.json")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svdoc.json")
	if err := os.WriteFile(path, []byte(`{"format": `), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svdoc.json")
	if err := os.WriteFile(path, []byte(`{"format": "rst", "lint": {"strict": false}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SVDOC_FORMAT", "yaml")
	t.Setenv("SVDOC_LINT_STRICT", "true")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Format != "yaml" {
		t.Fatalf("expected env format yaml, got %q", cfg.Format)
	}
	if !cfg.Lint.Strict {
		t.Fatalf("expected env to enable strict lint")
	}
}

func TestLoadFindsRootConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".svdoc.json"), []byte(`{"output_dir": "out"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Fatalf("expected output_dir from root config, got %q", cfg.OutputDir)
	}
	if cfg.Format != defaultFormat {
		t.Fatalf("expected default format, got %q", cfg.Format)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svdoc.json")

	cfg := DefaultConfig()
	cfg.Format = "markdown"
	cfg.Lint.Rules["undocumented_port"] = "error"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Format != "markdown" {
		t.Fatalf("expected format markdown, got %q", loaded.Format)
	}
	if loaded.GetRuleSeverity("undocumented_port", "warning") != "error" {
		t.Fatalf("expected saved rule override, got %v", loaded.Lint.Rules)
	}
	if len(loaded.Sources.Include) != len(defaultIncludes) {
		t.Fatalf("expected default includes, got %v", loaded.Sources.Include)
	}
}
