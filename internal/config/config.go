package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration for svdoc
type Config struct {
	// Format selects the renderer: "rst", "markdown", "json", "yaml"
	Format string `mapstructure:"format" json:"format,omitempty"`

	// OutputDir is where <module><ext> files are written
	OutputDir string `mapstructure:"output_dir" json:"output_dir,omitempty"`

	// Template is an optional text/template file that replaces the built-in layout
	Template string `mapstructure:"template" json:"template,omitempty"`

	// Sources controls which files a directory argument expands to
	Sources SourcesConfig `mapstructure:"sources" json:"sources"`

	// Lint contains documentation coverage configuration
	Lint LintConfig `mapstructure:"lint" json:"lint"`

	// Concurrency contains batch processing options
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" json:"concurrency"`

	// Cache controls skipping of unchanged inputs
	Cache CacheConfig `mapstructure:"cache" json:"cache"`
}

// SourcesConfig lists glob patterns, relative to each directory argument
type SourcesConfig struct {
	Include []string `mapstructure:"include" json:"include"`
	Exclude []string `mapstructure:"exclude" json:"exclude,omitempty"`
}

// LintConfig contains documentation coverage configuration
type LintConfig struct {
	// Enabled runs the coverage policy on every generated document
	Enabled bool `mapstructure:"enabled" json:"enabled"`

	// Strict fails a file when any violation has error severity
	Strict bool `mapstructure:"strict" json:"strict"`

	// PolicyDir holds extra .rego files loaded next to the built-in policy
	PolicyDir string `mapstructure:"policy_dir" json:"policy_dir,omitempty"`

	// Rules maps rule names to severity: "off", "info", "warning", "error"
	Rules map[string]string `mapstructure:"rules" json:"rules,omitempty"`
}

// ConcurrencyConfig contains batch processing options
type ConcurrencyConfig struct {
	// MaxParallelFiles limits concurrent file processing (0 = auto)
	MaxParallelFiles int `mapstructure:"max_parallel_files" json:"max_parallel_files"`
}

// CacheConfig controls the content-hash cache
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Dir     string `mapstructure:"dir" json:"dir,omitempty"`
}

const (
	defaultFormat   = "rst"
	defaultCacheDir = ".svdoc_cache"
	envPrefix       = "SVDOC"
)

var (
	defaultIncludes = []string{"**/*.sv", "**/*.v"}

	configNames      = []string{"svdoc", ".svdoc"}
	configExtensions = []string{"json", "yaml", "yml", "toml"}
)

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Format:    defaultFormat,
		OutputDir: ".",
		Sources: SourcesConfig{
			Include: append([]string(nil), defaultIncludes...),
			Exclude: []string{},
		},
		Lint: LintConfig{
			Rules: map[string]string{},
		},
		Concurrency: ConcurrencyConfig{
			MaxParallelFiles: 0, // auto
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     defaultCacheDir,
		},
	}
}

// Load finds and loads the configuration file
// Search order:
//  1. ./svdoc.{json,yaml,yml,toml} (current working directory)
//  2. ./.svdoc.{json,yaml,yml,toml}
//  3. <rootPath>/svdoc.* and <rootPath>/.svdoc.* (if rootPath is another directory)
//  4. ~/.config/svdoc/config.{json,yaml,yml,toml}
//
// Returns DefaultConfig (with SVDOC_* overrides) if no config file is found
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := candidates(cwd, configNames)

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchPaths = append(searchPaths, candidates(rootPath, configNames)...)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, candidates(filepath.Join(home, ".config", "svdoc"), []string{"config"})...)
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return load("")
}

func candidates(dir string, names []string) []string {
	var paths []string
	for _, name := range names {
		for _, ext := range configExtensions {
			paths = append(paths, filepath.Join(dir, name+"."+ext))
		}
	}
	return paths
}

// LoadFile loads configuration from a specific file
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("format", defaults.Format)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("template", defaults.Template)
	v.SetDefault("sources.include", defaults.Sources.Include)
	v.SetDefault("sources.exclude", defaults.Sources.Exclude)
	v.SetDefault("lint.enabled", defaults.Lint.Enabled)
	v.SetDefault("lint.strict", defaults.Lint.Strict)
	v.SetDefault("lint.policy_dir", defaults.Lint.PolicyDir)
	v.SetDefault("lint.rules", defaults.Lint.Rules)
	v.SetDefault("concurrency.max_parallel_files", defaults.Concurrency.MaxParallelFiles)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.dir", defaults.Cache.Dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Format == "" {
		c.Format = defaultFormat
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if len(c.Sources.Include) == 0 {
		c.Sources.Include = append([]string(nil), defaultIncludes...)
	}
	if c.Lint.Rules == nil {
		c.Lint.Rules = make(map[string]string)
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = defaultCacheDir
	}
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetRuleSeverity returns the severity for a rule, or the default if not configured
func (c *Config) GetRuleSeverity(rule string, defaultSeverity string) string {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity
	}
	return defaultSeverity
}

// IsRuleEnabled returns true if the rule is not set to "off"
func (c *Config) IsRuleEnabled(rule string) bool {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity != "off"
	}
	return true // enabled by default
}
