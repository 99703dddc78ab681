package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

// ConfigFileName is the dedicated configuration file discovered upward from the analysis target
const ConfigFileName = ".bcflow.toml"

// Default analysis settings
const (
	// DefaultOutputFormat is used when neither a flag nor a config file picks one
	DefaultOutputFormat = "text"

	// DefaultOutputDirectory is where report files are written when no directory is configured
	DefaultOutputDirectory = ".bcflow/reports"

	// DefaultMaxWorkers of 0 means one worker per CPU
	DefaultMaxWorkers = 0

	// MaxWorkersLimit caps the configured worker count
	MaxWorkersLimit = 256
)

// DefaultIncludePatterns matches every recognized IR document encoding
var DefaultIncludePatterns = []string{"**/*.yaml", "**/*.yml", "**/*.json", "**/*.msgpack", "**/*.mpk"}

// DefaultExcludePatterns skips report output and vendored trees
var DefaultExcludePatterns = []string{".bcflow/**", "**/node_modules/**", "**/.git/**"}

// Config represents the main configuration structure
type Config struct {
	// Analysis holds document collection and scheduling configuration
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" toml:"analysis"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" toml:"output"`

	// Classifier holds edge classification configuration
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier" toml:"classifier"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// IncludePatterns specifies document patterns to include
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`

	// ExcludePatterns specifies document patterns to exclude
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`

	// Recursive controls whether to analyze directories recursively
	Recursive bool `mapstructure:"recursive" yaml:"recursive" toml:"recursive"`

	// MaxWorkers bounds the number of methods analyzed concurrently; 0 means NumCPU
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers" toml:"max_workers"`

	// FailFast aborts the run at the first corrupt method instead of recording the fault
	FailFast bool `mapstructure:"fail_fast" yaml:"fail_fast" toml:"fail_fast"`

	// MethodFilter is a glob matched against "Class.method"
	MethodFilter string `mapstructure:"method_filter" yaml:"method_filter" toml:"method_filter"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `mapstructure:"format" yaml:"format" toml:"format"`

	// Directory is where report files are written
	Directory string `mapstructure:"directory" yaml:"directory" toml:"directory"`

	// ShowInstructions includes each method's instruction listing in reports
	ShowInstructions bool `mapstructure:"show_instructions" yaml:"show_instructions" toml:"show_instructions"`
}

// ClassifierConfig holds edge classification configuration
type ClassifierConfig struct {
	// ReclassifyOnAdd classifies every edge as it is added to a graph.
	// When false edges are classified once after a method is loaded.
	ReclassifyOnAdd bool `mapstructure:"reclassify_on_add" yaml:"reclassify_on_add" toml:"reclassify_on_add"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			IncludePatterns: append([]string(nil), DefaultIncludePatterns...),
			ExcludePatterns: append([]string(nil), DefaultExcludePatterns...),
			Recursive:       true,
			MaxWorkers:      DefaultMaxWorkers,
			FailFast:        false,
		},
		Output: OutputConfig{
			Format:           DefaultOutputFormat,
			Directory:        DefaultOutputDirectory,
			ShowInstructions: false,
		},
		Classifier: ClassifierConfig{
			ReclassifyOnAdd: true,
		},
	}
}

// LoadConfig loads configuration from a YAML, JSON or TOML file, or returns
// the default config when configPath is empty and no default file exists
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = findDefaultConfig()
	}
	if configPath == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration for an analysis target. An
// explicit configPath wins; otherwise .bcflow.toml is searched upward from
// the target.
func LoadConfigWithTarget(configPath, targetPath string) (*Config, error) {
	if configPath != "" {
		return LoadConfig(configPath)
	}

	startDir := targetPath
	if startDir == "" {
		startDir = "."
	}
	if info, err := os.Stat(startDir); err == nil && !info.IsDir() {
		startDir = filepath.Dir(startDir)
	}

	cfg, err := NewTomlConfigLoader().LoadConfig(startDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// findDefaultConfig looks for default configuration files in the current directory
func findDefaultConfig() string {
	candidates := []string{
		"bcflow.yaml",
		"bcflow.yml",
		".bcflow.yaml",
		".bcflow.yml",
		"bcflow.json",
		".bcflow.json",
		ConfigFileName,
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	if c.Analysis.MaxWorkers < 0 || c.Analysis.MaxWorkers > MaxWorkersLimit {
		return fmt.Errorf("analysis.max_workers must be between 0 and %d, got %d", MaxWorkersLimit, c.Analysis.MaxWorkers)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	for _, group := range [][]string{c.Analysis.IncludePatterns, c.Analysis.ExcludePatterns} {
		for _, p := range group {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("invalid glob pattern '%s'", p)
			}
		}
	}

	if c.Analysis.MethodFilter != "" && !doublestar.ValidatePattern(c.Analysis.MethodFilter) {
		return fmt.Errorf("invalid analysis.method_filter '%s'", c.Analysis.MethodFilter)
	}

	if strings.ContainsRune(c.Output.Directory, 0) {
		return fmt.Errorf("output.directory contains a NUL byte")
	}

	return nil
}

// Workers resolves the configured worker count
func (a AnalysisConfig) Workers() int {
	if a.MaxWorkers > 0 {
		return a.MaxWorkers
	}
	return runtime.NumCPU()
}

// SaveConfig saves configuration to a file; the encoding follows the extension
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	v.Set("analysis", map[string]any{
		"include_patterns": config.Analysis.IncludePatterns,
		"exclude_patterns": config.Analysis.ExcludePatterns,
		"recursive":        config.Analysis.Recursive,
		"max_workers":      config.Analysis.MaxWorkers,
		"fail_fast":        config.Analysis.FailFast,
		"method_filter":    config.Analysis.MethodFilter,
	})
	v.Set("output", map[string]any{
		"format":            config.Output.Format,
		"directory":         config.Output.Directory,
		"show_instructions": config.Output.ShowInstructions,
	})
	v.Set("classifier", map[string]any{
		"reclassify_on_add": config.Classifier.ReclassifyOnAdd,
	})

	return v.WriteConfigAs(path)
}
