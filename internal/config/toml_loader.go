package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// BcflowTomlConfig represents the structure of .bcflow.toml. Scalar fields
// are pointers so an absent key keeps its default.
type BcflowTomlConfig struct {
	Analysis   TomlAnalysisConfig   `toml:"analysis"`
	Output     TomlOutputConfig     `toml:"output"`
	Classifier TomlClassifierConfig `toml:"classifier"`
}

// TomlAnalysisConfig represents the [analysis] section
type TomlAnalysisConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       *bool    `toml:"recursive"`
	MaxWorkers      *int     `toml:"max_workers"`
	FailFast        *bool    `toml:"fail_fast"`
	MethodFilter    *string  `toml:"method_filter"`
}

// TomlOutputConfig represents the [output] section
type TomlOutputConfig struct {
	Format           *string `toml:"format"`
	Directory        *string `toml:"directory"`
	ShowInstructions *bool   `toml:"show_instructions"`
}

// TomlClassifierConfig represents the [classifier] section
type TomlClassifierConfig struct {
	ReclassifyOnAdd *bool `toml:"reclassify_on_add"`
}

// TomlConfigLoader handles .bcflow.toml discovery and loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads the nearest .bcflow.toml at or above startDir merged
// over the defaults. Without a config file the defaults are returned.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath, err := l.FindConfigFile(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return l.LoadFile(configPath)
}

// LoadFile loads a specific TOML file merged over the defaults
func (l *TomlConfigLoader) LoadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var tomlCfg BcflowTomlConfig
	if err := toml.Unmarshal(data, &tomlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	l.merge(cfg, &tomlCfg)
	return cfg, nil
}

// FindConfigFile walks from startDir to the filesystem root looking for .bcflow.toml
func (l *TomlConfigLoader) FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

func (l *TomlConfigLoader) merge(cfg *Config, t *BcflowTomlConfig) {
	a := t.Analysis
	if len(a.IncludePatterns) > 0 {
		cfg.Analysis.IncludePatterns = a.IncludePatterns
	}
	if a.ExcludePatterns != nil {
		cfg.Analysis.ExcludePatterns = a.ExcludePatterns
	}
	if a.Recursive != nil {
		cfg.Analysis.Recursive = *a.Recursive
	}
	if a.MaxWorkers != nil {
		cfg.Analysis.MaxWorkers = *a.MaxWorkers
	}
	if a.FailFast != nil {
		cfg.Analysis.FailFast = *a.FailFast
	}
	if a.MethodFilter != nil {
		cfg.Analysis.MethodFilter = *a.MethodFilter
	}

	o := t.Output
	if o.Format != nil {
		cfg.Output.Format = *o.Format
	}
	if o.Directory != nil {
		cfg.Output.Directory = *o.Directory
	}
	if o.ShowInstructions != nil {
		cfg.Output.ShowInstructions = *o.ShowInstructions
	}

	if t.Classifier.ReclassifyOnAdd != nil {
		cfg.Classifier.ReclassifyOnAdd = *t.Classifier.ReclassifyOnAdd
	}
}
