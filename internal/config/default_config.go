package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"
)

//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds the values used to render the default config template
type DefaultConfigValues struct {
	IncludePatterns  []string
	ExcludePatterns  []string
	Recursive        bool
	MaxWorkers       int
	FailFast         bool
	Format           string
	Directory        string
	ShowInstructions bool
	ReclassifyOnAdd  bool
}

func newDefaultConfigValues() DefaultConfigValues {
	cfg := DefaultConfig()
	return DefaultConfigValues{
		IncludePatterns:  cfg.Analysis.IncludePatterns,
		ExcludePatterns:  cfg.Analysis.ExcludePatterns,
		Recursive:        cfg.Analysis.Recursive,
		MaxWorkers:       cfg.Analysis.MaxWorkers,
		FailFast:         cfg.Analysis.FailFast,
		Format:           cfg.Output.Format,
		Directory:        cfg.Output.Directory,
		ShowInstructions: cfg.Output.ShowInstructions,
		ReclassifyOnAdd:  cfg.Classifier.ReclassifyOnAdd,
	}
}

// GenerateDefaultConfigTOML renders the default config template
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}

// WriteDefaultConfig writes the rendered default config to path. An
// existing file is only replaced when force is set.
func WriteDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	content, err := GenerateDefaultConfigTOML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
