package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Expected format text, got %s", cfg.Output.Format)
	}
	if !cfg.Analysis.Recursive {
		t.Error("Expected recursive analysis by default")
	}
	if !cfg.Classifier.ReclassifyOnAdd {
		t.Error("Expected reclassify_on_add by default")
	}
	if cfg.Analysis.Workers() < 1 {
		t.Errorf("Expected at least one worker, got %d", cfg.Analysis.Workers())
	}

	// Defaults must not alias the package-level pattern slices
	cfg.Analysis.IncludePatterns[0] = "mutated"
	if DefaultIncludePatterns[0] == "mutated" {
		t.Error("DefaultConfig shares its include patterns with DefaultIncludePatterns")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Output.Format = "csv" },
			wantErr: "invalid output.format",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Analysis.MaxWorkers = -1 },
			wantErr: "analysis.max_workers",
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Analysis.MaxWorkers = MaxWorkersLimit + 1 },
			wantErr: "analysis.max_workers",
		},
		{
			name:    "no include patterns",
			mutate:  func(c *Config) { c.Analysis.IncludePatterns = nil },
			wantErr: "include_patterns cannot be empty",
		},
		{
			name:    "broken glob",
			mutate:  func(c *Config) { c.Analysis.ExcludePatterns = []string{"[unclosed"} },
			wantErr: "invalid glob pattern",
		},
		{
			name:    "broken method filter",
			mutate:  func(c *Config) { c.Analysis.MethodFilter = "Foo.{bar" },
			wantErr: "invalid analysis.method_filter",
		},
		{
			name:   "explicit workers",
			mutate: func(c *Config) { c.Analysis.MaxWorkers = 4 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAnalysisConfigWorkers(t *testing.T) {
	a := AnalysisConfig{MaxWorkers: 3}
	if got := a.Workers(); got != 3 {
		t.Errorf("Expected 3 workers, got %d", got)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bcflow.yaml")
	content := `analysis:
  include_patterns: ["**/*.json"]
  max_workers: 2
  fail_fast: true
  method_filter: "com.example.*.run"
output:
  format: json
classifier:
  reclassify_on_add: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !reflect.DeepEqual(cfg.Analysis.IncludePatterns, []string{"**/*.json"}) {
		t.Errorf("Unexpected include patterns %v", cfg.Analysis.IncludePatterns)
	}
	if cfg.Analysis.MaxWorkers != 2 {
		t.Errorf("Expected max_workers 2, got %d", cfg.Analysis.MaxWorkers)
	}
	if !cfg.Analysis.FailFast {
		t.Error("Expected fail_fast true")
	}
	if cfg.Analysis.MethodFilter != "com.example.*.run" {
		t.Errorf("Unexpected method filter %q", cfg.Analysis.MethodFilter)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected format json, got %s", cfg.Output.Format)
	}
	if cfg.Classifier.ReclassifyOnAdd {
		t.Error("Expected reclassify_on_add false")
	}
	// Unset keys keep their defaults
	if !cfg.Analysis.Recursive {
		t.Error("Expected recursive default to survive")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bcflow.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: html\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("expected invalid configuration error, got %v", err)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")

	cfg := DefaultConfig()
	cfg.Analysis.MaxWorkers = 8
	cfg.Output.Format = "yaml"
	cfg.Output.ShowInstructions = true

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", cfg, loaded)
	}
}

func TestGenerateDefaultConfigTOML(t *testing.T) {
	content, err := GenerateDefaultConfigTOML()
	if err != nil {
		t.Fatalf("Failed to render default config: %v", err)
	}

	for _, want := range []string{"[analysis]", "[output]", "[classifier]", `"**/*.msgpack"`, "reclassify_on_add = true"} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered config missing %q", want)
		}
	}

	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := WriteDefaultConfig(path, false); err != nil {
		t.Fatalf("Failed to write default config: %v", err)
	}

	loaded, err := NewTomlConfigLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("Failed to load rendered config: %v", err)
	}
	if !reflect.DeepEqual(DefaultConfig(), loaded) {
		t.Errorf("rendered config does not reproduce defaults:\nwant %+v\ngot  %+v", DefaultConfig(), loaded)
	}

	if err := WriteDefaultConfig(path, false); err == nil {
		t.Error("expected refusal to overwrite without force")
	}
	if err := WriteDefaultConfig(path, true); err != nil {
		t.Errorf("forced overwrite failed: %v", err)
	}
}
