package service

import (
	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/config"
)

// ConfigurationLoaderImpl implements the FlowConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.FlowRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return c.convertToFlowRequest(cfg), nil
}

// LoadForTarget loads configuration for an analysis target
func (c *ConfigurationLoaderImpl) LoadForTarget(configPath, targetPath string) (*domain.FlowRequest, error) {
	cfg, err := config.LoadConfigWithTarget(configPath, targetPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	req := c.convertToFlowRequest(cfg)
	req.ConfigPath = configPath
	return req, nil
}

// LoadDefaultConfig returns the built-in defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.FlowRequest {
	return c.convertToFlowRequest(config.DefaultConfig())
}

// MergeConfig overlays every non-zero override value onto base. Boolean
// options cannot be turned off this way; use ConfigurationLoaderWithFlags
// when the set of explicit flags is known.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.FlowRequest, override *domain.FlowRequest) *domain.FlowRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.MethodFilter != "" {
		merged.MethodFilter = override.MethodFilter
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}
	if override.MaxWorkers > 0 {
		merged.MaxWorkers = override.MaxWorkers
	}
	merged.ShowInstructions = merged.ShowInstructions || override.ShowInstructions
	merged.FailFast = merged.FailFast || override.FailFast
	merged.NoOpen = override.NoOpen
	return &merged
}

func (c *ConfigurationLoaderImpl) convertToFlowRequest(cfg *config.Config) *domain.FlowRequest {
	format, err := domain.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		format = domain.OutputFormatText
	}

	return &domain.FlowRequest{
		OutputFormat:     format,
		ShowInstructions: cfg.Output.ShowInstructions,
		MethodFilter:     cfg.Analysis.MethodFilter,
		Recursive:        cfg.Analysis.Recursive,
		IncludePatterns:  append([]string(nil), cfg.Analysis.IncludePatterns...),
		ExcludePatterns:  append([]string(nil), cfg.Analysis.ExcludePatterns...),
		MaxWorkers:       cfg.Analysis.MaxWorkers,
		FailFast:         cfg.Analysis.FailFast,
		ReclassifyOnAdd:  cfg.Classifier.ReclassifyOnAdd,
	}
}

var _ domain.FlowConfigurationLoader = (*ConfigurationLoaderImpl)(nil)
