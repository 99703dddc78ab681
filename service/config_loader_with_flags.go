package service

import (
	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/config"
)

// Command-line flag names that map onto FlowRequest fields
const (
	FlagFormat       = "format"
	FlagOutput       = "output"
	FlagInstructions = "instructions"
	FlagMethod       = "method"
	FlagRecursive    = "recursive"
	FlagInclude      = "include"
	FlagExclude      = "exclude"
	FlagWorkers      = "workers"
	FlagFailFast     = "fail-fast"
	FlagReclassify   = "reclassify"
)

// ConfigurationLoaderWithFlags merges only the flags the user set explicitly
type ConfigurationLoaderWithFlags struct {
	loader      *ConfigurationLoaderImpl
	flagTracker *config.FlagTracker
}

// NewConfigurationLoaderWithFlags creates a loader bound to a flag tracker
func NewConfigurationLoaderWithFlags(tracker *config.FlagTracker) *ConfigurationLoaderWithFlags {
	if tracker == nil {
		tracker = config.NewFlagTracker()
	}
	return &ConfigurationLoaderWithFlags{
		loader:      NewConfigurationLoader(),
		flagTracker: tracker,
	}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderWithFlags) LoadConfig(path string) (*domain.FlowRequest, error) {
	return c.loader.LoadConfig(path)
}

// LoadForTarget loads configuration for an analysis target
func (c *ConfigurationLoaderWithFlags) LoadForTarget(configPath, targetPath string) (*domain.FlowRequest, error) {
	return c.loader.LoadForTarget(configPath, targetPath)
}

// LoadDefaultConfig returns the built-in defaults
func (c *ConfigurationLoaderWithFlags) LoadDefaultConfig() *domain.FlowRequest {
	return c.loader.LoadDefaultConfig()
}

// MergeConfig overlays explicitly set flags onto base. Paths, the writer and
// the config path always come from the command line.
func (c *ConfigurationLoaderWithFlags) MergeConfig(base *domain.FlowRequest, override *domain.FlowRequest) *domain.FlowRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	ft := c.flagTracker
	merged := *base

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	merged.NoOpen = override.NoOpen

	merged.OutputFormat = domain.OutputFormat(ft.MergeString(string(merged.OutputFormat), string(override.OutputFormat), FlagFormat))
	merged.OutputPath = ft.MergeString(merged.OutputPath, override.OutputPath, FlagOutput)
	merged.ShowInstructions = ft.MergeBool(merged.ShowInstructions, override.ShowInstructions, FlagInstructions)
	merged.MethodFilter = ft.MergeString(merged.MethodFilter, override.MethodFilter, FlagMethod)
	merged.Recursive = ft.MergeBool(merged.Recursive, override.Recursive, FlagRecursive)
	merged.IncludePatterns = ft.MergeStringSlice(merged.IncludePatterns, override.IncludePatterns, FlagInclude)
	merged.ExcludePatterns = ft.MergeStringSlice(merged.ExcludePatterns, override.ExcludePatterns, FlagExclude)
	merged.MaxWorkers = ft.MergeInt(merged.MaxWorkers, override.MaxWorkers, FlagWorkers)
	merged.FailFast = ft.MergeBool(merged.FailFast, override.FailFast, FlagFailFast)
	merged.ReclassifyOnAdd = ft.MergeBool(merged.ReclassifyOnAdd, override.ReclassifyOnAdd, FlagReclassify)

	return &merged
}

var _ domain.FlowConfigurationLoader = (*ConfigurationLoaderWithFlags)(nil)
