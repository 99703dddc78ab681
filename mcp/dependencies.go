package mcp

import (
	"io"
	"log/slog"

	"github.com/ludo-technologies/bcflow/app"
	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/config"
	"github.com/ludo-technologies/bcflow/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	configPath string
	logger     *slog.Logger
}

// NewDependencies constructs the dependency set. An empty configPath makes
// each request discover .bcflow.toml from its target.
func NewDependencies(configPath string, logger *slog.Logger) *Dependencies {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dependencies{
		fileReader: service.NewFileReader(),
		configPath: configPath,
		logger:     logger,
	}
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// BuildFlowUseCase assembles a flow use case. Only the request fields named
// in tracker override config file values.
func (d *Dependencies) BuildFlowUseCase(tracker *config.FlagTracker) (*app.FlowUseCase, error) {
	flowService := service.NewFlowService(d.fileReader, service.NewNoOpProgressManager())
	flowService.SetLogger(d.logger)

	return app.NewFlowUseCaseBuilder().
		WithService(flowService).
		WithFileReader(d.fileReader).
		WithFormatter(service.NewFlowFormatter()).
		WithConfigLoader(service.NewConfigurationLoaderWithFlags(tracker)).
		Build()
}

// BuildQueryUseCase assembles a query use case
func (d *Dependencies) BuildQueryUseCase() *app.QueryUseCase {
	queryService := service.NewQueryService(d.fileReader)
	queryService.SetLogger(d.logger)
	return app.NewQueryUseCase(queryService, d.fileReader, service.NewFlowFormatter())
}
