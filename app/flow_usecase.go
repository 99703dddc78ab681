package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/bcflow/domain"
)

// FlowUseCase orchestrates the control-flow analysis workflow
type FlowUseCase struct {
	service      domain.FlowService
	fileReader   domain.FileReader
	formatter    domain.FlowOutputFormatter
	configLoader domain.FlowConfigurationLoader
	reportWriter domain.ReportWriter
}

// NewFlowUseCase creates a new flow use case
func NewFlowUseCase(
	service domain.FlowService,
	fileReader domain.FileReader,
	formatter domain.FlowOutputFormatter,
	configLoader domain.FlowConfigurationLoader,
	reportWriter domain.ReportWriter,
) *FlowUseCase {
	return &FlowUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
		reportWriter: reportWriter,
	}
}

// Execute collects documents, analyzes them and writes the report. The
// response is returned so callers can act on faults.
func (uc *FlowUseCase) Execute(ctx context.Context, req domain.FlowRequest) (*domain.FlowResponse, error) {
	return uc.execute(ctx, req, nil)
}

// execute runs the workflow; adjust, when set, edits the request after the
// configuration has been merged
func (uc *FlowUseCase) execute(ctx context.Context, req domain.FlowRequest, adjust func(*domain.FlowRequest)) (*domain.FlowResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, err
	}
	if adjust != nil {
		adjust(&finalReq)
	}

	files, err := ResolveFilePaths(
		uc.fileReader,
		finalReq.Paths,
		finalReq.Recursive,
		finalReq.IncludePatterns,
		finalReq.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect IR documents", err)
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no IR documents found in the specified paths", nil)
	}
	finalReq.Paths = files

	response, err := uc.service.Analyze(ctx, finalReq)
	if err != nil {
		return nil, err
	}

	if err := uc.writeResponse(response, finalReq); err != nil {
		return response, err
	}
	return response, nil
}

// AnalyzeFile analyzes a single IR document and writes the report
func (uc *FlowUseCase) AnalyzeFile(ctx context.Context, filePath string, req domain.FlowRequest) (*domain.FlowResponse, error) {
	if !uc.fileReader.IsValidDocument(filePath) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not an IR document: %s", filePath), nil)
	}
	exists, err := uc.fileReader.FileExists(filePath)
	if err != nil || !exists {
		return nil, domain.NewFileNotFoundError(filePath, err)
	}

	req.Paths = []string{filePath}
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, err
	}

	response, err := uc.service.AnalyzeFile(ctx, filePath, finalReq)
	if err != nil {
		return nil, err
	}

	if err := uc.writeResponse(response, finalReq); err != nil {
		return response, err
	}
	return response, nil
}

func (uc *FlowUseCase) writeResponse(response *domain.FlowResponse, req domain.FlowRequest) error {
	if req.OutputWriter == nil && req.OutputPath == "" {
		return nil
	}

	write := func(w io.Writer) error {
		return uc.formatter.Write(response, req.OutputFormat, w)
	}

	if uc.reportWriter != nil {
		return uc.reportWriter.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, req.NoOpen, write)
	}
	if err := write(req.OutputWriter); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

func (uc *FlowUseCase) validateRequest(req domain.FlowRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	if req.MaxWorkers < 0 {
		return fmt.Errorf("max workers cannot be negative")
	}

	switch req.OutputFormat {
	case "", domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatHTML:
	default:
		return fmt.Errorf("unsupported output format: %s", req.OutputFormat)
	}

	return nil
}

// loadAndMergeConfig loads the configuration that applies to the first
// path and overlays the request on it
func (uc *FlowUseCase) loadAndMergeConfig(req domain.FlowRequest) (domain.FlowRequest, error) {
	if uc.configLoader == nil {
		if req.OutputFormat == "" {
			req.OutputFormat = domain.OutputFormatText
		}
		return req, nil
	}

	target := ""
	if len(req.Paths) > 0 {
		target = req.Paths[0]
	}

	base, err := uc.configLoader.LoadForTarget(req.ConfigPath, target)
	if err != nil {
		return req, err
	}

	merged := uc.configLoader.MergeConfig(base, &req)
	if merged.OutputFormat == "" {
		merged.OutputFormat = domain.OutputFormatText
	}
	return *merged, nil
}

// FlowUseCaseBuilder provides a builder pattern for creating FlowUseCase
type FlowUseCaseBuilder struct {
	service      domain.FlowService
	fileReader   domain.FileReader
	formatter    domain.FlowOutputFormatter
	configLoader domain.FlowConfigurationLoader
	reportWriter domain.ReportWriter
}

// NewFlowUseCaseBuilder creates a new builder
func NewFlowUseCaseBuilder() *FlowUseCaseBuilder {
	return &FlowUseCaseBuilder{}
}

// WithService sets the flow service
func (b *FlowUseCaseBuilder) WithService(service domain.FlowService) *FlowUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader
func (b *FlowUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *FlowUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter
func (b *FlowUseCaseBuilder) WithFormatter(formatter domain.FlowOutputFormatter) *FlowUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *FlowUseCaseBuilder) WithConfigLoader(configLoader domain.FlowConfigurationLoader) *FlowUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithReportWriter sets the report writer
func (b *FlowUseCaseBuilder) WithReportWriter(reportWriter domain.ReportWriter) *FlowUseCaseBuilder {
	b.reportWriter = reportWriter
	return b
}

// Build creates the FlowUseCase. The config loader and report writer are optional.
func (b *FlowUseCaseBuilder) Build() (*FlowUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("flow service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	return NewFlowUseCase(
		b.service,
		b.fileReader,
		b.formatter,
		b.configLoader,
		b.reportWriter,
	), nil
}
