package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/bcflow/domain"
)

// QueryUseCase answers a single control-flow question and writes the answer
type QueryUseCase struct {
	service    domain.QueryService
	fileReader domain.FileReader
	formatter  domain.FlowOutputFormatter
}

// NewQueryUseCase creates a new query use case
func NewQueryUseCase(service domain.QueryService, fileReader domain.FileReader, formatter domain.FlowOutputFormatter) *QueryUseCase {
	return &QueryUseCase{
		service:    service,
		fileReader: fileReader,
		formatter:  formatter,
	}
}

// Execute runs the query. The answer is written when the request carries a
// writer and is returned either way.
func (uc *QueryUseCase) Execute(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !uc.fileReader.IsValidDocument(req.Path) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not an IR document: %s", req.Path), nil)
	}
	exists, err := uc.fileReader.FileExists(req.Path)
	if err != nil || !exists {
		return nil, domain.NewFileNotFoundError(req.Path, err)
	}

	response, err := uc.service.Query(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.OutputWriter != nil {
		format := req.OutputFormat
		if format == "" {
			format = domain.OutputFormatText
		}
		if err := uc.formatter.WriteQuery(response, format, req.OutputWriter); err != nil {
			return response, err
		}
	}
	return response, nil
}
