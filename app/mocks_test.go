package app

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/ludo-technologies/bcflow/domain"
)

type mockFileReader struct {
	mock.Mock
}

func (m *mockFileReader) CollectDocuments(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	args := m.Called(paths, recursive, includePatterns, excludePatterns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFileReader) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockFileReader) IsValidDocument(path string) bool {
	return m.Called(path).Bool(0)
}

func (m *mockFileReader) FileExists(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

type mockFlowService struct {
	mock.Mock
}

func (m *mockFlowService) Analyze(ctx context.Context, req domain.FlowRequest) (*domain.FlowResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlowResponse), args.Error(1)
}

func (m *mockFlowService) AnalyzeFile(ctx context.Context, filePath string, req domain.FlowRequest) (*domain.FlowResponse, error) {
	args := m.Called(ctx, filePath, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlowResponse), args.Error(1)
}

type mockQueryService struct {
	mock.Mock
}

func (m *mockQueryService) Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QueryResponse), args.Error(1)
}

type mockFormatter struct {
	mock.Mock
}

func (m *mockFormatter) Format(response *domain.FlowResponse, format domain.OutputFormat) (string, error) {
	args := m.Called(response, format)
	return args.String(0), args.Error(1)
}

func (m *mockFormatter) Write(response *domain.FlowResponse, format domain.OutputFormat, writer io.Writer) error {
	return m.Called(response, format, writer).Error(0)
}

func (m *mockFormatter) WriteQuery(response *domain.QueryResponse, format domain.OutputFormat, writer io.Writer) error {
	return m.Called(response, format, writer).Error(0)
}

type mockConfigLoader struct {
	mock.Mock
}

func (m *mockConfigLoader) LoadConfig(path string) (*domain.FlowRequest, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlowRequest), args.Error(1)
}

func (m *mockConfigLoader) LoadForTarget(configPath, targetPath string) (*domain.FlowRequest, error) {
	args := m.Called(configPath, targetPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlowRequest), args.Error(1)
}

func (m *mockConfigLoader) LoadDefaultConfig() *domain.FlowRequest {
	return m.Called().Get(0).(*domain.FlowRequest)
}

func (m *mockConfigLoader) MergeConfig(base *domain.FlowRequest, override *domain.FlowRequest) *domain.FlowRequest {
	return m.Called(base, override).Get(0).(*domain.FlowRequest)
}

type mockReportWriter struct {
	mock.Mock
}

func (m *mockReportWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, noOpen bool, writeFunc func(io.Writer) error) error {
	args := m.Called(writer, outputPath, format, noOpen, writeFunc)
	if err := args.Error(0); err != nil {
		return err
	}
	return writeFunc(writer)
}
