package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/bcflow/domain"
)

func sampleResponse() *domain.FlowResponse {
	return &domain.FlowResponse{
		Methods: []domain.MethodReport{
			{Class: "A", Method: "ok", FilePath: "a.yaml", Nodes: 3},
			{
				Class: "B", Method: "bad", FilePath: "b.yaml", Nodes: 2,
				Faults: []domain.Fault{
					{Position: 9, Invariant: "jump-successor", Detail: "goto has 2 successors, expected 1"},
					{Position: 4, Invariant: "branch-true-leg", Detail: "branch has no true leg"},
				},
			},
		},
		Summary: domain.FlowSummary{MethodsAnalyzed: 2, MethodsWithFaults: 1, TotalFaults: 2},
	}
}

func TestFlowUseCase_Execute(t *testing.T) {
	svc := &mockFlowService{}
	reader := &mockFileReader{}
	formatter := &mockFormatter{}
	var out bytes.Buffer

	reader.On("IsValidDocument", "ir").Return(false)
	reader.On("CollectDocuments", []string{"ir"}, true, []string{"**/*.yaml"}, []string(nil)).
		Return([]string{"ir/a.yaml", "ir/b.yaml"}, nil)

	resp := sampleResponse()
	svc.On("Analyze", mock.Anything, mock.MatchedBy(func(req domain.FlowRequest) bool {
		return len(req.Paths) == 2 && req.OutputFormat == domain.OutputFormatText
	})).Return(resp, nil)
	formatter.On("Write", resp, domain.OutputFormatText, &out).Return(nil)

	uc, err := NewFlowUseCaseBuilder().
		WithService(svc).
		WithFileReader(reader).
		WithFormatter(formatter).
		Build()
	require.NoError(t, err)

	got, err := uc.Execute(context.Background(), domain.FlowRequest{
		Paths:           []string{"ir"},
		Recursive:       true,
		IncludePatterns: []string{"**/*.yaml"},
		OutputWriter:    &out,
	})
	require.NoError(t, err)
	assert.Same(t, resp, got)

	svc.AssertExpectations(t)
	reader.AssertExpectations(t)
	formatter.AssertExpectations(t)
}

func TestFlowUseCase_ConfigIsMerged(t *testing.T) {
	svc := &mockFlowService{}
	reader := &mockFileReader{}
	formatter := &mockFormatter{}
	loader := &mockConfigLoader{}
	var out bytes.Buffer

	req := domain.FlowRequest{Paths: []string{"a.yaml"}, OutputWriter: &out}
	base := &domain.FlowRequest{OutputFormat: domain.OutputFormatJSON, MaxWorkers: 2}
	merged := &domain.FlowRequest{Paths: []string{"a.yaml"}, OutputFormat: domain.OutputFormatJSON, MaxWorkers: 2, OutputWriter: &out}

	loader.On("LoadForTarget", "", "a.yaml").Return(base, nil)
	loader.On("MergeConfig", base, mock.Anything).Return(merged)
	reader.On("IsValidDocument", "a.yaml").Return(true)
	reader.On("FileExists", "a.yaml").Return(true, nil)

	resp := sampleResponse()
	svc.On("Analyze", mock.Anything, *merged).Return(resp, nil)
	formatter.On("Write", resp, domain.OutputFormatJSON, &out).Return(nil)

	uc := NewFlowUseCase(svc, reader, formatter, loader, nil)
	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	reader.AssertNotCalled(t, "CollectDocuments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	loader.AssertExpectations(t)
	svc.AssertExpectations(t)
}

func TestFlowUseCase_ConfigError(t *testing.T) {
	loader := &mockConfigLoader{}
	loader.On("LoadForTarget", "bad.toml", "a.yaml").Return(nil, domain.NewConfigError("failed to load configuration file", errors.New("boom")))

	uc := NewFlowUseCase(&mockFlowService{}, &mockFileReader{}, &mockFormatter{}, loader, nil)
	_, err := uc.Execute(context.Background(), domain.FlowRequest{Paths: []string{"a.yaml"}, ConfigPath: "bad.toml"})
	require.Error(t, err)

	var de domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeConfigError, de.Code)
}

func TestFlowUseCase_InvalidRequests(t *testing.T) {
	uc := NewFlowUseCase(&mockFlowService{}, &mockFileReader{}, &mockFormatter{}, nil, nil)

	tests := []struct {
		name string
		req  domain.FlowRequest
	}{
		{"no paths", domain.FlowRequest{}},
		{"negative workers", domain.FlowRequest{Paths: []string{"a"}, MaxWorkers: -1}},
		{"bad format", domain.FlowRequest{Paths: []string{"a"}, OutputFormat: "csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			require.Error(t, err)
			var de domain.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, domain.ErrCodeInvalidInput, de.Code)
		})
	}
}

func TestFlowUseCase_NoDocuments(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("IsValidDocument", "empty").Return(false)
	reader.On("CollectDocuments", []string{"empty"}, false, []string(nil), []string(nil)).Return([]string{}, nil)

	uc := NewFlowUseCase(&mockFlowService{}, reader, &mockFormatter{}, nil, nil)
	_, err := uc.Execute(context.Background(), domain.FlowRequest{Paths: []string{"empty"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no IR documents found")
}

func TestFlowUseCase_ServiceErrorPassesThrough(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("IsValidDocument", "a.yaml").Return(true)
	reader.On("FileExists", "a.yaml").Return(true, nil)

	corrupt := domain.NewCorruptIRError("A.m", errors.New("corrupt IR"))
	svc := &mockFlowService{}
	svc.On("Analyze", mock.Anything, mock.Anything).Return(nil, corrupt)

	uc := NewFlowUseCase(svc, reader, &mockFormatter{}, nil, nil)
	_, err := uc.Execute(context.Background(), domain.FlowRequest{Paths: []string{"a.yaml"}})
	assert.Equal(t, corrupt, err)
}

func TestFlowUseCase_ReportWriter(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("IsValidDocument", "a.yaml").Return(true)
	reader.On("FileExists", "a.yaml").Return(true, nil)

	resp := sampleResponse()
	svc := &mockFlowService{}
	svc.On("Analyze", mock.Anything, mock.Anything).Return(resp, nil)

	var out bytes.Buffer
	formatter := &mockFormatter{}
	formatter.On("Write", resp, domain.OutputFormatYAML, &out).Return(nil)

	writer := &mockReportWriter{}
	writer.On("Write", &out, "report.yaml", domain.OutputFormatYAML, false, mock.Anything).Return(nil)

	uc := NewFlowUseCase(svc, reader, formatter, nil, writer)
	_, err := uc.Execute(context.Background(), domain.FlowRequest{
		Paths:        []string{"a.yaml"},
		OutputFormat: domain.OutputFormatYAML,
		OutputWriter: &out,
		OutputPath:   "report.yaml",
	})
	require.NoError(t, err)
	writer.AssertExpectations(t)
	formatter.AssertExpectations(t)
}

func TestFlowUseCase_HTMLReportHonorsNoOpen(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("IsValidDocument", "a.yaml").Return(true)
	reader.On("FileExists", "a.yaml").Return(true, nil)

	resp := sampleResponse()
	svc := &mockFlowService{}
	svc.On("Analyze", mock.Anything, mock.Anything).Return(resp, nil)

	formatter := &mockFormatter{}
	formatter.On("Write", resp, domain.OutputFormatHTML, mock.Anything).Return(nil)

	writer := &mockReportWriter{}
	writer.On("Write", mock.Anything, "report.html", domain.OutputFormatHTML, true, mock.Anything).Return(nil)

	uc := NewFlowUseCase(svc, reader, formatter, nil, writer)
	_, err := uc.Execute(context.Background(), domain.FlowRequest{
		Paths:        []string{"a.yaml"},
		OutputFormat: domain.OutputFormatHTML,
		OutputWriter: &bytes.Buffer{},
		OutputPath:   "report.html",
		NoOpen:       true,
	})
	require.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestFlowUseCase_AnalyzeFile(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("IsValidDocument", "a.txt").Return(false)
	reader.On("IsValidDocument", "a.yaml").Return(true)
	reader.On("FileExists", "a.yaml").Return(true, nil)

	resp := sampleResponse()
	svc := &mockFlowService{}
	svc.On("AnalyzeFile", mock.Anything, "a.yaml", mock.Anything).Return(resp, nil)

	uc := NewFlowUseCase(svc, reader, &mockFormatter{}, nil, nil)

	_, err := uc.AnalyzeFile(context.Background(), "a.txt", domain.FlowRequest{})
	require.Error(t, err)

	got, err := uc.AnalyzeFile(context.Background(), "a.yaml", domain.FlowRequest{})
	require.NoError(t, err)
	assert.Same(t, resp, got)
}

func TestFlowUseCaseBuilder_RequiresDependencies(t *testing.T) {
	_, err := NewFlowUseCaseBuilder().Build()
	assert.EqualError(t, err, "flow service is required")

	_, err = NewFlowUseCaseBuilder().WithService(&mockFlowService{}).Build()
	assert.EqualError(t, err, "file reader is required")

	_, err = NewFlowUseCaseBuilder().WithService(&mockFlowService{}).WithFileReader(&mockFileReader{}).Build()
	assert.EqualError(t, err, "output formatter is required")
}

func TestCheckUseCase_CollectsSortedFaults(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("IsValidDocument", "a.yaml").Return(true)
	reader.On("IsValidDocument", "b.yaml").Return(true)
	reader.On("FileExists", mock.Anything).Return(true, nil)

	resp := sampleResponse()
	svc := &mockFlowService{}
	svc.On("Analyze", mock.Anything, mock.MatchedBy(func(req domain.FlowRequest) bool {
		return !req.ShowInstructions
	})).Return(resp, nil)

	formatter := &mockFormatter{}
	formatter.On("Write", resp, domain.OutputFormatText, mock.Anything).Return(nil)

	flow := NewFlowUseCase(svc, reader, formatter, nil, nil)
	result, err := NewCheckUseCase(flow).Execute(context.Background(), domain.FlowRequest{
		Paths:            []string{"a.yaml", "b.yaml"},
		ShowInstructions: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.MethodsChecked)
	assert.False(t, result.Passed())
	require.Len(t, result.Faults, 2)
	assert.Equal(t, 4, result.Faults[0].Position)
	assert.Equal(t, "b.yaml: B.bad @4 [branch-true-leg] branch has no true leg", result.Faults[0].String())
	assert.Equal(t, 9, result.Faults[1].Position)
}

func TestCheckUseCase_IgnoresConfiguredFailFast(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("IsValidDocument", "a.yaml").Return(true)
	reader.On("FileExists", "a.yaml").Return(true, nil)

	loader := &mockConfigLoader{}
	base := &domain.FlowRequest{OutputFormat: domain.OutputFormatText, FailFast: true}
	merged := &domain.FlowRequest{
		Paths:            []string{"a.yaml"},
		OutputFormat:     domain.OutputFormatText,
		FailFast:         true,
		ShowInstructions: true,
	}
	loader.On("LoadForTarget", "", "a.yaml").Return(base, nil)
	loader.On("MergeConfig", base, mock.Anything).Return(merged)

	resp := sampleResponse()
	svc := &mockFlowService{}
	svc.On("Analyze", mock.Anything, mock.MatchedBy(func(req domain.FlowRequest) bool {
		return !req.FailFast && !req.ShowInstructions && req.OutputPath == ""
	})).Return(resp, nil)

	formatter := &mockFormatter{}
	formatter.On("Write", resp, domain.OutputFormatText, mock.Anything).Return(nil)

	flow := NewFlowUseCase(svc, reader, formatter, loader, nil)
	result, err := NewCheckUseCase(flow).Execute(context.Background(), domain.FlowRequest{Paths: []string{"a.yaml"}})
	require.NoError(t, err)
	assert.Len(t, result.Faults, 2)
	svc.AssertExpectations(t)
}

func TestCheckUseCase_Passed(t *testing.T) {
	assert.True(t, (&CheckResult{MethodsChecked: 3}).Passed())
	assert.False(t, (&CheckResult{Errors: []string{"[x.yaml] bad"}}).Passed())
}
