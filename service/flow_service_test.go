package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/analyzer"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

func newTestFlowService() *FlowServiceImpl {
	return NewFlowService(NewFileReader(), NewNoOpProgressManager())
}

func methodByName(t *testing.T, resp *domain.FlowResponse, name string) domain.MethodReport {
	t.Helper()
	for _, m := range resp.Methods {
		if m.Method == name {
			return m
		}
	}
	t.Fatalf("method %s not in response", name)
	return domain.MethodReport{}
}

func TestFlowService_Analyze(t *testing.T) {
	resp, err := newTestFlowService().Analyze(context.Background(), domain.FlowRequest{
		Paths:           []string{fixture("sample.yaml")},
		ReclassifyOnAdd: true,
	})
	require.NoError(t, err)

	require.Len(t, resp.Methods, 2)
	assert.Equal(t, "loop", resp.Methods[0].Method)
	assert.Equal(t, "dispatch", resp.Methods[1].Method)
	assert.Empty(t, resp.Errors)
	assert.Empty(t, resp.Warnings)
	assert.NotEmpty(t, resp.GeneratedAt)

	assert.Equal(t, domain.FlowSummary{
		FilesAnalyzed:   1,
		MethodsAnalyzed: 2,
		TotalNodes:      15,
		TotalEdges:      14,
		BackEdges:       1,
		Branches:        1,
		Switches:        1,
		Tries:           1,
	}, resp.Summary)
}

func TestFlowService_LoopReport(t *testing.T) {
	resp, err := newTestFlowService().Analyze(context.Background(), domain.FlowRequest{
		Paths:            []string{fixture("sample.yaml")},
		ShowInstructions: true,
	})
	require.NoError(t, err)

	loop := methodByName(t, resp, "loop")
	assert.Equal(t, 6, loop.Nodes)
	assert.Equal(t, domain.EdgeCounts{Normal: 5, Back: 1, Conditional: 2}, loop.Edges)
	require.NotNil(t, loop.Entry)
	assert.Equal(t, 0, loop.Entry.Position)

	assert.Equal(t, []domain.EdgeRef{{From: 11, To: 2, Kind: "back"}}, loop.BackEdges)

	require.Len(t, loop.Branches, 1)
	assert.Equal(t, "if_icmpge", loop.Branches[0].Branch.Opcode)
	assert.Equal(t, 14, loop.Branches[0].True.Position)
	assert.Equal(t, 8, loop.Branches[0].False.Position)

	require.Len(t, loop.Jumps, 1)
	assert.Equal(t, 2, loop.Jumps[0].Target.Position)

	require.Len(t, loop.Ranges, 1)
	assert.Equal(t, "body", loop.Ranges[0].Name)
	assert.Equal(t, []int{8, 11}, refPositions(loop.Ranges[0].Members))

	assert.Len(t, loop.Instructions, 7)
	assert.Equal(t, "0:iconst_0", loop.Instructions[0])
	assert.Empty(t, loop.Unreachable)
	assert.False(t, loop.HasFaults())
}

func TestFlowService_DispatchReport(t *testing.T) {
	resp, err := newTestFlowService().Analyze(context.Background(), domain.FlowRequest{
		Paths: []string{fixture("sample.yaml")},
	})
	require.NoError(t, err)

	dispatch := methodByName(t, resp, "dispatch")
	require.Len(t, dispatch.Switches, 1)
	labels := make([]string, 0, 4)
	for _, c := range dispatch.Switches[0].Cases {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"1", "3", "5", "default"}, labels)

	require.Len(t, dispatch.Tries, 1)
	assert.Equal(t, []int{40}, refPositions(dispatch.Tries[0].Catches))
	require.NotNil(t, dispatch.Tries[0].Finally)
	assert.Equal(t, 44, dispatch.Tries[0].Finally.Position)
	assert.Equal(t, 2, dispatch.Edges.Exception)
	assert.Empty(t, dispatch.Instructions)
}

func TestFlowService_MethodFilter(t *testing.T) {
	svc := newTestFlowService()

	resp, err := svc.Analyze(context.Background(), domain.FlowRequest{
		Paths:        []string{fixture("sample.yaml"), fixture("corrupt.yaml")},
		MethodFilter: "*.dispatch",
	})
	require.NoError(t, err)
	require.Len(t, resp.Methods, 1)
	assert.Equal(t, "dispatch", resp.Methods[0].Method)
	assert.Equal(t, []string{"[" + fixture("corrupt.yaml") + "] No methods matched"}, resp.Warnings)

	_, err = svc.Analyze(context.Background(), domain.FlowRequest{
		Paths:        []string{fixture("sample.yaml")},
		MethodFilter: "*.nothing",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no methods found")
}

func TestFlowService_FaultsAreReported(t *testing.T) {
	resp, err := newTestFlowService().Analyze(context.Background(), domain.FlowRequest{
		Paths: []string{fixture("corrupt.yaml")},
	})
	require.NoError(t, err)

	half := methodByName(t, resp, "halfBranch")
	require.Len(t, half.Faults, 1)
	assert.Equal(t, 0, half.Faults[0].Position)
	assert.Equal(t, string(analyzer.InvariantBranchTrueLeg), half.Faults[0].Invariant)
	require.Len(t, half.Branches, 1)
	assert.Nil(t, half.Branches[0].True)
	assert.Equal(t, 3, half.Branches[0].False.Position)

	guarded := methodByName(t, resp, "guarded")
	assert.False(t, guarded.HasFaults())
	assert.Nil(t, guarded.Tries[0].Finally)

	assert.Equal(t, 1, resp.Summary.MethodsWithFaults)
	assert.Equal(t, 1, resp.Summary.TotalFaults)
}

func TestFlowService_FailFastOnCorruptMethod(t *testing.T) {
	_, err := newTestFlowService().Analyze(context.Background(), domain.FlowRequest{
		Paths:    []string{fixture("corrupt.yaml")},
		FailFast: true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, analyzer.ErrCorruptIR))

	var de domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeCorruptIR, de.Code)
}

func TestFlowService_BadDocumentsAreCollected(t *testing.T) {
	resp, err := newTestFlowService().Analyze(context.Background(), domain.FlowRequest{
		Paths: []string{
			fixture("sample.yaml"),
			fixture("unknown_kind.yaml"),
			fixture("undecodable.yaml"),
			fixture("missing.yaml"),
		},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Methods, 2)
	assert.Equal(t, 2, resp.Summary.FilesAnalyzed)
	require.Len(t, resp.Errors, 3)
	assert.Contains(t, resp.Errors[0], "undecodable.yaml")
	assert.Contains(t, resp.Errors[1], "missing.yaml")
	assert.Contains(t, resp.Errors[2], "unknown_kind.yaml")
}

func TestFlowService_FailFastOnBadDocument(t *testing.T) {
	_, err := newTestFlowService().Analyze(context.Background(), domain.FlowRequest{
		Paths:    []string{fixture("undecodable.yaml"), fixture("sample.yaml")},
		FailFast: true,
	})
	require.Error(t, err)

	var de domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeParseError, de.Code)
}

func TestFlowService_NothingToAnalyze(t *testing.T) {
	_, err := newTestFlowService().Analyze(context.Background(), domain.FlowRequest{
		Paths: []string{fixture("missing.yaml")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no methods analyzed")
}

func TestFlowService_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFlowService().Analyze(ctx, domain.FlowRequest{
		Paths: []string{fixture("sample.yaml")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFlowService_AnalyzeFile(t *testing.T) {
	resp, err := newTestFlowService().AnalyzeFile(context.Background(), fixture("corrupt.yaml"), domain.FlowRequest{
		Paths: []string{fixture("sample.yaml")},
	})
	require.NoError(t, err)
	assert.Equal(t, "com.example.Broken", resp.Methods[0].Class)
}

func TestFlowService_ProgressIsReported(t *testing.T) {
	progress := &recordingProgress{}
	svc := NewFlowService(NewFileReader(), progress)

	_, err := svc.Analyze(context.Background(), domain.FlowRequest{
		Paths:      []string{fixture("sample.yaml")},
		MaxWorkers: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, progress.total)
	assert.Equal(t, 2, progress.last)
	assert.True(t, progress.completed)
}

type recordingProgress struct {
	NoOpProgressManager
	total     int
	last      int
	completed bool
}

func (p *recordingProgress) Initialize(total int)    { p.total = total }
func (p *recordingProgress) Update(processed, _ int) { p.last = processed }
func (p *recordingProgress) Complete(success bool)   { p.completed = success }

func refPositions(refs []domain.NodeRef) []int {
	out := make([]int, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Position)
	}
	return out
}
