package app

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/ludo-technologies/bcflow/domain"
)

// CheckFault is one invariant violation located in a document
type CheckFault struct {
	FilePath string
	Method   string
	domain.Fault
}

func (f CheckFault) String() string {
	return fmt.Sprintf("%s: %s @%d [%s] %s", f.FilePath, f.Method, f.Position, f.Invariant, f.Detail)
}

// CheckResult summarizes a structural check over a set of documents
type CheckResult struct {
	MethodsChecked int
	Faults         []CheckFault
	Errors         []string
}

// Passed reports whether no faults and no load errors were found
func (r *CheckResult) Passed() bool {
	return len(r.Faults) == 0 && len(r.Errors) == 0
}

// CheckUseCase validates every method graph without producing a full report
type CheckUseCase struct {
	flow *FlowUseCase
}

// NewCheckUseCase creates a check use case on top of the analysis workflow
func NewCheckUseCase(flow *FlowUseCase) *CheckUseCase {
	return &CheckUseCase{flow: flow}
}

// Execute analyzes the documents and collects the faults, ordered by file,
// method and position. Every method is checked even when the configuration
// enables fail_fast.
func (uc *CheckUseCase) Execute(ctx context.Context, req domain.FlowRequest) (*CheckResult, error) {
	response, err := uc.flow.execute(ctx, req, func(r *domain.FlowRequest) {
		r.OutputWriter = io.Discard
		r.OutputPath = ""
		r.ShowInstructions = false
		r.FailFast = false
	})
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		MethodsChecked: len(response.Methods),
		Errors:         response.Errors,
	}
	for _, m := range response.Methods {
		for _, f := range m.Faults {
			result.Faults = append(result.Faults, CheckFault{
				FilePath: m.FilePath,
				Method:   m.QualifiedName(),
				Fault:    f,
			})
		}
	}

	sort.SliceStable(result.Faults, func(i, j int) bool {
		a, b := result.Faults[i], result.Faults[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.Position < b.Position
	})
	return result, nil
}
