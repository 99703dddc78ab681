package domain

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// QueryOperation names a single control-flow question about one method
type QueryOperation string

const (
	QueryNext     QueryOperation = "next"
	QueryPrevious QueryOperation = "prev"
	QueryBetween  QueryOperation = "between"
	QueryTrue     QueryOperation = "true"
	QueryFalse    QueryOperation = "false"
	QueryJump     QueryOperation = "jump"
	QueryCases    QueryOperation = "cases"
	QueryCatches  QueryOperation = "catches"
	QueryFinally  QueryOperation = "finally"
	QueryEdge     QueryOperation = "edge"
)

var queryArity = map[QueryOperation]int{
	QueryNext:     1,
	QueryPrevious: 1,
	QueryBetween:  2,
	QueryTrue:     1,
	QueryFalse:    1,
	QueryJump:     1,
	QueryCases:    1,
	QueryCatches:  1,
	QueryFinally:  1,
	QueryEdge:     2,
}

// QueryOperations lists every operation in help order
var QueryOperations = []QueryOperation{
	QueryNext, QueryPrevious, QueryBetween, QueryTrue, QueryFalse,
	QueryJump, QueryCases, QueryCatches, QueryFinally, QueryEdge,
}

// ParseQueryOperation validates an operation name. "previous" is accepted for "prev".
func ParseQueryOperation(name string) (QueryOperation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "previous" {
		return QueryPrevious, nil
	}
	op := QueryOperation(name)
	if _, ok := queryArity[op]; !ok {
		return "", NewInvalidInputError(fmt.Sprintf("unknown query operation %q", name), nil)
	}
	return op, nil
}

// Arity returns the number of position arguments the operation takes
func (op QueryOperation) Arity() int {
	return queryArity[op]
}

// QueryRequest asks one question about one method of an IR document
type QueryRequest struct {
	Path      string
	Method    string
	Operation QueryOperation
	Args      []int

	OutputFormat OutputFormat
	OutputWriter io.Writer
}

// Validate checks the operation and its argument count
func (r QueryRequest) Validate() error {
	if r.Path == "" {
		return NewInvalidInputError("no IR document specified", nil)
	}
	if r.Method == "" {
		return NewInvalidInputError("no method specified", nil)
	}
	if _, ok := queryArity[r.Operation]; !ok {
		return NewInvalidInputError(fmt.Sprintf("unknown query operation %q", r.Operation), nil)
	}
	if want := r.Operation.Arity(); len(r.Args) != want {
		return NewInvalidInputError(fmt.Sprintf("%s takes %d position argument(s), got %d", r.Operation, want, len(r.Args)), nil)
	}
	return nil
}

// QueryResponse is the answer to a QueryRequest. Found is false when the
// question has no answer, such as a position before the first node or a
// try without a finally.
type QueryResponse struct {
	Class     string         `json:"class" yaml:"class"`
	Method    string         `json:"method" yaml:"method"`
	Operation QueryOperation `json:"operation" yaml:"operation"`
	Args      []int          `json:"args" yaml:"args"`

	Found bool      `json:"found" yaml:"found"`
	Nodes []NodeRef `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Edges []EdgeRef `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// QueryService answers single control-flow questions
type QueryService interface {
	Query(ctx context.Context, req QueryRequest) (*QueryResponse, error)
}
