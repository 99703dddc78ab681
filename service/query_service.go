package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/analyzer"
	"github.com/ludo-technologies/bcflow/internal/ir"
	"github.com/ludo-technologies/bcflow/internal/irdoc"
)

// QueryServiceImpl implements the QueryService interface
type QueryServiceImpl struct {
	fileReader domain.FileReader
	logger     *slog.Logger
}

// NewQueryService creates a new query service
func NewQueryService(fileReader domain.FileReader) *QueryServiceImpl {
	return &QueryServiceImpl{
		fileReader: fileReader,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger used for graph tracing
func (s *QueryServiceImpl) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Query loads one method and answers a single question about it
func (s *QueryServiceImpl) Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mg, err := s.loadMethod(req.Path, req.Method)
	if err != nil {
		return nil, err
	}

	resp := &domain.QueryResponse{
		Class:     mg.Class,
		Method:    mg.Method,
		Operation: req.Operation,
		Args:      req.Args,
	}

	if err := s.answer(mg, req, resp); err != nil {
		return nil, s.translate(mg, err)
	}
	return resp, nil
}

func (s *QueryServiceImpl) answer(mg *irdoc.MethodGraph, req domain.QueryRequest, resp *domain.QueryResponse) error {
	c := mg.Context

	single := func(n *ir.Node, err error) error {
		if err != nil {
			return err
		}
		if n != nil {
			resp.Found = true
			resp.Nodes = []domain.NodeRef{NodeRefOf(n)}
		}
		return nil
	}
	list := func(nodes []*ir.Node, err error) error {
		if err != nil {
			return err
		}
		resp.Found = true
		resp.Nodes = nodeRefs(nodes)
		return nil
	}

	switch req.Operation {
	case domain.QueryNext:
		return single(c.FindNextNode(mg.Instruction(req.Args[0])), nil)
	case domain.QueryPrevious:
		return single(c.FindPreviousNode(mg.Instruction(req.Args[0])), nil)
	case domain.QueryBetween:
		r := analyzer.BlockRange{Start: mg.Instruction(req.Args[0]), End: mg.Instruction(req.Args[1])}
		return list(c.NodesWithin(r), nil)
	case domain.QueryEdge:
		from, err := mg.NodeAt(req.Args[0])
		if err != nil {
			return err
		}
		to, err := mg.NodeAt(req.Args[1])
		if err != nil {
			return err
		}
		for _, e := range mg.Graph.EdgesBetween(from.ID, to.ID) {
			resp.Edges = append(resp.Edges, EdgeRefOf(mg.Graph, e))
		}
		resp.Found = len(resp.Edges) > 0
		return nil
	}

	n, err := mg.NodeAt(req.Args[0])
	if err != nil {
		return err
	}

	switch req.Operation {
	case domain.QueryTrue:
		return single(c.TrueTarget(n))
	case domain.QueryFalse:
		return single(c.FalseTarget(n))
	case domain.QueryJump:
		return single(c.JumpTarget(n))
	case domain.QueryCases:
		return list(c.SwitchCases(n))
	case domain.QueryCatches:
		return list(c.CatchClauses(n))
	case domain.QueryFinally:
		return single(c.FinallyClause(n))
	}
	return domain.NewInvalidInputError(fmt.Sprintf("unknown query operation %q", req.Operation), nil)
}

// translate maps query failures onto domain errors
func (s *QueryServiceImpl) translate(mg *irdoc.MethodGraph, err error) error {
	var de domain.DomainError
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, analyzer.ErrCorruptIR):
		return domain.NewCorruptIRError(mg.QualifiedName(), err)
	case errors.Is(err, analyzer.ErrKindMismatch), errors.Is(err, ir.ErrNodeNotFound):
		return domain.NewInvalidInputError(err.Error(), err)
	default:
		return domain.NewAnalysisError("query failed", err)
	}
}

func (s *QueryServiceImpl) loadMethod(path, method string) (*irdoc.MethodGraph, error) {
	format, err := irdoc.FormatFromPath(path)
	if err != nil {
		return nil, domain.NewUnsupportedFormatError(path)
	}

	content, err := s.fileReader.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := irdoc.Decode(bytes.NewReader(content), format)
	if err != nil {
		return nil, domain.NewParseError(path, err)
	}

	m, ok := doc.Method(method)
	if !ok {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("method %q not found in %s", method, doc.Class), nil)
	}

	mg, err := irdoc.BuildMethod(doc.Class, m, irdoc.WithLogger(s.logger))
	if err != nil {
		return nil, domain.NewParseError(path, err)
	}
	return mg, nil
}
