package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/analyzer"
	"github.com/ludo-technologies/bcflow/internal/irdoc"
	"github.com/ludo-technologies/bcflow/internal/version"
)

// FlowServiceImpl implements the FlowService interface
type FlowServiceImpl struct {
	fileReader domain.FileReader
	executor   domain.ParallelExecutor
	progress   domain.ProgressManager
	logger     *slog.Logger
}

// NewFlowService creates a new flow service implementation
func NewFlowService(fileReader domain.FileReader, progress domain.ProgressManager) *FlowServiceImpl {
	return &FlowServiceImpl{
		fileReader: fileReader,
		executor:   NewParallelExecutor(),
		progress:   progress,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger used for per-method tracing
func (s *FlowServiceImpl) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetExecutor replaces the parallel executor
func (s *FlowServiceImpl) SetExecutor(executor domain.ParallelExecutor) {
	if executor != nil {
		s.executor = executor
	}
}

type methodJob struct {
	doc    *irdoc.Document
	method irdoc.Method
}

// Analyze performs control-flow analysis on the documents listed in req.Paths
func (s *FlowServiceImpl) Analyze(ctx context.Context, req domain.FlowRequest) (*domain.FlowResponse, error) {
	var warnings []string
	var errs []string
	var jobs []methodJob
	filesProcessed := 0

	for _, filePath := range req.Paths {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("flow analysis cancelled: %w", ctx.Err())
		default:
		}

		doc, err := s.loadDocument(filePath)
		if err != nil {
			if req.FailFast {
				return nil, err
			}
			errs = append(errs, fmt.Sprintf("[%s] %v", filePath, err))
			continue
		}
		filesProcessed++

		matched := 0
		for _, m := range doc.Methods {
			ok, err := s.matchesFilter(req.MethodFilter, doc.QualifiedName(m))
			if err != nil {
				return nil, err
			}
			if ok {
				jobs = append(jobs, methodJob{doc: doc, method: m})
				matched++
			}
		}
		if matched == 0 {
			warnings = append(warnings, fmt.Sprintf("[%s] No methods matched", filePath))
		}
	}

	if len(jobs) == 0 {
		if len(errs) > 0 {
			return nil, domain.NewAnalysisError(fmt.Sprintf("no methods analyzed: %s", errs[0]), nil)
		}
		return nil, domain.NewAnalysisError("no methods found to analyze", nil)
	}

	methods, buildErrs, err := s.analyzeMethods(ctx, jobs, req)
	if err != nil {
		return nil, err
	}
	errs = append(errs, buildErrs...)

	return &domain.FlowResponse{
		Methods:     methods,
		Summary:     SummarizeReports(methods, filesProcessed),
		Warnings:    warnings,
		Errors:      errs,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}, nil
}

// AnalyzeFile analyzes a single IR document
func (s *FlowServiceImpl) AnalyzeFile(ctx context.Context, filePath string, req domain.FlowRequest) (*domain.FlowResponse, error) {
	singleFileReq := req
	singleFileReq.Paths = []string{filePath}

	return s.Analyze(ctx, singleFileReq)
}

// analyzeMethods builds and queries one graph per method in parallel. Each
// graph is confined to the goroutine that builds it.
func (s *FlowServiceImpl) analyzeMethods(ctx context.Context, jobs []methodJob, req domain.FlowRequest) ([]domain.MethodReport, []string, error) {
	reports := make([]*domain.MethodReport, len(jobs))

	var (
		mu        sync.Mutex
		buildErrs = make([]string, len(jobs))
		done      int32
	)

	if s.progress != nil {
		s.progress.Initialize(len(jobs))
		s.progress.Start()
	}

	workers := req.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	s.executor.SetMaxConcurrency(workers)

	tasks := make([]domain.ExecutableTask, len(jobs))
	for i, job := range jobs {
		name := job.doc.QualifiedName(job.method)
		tasks[i] = NewSimpleTask(name, func(ctx context.Context) error {
			defer func() {
				n := atomic.AddInt32(&done, 1)
				if s.progress != nil {
					mu.Lock()
					s.progress.Update(int(n), len(jobs))
					mu.Unlock()
				}
			}()

			mg, err := irdoc.BuildMethod(job.doc.Class, job.method,
				irdoc.WithAutoClassify(req.ReclassifyOnAdd),
				irdoc.WithLogger(s.logger))
			if err != nil {
				if req.FailFast {
					return domain.NewParseError(job.doc.Path, err)
				}
				buildErrs[i] = fmt.Sprintf("[%s] %v", job.doc.Path, err)
				return nil
			}

			report := BuildMethodReport(mg, job.doc.Path, req.ShowInstructions)
			s.logger.Debug("method analyzed",
				"method", name,
				"nodes", report.Nodes,
				"faults", len(report.Faults))

			if req.FailFast && report.HasFaults() {
				f := report.Faults[0]
				return domain.NewCorruptIRError(name, &analyzer.InvariantError{
					Position:  f.Position,
					Invariant: analyzer.Invariant(f.Invariant),
					Detail:    f.Detail,
				})
			}
			reports[i] = &report
			return nil
		})
	}

	err := s.executor.Execute(ctx, tasks)
	if s.progress != nil {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		var de domain.DomainError
		if errors.As(err, &de) {
			return nil, nil, de
		}
		return nil, nil, domain.NewAnalysisError("flow analysis failed", err)
	}

	methods := make([]domain.MethodReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			methods = append(methods, *r)
		}
	}
	var errs []string
	for _, e := range buildErrs {
		if e != "" {
			errs = append(errs, e)
		}
	}
	return methods, errs, nil
}

func (s *FlowServiceImpl) loadDocument(filePath string) (*irdoc.Document, error) {
	format, err := irdoc.FormatFromPath(filePath)
	if err != nil {
		return nil, domain.NewUnsupportedFormatError(filePath)
	}

	content, err := s.fileReader.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	doc, err := irdoc.Decode(bytes.NewReader(content), format)
	if err != nil {
		return nil, domain.NewParseError(filePath, err)
	}
	doc.Path = filePath
	return doc, nil
}

func (s *FlowServiceImpl) matchesFilter(filter, qualifiedName string) (bool, error) {
	if filter == "" {
		return true, nil
	}
	ok, err := doublestar.Match(filter, qualifiedName)
	if err != nil {
		return false, domain.NewInvalidInputError(fmt.Sprintf("invalid method filter %q", filter), err)
	}
	return ok, nil
}
