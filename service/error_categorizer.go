package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/analyzer"
)

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	patterns []categoryPatterns
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() *ErrorCategorizerImpl {
	return &ErrorCategorizerImpl{
		patterns: []categoryPatterns{
			{domain.ErrorCategoryCorruptIR, []string{
				"corrupt ir",
				"invariant",
				"leg",
				"finally successors",
				"default case",
			}},
			{domain.ErrorCategoryTimeout, []string{
				"timeout",
				"deadline",
				"context canceled",
				"cancelled",
			}},
			{domain.ErrorCategoryConfig, []string{
				"config",
				".bcflow.toml",
				"toml",
			}},
			{domain.ErrorCategoryProcessing, []string{
				"decode",
				"parse",
				"unknown node kind",
				"unknown edge kind",
				"dangling",
				"analysis",
			}},
			{domain.ErrorCategoryOutput, []string{
				"output",
				"write",
				"cannot create",
			}},
			{domain.ErrorCategoryInput, []string{
				"invalid input",
				"no ir documents",
				"file not found",
				"no such file",
				"permission denied",
				"path",
			}},
		},
	}
}

var codeCategories = map[string]domain.ErrorCategory{
	domain.ErrCodeInvalidInput:      domain.ErrorCategoryInput,
	domain.ErrCodeFileNotFound:      domain.ErrorCategoryInput,
	domain.ErrCodeParseError:        domain.ErrorCategoryProcessing,
	domain.ErrCodeAnalysisError:     domain.ErrorCategoryProcessing,
	domain.ErrCodeConfigError:       domain.ErrorCategoryConfig,
	domain.ErrCodeOutputError:       domain.ErrorCategoryOutput,
	domain.ErrCodeUnsupportedFormat: domain.ErrorCategoryInput,
	domain.ErrCodeCorruptIR:         domain.ErrorCategoryCorruptIR,
}

// Categorize determines the category of an error. Typed errors are
// classified by kind; anything else falls back to message patterns.
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	category := ec.categoryOf(err)
	message := err.Error()
	if category != domain.ErrorCategoryUnknown {
		message = categoryMessage(category)
	}
	return &domain.CategorizedError{
		Category: category,
		Message:  message,
		Original: err,
	}
}

func (ec *ErrorCategorizerImpl) categoryOf(err error) domain.ErrorCategory {
	switch {
	case errors.Is(err, analyzer.ErrCorruptIR):
		return domain.ErrorCategoryCorruptIR
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.ErrorCategoryTimeout
	}

	var de domain.DomainError
	if errors.As(err, &de) {
		if category, ok := codeCategories[de.Code]; ok {
			return category
		}
	}

	msg := strings.ToLower(err.Error())
	for _, p := range ec.patterns {
		if containsAnyPattern(msg, p.patterns) {
			return p.category
		}
	}
	return domain.ErrorCategoryUnknown
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	switch category {
	case domain.ErrorCategoryInput:
		return []string{
			"Check that the paths exist and contain .yaml, .json or .msgpack IR documents",
			"Try: bcflow analyze . --verbose to see which documents are collected",
			"Check the include and exclude patterns in .bcflow.toml",
		}
	case domain.ErrorCategoryConfig:
		return []string{
			"Verify the values in .bcflow.toml",
			"Try: bcflow init --force to regenerate a valid config file",
		}
	case domain.ErrorCategoryCorruptIR:
		return []string{
			"The upstream decompiler stage produced a graph that breaks a structural invariant",
			"Run: bcflow check <path> to list every fault with its bytecode position",
			"Drop --fail-fast to report faults without aborting the run",
		}
	case domain.ErrorCategoryTimeout:
		return []string{
			"Analyze fewer documents at once or raise --workers",
			"Narrow the run with --method to a single class or method",
		}
	case domain.ErrorCategoryOutput:
		return []string{
			"Check write permissions for the output path",
			"Use --format text, json or yaml",
		}
	case domain.ErrorCategoryProcessing:
		return []string{
			"Some IR documents may be malformed; check node kinds and edge endpoints",
			"Analyze documents individually to isolate the problem",
		}
	default:
		return []string{
			"Run with --verbose for detailed error information",
			"Report the issue if it persists",
		}
	}
}

func categoryMessage(category domain.ErrorCategory) string {
	switch category {
	case domain.ErrorCategoryInput:
		return "Failed to read input documents"
	case domain.ErrorCategoryConfig:
		return "Configuration file or settings error"
	case domain.ErrorCategoryCorruptIR:
		return "Control-flow graph violates a structural invariant"
	case domain.ErrorCategoryTimeout:
		return "Analysis timed out"
	case domain.ErrorCategoryOutput:
		return "Failed to generate or write output"
	case domain.ErrorCategoryProcessing:
		return "Error while building control-flow graphs"
	default:
		return "An unexpected error occurred"
	}
}

func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}

var _ domain.ErrorCategorizer = (*ErrorCategorizerImpl)(nil)
