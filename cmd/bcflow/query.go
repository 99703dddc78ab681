package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ludo-technologies/bcflow/app"
	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/service"
	"github.com/spf13/cobra"
)

// QueryCommand answers a single control-flow question about one method
type QueryCommand struct {
	outputFormat string
	method       string
}

// NewQueryCommand creates a new query command
func NewQueryCommand() *QueryCommand {
	return &QueryCommand{
		outputFormat: string(domain.OutputFormatText),
	}
}

func queryOperationNames() string {
	names := make([]string, len(domain.QueryOperations))
	for i, op := range domain.QueryOperations {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

// CreateCobraCommand creates the cobra command for single queries
func (q *QueryCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <document> --method <method> <operation> <position> [position]",
		Short: "Ask one control-flow question about a method",
		Long: fmt.Sprintf(`Load one method from an IR document and answer a single question.

Operations: %s

"between" and "edge" take two positions; every other operation takes one.
The method may be given by name or as Class.method.

Examples:
  # First node after position 5
  bcflow query ir/loops.yaml --method com.example.Loops.count next 5

  # Where the branch at position 5 goes when its condition holds
  bcflow query ir/loops.yaml -m count true 5

  # Edges from 11 to 2 as JSON
  bcflow query -f json ir/loops.yaml -m count edge 11 2`, queryOperationNames()),
		Args: cobra.RangeArgs(3, 4),
		RunE: q.runQuery,
	}

	cmd.Flags().StringVarP(&q.outputFormat, service.FlagFormat, "f", string(domain.OutputFormatText), "Output format (text, json, yaml)")
	cmd.Flags().StringVarP(&q.method, service.FlagMethod, "m", "", "Method name or Class.method")
	_ = cmd.MarkFlagRequired(service.FlagMethod)
	return cmd
}

// runQuery executes the query command
func (q *QueryCommand) runQuery(cmd *cobra.Command, args []string) error {
	format, err := domain.ParseOutputFormat(q.outputFormat)
	if err != nil {
		return err
	}
	op, err := domain.ParseQueryOperation(args[1])
	if err != nil {
		return err
	}
	positions, err := parsePositions(args[2:])
	if err != nil {
		return err
	}

	fileReader := service.NewFileReader()
	queryService := service.NewQueryService(fileReader)
	queryService.SetLogger(newLogger(cmd))
	useCase := app.NewQueryUseCase(queryService, fileReader, service.NewFlowFormatter())

	req := domain.QueryRequest{
		Path:         args[0],
		Method:       q.method,
		Operation:    op,
		Args:         positions,
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
	}
	if _, err := useCase.Execute(cmd.Context(), req); err != nil {
		printCategorizedError(cmd.ErrOrStderr(), err)
		return &exitError{code: 2, err: err}
	}
	return nil
}

// parsePositions converts instruction position arguments
func parsePositions(args []string) ([]int, error) {
	positions := make([]int, 0, len(args))
	for _, a := range args {
		p, err := strconv.Atoi(a)
		if err != nil || p < 0 {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid position %q", a), err)
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// NewQueryCmd creates and returns the query cobra command
func NewQueryCmd() *cobra.Command {
	return NewQueryCommand().CreateCobraCommand()
}
