package main

import (
	"fmt"

	"github.com/ludo-technologies/bcflow/app"
	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/config"
	"github.com/ludo-technologies/bcflow/service"
	"github.com/spf13/cobra"
)

// CheckCommand validates the structure of every method graph
type CheckCommand struct {
	configFile      string
	quiet           bool
	methodFilter    string
	recursive       bool
	includePatterns []string
	excludePatterns []string
	maxWorkers      int
}

// NewCheckCommand creates a new check command
func NewCheckCommand() *CheckCommand {
	return &CheckCommand{
		recursive: true,
	}
}

// CreateCobraCommand creates the cobra command for structural checks
func (c *CheckCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Verify that method graphs are structurally sound",
		Long: `Build every method graph and report structural faults, such as a
branch missing a leg, a jump with more than one target or a try with two
finally handlers.

Exit codes:
  0: No faults found
  1: Faults found (see output for details)
  2: Check failed (invalid input, missing files, etc.)

Examples:
  # Check every document under the current directory
  bcflow check

  # Check one class and print only the summary
  bcflow check --quiet --method 'com.example.Switches.*' ir/`,
		RunE: c.runCheck,
	}

	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().BoolVarP(&c.quiet, "quiet", "q", false, "Only print the summary")
	cmd.Flags().StringVarP(&c.methodFilter, service.FlagMethod, "m", "", "Only check methods whose Class.method matches this glob")
	cmd.Flags().BoolVarP(&c.recursive, service.FlagRecursive, "r", true, "Descend into directories")
	cmd.Flags().StringSliceVar(&c.includePatterns, service.FlagInclude, nil, "Document patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, service.FlagExclude, nil, "Document patterns to exclude")
	cmd.Flags().IntVarP(&c.maxWorkers, service.FlagWorkers, "w", 0, "Methods checked concurrently (0 = one per CPU)")

	return cmd
}

// runCheck executes the check command
func (c *CheckCommand) runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	tracker := config.NewFlagTrackerFromFlagSet(cmd.Flags())
	flow, err := buildFlowUseCase(cmd, tracker, service.NewNoOpProgressManager(), false)
	if err != nil {
		return err
	}

	req := domain.FlowRequest{
		Paths:           args,
		OutputFormat:    domain.OutputFormatText,
		MethodFilter:    c.methodFilter,
		ConfigPath:      c.configFile,
		Recursive:       c.recursive,
		IncludePatterns: c.includePatterns,
		ExcludePatterns: c.excludePatterns,
		MaxWorkers:      c.maxWorkers,
	}

	result, err := app.NewCheckUseCase(flow).Execute(cmd.Context(), req)
	if err != nil {
		printCategorizedError(cmd.ErrOrStderr(), err)
		return &exitError{code: 2, err: err}
	}

	c.printResult(cmd, result)
	if !result.Passed() {
		return &exitError{code: 1, err: fmt.Errorf("check failed: %d fault(s), %d document error(s)", len(result.Faults), len(result.Errors))}
	}
	return nil
}

func (c *CheckCommand) printResult(cmd *cobra.Command, result *app.CheckResult) {
	out := cmd.OutOrStdout()
	if !c.quiet {
		for _, f := range result.Faults {
			fmt.Fprintln(out, f.String())
		}
		for _, e := range result.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "x %s\n", e)
		}
	}

	switch {
	case len(result.Faults) > 0:
		fmt.Fprintf(out, "✗ %d fault(s) in %d method(s) checked\n", len(result.Faults), result.MethodsChecked)
	case len(result.Errors) > 0:
		fmt.Fprintf(out, "✗ %d document error(s), %d method(s) checked\n", len(result.Errors), result.MethodsChecked)
	default:
		fmt.Fprintf(out, "✓ %d method(s) checked, no faults\n", result.MethodsChecked)
	}
}

// NewCheckCmd creates and returns the check cobra command
func NewCheckCmd() *cobra.Command {
	return NewCheckCommand().CreateCobraCommand()
}
