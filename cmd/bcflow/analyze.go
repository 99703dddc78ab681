package main

import (
	"fmt"

	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/config"
	"github.com/ludo-technologies/bcflow/service"
	"github.com/spf13/cobra"
)

// AnalyzeCommand represents the analyze command
type AnalyzeCommand struct {
	outputFormat string
	htmlOutput   bool
	jsonOutput   bool
	yamlOutput   bool
	noOpen       bool
	outputPath   string
	configFile   string

	methodFilter     string
	showInstructions bool
	recursive        bool
	includePatterns  []string
	excludePatterns  []string
	maxWorkers       int
	failFast         bool
	reclassify       bool
	noProgress       bool
}

// NewAnalyzeCommand creates a new analyze command
func NewAnalyzeCommand() *AnalyzeCommand {
	return &AnalyzeCommand{
		outputFormat: string(domain.OutputFormatText),
		recursive:    true,
		reclassify:   true,
	}
}

// CreateCobraCommand creates the cobra command for control-flow analysis
func (c *AnalyzeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze the control flow of IR documents",
		Long: `Build the control-flow graph of every method in the given IR documents
and report its loops, branches, jumps, switches and try blocks.

Structural faults, such as a branch missing a leg or a try with two
finally handlers, are recorded in the report instead of stopping the run
unless --fail-fast is set.

Examples:
  # Analyze every document under the current directory
  bcflow analyze .

  # Only the methods of one class, with instruction listings
  bcflow analyze --method 'com.example.Loops.*' --instructions ir/

  # Write a JSON report to .bcflow/reports
  bcflow analyze --json ir/

  # Write an HTML report and open it in the browser
  bcflow analyze --html ir/`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runAnalyze,
	}

	cmd.Flags().StringVarP(&c.outputFormat, service.FlagFormat, "f", string(domain.OutputFormatText), "Output format (text, json, yaml, html)")
	cmd.Flags().BoolVar(&c.htmlOutput, "html", false, "Write an HTML report file")
	cmd.Flags().BoolVar(&c.jsonOutput, "json", false, "Write a JSON report file")
	cmd.Flags().BoolVar(&c.yamlOutput, "yaml", false, "Write a YAML report file")
	cmd.Flags().BoolVar(&c.noOpen, "no-open", false, "Don't auto-open HTML in browser")
	cmd.Flags().StringVarP(&c.outputPath, service.FlagOutput, "o", "", "Write the report to this file")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVarP(&c.methodFilter, service.FlagMethod, "m", "", "Only analyze methods whose Class.method matches this glob")
	cmd.Flags().BoolVar(&c.showInstructions, service.FlagInstructions, false, "Include instruction listings")
	cmd.Flags().BoolVarP(&c.recursive, service.FlagRecursive, "r", true, "Descend into directories")
	cmd.Flags().StringSliceVar(&c.includePatterns, service.FlagInclude, nil, "Document patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, service.FlagExclude, nil, "Document patterns to exclude")
	cmd.Flags().IntVarP(&c.maxWorkers, service.FlagWorkers, "w", 0, "Methods analyzed concurrently (0 = one per CPU)")
	cmd.Flags().BoolVar(&c.failFast, service.FlagFailFast, false, "Stop at the first corrupt method")
	cmd.Flags().BoolVar(&c.reclassify, service.FlagReclassify, true, "Classify edges as the graph is built")
	cmd.Flags().BoolVar(&c.noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

// runAnalyze executes the analyze command
func (c *AnalyzeCommand) runAnalyze(cmd *cobra.Command, args []string) error {
	format, extension, err := service.NewOutputFormatResolver().Determine(c.htmlOutput, c.jsonOutput, c.yamlOutput, c.outputFormat)
	if err != nil {
		return err
	}

	tracker := config.NewFlagTrackerFromFlagSet(cmd.Flags())
	outputPath := c.outputPath
	if extension != "" {
		tracker.Set(service.FlagFormat)
		if outputPath == "" {
			outputPath, err = generateOutputFilePath("flow", extension, getTargetPathFromArgs(args))
			if err != nil {
				return err
			}
			tracker.Set(service.FlagOutput)
		}
	}

	color := format == domain.OutputFormatText && outputPath == "" && isTerminal(cmd.OutOrStdout())
	progress := newProgressManager(c.noProgress)
	defer progress.Close()

	useCase, err := buildFlowUseCase(cmd, tracker, progress, color)
	if err != nil {
		return err
	}

	req := domain.FlowRequest{
		Paths:            args,
		OutputFormat:     format,
		OutputWriter:     cmd.OutOrStdout(),
		OutputPath:       outputPath,
		ShowInstructions: c.showInstructions,
		NoOpen:           c.noOpen,
		MethodFilter:     c.methodFilter,
		ConfigPath:       c.configFile,
		Recursive:        c.recursive,
		IncludePatterns:  c.includePatterns,
		ExcludePatterns:  c.excludePatterns,
		MaxWorkers:       c.maxWorkers,
		FailFast:         c.failFast,
		ReclassifyOnAdd:  c.reclassify,
	}

	response, err := useCase.Execute(cmd.Context(), req)
	if err != nil {
		printCategorizedError(cmd.ErrOrStderr(), err)
		return &exitError{code: 2, err: err}
	}

	if faults := response.Summary.TotalFaults; faults > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "! %d fault(s) in %d method(s); run 'bcflow check' for details\n",
			faults, response.Summary.MethodsWithFaults)
	}
	return nil
}

// NewAnalyzeCmd creates and returns the analyze cobra command
func NewAnalyzeCmd() *cobra.Command {
	return NewAnalyzeCommand().CreateCobraCommand()
}
