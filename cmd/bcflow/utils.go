package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/bcflow/app"
	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/config"
	"github.com/ludo-technologies/bcflow/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// generateTimestampedFileName generates a filename with timestamp suffix
func generateTimestampedFileName(command, extension string) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", command, timestamp, extension)
}

// resolveOutputDirectory determines the report directory from configuration,
// falling back to .bcflow/reports under the working directory
func resolveOutputDirectory(targetPath string) (string, error) {
	cfg, err := config.LoadConfigWithTarget("", targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg != nil && cfg.Output.Directory != "" {
		return cfg.Output.Directory, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return filepath.FromSlash(config.DefaultOutputDirectory), nil
	}
	return filepath.Join(cwd, filepath.FromSlash(config.DefaultOutputDirectory)), nil
}

// generateOutputFilePath returns a timestamped report path inside the
// resolved output directory, creating the directory if needed
func generateOutputFilePath(command, extension, targetPath string) (string, error) {
	filename := generateTimestampedFileName(command, extension)
	outputDir, err := resolveOutputDirectory(targetPath)
	if err != nil {
		return "", err
	}

	if mkErr := os.MkdirAll(outputDir, 0o755); mkErr != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, mkErr)
	}
	return filepath.Join(outputDir, filename), nil
}

// getTargetPathFromArgs extracts the first argument as target path, or returns empty string
func getTargetPathFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// newLogger returns a stderr logger at Info, or Debug when --verbose is set
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, err := cmd.Root().PersistentFlags().GetBool("verbose"); err == nil && verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// isTerminal reports whether w is a terminal file
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newProgressManager picks a progress bar for interactive sessions
func newProgressManager(disabled bool) domain.ProgressManager {
	if disabled || !service.IsInteractiveEnvironment() {
		return service.NewNoOpProgressManager()
	}
	return service.NewProgressManager()
}

// buildFlowUseCase wires the analysis workflow for a command. Flags the user
// did not set leave config file values in place.
func buildFlowUseCase(cmd *cobra.Command, tracker *config.FlagTracker, progress domain.ProgressManager, color bool) (*app.FlowUseCase, error) {
	fileReader := service.NewFileReader()

	flowService := service.NewFlowService(fileReader, progress)
	flowService.SetLogger(newLogger(cmd))

	var formatter domain.FlowOutputFormatter = service.NewFlowFormatter()
	if color {
		formatter = service.NewColorFlowFormatter()
	}

	return app.NewFlowUseCaseBuilder().
		WithService(flowService).
		WithFileReader(fileReader).
		WithFormatter(formatter).
		WithConfigLoader(service.NewConfigurationLoaderWithFlags(tracker)).
		WithReportWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

// printCategorizedError prints a categorized error with recovery hints
func printCategorizedError(w io.Writer, err error) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)
	if categorized == nil {
		return
	}

	fmt.Fprintf(w, "Error [%s]: %s\n", categorized.Category, categorized.Message)
	if categorized.Message != err.Error() {
		fmt.Fprintf(w, "  %v\n", err)
	}
	suggestions := categorizer.GetRecoverySuggestions(categorized.Category)
	if len(suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range suggestions {
			fmt.Fprintf(w, "  • %s\n", s)
		}
	}
}

// exitError carries a process exit code through cobra
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// exitCode maps an error returned by a command to a process exit code
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
