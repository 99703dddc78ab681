package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/bcflow/domain"
)

// FileOutputWriter writes reports either to a file or to the provided writer
// and opens HTML report files in a browser
type FileOutputWriter struct {
	status io.Writer

	open        func(url string) error
	interactive func() bool
}

// NewFileOutputWriter creates a writer that prints status lines to status,
// or to stderr when status is nil
func NewFileOutputWriter(status io.Writer) *FileOutputWriter {
	if status == nil {
		status = os.Stderr
	}
	return &FileOutputWriter{
		status:      status,
		open:        OpenBrowser,
		interactive: IsInteractiveEnvironment,
	}
}

// Write implements domain.ReportWriter
func (w *FileOutputWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, noOpen bool, writeFunc func(io.Writer) error) error {
	if outputPath == "" {
		if err := writeFunc(writer); err != nil {
			return domain.NewOutputError("failed to write output", err)
		}
		return nil
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewOutputError(fmt.Sprintf("failed to create output directory: %s", dir), err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", outputPath), err)
	}
	defer file.Close()

	if err := writeFunc(file); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}

	if format == domain.OutputFormatHTML && !noOpen && w.interactive() {
		if err := w.open("file://" + filepath.ToSlash(absPath)); err != nil {
			fmt.Fprintf(w.status, "Warning: Could not open browser: %v\n", err)
		} else {
			fmt.Fprintf(w.status, "HTML report generated and opened: %s\n", absPath)
			return nil
		}
	}

	fmt.Fprintf(w.status, "%s report generated: %s\n", strings.ToUpper(string(format)), absPath)
	return nil
}

var _ domain.ReportWriter = (*FileOutputWriter)(nil)
