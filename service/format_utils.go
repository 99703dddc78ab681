package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/bcflow/domain"
)

// EncodeJSON returns an indented JSON string for the given value.
func EncodeJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data) + "\n", nil
}

// EncodeYAML returns a YAML string for the given value.
func EncodeYAML(v interface{}) (string, error) {
	var b strings.Builder
	if err := WriteYAML(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	if err := enc.Close(); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants
const (
	HeaderWidth    = 40
	SectionPadding = 2
	ItemPadding    = 4
)

// ANSI color codes for consistent color usage
const (
	ColorReset = "\x1b[0m"
	ColorRed   = "\x1b[31m"
	ColorBold  = "\x1b[1m"
)

// Stat is one labelled value of a summary section
type Stat struct {
	Label string
	Value interface{}
}

// FormatUtils provides shared formatting utilities
type FormatUtils struct {
	color bool
}

// NewFormatUtils creates a new format utilities instance without colors
func NewFormatUtils() *FormatUtils {
	return &FormatUtils{}
}

// NewColorFormatUtils creates a format utilities instance that emits ANSI colors
func NewColorFormatUtils() *FormatUtils {
	return &FormatUtils{color: true}
}

// Colorize wraps text in a color code when colors are enabled
func (f *FormatUtils) Colorize(color, text string) string {
	if !f.color {
		return text
	}
	return color + text + ColorReset
}

// FormatMainHeader creates a standardized main header
func (f *FormatUtils) FormatMainHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(title + "\n")
	builder.WriteString(strings.Repeat("=", HeaderWidth) + "\n\n")
	return builder.String()
}

// FormatSectionHeader creates a standardized section header
func (f *FormatUtils) FormatSectionHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(strings.ToUpper(title) + "\n")
	builder.WriteString(strings.Repeat("-", len(title)) + "\n")
	return builder.String()
}

// FormatSectionSeparator creates a section separator
func (f *FormatUtils) FormatSectionSeparator() string {
	return "\n"
}

// FormatLabelWithIndent creates a formatted label with specific indentation
func (f *FormatUtils) FormatLabelWithIndent(indent int, label string, value interface{}) string {
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", indent), label, value)
}

// FormatLine writes an indented line
func (f *FormatUtils) FormatLine(indent int, text string) string {
	return strings.Repeat(" ", indent) + text + "\n"
}

// FormatSummaryStats creates a summary section with stats in the given order
func (f *FormatUtils) FormatSummaryStats(stats []Stat) string {
	var builder strings.Builder
	builder.WriteString(f.FormatSectionHeader("SUMMARY"))

	for _, s := range stats {
		builder.WriteString(f.FormatLabelWithIndent(SectionPadding, s.Label, s.Value))
	}

	builder.WriteString(f.FormatSectionSeparator())
	return builder.String()
}

// FormatListSection creates a titled section with one indented line per item
func (f *FormatUtils) FormatListSection(title, marker string, items []string) string {
	if len(items) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(f.FormatSectionHeader(title))
	for _, item := range items {
		builder.WriteString(f.FormatLine(SectionPadding, marker+" "+item))
	}
	builder.WriteString(f.FormatSectionSeparator())
	return builder.String()
}
