package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ludo-technologies/bcflow/domain"
)

// FlowFormatterImpl implements the FlowOutputFormatter interface
type FlowFormatterImpl struct {
	utils *FormatUtils
	html  *HTMLFormatterImpl
}

// NewFlowFormatter creates a new flow formatter without colors
func NewFlowFormatter() *FlowFormatterImpl {
	return &FlowFormatterImpl{utils: NewFormatUtils(), html: NewHTMLFormatter()}
}

// NewColorFlowFormatter creates a flow formatter that colors text output
func NewColorFlowFormatter() *FlowFormatterImpl {
	return &FlowFormatterImpl{utils: NewColorFormatUtils(), html: NewHTMLFormatter()}
}

// Format formats the analysis response according to the specified format
func (f *FlowFormatterImpl) Format(response *domain.FlowResponse, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		return f.formatText(response), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(response)
	case domain.OutputFormatYAML:
		return EncodeYAML(response)
	case domain.OutputFormatHTML:
		return f.html.FormatFlowAsHTML(response, "")
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// Write writes the formatted output to the writer
func (f *FlowFormatterImpl) Write(response *domain.FlowResponse, format domain.OutputFormat, writer io.Writer) error {
	output, err := f.Format(response, format)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(writer, output); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// WriteQuery writes a formatted query answer to the writer
func (f *FlowFormatterImpl) WriteQuery(response *domain.QueryResponse, format domain.OutputFormat, writer io.Writer) error {
	var (
		output string
		err    error
	)
	switch format {
	case domain.OutputFormatText:
		output = f.formatQueryText(response)
	case domain.OutputFormatJSON:
		output, err = EncodeJSON(response)
	case domain.OutputFormatYAML:
		output, err = EncodeYAML(response)
	default:
		err = domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return err
	}

	if _, err := io.WriteString(writer, output); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

func (f *FlowFormatterImpl) formatText(response *domain.FlowResponse) string {
	var builder strings.Builder
	u := f.utils

	builder.WriteString(u.FormatMainHeader("Control Flow Report"))

	s := response.Summary
	faultCount := fmt.Sprint(s.TotalFaults)
	if s.TotalFaults > 0 {
		faultCount = u.Colorize(ColorRed, faultCount)
	}
	builder.WriteString(u.FormatSummaryStats([]Stat{
		{"Files Analyzed", s.FilesAnalyzed},
		{"Methods Analyzed", s.MethodsAnalyzed},
		{"Nodes", s.TotalNodes},
		{"Edges", s.TotalEdges},
		{"Back Edges", s.BackEdges},
		{"Branches", s.Branches},
		{"Switches", s.Switches},
		{"Try Blocks", s.Tries},
		{"Unreachable Nodes", s.UnreachableNodes},
		{"Methods With Faults", s.MethodsWithFaults},
		{"Faults", faultCount},
	}))

	if len(response.Methods) > 0 {
		builder.WriteString(u.FormatSectionHeader("Methods"))
		for _, m := range response.Methods {
			f.writeMethod(&builder, m)
		}
	}

	builder.WriteString(u.FormatListSection("Warnings", "!", response.Warnings))
	builder.WriteString(u.FormatListSection("Errors", "x", response.Errors))

	if parsed, err := time.Parse(time.RFC3339, response.GeneratedAt); err == nil {
		builder.WriteString(u.FormatSectionHeader("Metadata"))
		builder.WriteString(u.FormatLabelWithIndent(SectionPadding, "Generated at", parsed.Format(time.RFC3339)))
		if response.Version != "" {
			builder.WriteString(u.FormatLabelWithIndent(SectionPadding, "Version", response.Version))
		}
	}

	return builder.String()
}

func (f *FlowFormatterImpl) writeMethod(b *strings.Builder, m domain.MethodReport) {
	u := f.utils

	title := u.Colorize(ColorBold, m.QualifiedName())
	if m.FilePath != "" {
		title += " (" + m.FilePath + ")"
	}
	b.WriteString(u.FormatLine(SectionPadding, title))

	b.WriteString(u.FormatLabelWithIndent(ItemPadding, "Nodes", m.Nodes))
	b.WriteString(u.FormatLabelWithIndent(ItemPadding, "Edges", fmt.Sprintf("%d (normal %d, back %d, exception %d)",
		m.Edges.Total(), m.Edges.Normal, m.Edges.Back, m.Edges.Exception)))
	if m.Entry != nil {
		b.WriteString(u.FormatLabelWithIndent(ItemPadding, "Entry", describeNode(*m.Entry)))
	}

	var lines []string
	for _, e := range m.BackEdges {
		lines = append(lines, fmt.Sprintf("%d -> %d", e.From, e.To))
	}
	f.writeGroup(b, "Back edges", lines)

	lines = lines[:0]
	for _, br := range m.Branches {
		lines = append(lines, fmt.Sprintf("%s: true -> %s, false -> %s",
			describeNode(br.Branch), describeTarget(br.True), describeTarget(br.False)))
	}
	f.writeGroup(b, "Branches", lines)

	lines = lines[:0]
	for _, j := range m.Jumps {
		lines = append(lines, fmt.Sprintf("%s -> %s", describeNode(j.Jump), describeTarget(j.Target)))
	}
	f.writeGroup(b, "Jumps", lines)

	lines = lines[:0]
	for _, sw := range m.Switches {
		cases := make([]string, 0, len(sw.Cases))
		for _, c := range sw.Cases {
			cases = append(cases, fmt.Sprintf("%s@%d", c.Label, c.Position))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", describeNode(sw.Switch), strings.Join(cases, ", ")))
	}
	f.writeGroup(b, "Switches", lines)

	lines = lines[:0]
	for _, t := range m.Tries {
		handlers := make([]string, 0, len(t.Catches)+1)
		for _, c := range t.Catches {
			handlers = append(handlers, describeNode(c))
		}
		if t.Finally != nil {
			handlers = append(handlers, describeNode(*t.Finally))
		}
		if len(handlers) == 0 {
			handlers = append(handlers, "no handlers")
		}
		lines = append(lines, fmt.Sprintf("%s: %s", describeNode(t.Try), strings.Join(handlers, ", ")))
	}
	f.writeGroup(b, "Tries", lines)

	lines = lines[:0]
	for _, r := range m.Ranges {
		members := make([]string, 0, len(r.Members))
		for _, n := range r.Members {
			members = append(members, fmt.Sprint(n.Position))
		}
		if len(members) == 0 {
			members = append(members, "empty")
		}
		lines = append(lines, fmt.Sprintf("%s (%d, %d): %s", r.Name, r.Start, r.End, strings.Join(members, ", ")))
	}
	f.writeGroup(b, "Ranges", lines)

	lines = lines[:0]
	for _, n := range m.Unreachable {
		lines = append(lines, describeNode(n))
	}
	f.writeGroup(b, "Unreachable", lines)

	f.writeGroup(b, "Instructions", m.Instructions)

	lines = lines[:0]
	for _, fault := range m.Faults {
		lines = append(lines, u.Colorize(ColorRed, fmt.Sprintf("[%s] @%d: %s", fault.Invariant, fault.Position, fault.Detail)))
	}
	f.writeGroup(b, "Faults", lines)

	b.WriteString(u.FormatSectionSeparator())
}

func (f *FlowFormatterImpl) writeGroup(b *strings.Builder, label string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString(f.utils.FormatLine(ItemPadding, label+":"))
	for _, line := range lines {
		b.WriteString(f.utils.FormatLine(ItemPadding+2, line))
	}
}

func (f *FlowFormatterImpl) formatQueryText(response *domain.QueryResponse) string {
	var builder strings.Builder

	args := make([]string, 0, len(response.Args))
	for _, a := range response.Args {
		args = append(args, fmt.Sprint(a))
	}
	builder.WriteString(fmt.Sprintf("%s.%s %s(%s)\n",
		response.Class, response.Method, response.Operation, strings.Join(args, ", ")))

	if !response.Found {
		builder.WriteString(f.utils.FormatLine(SectionPadding, "not found"))
		return builder.String()
	}
	if len(response.Nodes) == 0 && len(response.Edges) == 0 {
		builder.WriteString(f.utils.FormatLine(SectionPadding, "none"))
		return builder.String()
	}

	for _, n := range response.Nodes {
		builder.WriteString(f.utils.FormatLine(SectionPadding, describeNode(n)))
	}
	for _, e := range response.Edges {
		line := fmt.Sprintf("%d -> %d %s", e.From, e.To, e.Kind)
		if e.Leg != "" {
			line += " (" + e.Leg + ")"
		}
		builder.WriteString(f.utils.FormatLine(SectionPadding, line))
	}
	return builder.String()
}

// describeNode renders a node as "position kind[label] opcode"
func describeNode(n domain.NodeRef) string {
	s := fmt.Sprintf("%d %s", n.Position, n.Kind)
	if n.Label != "" {
		s += "[" + n.Label + "]"
	}
	if n.Opcode != "" {
		s += " " + n.Opcode
	}
	return s
}

func describeTarget(n *domain.NodeRef) string {
	if n == nil {
		return "?"
	}
	return fmt.Sprint(n.Position)
}
