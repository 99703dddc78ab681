package domain

import (
	"context"
	"io"
)

// FlowRequest represents a request for control-flow analysis of IR documents
type FlowRequest struct {
	// Input documents or directories to analyze
	Paths []string

	// Output configuration
	OutputFormat     OutputFormat
	OutputWriter     io.Writer
	OutputPath       string // Path to save the report file
	ShowInstructions bool
	NoOpen           bool // Don't open HTML reports in a browser

	// MethodFilter is a glob matched against "Class.method"; empty matches all
	MethodFilter string

	// Configuration
	ConfigPath string

	// Analysis options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
	MaxWorkers      int
	FailFast        bool

	// ReclassifyOnAdd classifies edges as the graph is built
	ReclassifyOnAdd bool
}

// NodeRef identifies a node in a report
type NodeRef struct {
	Position int    `json:"position" yaml:"position"`
	Kind     string `json:"kind" yaml:"kind"`
	Opcode   string `json:"opcode,omitempty" yaml:"opcode,omitempty"`

	// Label is the case label of a case node or the caught type of a catch node
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// EdgeRef identifies an edge by its endpoint positions
type EdgeRef struct {
	From int    `json:"from" yaml:"from"`
	To   int    `json:"to" yaml:"to"`
	Kind string `json:"kind" yaml:"kind"`
	Leg  string `json:"leg,omitempty" yaml:"leg,omitempty"`
}

// EdgeCounts tallies a method's edges by kind
type EdgeCounts struct {
	Normal    int `json:"normal" yaml:"normal"`
	Back      int `json:"back" yaml:"back"`
	Exception int `json:"exception" yaml:"exception"`

	// Conditional counts branch legs regardless of kind
	Conditional int `json:"conditional" yaml:"conditional"`
}

// Total returns the number of edges
func (c EdgeCounts) Total() int {
	return c.Normal + c.Back + c.Exception
}

// BranchReport resolves both legs of a boolean branch
type BranchReport struct {
	Branch NodeRef  `json:"branch" yaml:"branch"`
	True   *NodeRef `json:"true,omitempty" yaml:"true,omitempty"`
	False  *NodeRef `json:"false,omitempty" yaml:"false,omitempty"`
}

// JumpReport resolves an unconditional jump
type JumpReport struct {
	Jump   NodeRef  `json:"jump" yaml:"jump"`
	Target *NodeRef `json:"target,omitempty" yaml:"target,omitempty"`
}

// SwitchReport lists the ordered cases of a switch
type SwitchReport struct {
	Switch NodeRef   `json:"switch" yaml:"switch"`
	Cases  []NodeRef `json:"cases" yaml:"cases"`
}

// TryReport lists the handlers of a try
type TryReport struct {
	Try     NodeRef   `json:"try" yaml:"try"`
	Catches []NodeRef `json:"catches" yaml:"catches"`
	Finally *NodeRef  `json:"finally,omitempty" yaml:"finally,omitempty"`
}

// RangeReport lists the nodes strictly inside a declared block range
type RangeReport struct {
	Name    string    `json:"name" yaml:"name"`
	Start   int       `json:"start" yaml:"start"`
	End     int       `json:"end" yaml:"end"`
	Members []NodeRef `json:"members" yaml:"members"`
}

// Fault is a structural invariant violation found in a method graph
type Fault struct {
	Position  int    `json:"position" yaml:"position"`
	Invariant string `json:"invariant" yaml:"invariant"`
	Detail    string `json:"detail" yaml:"detail"`
}

// MethodReport represents the control-flow analysis result for a single method
type MethodReport struct {
	// Method identification
	Class    string `json:"class" yaml:"class"`
	Method   string `json:"method" yaml:"method"`
	FilePath string `json:"file_path" yaml:"file_path"`

	// Graph metrics
	Nodes int        `json:"nodes" yaml:"nodes"`
	Edges EdgeCounts `json:"edges" yaml:"edges"`
	Entry *NodeRef   `json:"entry,omitempty" yaml:"entry,omitempty"`

	// Constructs
	BackEdges []EdgeRef      `json:"back_edges,omitempty" yaml:"back_edges,omitempty"`
	Branches  []BranchReport `json:"branches,omitempty" yaml:"branches,omitempty"`
	Jumps     []JumpReport   `json:"jumps,omitempty" yaml:"jumps,omitempty"`
	Switches  []SwitchReport `json:"switches,omitempty" yaml:"switches,omitempty"`
	Tries     []TryReport    `json:"tries,omitempty" yaml:"tries,omitempty"`
	Ranges    []RangeReport  `json:"ranges,omitempty" yaml:"ranges,omitempty"`

	Unreachable  []NodeRef `json:"unreachable,omitempty" yaml:"unreachable,omitempty"`
	Instructions []string  `json:"instructions,omitempty" yaml:"instructions,omitempty"`

	Faults []Fault `json:"faults,omitempty" yaml:"faults,omitempty"`
}

// QualifiedName returns "Class.method"
func (m MethodReport) QualifiedName() string {
	return m.Class + "." + m.Method
}

// HasFaults reports whether any invariant violation was found
func (m MethodReport) HasFaults() bool {
	return len(m.Faults) > 0
}

// FlowSummary represents aggregate statistics
type FlowSummary struct {
	FilesAnalyzed     int `json:"files_analyzed" yaml:"files_analyzed"`
	MethodsAnalyzed   int `json:"methods_analyzed" yaml:"methods_analyzed"`
	TotalNodes        int `json:"total_nodes" yaml:"total_nodes"`
	TotalEdges        int `json:"total_edges" yaml:"total_edges"`
	BackEdges         int `json:"back_edges" yaml:"back_edges"`
	Branches          int `json:"branches" yaml:"branches"`
	Switches          int `json:"switches" yaml:"switches"`
	Tries             int `json:"tries" yaml:"tries"`
	UnreachableNodes  int `json:"unreachable_nodes" yaml:"unreachable_nodes"`
	MethodsWithFaults int `json:"methods_with_faults" yaml:"methods_with_faults"`
	TotalFaults       int `json:"total_faults" yaml:"total_faults"`
}

// FlowResponse represents the complete analysis result
type FlowResponse struct {
	// Analysis results
	Methods []MethodReport `json:"methods" yaml:"methods"`
	Summary FlowSummary    `json:"summary" yaml:"summary"`

	// Warnings and issues
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Metadata
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
}

// FlowService defines the core business logic for control-flow analysis
type FlowService interface {
	// Analyze performs control-flow analysis on the given request
	Analyze(ctx context.Context, req FlowRequest) (*FlowResponse, error)

	// AnalyzeFile analyzes a single IR document
	AnalyzeFile(ctx context.Context, filePath string, req FlowRequest) (*FlowResponse, error)
}

// FileReader defines the interface for reading and collecting IR documents
type FileReader interface {
	// CollectDocuments finds all IR documents in the given paths
	CollectDocuments(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidDocument checks if a file has a recognized IR document extension
	IsValidDocument(path string) bool

	// FileExists checks if a file exists and returns an error if not
	FileExists(path string) (bool, error)
}

// FlowOutputFormatter defines the interface for formatting analysis and query results
type FlowOutputFormatter interface {
	// Format formats the analysis response according to the specified format
	Format(response *FlowResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *FlowResponse, format OutputFormat, writer io.Writer) error

	// WriteQuery writes a formatted query answer to the writer
	WriteQuery(response *QueryResponse, format OutputFormat, writer io.Writer) error
}

// FlowConfigurationLoader loads analysis defaults from configuration files
type FlowConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*FlowRequest, error)

	// LoadForTarget loads the configuration that applies to an analysis
	// target; an explicit path wins over discovery
	LoadForTarget(configPath, targetPath string) (*FlowRequest, error)

	// LoadDefaultConfig returns the built-in defaults
	LoadDefaultConfig() *FlowRequest

	// MergeConfig overlays command-line values onto a loaded configuration
	MergeConfig(base *FlowRequest, override *FlowRequest) *FlowRequest
}
