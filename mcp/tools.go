package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all bcflow MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	if h == nil {
		h = NewHandlerSet(nil)
	}

	// Tool 1: analyze_ir - control-flow report for every method
	s.AddTool(mcp.NewTool("analyze_ir",
		mcp.WithDescription("Build the control-flow graph of every method in IR documents and report loops, branches, switches, try blocks and structural faults"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("IR document or directory of documents (.yaml, .json, .msgpack)")),
		mcp.WithString("method",
			mcp.Description("Glob matched against Class.method (default: all methods)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively collect documents from directories (default: true)")),
		mcp.WithBoolean("show_instructions",
			mcp.Description("Include instruction listings in full output (default: false)")),
		mcp.WithString("output_mode",
			mcp.Enum("summary", "full"),
			mcp.Description("summary returns totals and per-method counts; full returns the complete report (default: summary)")),
	), h.HandleAnalyzeIR)

	// Tool 2: query_ir - a single control-flow question
	s.AddTool(mcp.NewTool("query_ir",
		mcp.WithDescription("Answer one control-flow question about a method: next, prev, between, true, false, jump, cases, catches, finally or edge"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("IR document holding the method")),
		mcp.WithString("method",
			mcp.Required(),
			mcp.Description("Method name or Class.method")),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Enum("next", "prev", "between", "true", "false", "jump", "cases", "catches", "finally", "edge"),
			mcp.Description("Question to ask")),
		mcp.WithArray("positions",
			mcp.Required(),
			mcp.Items(map[string]interface{}{"type": "number"}),
			mcp.Description("Instruction positions: two for between and edge, one otherwise")),
	), h.HandleQueryIR)

	// Tool 3: check_ir - structural validation
	s.AddTool(mcp.NewTool("check_ir",
		mcp.WithDescription("Validate the structure of every method graph and list faults such as branches missing a leg or tries with two finally handlers"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("IR document or directory of documents")),
		mcp.WithString("method",
			mcp.Description("Glob matched against Class.method (default: all methods)")),
	), h.HandleCheckIR)
}
