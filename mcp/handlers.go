package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ludo-technologies/bcflow/app"
	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/config"
	"github.com/ludo-technologies/bcflow/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies("", nil)
	}
	return &HandlerSet{deps: deps}
}

// HandleAnalyzeIR handles the analyze_ir tool
func (h *HandlerSet) HandleAnalyzeIR(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	req, tracker, errResult := h.flowRequest(args)
	if errResult != nil {
		return errResult, nil
	}
	if si, ok := args["show_instructions"].(bool); ok {
		req.ShowInstructions = si
		tracker.Set(service.FlagInstructions)
	}

	outputMode := "summary"
	if om, ok := args["output_mode"].(string); ok {
		outputMode = om
	}
	if outputMode != "summary" && outputMode != "full" {
		return mcp.NewToolResultError(fmt.Sprintf("unknown output_mode %q", outputMode)), nil
	}

	useCase, err := h.deps.BuildFlowUseCase(tracker)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create analyzer: %v", err)), nil
	}

	response, err := useCase.Execute(ctx, req)
	if err != nil {
		return toolError("analysis failed", err), nil
	}

	var responseData interface{}
	switch outputMode {
	case "full":
		responseData = response
	default:
		responseData = formatFlowSummary(response)
	}
	return jsonResult(responseData)
}

// HandleQueryIR handles the query_ir tool
func (h *HandlerSet) HandleQueryIR(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	method, ok := args["method"].(string)
	if !ok || method == "" {
		return mcp.NewToolResultError("method parameter is required and must be a string"), nil
	}
	opName, ok := args["operation"].(string)
	if !ok {
		return mcp.NewToolResultError("operation parameter is required and must be a string"), nil
	}
	op, err := domain.ParseQueryOperation(opName)
	if err != nil {
		return toolError("invalid query", err), nil
	}
	positions, err := parsePositions(args["positions"])
	if err != nil {
		return toolError("invalid query", err), nil
	}

	response, err := h.deps.BuildQueryUseCase().Execute(ctx, domain.QueryRequest{
		Path:      path,
		Method:    method,
		Operation: op,
		Args:      positions,
	})
	if err != nil {
		return toolError("query failed", err), nil
	}
	return jsonResult(response)
}

// HandleCheckIR handles the check_ir tool
func (h *HandlerSet) HandleCheckIR(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	req, tracker, errResult := h.flowRequest(args)
	if errResult != nil {
		return errResult, nil
	}

	flow, err := h.deps.BuildFlowUseCase(tracker)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create checker: %v", err)), nil
	}

	result, err := app.NewCheckUseCase(flow).Execute(ctx, req)
	if err != nil {
		return toolError("check failed", err), nil
	}
	return jsonResult(formatCheckResult(result))
}

// flowRequest reads the arguments shared by analyze_ir and check_ir. The
// tracker records which of them were supplied.
func (h *HandlerSet) flowRequest(args map[string]interface{}) (domain.FlowRequest, *config.FlagTracker, *mcp.CallToolResult) {
	tracker := config.NewFlagTracker()

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return domain.FlowRequest{}, nil, mcp.NewToolResultError("path parameter is required and must be a string")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return domain.FlowRequest{}, nil, mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path))
	}

	req := domain.FlowRequest{
		Paths:        []string{path},
		OutputFormat: domain.OutputFormatJSON,
		ConfigPath:   h.deps.ConfigPath(),
		Recursive:    true,
	}
	tracker.Set(service.FlagFormat)

	if m, ok := args["method"].(string); ok && m != "" {
		req.MethodFilter = m
		tracker.Set(service.FlagMethod)
	}
	if r, ok := args["recursive"].(bool); ok {
		req.Recursive = r
		tracker.Set(service.FlagRecursive)
	}
	return req, tracker, nil
}

// parsePositions converts a JSON array of numbers into instruction positions
func parsePositions(raw interface{}) ([]int, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, domain.NewInvalidInputError("positions must be an array of numbers", nil)
	}
	positions := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := item.(float64)
		if !ok || n < 0 || n != float64(int(n)) {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid position %v", item), nil)
		}
		positions = append(positions, int(n))
	}
	return positions, nil
}

// formatFlowSummary keeps the totals and one line of counts per method
func formatFlowSummary(response *domain.FlowResponse) map[string]interface{} {
	type MethodSummary struct {
		Method      string `json:"method"`
		File        string `json:"file"`
		Nodes       int    `json:"nodes"`
		Edges       int    `json:"edges"`
		BackEdges   int    `json:"back_edges"`
		Branches    int    `json:"branches"`
		Switches    int    `json:"switches"`
		Tries       int    `json:"tries"`
		Unreachable int    `json:"unreachable"`
		Faults      int    `json:"faults"`
	}

	methods := make([]MethodSummary, 0, len(response.Methods))
	for _, m := range response.Methods {
		methods = append(methods, MethodSummary{
			Method:      m.QualifiedName(),
			File:        m.FilePath,
			Nodes:       m.Nodes,
			Edges:       m.Edges.Total(),
			BackEdges:   len(m.BackEdges),
			Branches:    len(m.Branches),
			Switches:    len(m.Switches),
			Tries:       len(m.Tries),
			Unreachable: len(m.Unreachable),
			Faults:      len(m.Faults),
		})
	}

	data := map[string]interface{}{
		"summary": response.Summary,
		"methods": methods,
	}
	if len(response.Warnings) > 0 {
		data["warnings"] = response.Warnings
	}
	if len(response.Errors) > 0 {
		data["errors"] = response.Errors
	}
	return data
}

func formatCheckResult(result *app.CheckResult) map[string]interface{} {
	type Issue struct {
		File      string `json:"file"`
		Method    string `json:"method"`
		Position  int    `json:"position"`
		Invariant string `json:"invariant"`
		Message   string `json:"message"`
	}

	issues := []Issue{}
	for _, f := range result.Faults {
		issues = append(issues, Issue{
			File:      f.FilePath,
			Method:    f.Method,
			Position:  f.Position,
			Invariant: f.Invariant,
			Message:   f.Detail,
		})
	}

	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}
	return map[string]interface{}{
		"passed":          result.Passed(),
		"methods_checked": result.MethodsChecked,
		"faults":          issues,
		"errors":          errs,
	}
}

// toolError reports err as a tool result, prefixed with its category
func toolError(prefix string, err error) *mcp.CallToolResult {
	categorized := service.NewErrorCategorizer().Categorize(err)
	if categorized == nil {
		return mcp.NewToolResultError(prefix)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s [%s]: %v", prefix, categorized.Category, err))
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
