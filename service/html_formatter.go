package service

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/bcflow/domain"
)

// HTMLFormatterImpl renders flow reports as a standalone HTML page with
// Lighthouse-style scores
type HTMLFormatterImpl struct {
	tmpl *template.Template
}

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter() *HTMLFormatterImpl {
	return &HTMLFormatterImpl{tmpl: flowReportTemplate}
}

// ScoreData represents one scored aspect of a report
type ScoreData struct {
	Score    int    `json:"score"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Status   string `json:"status"`
	Category string `json:"category"`
}

// OverallScoreData combines the individual scores
type OverallScoreData struct {
	Score       int         `json:"score"`
	Color       string      `json:"color"`
	Status      string      `json:"status"`
	Breakdown   []ScoreData `json:"breakdown"`
	ProjectName string      `json:"project_name"`
	Timestamp   string      `json:"timestamp"`
}

// FlowHTMLData is the data handed to the report template
type FlowHTMLData struct {
	OverallScore OverallScoreData
	Response     *domain.FlowResponse
}

const (
	colorPass    = "#0CCE6B"
	colorAverage = "#FFA500"
	colorFail    = "#FF5722"
)

func grade(score int) (color, status string) {
	switch {
	case score >= 90:
		return colorPass, "pass"
	case score >= 50:
		return colorAverage, "average"
	default:
		return colorFail, "fail"
	}
}

// CalculateIntegrityScore scores the share of methods without invariant faults
func (f *HTMLFormatterImpl) CalculateIntegrityScore(response *domain.FlowResponse) ScoreData {
	if response == nil || response.Summary.MethodsAnalyzed == 0 {
		return ScoreData{Score: 100, Label: "No Methods", Color: colorPass, Status: "pass", Category: "integrity"}
	}

	s := response.Summary
	clean := s.MethodsAnalyzed - s.MethodsWithFaults
	score := clean * 100 / s.MethodsAnalyzed
	color, status := grade(score)
	return ScoreData{
		Score:    score,
		Label:    fmt.Sprintf("%d/%d Methods Well Formed", clean, s.MethodsAnalyzed),
		Color:    color,
		Status:   status,
		Category: "integrity",
	}
}

// CalculateReachabilityScore scores the share of nodes reachable from their
// method's entry
func (f *HTMLFormatterImpl) CalculateReachabilityScore(response *domain.FlowResponse) ScoreData {
	if response == nil || response.Summary.TotalNodes == 0 {
		return ScoreData{Score: 100, Label: "No Nodes", Color: colorPass, Status: "pass", Category: "reachability"}
	}

	s := response.Summary
	ratio := 1.0 - float64(s.UnreachableNodes)/float64(s.TotalNodes)
	score := int(ratio * 100)
	color, status := grade(score)
	return ScoreData{
		Score:    score,
		Label:    fmt.Sprintf("%.1f%% Reachable", ratio*100),
		Color:    color,
		Status:   status,
		Category: "reachability",
	}
}

// CalculateOverallScore averages the scores, weighting integrity over
// reachability
func (f *HTMLFormatterImpl) CalculateOverallScore(scores []ScoreData, projectName, timestamp string) OverallScoreData {
	overall := OverallScoreData{
		Score:       100,
		Breakdown:   scores,
		ProjectName: projectName,
		Timestamp:   timestamp,
	}

	var weightedSum, totalWeight float64
	for _, s := range scores {
		weight := 1.0
		if s.Category == "integrity" {
			weight = 2.0
		}
		weightedSum += float64(s.Score) * weight
		totalWeight += weight
	}
	if totalWeight > 0 {
		overall.Score = int(weightedSum / totalWeight)
	}
	overall.Color, overall.Status = grade(overall.Score)
	return overall
}

// FormatFlowAsHTML renders the full report page
func (f *HTMLFormatterImpl) FormatFlowAsHTML(response *domain.FlowResponse, projectName string) (string, error) {
	if response == nil {
		response = &domain.FlowResponse{}
	}
	if projectName == "" {
		projectName = reportProjectName(response)
	}

	scores := []ScoreData{
		f.CalculateIntegrityScore(response),
		f.CalculateReachabilityScore(response),
	}
	data := FlowHTMLData{
		OverallScore: f.CalculateOverallScore(scores, projectName, response.GeneratedAt),
		Response:     response,
	}

	var buf strings.Builder
	if err := f.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute HTML template: %w", err)
	}
	return buf.String(), nil
}

// reportProjectName names the report after the directory of the first
// analyzed document
func reportProjectName(response *domain.FlowResponse) string {
	for _, m := range response.Methods {
		if m.FilePath == "" {
			continue
		}
		abs, err := filepath.Abs(m.FilePath)
		if err != nil {
			abs = m.FilePath
		}
		return filepath.Base(filepath.Dir(abs))
	}
	return "bcflow"
}
