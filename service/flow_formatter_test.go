package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/bcflow/domain"
)

func sampleFlowResponse() *domain.FlowResponse {
	return &domain.FlowResponse{
		Methods: []domain.MethodReport{
			{
				Class:    "com.example.Sample",
				Method:   "loop",
				FilePath: "loop.yaml",
				Nodes:    6,
				Edges:    domain.EdgeCounts{Normal: 5, Back: 1, Conditional: 2},
				Entry:    &domain.NodeRef{Position: 0, Kind: "plain"},
				BackEdges: []domain.EdgeRef{
					{From: 11, To: 2, Kind: "back"},
				},
				Branches: []domain.BranchReport{{
					Branch: domain.NodeRef{Position: 5, Kind: "branch", Opcode: "if_icmpge"},
					True:   &domain.NodeRef{Position: 14, Kind: "plain"},
					False:  &domain.NodeRef{Position: 8, Kind: "plain"},
				}},
				Jumps: []domain.JumpReport{{
					Jump:   domain.NodeRef{Position: 11, Kind: "goto"},
					Target: &domain.NodeRef{Position: 2, Kind: "plain"},
				}},
				Ranges: []domain.RangeReport{{
					Name:  "body",
					Start: 5,
					End:   14,
					Members: []domain.NodeRef{
						{Position: 8, Kind: "plain"},
						{Position: 11, Kind: "goto"},
					},
				}},
			},
			{
				Class:    "com.example.Sample",
				Method:   "dispatch",
				FilePath: "loop.yaml",
				Nodes:    9,
				Edges:    domain.EdgeCounts{Normal: 6, Exception: 2},
				Entry:    &domain.NodeRef{Position: 0, Kind: "switch", Opcode: "tableswitch"},
				Switches: []domain.SwitchReport{{
					Switch: domain.NodeRef{Position: 0, Kind: "switch", Opcode: "tableswitch"},
					Cases: []domain.NodeRef{
						{Position: 24, Kind: "case", Label: "1"},
						{Position: 32, Kind: "case", Label: "3"},
						{Position: 20, Kind: "case", Label: "5"},
						{Position: 28, Kind: "case", Label: "default"},
					},
				}},
				Tries: []domain.TryReport{{
					Try:     domain.NodeRef{Position: 36, Kind: "try"},
					Catches: []domain.NodeRef{{Position: 40, Kind: "catch", Label: "java/io/IOException"}},
					Finally: &domain.NodeRef{Position: 44, Kind: "finally"},
				}},
				Faults: []domain.Fault{{
					Position:  36,
					Invariant: "single-finally",
					Detail:    "try has 2 finally successors at positions 44 and 52",
				}},
			},
		},
		Summary: domain.FlowSummary{
			FilesAnalyzed:     1,
			MethodsAnalyzed:   2,
			TotalNodes:        15,
			TotalEdges:        14,
			BackEdges:         1,
			Branches:          1,
			Switches:          1,
			Tries:             1,
			MethodsWithFaults: 1,
			TotalFaults:       1,
		},
		Warnings:    []string{"[b.yaml] No methods matched"},
		GeneratedAt: "2026-01-02T03:04:05Z",
		Version:     "1.0.0",
	}
}

func TestFlowFormatter_TextGolden(t *testing.T) {
	out, err := NewFlowFormatter().Format(sampleFlowResponse(), domain.OutputFormatText)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "flow_report", []byte(out))
}

func TestFlowFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFlowFormatter().Write(sampleFlowResponse(), domain.OutputFormatJSON, &buf))

	var decoded domain.FlowResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *sampleFlowResponse(), decoded)
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestFlowFormatter_YAML(t *testing.T) {
	out, err := NewFlowFormatter().Format(sampleFlowResponse(), domain.OutputFormatYAML)
	require.NoError(t, err)

	var decoded domain.FlowResponse
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 2, decoded.Summary.MethodsAnalyzed)
	require.Len(t, decoded.Methods, 2)
	assert.Equal(t, "default", decoded.Methods[1].Switches[0].Cases[3].Label)
}

func TestFlowFormatter_UnsupportedFormat(t *testing.T) {
	_, err := NewFlowFormatter().Format(sampleFlowResponse(), domain.OutputFormat("csv"))
	require.Error(t, err)

	var de domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeUnsupportedFormat, de.Code)
}

func TestFlowFormatter_ColorFaults(t *testing.T) {
	out, err := NewColorFlowFormatter().Format(sampleFlowResponse(), domain.OutputFormatText)
	require.NoError(t, err)
	assert.Contains(t, out, ColorRed+"[single-finally] @36")
	assert.Contains(t, out, ColorBold+"com.example.Sample.loop"+ColorReset)
}

func TestFlowFormatter_WriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		response *domain.QueryResponse
		want     string
	}{
		{
			name: "ordered cases",
			response: &domain.QueryResponse{
				Class: "com.example.Sample", Method: "dispatch",
				Operation: domain.QueryCases, Args: []int{0}, Found: true,
				Nodes: []domain.NodeRef{
					{Position: 24, Kind: "case", Label: "1"},
					{Position: 28, Kind: "case", Label: "default"},
				},
			},
			want: "com.example.Sample.dispatch cases(0)\n" +
				"  24 case[1]\n" +
				"  28 case[default]\n",
		},
		{
			name: "not found",
			response: &domain.QueryResponse{
				Class: "com.example.Sample", Method: "loop",
				Operation: domain.QueryNext, Args: []int{15},
			},
			want: "com.example.Sample.loop next(15)\n" +
				"  not found\n",
		},
		{
			name: "empty list",
			response: &domain.QueryResponse{
				Class: "com.example.Sample", Method: "loop",
				Operation: domain.QueryBetween, Args: []int{14, 5}, Found: true,
			},
			want: "com.example.Sample.loop between(14, 5)\n" +
				"  none\n",
		},
		{
			name: "edges with legs",
			response: &domain.QueryResponse{
				Class: "com.example.Sample", Method: "loop",
				Operation: domain.QueryEdge, Args: []int{5, 14}, Found: true,
				Edges: []domain.EdgeRef{{From: 5, To: 14, Kind: "normal", Leg: "true"}},
			},
			want: "com.example.Sample.loop edge(5, 14)\n" +
				"  5 -> 14 normal (true)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewFlowFormatter().WriteQuery(tt.response, domain.OutputFormatText, &buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFlowFormatter_WriteQueryJSON(t *testing.T) {
	resp := &domain.QueryResponse{
		Class: "com.example.Sample", Method: "loop",
		Operation: domain.QueryTrue, Args: []int{5}, Found: true,
		Nodes: []domain.NodeRef{{Position: 14, Kind: "plain"}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFlowFormatter().WriteQuery(resp, domain.OutputFormatJSON, &buf))

	var decoded domain.QueryResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *resp, decoded)
}
