package service

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/ludo-technologies/bcflow/domain"
)

var flowReportTemplate = template.Must(template.New("flow_report").Funcs(template.FuncMap{
	"node":  formatNodeRef,
	"nodes": formatNodeRefs,
	"edge":  formatEdgeRef,
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	},
}).Parse(flowReportHTML))

func formatNodeRef(v any) string {
	var n domain.NodeRef
	switch ref := v.(type) {
	case domain.NodeRef:
		n = ref
	case *domain.NodeRef:
		if ref == nil {
			return "-"
		}
		n = *ref
	default:
		return fmt.Sprint(v)
	}

	s := fmt.Sprintf("%s@%d", n.Kind, n.Position)
	if n.Label != "" {
		s += " (" + n.Label + ")"
	}
	return s
}

func formatNodeRefs(refs []domain.NodeRef) string {
	if len(refs) == 0 {
		return "-"
	}
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = formatNodeRef(r)
	}
	return strings.Join(parts, ", ")
}

func formatEdgeRef(e domain.EdgeRef) string {
	s := fmt.Sprintf("%d → %d %s", e.From, e.To, e.Kind)
	if e.Leg != "" {
		s += " [" + e.Leg + "]"
	}
	return s
}

const flowReportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>bcflow Control Flow Report - {{.OverallScore.ProjectName}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            background-color: #f5f5f5;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .header {
            text-align: center;
            background: white;
            padding: 40px 20px;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            margin-bottom: 30px;
        }
        .header h1 { font-size: 2.2em; margin-bottom: 10px; color: #1a1a1a; }
        .header .timestamp { color: #666; font-size: 0.9em; }
        .score-section { display: flex; gap: 20px; margin-bottom: 30px; flex-wrap: wrap; }
        .score-card {
            background: white;
            padding: 30px;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            flex: 1;
            min-width: 220px;
            text-align: center;
        }
        .score-circle {
            width: 110px;
            height: 110px;
            border-radius: 50%;
            margin: 0 auto 15px;
            display: flex;
            align-items: center;
            justify-content: center;
            color: white;
            font-size: 2em;
            font-weight: bold;
        }
        .score-circle.pass { background: #0CCE6B; }
        .score-circle.average { background: #FFA500; }
        .score-circle.fail { background: #FF5722; }
        .score-label { color: #666; }
        .section {
            background: white;
            border-radius: 8px;
            padding: 25px;
            margin-bottom: 25px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
        }
        .section h2 {
            font-size: 1.4em;
            color: #2c3e50;
            margin-bottom: 15px;
            padding-bottom: 8px;
            border-bottom: 2px solid #e9ecef;
        }
        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(160px, 1fr));
            gap: 15px;
        }
        .metric-card {
            background: #f8f9fa;
            padding: 15px;
            border-radius: 8px;
            text-align: center;
            border-left: 4px solid #667eea;
        }
        .metric-value { font-size: 26px; font-weight: bold; color: #667eea; }
        .metric-label { color: #666; font-size: 0.9em; }
        table { width: 100%; border-collapse: collapse; font-size: 0.9em; }
        th, td { padding: 8px 10px; text-align: left; border-bottom: 1px solid #e9ecef; }
        th { background: #f8f9fa; color: #2c3e50; }
        tr.faulty td { background: #fff3f0; }
        details { margin: 10px 0; border: 1px solid #e9ecef; border-radius: 6px; padding: 10px 15px; }
        summary { cursor: pointer; font-weight: 600; }
        .file { color: #888; font-weight: normal; font-size: 0.85em; }
        h3 { font-size: 1em; margin: 12px 0 6px; color: #2c3e50; }
        .fault { color: #c62828; }
        .badge {
            display: inline-block;
            padding: 1px 8px;
            border-radius: 10px;
            font-size: 0.8em;
            color: white;
            background: #FF5722;
        }
        ul.messages li { margin-left: 20px; }
        code { font-family: 'SFMono-Regular', Consolas, monospace; font-size: 0.9em; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>Control Flow Report</h1>
        <div>{{.OverallScore.ProjectName}}</div>
        {{with .OverallScore.Timestamp}}<div class="timestamp">Generated at {{.}}</div>{{end}}
        {{with .Response.Version}}<div class="timestamp">bcflow {{.}}</div>{{end}}
    </div>

    <div class="score-section">
        <div class="score-card">
            <div class="score-circle {{.OverallScore.Status}}">{{.OverallScore.Score}}</div>
            <div class="score-label">Overall ({{title .OverallScore.Status}})</div>
        </div>
        {{range .OverallScore.Breakdown}}
        <div class="score-card">
            <div class="score-circle {{.Status}}">{{.Score}}</div>
            <div class="score-label">{{title .Category}}: {{.Label}}</div>
        </div>
        {{end}}
    </div>

    {{with .Response.Summary}}
    <div class="section">
        <h2>Summary</h2>
        <div class="metric-grid">
            <div class="metric-card"><div class="metric-value">{{.FilesAnalyzed}}</div><div class="metric-label">Files</div></div>
            <div class="metric-card"><div class="metric-value">{{.MethodsAnalyzed}}</div><div class="metric-label">Methods</div></div>
            <div class="metric-card"><div class="metric-value">{{.TotalNodes}}</div><div class="metric-label">Nodes</div></div>
            <div class="metric-card"><div class="metric-value">{{.TotalEdges}}</div><div class="metric-label">Edges</div></div>
            <div class="metric-card"><div class="metric-value">{{.BackEdges}}</div><div class="metric-label">Back Edges</div></div>
            <div class="metric-card"><div class="metric-value">{{.Branches}}</div><div class="metric-label">Branches</div></div>
            <div class="metric-card"><div class="metric-value">{{.Switches}}</div><div class="metric-label">Switches</div></div>
            <div class="metric-card"><div class="metric-value">{{.Tries}}</div><div class="metric-label">Try Blocks</div></div>
            <div class="metric-card"><div class="metric-value">{{.UnreachableNodes}}</div><div class="metric-label">Unreachable</div></div>
            <div class="metric-card"><div class="metric-value">{{.TotalFaults}}</div><div class="metric-label">Faults</div></div>
        </div>
    </div>
    {{end}}

    {{if .Response.Methods}}
    <div class="section">
        <h2>Methods</h2>
        <table>
            <thead>
                <tr><th>Method</th><th>Nodes</th><th>Edges</th><th>Back</th><th>Branches</th><th>Switches</th><th>Tries</th><th>Unreachable</th><th>Faults</th></tr>
            </thead>
            <tbody>
            {{range .Response.Methods}}
                <tr{{if .Faults}} class="faulty"{{end}}>
                    <td><code>{{.QualifiedName}}</code></td>
                    <td>{{.Nodes}}</td>
                    <td>{{.Edges.Total}}</td>
                    <td>{{len .BackEdges}}</td>
                    <td>{{len .Branches}}</td>
                    <td>{{len .Switches}}</td>
                    <td>{{len .Tries}}</td>
                    <td>{{len .Unreachable}}</td>
                    <td>{{len .Faults}}</td>
                </tr>
            {{end}}
            </tbody>
        </table>
    </div>

    <div class="section">
        <h2>Method Details</h2>
        {{range .Response.Methods}}
        <details{{if .Faults}} open{{end}}>
            <summary><code>{{.QualifiedName}}</code> {{if .Faults}}<span class="badge">{{len .Faults}} fault(s)</span>{{end}} <span class="file">{{.FilePath}}</span></summary>
            {{with .Entry}}<h3>Entry</h3><div>{{node .}}</div>{{end}}
            {{if .Faults}}
            <h3>Faults</h3>
            <ul class="messages">
                {{range .Faults}}<li class="fault">@{{.Position}} [{{.Invariant}}] {{.Detail}}</li>{{end}}
            </ul>
            {{end}}
            {{if .BackEdges}}
            <h3>Back Edges</h3>
            <ul class="messages">{{range .BackEdges}}<li>{{edge .}}</li>{{end}}</ul>
            {{end}}
            {{if .Branches}}
            <h3>Branches</h3>
            <table>
                <thead><tr><th>Branch</th><th>True</th><th>False</th></tr></thead>
                <tbody>{{range .Branches}}<tr><td>{{node .Branch}}</td><td>{{node .True}}</td><td>{{node .False}}</td></tr>{{end}}</tbody>
            </table>
            {{end}}
            {{if .Jumps}}
            <h3>Jumps</h3>
            <table>
                <thead><tr><th>Jump</th><th>Target</th></tr></thead>
                <tbody>{{range .Jumps}}<tr><td>{{node .Jump}}</td><td>{{node .Target}}</td></tr>{{end}}</tbody>
            </table>
            {{end}}
            {{if .Switches}}
            <h3>Switches</h3>
            <table>
                <thead><tr><th>Switch</th><th>Cases</th></tr></thead>
                <tbody>{{range .Switches}}<tr><td>{{node .Switch}}</td><td>{{nodes .Cases}}</td></tr>{{end}}</tbody>
            </table>
            {{end}}
            {{if .Tries}}
            <h3>Try Blocks</h3>
            <table>
                <thead><tr><th>Try</th><th>Catches</th><th>Finally</th></tr></thead>
                <tbody>{{range .Tries}}<tr><td>{{node .Try}}</td><td>{{nodes .Catches}}</td><td>{{node .Finally}}</td></tr>{{end}}</tbody>
            </table>
            {{end}}
            {{if .Ranges}}
            <h3>Ranges</h3>
            <table>
                <thead><tr><th>Name</th><th>Bounds</th><th>Members</th></tr></thead>
                <tbody>{{range .Ranges}}<tr><td>{{.Name}}</td><td>({{.Start}}, {{.End}})</td><td>{{nodes .Members}}</td></tr>{{end}}</tbody>
            </table>
            {{end}}
            {{if .Unreachable}}
            <h3>Unreachable</h3>
            <div>{{nodes .Unreachable}}</div>
            {{end}}
        </details>
        {{end}}
    </div>
    {{end}}

    {{if .Response.Warnings}}
    <div class="section">
        <h2>Warnings</h2>
        <ul class="messages">{{range .Response.Warnings}}<li>{{.}}</li>{{end}}</ul>
    </div>
    {{end}}
    {{if .Response.Errors}}
    <div class="section">
        <h2>Errors</h2>
        <ul class="messages">{{range .Response.Errors}}<li class="fault">{{.}}</li>{{end}}</ul>
    </div>
    {{end}}
</div>
</body>
</html>
`
