package export

import (
	"fmt"
	"html/template"
)

const htmlTmpl = `<!DOCTYPE html>
<html>
<head>
<title>Cloud Cost Report: {{.Provider}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
th { background: #f0f0f0; }
.priority-high { color: #c0392b; font-weight: bold; }
</style>
</head>
<body>
<h1>Cloud Cost Report: {{.Provider}}</h1>
<p>Period: {{.PeriodStart.Format "2006-01-02"}} to {{.PeriodEnd.Format "2006-01-02"}}</p>
<p>Total Cost: {{dollars .Result.CostAnalysis.TotalCost}}</p>
<p>Potential Monthly Savings: {{dollars .Result.TotalPotentialSavings}}</p>

{{if .Result.CostAnalysis.TopCostDrivers}}
<h2>Top Cost Drivers</h2>
<table>
<tr><th>Service</th><th>Cost</th><th>% of Total</th></tr>
{{range .Result.CostAnalysis.TopCostDrivers}}
<tr><td>{{.Service}}</td><td>{{dollars .Cost}}</td><td>{{printf "%.1f" .Percentage}}%</td></tr>
{{end}}
</table>
{{end}}

{{if .Result.CostAnalysis.Anomalies}}
<h2>Anomalies</h2>
<ul>
{{range .Result.CostAnalysis.Anomalies}}
<li>[{{.Severity}}] {{.Message}}</li>
{{end}}
</ul>
{{end}}

{{if .Result.Recommendations}}
<h2>Recommendations</h2>
<table>
<tr><th>Priority</th><th>Recommendation</th><th>Monthly Savings</th><th>Risk</th></tr>
{{range .Result.Recommendations}}
<tr>
<td{{if eq .Priority "high"}} class="priority-high"{{end}}>{{.Priority}}</td>
<td>{{.Title}}</td>
<td>{{dollars .EstimatedMonthlySavings}}</td>
<td>{{.RiskLevel}}</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`

func (r *Reporter) renderHTML(report Report) error {
	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"dollars": dollars,
	}).Parse(htmlTmpl))

	if err := tmpl.Execute(r.writer, report); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
