package export

import (
	"fmt"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const textHeaderTmpl = `
Cloud Cost Report: {{.Provider}}
Period: {{.PeriodStart.Format "2006-01-02"}} to {{.PeriodEnd.Format "2006-01-02"}}
Total Cost: {{dollars .Result.CostAnalysis.TotalCost}}
Cost Trend: {{.Result.CostAnalysis.CostTrend}}
Potential Monthly Savings: {{dollars .Result.TotalPotentialSavings}}
`

func dollars(amount float64) string {
	return "$" + humanize.CommafWithDigits(amount, 2)
}

func (r *Reporter) renderText(report Report) error {
	tmpl := template.Must(template.New("header").Funcs(template.FuncMap{
		"dollars": dollars,
	}).Parse(textHeaderTmpl))

	if err := tmpl.Execute(r.writer, report); err != nil {
		return fmt.Errorf("failed to render report header: %w", err)
	}

	if drivers := report.Result.CostAnalysis.TopCostDrivers; len(drivers) > 0 {
		tw := table.Table{}
		tw.AppendHeader(table.Row{"Service", "Cost", "% of Total"})
		for _, driver := range drivers {
			tw.AppendRow(table.Row{
				driver.Service,
				dollars(driver.Cost),
				fmt.Sprintf("%.1f%%", driver.Percentage),
			})
		}
		tw.SetStyle(table.StyleRounded)
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
		})
		fmt.Fprintf(r.writer, "\nTop Cost Drivers\n%s\n", tw.Render())
	}

	if anomalies := report.Result.CostAnalysis.Anomalies; len(anomalies) > 0 {
		fmt.Fprintf(r.writer, "\nAnomalies\n")
		for _, anomaly := range anomalies {
			fmt.Fprintf(r.writer, "- [%s] %s\n", anomaly.Severity, anomaly.Message)
		}
	}

	resources := report.Result.ResourceAnalysis
	fmt.Fprintf(r.writer, "\nResources: %d total, %d unused, %d underutilized, %d overprovisioned, %d idle\n",
		resources.TotalResources,
		len(resources.Unused),
		len(resources.Underutilized),
		len(resources.Overprovisioned),
		len(resources.Idle))

	if recs := report.Result.Recommendations; len(recs) > 0 {
		tw := table.Table{}
		tw.AppendHeader(table.Row{"Priority", "Recommendation", "Monthly Savings", "Risk"})
		for _, rec := range recs {
			tw.AppendRow(table.Row{
				rec.Priority,
				rec.Title,
				dollars(rec.EstimatedMonthlySavings),
				rec.RiskLevel,
			})
		}
		tw.SetStyle(table.StyleRounded)
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 3, Align: text.AlignRight},
		})
		fmt.Fprintf(r.writer, "\nRecommendations\n%s\n", tw.Render())
	}

	return nil
}
