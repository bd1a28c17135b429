package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// renderCSV writes recommendations as rows, one per recommendation.
func (r *Reporter) renderCSV(report Report) error {
	w := csv.NewWriter(r.writer)

	header := []string{"provider", "type", "priority", "title", "estimated_monthly_savings", "risk_level", "resource_ids"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range report.Result.Recommendations {
		row := []string{
			report.Provider,
			rec.Type,
			rec.Priority,
			rec.Title,
			strconv.FormatFloat(rec.EstimatedMonthlySavings, 'f', 2, 64),
			rec.RiskLevel,
			strings.Join(rec.ResourceIDs, " "),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
