package export

import (
	"encoding/json"
	"fmt"

	"github.com/finops-tools/cloudopt/pkg/adapters"
)

func (r *Reporter) renderJSON(report Report) error {
	payload := adapters.MapAnalysisResultToApi(report.Provider, report.PeriodStart, report.PeriodEnd, report.Result)

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
