package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/finops-tools/cloudopt/pkg/models/api"
	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/finops-tools/cloudopt/pkg/services/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		Provider:    "aws",
		PeriodStart: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		Result: analysis.Result{
			CostAnalysis: domain.CostAnalysis{
				TotalCost: 1234.5,
				TopCostDrivers: []domain.CostDriver{
					{Service: "Amazon EC2", Cost: 1000, Percentage: 81.0},
					{Service: "Amazon S3", Cost: 234.5, Percentage: 19.0},
				},
				CostTrend: domain.TrendStable,
				Anomalies: []domain.CostAnomaly{
					{Type: domain.AnomalyHighServiceCost, Severity: domain.SeverityInfo, Message: "Amazon EC2 dominates spend", Service: "Amazon EC2"},
				},
			},
			ResourceAnalysis: domain.ResourceAnalysis{
				TotalResources:  3,
				Unused:          []domain.Resource{{ID: "i-unused"}},
				ResourcesByType: map[string]int{"compute-instance": 3},
			},
			Recommendations: []domain.OptimizationRecommendation{
				{
					Title:                   "Terminate 1 unused compute-instance resources",
					Type:                    domain.RecommendationTerminateUnused,
					Priority:                domain.PriorityMedium,
					EstimatedMonthlySavings: 60,
					RiskLevel:               domain.RiskLow,
					ResourceIDs:             []string{"i-unused"},
				},
			},
		},
	}
}

func TestReporter_Text(t *testing.T) {
	var buf bytes.Buffer
	err := NewReporter(&buf).Handle(sampleReport(), FormatText)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Cloud Cost Report: aws")
	assert.Contains(t, out, "2026-07-01")
	assert.Contains(t, out, "$1,234.5")
	assert.Contains(t, out, "Amazon EC2")
	assert.Contains(t, out, "81.0%")
	assert.Contains(t, out, "[info] Amazon EC2 dominates spend")
	assert.Contains(t, out, "3 total, 1 unused")
	assert.Contains(t, out, "Terminate 1 unused compute-instance resources")
}

func TestReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := NewReporter(&buf).Handle(sampleReport(), FormatJSON)
	require.NoError(t, err)

	var payload api.AnalysisReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))

	assert.Equal(t, "aws", payload.Provider)
	assert.Equal(t, 30, payload.Period.Duration)
	assert.Equal(t, 1234.5, payload.CostAnalysis.TotalCost)
	require.Len(t, payload.Recommendations, 1)
	assert.Equal(t, 60.0, payload.PotentialSavings)
}

func TestReporter_CSV(t *testing.T) {
	var buf bytes.Buffer
	err := NewReporter(&buf).Handle(sampleReport(), FormatCSV)
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "provider", rows[0][0])
	assert.Equal(t, "aws", rows[1][0])
	assert.Equal(t, "terminate-unused", rows[1][1])
	assert.Equal(t, "60.00", rows[1][4])
	assert.Equal(t, "i-unused", rows[1][6])
}

func TestReporter_HTML(t *testing.T) {
	var buf bytes.Buffer
	err := NewReporter(&buf).Handle(sampleReport(), FormatHTML)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Cloud Cost Report: aws</title>")
	assert.Contains(t, out, "Amazon EC2")
}

func TestReporter_UnknownFormat(t *testing.T) {
	err := NewReporter(&bytes.Buffer{}).Handle(sampleReport(), Format("yaml"))
	require.Error(t, err)
}
