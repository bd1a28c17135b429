package analysis

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/finops-tools/cloudopt/pkg/adapters"
	"github.com/finops-tools/cloudopt/pkg/models/api"
	analysissvc "github.com/finops-tools/cloudopt/pkg/services/analysis"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultDays = 30
	maxDays     = 365
)

type Handler struct {
	registry    provider.Registry
	pipeline    *analysissvc.Pipeline
	profilePath string
}

func NewHandler(registry provider.Registry, pipeline *analysissvc.Pipeline, profilePath string) *Handler {
	return &Handler{
		registry:    registry,
		pipeline:    pipeline,
		profilePath: profilePath,
	}
}

func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, api.ProviderList{Providers: h.registry.ListPlatforms()})
}

func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	platform := chi.URLParam(r, "provider")

	days, ok := parseDays(w, r)
	if !ok {
		return
	}

	result, start, end, err := h.analyze(r, platform, days)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("provider", platform).Msg("analysis failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	respondJSON(w, r, adapters.MapAnalysisResultToApi(platform, start, end, result))
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	platform := chi.URLParam(r, "provider")

	days, ok := parseDays(w, r)
	if !ok {
		return
	}

	result, start, end, err := h.analyze(r, platform, days)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("provider", platform).Msg("recommendation run failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	respondJSON(w, r, api.RecommendationsReport{
		Provider:         platform,
		Period:           adapters.MapPeriodToApi(start, end),
		Recommendations:  adapters.MapRecommendationsDomainToApi(result.Recommendations),
		PotentialSavings: result.TotalPotentialSavings(),
	})
}

func (h *Handler) analyze(r *http.Request, platform string, days int) (analysissvc.Result, time.Time, time.Time, error) {
	ctx := r.Context()

	p, err := h.registry.Create(ctx, platform, h.profilePath)
	if err != nil {
		return analysissvc.Result{}, time.Time{}, time.Time{}, err
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	data, err := p.GetCostData(ctx, start, end)
	if err != nil {
		return analysissvc.Result{}, time.Time{}, time.Time{}, err
	}

	return h.pipeline.Run(ctx, data), start, end, nil
}

func parseDays(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultDays, true
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > maxDays {
		http.Error(w, "days must be an integer between 1 and 365", http.StatusBadRequest)
		return 0, false
	}
	return days, true
}

func respondJSON(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
