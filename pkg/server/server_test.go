package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/finops-tools/cloudopt/pkg/models/api"
	"github.com/finops-tools/cloudopt/pkg/services/analysis"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, cfg Config) *WebAPI {
	t.Helper()

	if cfg.Dependencies.Registry == nil {
		cfg.Dependencies.Registry = provider.NewRegistry(nil)
	}
	if cfg.Dependencies.Pipeline == nil {
		cfg.Dependencies.Pipeline = analysis.NewPipeline(analysis.DefaultSettings())
	}

	logger := zerolog.New(os.Stderr)
	return NewWebAPI(logger, cfg)
}

func TestNewWebAPI_ShutdownTimeout(t *testing.T) {
	t.Run("uses the configured timeout", func(t *testing.T) {
		webAPI := newTestAPI(t, Config{Addr: ":0", ShutdownTimeout: 3 * time.Second})
		assert.Equal(t, 3*time.Second, webAPI.shutdownTimeout)
	})

	t.Run("falls back to the default when unset", func(t *testing.T) {
		webAPI := newTestAPI(t, Config{Addr: ":0"})
		assert.Equal(t, defaultShutdownTimeout, webAPI.shutdownTimeout)
	})
}

func TestWebAPI_Routes(t *testing.T) {
	webAPI := newTestAPI(t, Config{Addr: ":0"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	rec := httptest.NewRecorder()
	webAPI.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload api.ProviderList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Empty(t, payload.Providers)
}
