package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/de-tools/ewaste-reports/pkg/models/api"
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/runtime/app"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) *httptest.Server {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	a, err := app.New(logger.WithContext(context.Background()), app.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	web := NewWebAPI(logger, Config{
		Addr:         ":0",
		Dependencies: Dependencies{Generator: a.Generator},
	})
	srv := httptest.NewServer(web.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestReportTypes(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/report-types")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var types []domain.ReportTypeDefinition
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&types))
	assert.Len(t, types, 6)
}

func TestGenerate_ShouldRenderQuarterlyDocument(t *testing.T) {
	// Given
	srv := setupServer(t)

	// When
	resp := post(t, srv, "/api/v1/reports/quarterly", `{"startDate":"2025-04-01","endDate":"2025-06-30"}`)

	// Then
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Report-Id"))
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	var keys []string
	doc.Find("section.report-section").Each(func(_ int, s *goquery.Selection) {
		keys = append(keys, s.AttrOr("data-section", ""))
	})
	assert.Equal(t, []string{
		"executiveSummary", "kpis", "environmentalImpact", "assetTracking", "financialImpact", "csrImpact",
	}, keys)
}

func TestGenerate_ShouldMapErrors(t *testing.T) {
	srv := setupServer(t)

	t.Run("unknown report type", func(t *testing.T) {
		resp := post(t, srv, "/api/v1/reports/weekly", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing dependencies", func(t *testing.T) {
		resp := post(t, srv, "/api/v1/reports/annual",
			`{"sections":{"recommendations":true,"kpis":false,"environmentalImpact":false,"financialImpact":false}}`)

		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		var body api.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, domain.KindValidation, body.Kind)
		assert.Len(t, body.Errors, 3)
	})
}

func TestPreview_ShouldNotRender(t *testing.T) {
	srv := setupServer(t)

	resp := post(t, srv, "/api/v1/reports/annual/preview", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preview struct {
		EstimatedPages float64 `json:"estimatedPages"`
		MaxPages       int     `json:"maxPages"`
		Validation     struct {
			OK bool `json:"ok"`
		} `json:"validation"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&preview))
	assert.Equal(t, 30, preview.MaxPages)
	assert.True(t, preview.Validation.OK)
	assert.Greater(t, preview.EstimatedPages, 0.0)
}

func TestNewWebAPI_DefaultShutdownTimeout(t *testing.T) {
	w := NewWebAPI(zerolog.Nop(), Config{Addr: ":0"})
	assert.Equal(t, 10*time.Second, w.shutdownTimeout)
}

func TestWebAPI_Run_ShouldStopWhenContextIsDone(t *testing.T) {
	w := NewWebAPI(zerolog.Nop(), Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestWebAPI_Run_ReturnsListenErrors(t *testing.T) {
	w := NewWebAPI(zerolog.Nop(), Config{Addr: "not-an-address"})

	err := w.Run(context.Background())

	assert.Error(t, err)
}
