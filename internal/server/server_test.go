package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnl-insights/internal/analytics"
	"pnl-insights/internal/assistant"
	"pnl-insights/internal/common/config"
	"pnl-insights/internal/common/logger"
	"pnl-insights/internal/insights/board"
	"pnl-insights/internal/insights/loader"
	"pnl-insights/internal/insights/registry"
)

const testDocument = `{
	"metadata": {"generated_at": "2025-07-01T00:00:00Z"},
	"kpi_header": {
		"revenue": {"value": "-6.1%", "amount": "$320,433"},
		"profit": {"value": "-6.6%", "amount": "$539,814"},
		"critical": {"value": "-18.6%", "amount": "$15,826", "label": "Beverage Sales"}
	},
	"insight_cards": [
		{
			"id": 1,
			"type": "critical",
			"priority": "urgent",
			"icon": "TrendingDown",
			"title": "Beverage Sales Falling Short",
			"description": "Beverage revenue is below plan.",
			"impact": "$15,826 monthly",
			"timeframe": "2-3 weeks",
			"actions": [
				{"label": "Launch Beverage Audit", "type": "primary", "action": "beverageAudit"}
			]
		}
	]
}`

// newTestServer builds a server over a file-backed board and a stub
// assistant. Postgres and redis are left unwired, matching local development.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	assistantSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/health") {
			_ = json.NewEncoder(w).Encode(assistant.HealthStatus{Status: "healthy", Message: "ok"})
			return
		}
		_ = json.NewEncoder(w).Encode(assistant.Answer{Answer: "beverage attach rates dropped"})
	}))
	t.Cleanup(assistantSrv.Close)

	path := filepath.Join(t.TempDir(), "insights_config.json")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0o644))

	log := logger.NewNoOpLogger()
	cfg := &config.Config{
		App: config.AppConfig{Name: "pnl-insights", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 0,
		},
		Insights: config.InsightsConfig{Source: path, RequestTimeout: 2000},
		Assistant: config.AssistantConfig{
			BaseURL: assistantSrv.URL,
			SpaceID: "space-test",
			Timeout: 2000,
		},
	}

	b := board.New(loader.New(path, 2*time.Second, log), registry.New(), 0, log)
	b.Start(context.Background())

	assistantClient := assistant.NewClient(cfg.Assistant, log)
	assistantSvc := assistant.NewService(assistantClient, nil, 0, log)
	analyticsSvc := analytics.NewService(nil, config.AnalyticsConfig{QueryTimeout: 2000, TopStoreLimit: 10}, log)

	return New(Deps{
		Config:    cfg,
		Board:     b,
		Assistant: assistantSvc,
		Analytics: analyticsSvc,
		Logger:    log,
	})
}

func doRequest(t *testing.T, s *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandleRoot(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "pnl-insights", body["name"])
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])

	components := body["components"].(map[string]interface{})
	boardStatus := components["board"].(map[string]interface{})
	assert.Equal(t, "configured", boardStatus["source"])
	assert.Equal(t, "disabled", components["postgres"].(map[string]interface{})["status"])
}

func TestHandleInsights(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/insights", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "configured", body["source"])

	cards := body["insight_cards"].([]interface{})
	require.Len(t, cards, 1)
	card := cards[0].(map[string]interface{})
	assert.Equal(t, "Beverage Sales Falling Short", card["title"])
	assert.Equal(t, "TrendingDown", card["resolvedIcon"])

	colors := card["colors"].(map[string]interface{})
	assert.Equal(t, "border-red-500", colors["border"])
}

func TestExecuteActionFlow(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/insights/cards/1/actions/beverageAudit/execute", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	op := body["operation"].(map[string]interface{})
	assert.Equal(t, "Beverage Sales Falling Short", op["name"])
	assert.Equal(t, "in progress", op["status"])

	// Repeat is accepted without creating a second operation.
	w = doRequest(t, s, http.MethodPost, "/api/insights/cards/1/actions/beverageAudit/execute", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["alreadyCompleted"])

	w = doRequest(t, s, http.MethodGet, "/api/insights/operations", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["operations"].([]interface{}), 1)
}

func TestExecuteAction_Errors(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/insights/cards/404/actions/beverageAudit/execute", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, s, http.MethodPost, "/api/insights/cards/1/actions/teleport/execute", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, s, http.MethodPost, "/api/insights/cards/abc/actions/beverageAudit/execute", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRationale(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/insights/cards/1/rationale?action=beverageAudit", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	rat := body["rationale"].(map[string]interface{})
	// The card's own fields carry the view.
	assert.Equal(t, "Beverage Sales Falling Short", rat["title"])
	assert.Equal(t, "Beverage revenue is below plan.", rat["description"])
	assert.Equal(t, "$15,826 monthly", rat["impact"])

	detail := rat["detail"].(map[string]interface{})
	assert.Equal(t, "Beverage Station Audit", detail["title"])
	assert.NotEmpty(t, detail["content"])
}

func TestHandleAssistantAsk(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/genie/ask", `{"question": "why is revenue down"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "beverage attach rates dropped", body["answer"])
}

func TestHandleAssistantAsk_MissingQuestion(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/genie/ask", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleKPIs_DemoFallback(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/analytics/kpis", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	kpis := body["kpis"].([]interface{})
	require.Len(t, kpis, 4)
	assert.Equal(t, "Revenue", kpis[0].(map[string]interface{})["name"])
}

func TestHandleAlerts(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/operations/alerts", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["alerts"].([]interface{}), 3)
}

func TestHandleData_NoDatabase(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/data/monthly-summary", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/data/top-stores?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDBQuery(t *testing.T) {
	s := newTestServer(t)

	// No warehouse in the test wiring; a valid request degrades to 503.
	w := doRequest(t, s, http.MethodPost, "/api/db/query", `{"query": "SELECT 1"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(t, s, http.MethodPost, "/api/db/query", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDataUpload(t *testing.T) {
	s := newTestServer(t)

	upload := func(filename string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("storenumber,total_revenue\n1619,320433\n"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/data/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)
		return w
	}

	w := upload("stores.csv")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	info := body["file_info"].(map[string]interface{})
	assert.Equal(t, "stores.csv", info["filename"])
	assert.NotZero(t, info["size_bytes"])

	w = upload("stores.pdf")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No multipart body at all.
	w = doRequest(t, s, http.MethodPost, "/api/data/upload", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleConfig(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/config", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assistantInfo := body["assistant"].(map[string]interface{})
	assert.Equal(t, true, assistantInfo["configured"])
	// The API key never appears in the config endpoint.
	assert.NotContains(t, w.Body.String(), "api_key")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodOptions, "/api/insights", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
