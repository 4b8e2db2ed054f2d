// main_test.go
package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"league-predictor/config"
	"league-predictor/models"
)

// setupTestTemplates creates a temporary templates directory with a dummy predictor page.
func setupTestTemplates(t *testing.T) string {
	dir := t.TempDir()
	content := []byte("<html><body>{{.League.Name}}</body></html>")
	if err := os.WriteFile(filepath.Join(dir, "predictor.html"), content, 0644); err != nil {
		t.Fatalf("Failed to write dummy template: %v", err)
	}
	return dir
}

func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestAppWithTemplates(t, setupTestTemplates(t))
}

func newTestAppWithTemplates(t *testing.T, templatesDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Port:                8080,
		Env:                 "test",
		ApplicationURL:      "http://localhost:8080",
		WebsocketURL:        "ws://localhost:8080/updates",
		SessionSecret:       "test-secret",
		SessionMaxAge:       3600,
		TemplatesDir:        templatesDir,
		StaticDir:           t.TempDir(),
		WSMessagesPerSecond: 20,
		WSMessageBurst:      40,
	}
	router, _, hub := buildApp(cfg, models.DefaultLeague(), prometheus.NewRegistry())
	t.Cleanup(hub.Close)
	return router
}

// TestIndex_ShippedTemplate renders the real page. Rejected moves are redrawn silently,
// so the page carries no error banner.
func TestIndex_ShippedTemplate(t *testing.T) {
	router := newTestAppWithTemplates(t, "templates")

	req, _ := http.NewRequest("GET", "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	page := resp.Body.String()
	assert.Contains(t, page, `id="position-1"`)
	assert.Contains(t, page, `id="position-20"`)
	assert.Contains(t, page, `id="available"`)
	assert.Contains(t, page, "20th")
	assert.NotContains(t, page, `id="error"`)
}

// TestHealthEndpoint tests the /health endpoint.
func TestHealthEndpoint(t *testing.T) {
	router := newTestApp(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())
	assert.Empty(t, resp.Result().Cookies(), "health checks must not open sessions")
}

// Test: index and API share the session's widget
func TestRoutes_SessionFlow(t *testing.T) {
	router := newTestApp(t)

	req, _ := http.NewRequest("GET", "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Premier League")
	cookies := resp.Result().Cookies()
	require.NotEmpty(t, cookies)

	body := `{"draggableId":"Arsenal","source":"available","destination":"position-1"}`
	req, _ = http.NewRequest("POST", "/api/drag", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	req, _ = http.NewRequest("GET", "/api/board", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var state models.BoardState
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &state))
	assert.Equal(t, models.Team("Arsenal"), state.Positions[1])
}

// Test: /metrics exposes board counters after activity
func TestMetricsEndpoint(t *testing.T) {
	router := newTestApp(t)

	req, _ := http.NewRequest("POST", "/api/shuffle", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	req, _ = http.NewRequest("GET", "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `league_predictor_board_events_total{kind="shuffled"} 1`)
	assert.Contains(t, resp.Body.String(), "league_predictor_widgets_active 1")
}

// Test: /updates without an upgrade header is refused
func TestUpdatesRequiresWebsocket(t *testing.T) {
	router := newTestApp(t)

	req, _ := http.NewRequest("GET", "/updates", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		in       string
		wantTeam models.Team
		wantRank int
		wantErr  bool
	}{
		{"Arsenal=1", "Arsenal", 1, false},
		{" Brighton & Hove Albion = 7 ", "Brighton & Hove Albion", 7, false},
		{"Arsenal", "", 0, true},
		{"=3", "", 0, true},
		{"Arsenal=top", "", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			team, rank, err := parsePlacement(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTeam, team)
			assert.Equal(t, tc.wantRank, rank)
		})
	}
}

func TestTableCommand(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run([]string{"league-predictor", "table", "--place", "Arsenal=1", "--place", "Chelsea=20"})

	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "(2/20 placed)")
	assert.Contains(t, text, "TOP 4 (1-4) Champions League")
	assert.Contains(t, text, "1st  Arsenal")
	assert.Contains(t, text, "20th  Chelsea")
	assert.Contains(t, text, "Available (18):")
}

// Test: an invalid placement makes the command fail
func TestTableCommand_InvalidPlacement(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run([]string{"league-predictor", "table", "--place", "Arsenal=21"})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrRankOutOfRange)
}

// Test: the same seed gives the same pool order
func TestTableCommand_SeededShuffle(t *testing.T) {
	run := func() string {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out
		require.NoError(t, app.Run([]string{"league-predictor", "table", "--shuffle", "--seed", "11"}))
		return out.String()
	}
	assert.Equal(t, run(), run())
}
