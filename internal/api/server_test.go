package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/reddit-search-go/internal/config"
	"github.com/vrsandeep/reddit-search-go/internal/core"
	"github.com/vrsandeep/reddit-search-go/internal/models"
	"github.com/vrsandeep/reddit-search-go/internal/testutil"
)

// setupTestServer creates a Server around searcher with the test configuration.
func setupTestServer(t *testing.T, searcher models.Searcher) (*Server, *core.App) {
	t.Helper()
	return setupTestServerWithConfig(t, testutil.TestConfig(), searcher)
}

func setupTestServerWithConfig(t *testing.T, cfg *config.Config, searcher models.Searcher) (*Server, *core.App) {
	t.Helper()
	app := testutil.SetupTestApp(t, cfg, searcher)
	return NewServer(app), app
}

func TestHandleIndex(t *testing.T) {
	server, _ := setupTestServer(t, nil)
	req, _ := http.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), `name="file"`)
	assert.Contains(t, rr.Body.String(), "credentials are not configured")
}

func TestHandleHealth(t *testing.T) {
	server, _ := setupTestServer(t, nil)
	req, _ := http.NewRequest("GET", "/api/health", nil)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, false, body["reddit_configured"])
}

func TestFlashMessageSurvivesOneRedirect(t *testing.T) {
	server, _ := setupTestServer(t, nil)
	router := server.Router()

	req, _ := http.NewRequest("GET", "/results", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusFound, rr.Code)
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The landing page shows the message once...
	req, _ = http.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Contains(t, rr.Body.String(), "No results available. Please run a search first.")

	// ...and clears it.
	cleared := rr.Result().Cookies()
	require.NotEmpty(t, cleared)
	req, _ = http.NewRequest("GET", "/", nil)
	for _, c := range cleared {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.False(t, strings.Contains(rr.Body.String(), "No results available"))
}
