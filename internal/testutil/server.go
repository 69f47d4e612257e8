// Shared test setup utilities, which simplify the API and job tests.

package testutil

import (
	"testing"

	"github.com/vrsandeep/reddit-search-go/internal/config"
	"github.com/vrsandeep/reddit-search-go/internal/core"
	"github.com/vrsandeep/reddit-search-go/internal/models"
)

// TestConfig returns the configuration used by tests: the same limits as the
// defaults, with a fixed secret key.
func TestConfig() *config.Config {
	cfg := &config.Config{Port: 8080, SecretKey: "test-secret-key"}
	cfg.Search.Subreddit = "all"
	cfg.Search.Sort = "top"
	cfg.Search.Limit = 5
	cfg.Upload.MaxSizeMB = 5
	cfg.Upload.MaxKeywords = 20
	return cfg
}

// SetupTestApp builds a core.App around searcher (which may be nil to
// simulate missing credentials) and starts its websocket hub.
func SetupTestApp(t *testing.T, cfg *config.Config, searcher models.Searcher) *core.App {
	t.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	app := core.NewWithSearcher(cfg, searcher)
	app.Version = "test"
	go app.WsHub().Run()

	t.Cleanup(app.Close)
	return app
}
