package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrsandeep/reddit-search-go/internal/config"
	"github.com/vrsandeep/reddit-search-go/internal/reddit/mockreddit"
)

func TestNewSearcher(t *testing.T) {
	t.Run("Missing credentials yields no searcher", func(t *testing.T) {
		cfg := &config.Config{}
		assert.Nil(t, newSearcher(cfg))
	})

	t.Run("Mock mode", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Reddit.Mock = true
		assert.IsType(t, &mockreddit.Searcher{}, newSearcher(cfg))
	})

	t.Run("Unreachable token endpoint yields no searcher", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Reddit.ClientID = "id"
		cfg.Reddit.ClientSecret = "secret"
		cfg.Reddit.TokenURL = "http://127.0.0.1:1/api/v1/access_token"
		cfg.Search.TimeoutSeconds = 1
		assert.Nil(t, newSearcher(cfg))
	})
}

func TestNewWithSearcher(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.Limit = 5

	app := NewWithSearcher(cfg, nil)
	assert.False(t, app.SearchConfigured())
	assert.NotNil(t, app.State())
	assert.NotNil(t, app.Runner())
	assert.Same(t, app.State(), app.Runner().State())

	app = NewWithSearcher(cfg, mockreddit.New())
	assert.True(t, app.SearchConfigured())
	app.Close()
}
