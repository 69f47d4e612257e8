package core

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vrsandeep/reddit-search-go/internal/config"
	"github.com/vrsandeep/reddit-search-go/internal/jobs"
	"github.com/vrsandeep/reddit-search-go/internal/models"
	"github.com/vrsandeep/reddit-search-go/internal/reddit"
	"github.com/vrsandeep/reddit-search-go/internal/reddit/mockreddit"
	"github.com/vrsandeep/reddit-search-go/internal/websocket"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// App holds the core components of the application that are shared
// between the server and the CLI.
type App struct {
	config    *config.Config
	searcher  models.Searcher
	state     *jobs.State
	runner    *jobs.Runner
	wsHub     *websocket.Hub
	scheduler *gocron.Scheduler
	Version   string
}

// New sets up and returns a new App instance. It loads the configuration
// and connects to the Reddit API. A failed connection is not fatal: the app
// starts without a searcher and every search job reports the problem.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app := NewWithSearcher(cfg, newSearcher(cfg))
	go app.wsHub.Run()

	log.Println("Core application setup complete.")
	return app, nil
}

// NewWithSearcher assembles an App around an existing searcher. The
// websocket hub is not started.
func NewWithSearcher(cfg *config.Config, searcher models.Searcher) *App {
	hub := websocket.NewHub()
	state := jobs.NewState()
	return &App{
		config:   cfg,
		searcher: searcher,
		state:    state,
		runner:   jobs.NewRunner(state, searcher, cfg.Search.Limit, hub),
		wsHub:    hub,
		Version:  Version,
	}
}

func newSearcher(cfg *config.Config) models.Searcher {
	if cfg.Reddit.Mock {
		log.Println("Using mock Reddit searcher")
		return mockreddit.New()
	}
	if !cfg.HasRedditCredentials() {
		log.Println("Reddit API credentials not found")
		return nil
	}

	client, err := reddit.Connect(
		reddit.Credentials{
			ClientID:     cfg.Reddit.ClientID,
			ClientSecret: cfg.Reddit.ClientSecret,
			UserAgent:    cfg.Reddit.UserAgent,
		},
		reddit.Options{
			BaseURL:   cfg.Reddit.BaseURL,
			TokenURL:  cfg.Reddit.TokenURL,
			Subreddit: cfg.Search.Subreddit,
			Sort:      cfg.Search.Sort,
			Timeout:   time.Duration(cfg.Search.TimeoutSeconds) * time.Second,
		},
	)
	if err != nil {
		log.Printf("Reddit API connection failed: %v", err)
		return nil
	}
	log.Println("Reddit API connection successful")
	return client
}

// StartScheduler starts the periodic background jobs.
func (a *App) StartScheduler() {
	a.scheduler = jobs.StartJobs(a)
}

func (a *App) Config() *config.Config { return a.config }
func (a *App) State() *jobs.State     { return a.state }
func (a *App) Runner() *jobs.Runner   { return a.runner }
func (a *App) WsHub() *websocket.Hub  { return a.wsHub }

// SearchConfigured reports whether a searcher is available.
func (a *App) SearchConfigured() bool { return a.searcher != nil }

// Close stops the scheduler and waits for a running search job to finish.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	a.runner.Wait()
}
