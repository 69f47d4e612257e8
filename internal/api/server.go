// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/vrsandeep/reddit-search-go/internal/assets"
	"github.com/vrsandeep/reddit-search-go/internal/core"
)

// Server holds the dependencies for our API.
type Server struct {
	app       *core.App
	templates *template.Template
	sessions  sessions.Store
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:       app,
		templates: template.Must(template.ParseFS(assets.WebFS, "web/*.html")),
		sessions:  newSessionStore(app.Config().SecretKey),
	}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	// Pages
	r.Get("/", s.handleIndex)
	r.Get("/results", s.handleResults)
	r.Get("/download", s.handleDownload)
	r.Get("/reset", s.handleReset)

	// Search job
	r.Post("/upload", s.handleUpload)
	r.Get("/progress_data", s.handleProgressData)

	// WebSocket route
	r.Get("/ws/progress", func(w http.ResponseWriter, r *http.Request) {
		s.app.WsHub().ServeWs(w, r)
	})

	r.Get("/api/health", s.handleHealth)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"version":           s.app.Version,
		"reddit_configured": s.app.SearchConfigured(),
	})
}

// render executes the named page template into a buffer so a template error
// never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
