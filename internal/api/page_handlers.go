package api

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/vrsandeep/reddit-search-go/internal/jobs"
	"github.com/vrsandeep/reddit-search-go/internal/models"
	"github.com/vrsandeep/reddit-search-go/internal/spreadsheet"
)

type indexPage struct {
	Flashes          []flashMessage
	SearchConfigured bool
	MaxKeywords      int
}

type resultsPage struct {
	Results      []models.ResultRecord
	TotalResults int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", indexPage{
		Flashes:          s.popFlashes(w, r),
		SearchConfigured: s.app.SearchConfigured(),
		MaxKeywords:      s.app.Config().Upload.MaxKeywords,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	results, ok := s.app.State().Results()
	if !ok {
		s.addFlash(w, r, "error", "No results available. Please run a search first.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.render(w, "results.html", resultsPage{Results: results, TotalResults: len(results)})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	results, ok := s.app.State().Results()
	if !ok {
		s.addFlash(w, r, "error", "No results available to download")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteResults(&buf, results); err != nil {
		log.Printf("Failed to build results workbook: %v", err)
		http.Error(w, "Failed to build results workbook", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("reddit_results_%s.xlsx", time.Now().Format(jobs.JobIDLayout))
	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.app.State().Reset()
	s.app.WsHub().BroadcastJSON(models.ProgressUpdate{Status: jobs.StatusIdle})
	http.Redirect(w, r, "/", http.StatusFound)
}
