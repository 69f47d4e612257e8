// Handlers for uploading a keyword workbook and following the search job.

package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/vrsandeep/reddit-search-go/internal/jobs"
	"github.com/vrsandeep/reddit-search-go/internal/spreadsheet"
)

// multipartOverhead is allowed on top of the file size cap for form fields and boundaries.
const multipartOverhead = 1 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	cfg := s.app.Config()
	maxSize := int64(cfg.Upload.MaxSizeMB) << 20
	if maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	}
	tooLarge := fmt.Sprintf("File size too large. Maximum %dMB allowed.", cfg.Upload.MaxSizeMB)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondUploadError(w, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		respondUploadError(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondUploadError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if !spreadsheet.AllowedExtension(header.Filename) {
		respondUploadError(w, http.StatusBadRequest, "Please upload an Excel file (.xlsx or .xls)")
		return
	}
	if maxSize > 0 && header.Size > maxSize {
		respondUploadError(w, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}

	keywords, err := spreadsheet.ReadKeywords(file)
	if err != nil {
		var verr *spreadsheet.ValidationError
		if errors.As(err, &verr) {
			respondUploadError(w, http.StatusBadRequest, verr.Message)
			return
		}
		respondUploadError(w, http.StatusBadRequest, fmt.Sprintf("Error reading file: %v", err))
		return
	}

	if max := cfg.Upload.MaxKeywords; max > 0 && len(keywords) > max {
		respondUploadError(w, http.StatusBadRequest, fmt.Sprintf("Too many keywords. Maximum %d keywords allowed.", max))
		return
	}

	searchID, err := s.app.Runner().Start(keywords)
	if err != nil {
		if errors.Is(err, jobs.ErrJobRunning) {
			respondUploadError(w, http.StatusConflict, "A search is already running. Please wait for it to finish or reset.")
			return
		}
		log.Printf("Failed to start search job: %v", err)
		respondUploadError(w, http.StatusInternalServerError, "Failed to start search")
		return
	}

	log.Printf("Started search %s for %d keywords from %s", searchID, len(keywords), header.Filename)
	RespondWithJSON(w, http.StatusOK, uploadResponse{Success: true, SearchID: searchID})
}

func (s *Server) handleProgressData(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.State().Snapshot())
}
