// Package spreadsheet reads keyword lists from uploaded workbooks and writes
// search results back out as .xlsx files.
package spreadsheet

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vrsandeep/reddit-search-go/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	// KeywordColumn is the header of the column keywords are read from.
	KeywordColumn = "Keyword"
	// ResultsSheet is the name of the single sheet in exported workbooks.
	ResultsSheet = "Reddit_Results"
	// ContentType is the MIME type of exported workbooks.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ResultsHeader is the header row of exported workbooks.
var ResultsHeader = []string{"Keyword", "Title", "Subreddit", "Score", "Comments", "URL", "Created_UTC"}

var allowedExtensions = []string{".xlsx", ".xls"}

// ValidationError is returned when a workbook parses but does not contain
// a usable keyword list. Its message is safe to show to users.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AllowedExtension reports whether filename looks like an Excel workbook.
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ReadKeywords returns the non-blank values of the Keyword column of the
// first sheet, in order, duplicates included.
func ReadKeywords(r io.Reader) ([]string, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}

	col := -1
	if len(rows) > 0 {
		col = indexOf(rows[0], KeywordColumn)
	}
	if col < 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("Excel file must have a '%s' column", KeywordColumn)}
	}

	var keywords []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if kw := strings.TrimSpace(row[col]); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return nil, &ValidationError{Message: "No keywords found in the Excel file"}
	}
	return keywords, nil
}

// WriteResults writes records as a single-sheet workbook to w.
func WriteResults(w io.Writer, records []models.ResultRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(ResultsSheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(ResultsHeader))
	for i, h := range ResultsHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{rec.Keyword, rec.Title, rec.Subreddit, rec.Score, rec.Comments, rec.URL, rec.CreatedUTC}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// ReadResults parses a workbook produced by WriteResults.
func ReadResults(r io.Reader) ([]models.ResultRecord, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &ValidationError{Message: "Workbook is empty"}
	}

	cols := make(map[string]int, len(ResultsHeader))
	for _, h := range ResultsHeader {
		idx := indexOf(rows[0], h)
		if idx < 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("Workbook is missing the '%s' column", h)}
		}
		cols[h] = idx
	}

	records := make([]models.ResultRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cell := func(name string) string {
			if idx := cols[name]; idx < len(row) {
				return row[idx]
			}
			return ""
		}
		score, err := atoi(cell("Score"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid score: %w", i+2, err)
		}
		comments, err := atoi(cell("Comments"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid comment count: %w", i+2, err)
		}
		records = append(records, models.ResultRecord{
			Keyword:    cell("Keyword"),
			Title:      cell("Title"),
			Subreddit:  cell("Subreddit"),
			Score:      score,
			Comments:   comments,
			URL:        cell("URL"),
			CreatedUTC: cell("Created_UTC"),
		})
	}
	return records, nil
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

func indexOf(row []string, name string) int {
	for i, v := range row {
		if strings.TrimSpace(v) == name {
			return i
		}
	}
	return -1
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
