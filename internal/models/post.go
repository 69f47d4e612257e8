// This file defines the data structures that flow from the search provider
// through the job runner into the results page and the exported workbook.

package models

import "time"

// TimestampLayout is how post creation times are rendered in results.
const TimestampLayout = "2006-01-02 15:04:05"

// Post is a single submission returned by the search provider.
type Post struct {
	Title       string  `json:"title"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	URL         string  `json:"url"`
	CreatedUTC  float64 `json:"created_utc"` // Epoch seconds, as reported by the API
}

// CreatedAt converts the epoch timestamp into a time.Time.
func (p Post) CreatedAt() time.Time {
	sec := int64(p.CreatedUTC)
	nsec := int64((p.CreatedUTC - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// ResultRecord is one matched post tagged with the keyword that found it.
type ResultRecord struct {
	Keyword    string `json:"keyword"`
	Title      string `json:"title"`
	Subreddit  string `json:"subreddit"`
	Score      int    `json:"score"`
	Comments   int    `json:"comments"`
	URL        string `json:"url"`
	CreatedUTC string `json:"created_utc"`
}

// NewResultRecord builds a ResultRecord from a keyword and a post.
func NewResultRecord(keyword string, p Post) ResultRecord {
	return ResultRecord{
		Keyword:    keyword,
		Title:      p.Title,
		Subreddit:  p.Subreddit,
		Score:      p.Score,
		Comments:   p.NumComments,
		URL:        p.URL,
		CreatedUTC: p.CreatedAt().Format(TimestampLayout),
	}
}

// KeywordOutcome is the result of searching a single keyword. A non-nil Err
// means the keyword was skipped and Records is empty.
type KeywordOutcome struct {
	Index   int
	Keyword string
	Records []ResultRecord
	Err     error
}

// Skipped reports whether the keyword search failed and was skipped.
func (o KeywordOutcome) Skipped() bool {
	return o.Err != nil
}
