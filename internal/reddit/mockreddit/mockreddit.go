// Package mockreddit provides an in-memory searcher for development and
// testing. It simulates Reddit search results without making network calls.
package mockreddit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vrsandeep/reddit-search-go/internal/models"
)

// Searcher returns canned posts per keyword. Keywords without canned posts
// get generated ones.
type Searcher struct {
	mu     sync.Mutex
	posts  map[string][]models.Post
	errs   map[string]error
	panics map[string]any
	delay  time.Duration
	calls  []string
}

func New() *Searcher {
	return &Searcher{
		posts:  make(map[string][]models.Post),
		errs:   make(map[string]error),
		panics: make(map[string]any),
	}
}

// WithPosts makes Search return exactly posts for keyword.
func (s *Searcher) WithPosts(keyword string, posts ...models.Post) *Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[keyword] = posts
	return s
}

// WithError makes Search fail for keyword.
func (s *Searcher) WithError(keyword string, err error) *Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[keyword] = err
	return s
}

// WithPanic makes Search panic with v for keyword.
func (s *Searcher) WithPanic(keyword string, v any) *Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panics[keyword] = v
	return s
}

// WithDelay makes every Search call sleep for d first.
func (s *Searcher) WithDelay(d time.Duration) *Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	return s
}

// Calls returns the keywords searched so far, in order.
func (s *Searcher) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Searcher) Search(ctx context.Context, keyword string, limit int) ([]models.Post, error) {
	s.mu.Lock()
	s.calls = append(s.calls, keyword)
	delay := s.delay
	err := s.errs[keyword]
	p, shouldPanic := s.panics[keyword]
	posts, canned := s.posts[keyword]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if shouldPanic {
		panic(p)
	}
	if err != nil {
		return nil, err
	}
	if canned {
		return append([]models.Post(nil), posts...), nil
	}

	var results []models.Post
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= limit; i++ {
		results = append(results, models.Post{
			Title:       fmt.Sprintf("%s - Result %d", keyword, i),
			Subreddit:   "mockreddit",
			Score:       1000 / i,
			NumComments: 10 * i,
			URL:         fmt.Sprintf("https://example.com/r/mockreddit/%d", i),
			CreatedUTC:  float64(base.Add(-time.Duration(i) * time.Hour).Unix()),
		})
	}
	return results, nil
}
