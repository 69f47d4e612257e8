package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vrsandeep/reddit-search-go/internal/models"
)

// JobIDLayout formats job identifiers. Two jobs started within the same
// second share an identifier.
const JobIDLayout = "20060102_150405"

var (
	ErrJobRunning          = errors.New("a search job is already running")
	ErrNoKeywords          = errors.New("no keywords to search")
	ErrSearcherUnavailable = errors.New("Reddit API not configured properly. Please check your environment variables.")
)

// Notifier receives a progress update after every state change.
type Notifier interface {
	BroadcastJSON(v interface{}) error
}

// Runner executes keyword batches against a Searcher, one job at a time,
// publishing progress into a State.
type Runner struct {
	state    *State
	searcher models.Searcher
	limit    int
	notifier Notifier
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewRunner creates a Runner. A nil searcher makes every job fail with
// ErrSearcherUnavailable; a nil notifier disables push updates.
func NewRunner(state *State, searcher models.Searcher, limit int, notifier Notifier) *Runner {
	return &Runner{
		state:    state,
		searcher: searcher,
		limit:    limit,
		notifier: notifier,
		now:      time.Now,
	}
}

// State returns the state the runner publishes into.
func (r *Runner) State() *State {
	return r.state
}

// Start launches a job in the background and returns its identifier
// immediately.
func (r *Runner) Start(keywords []string) (string, error) {
	id := r.now().Format(JobIDLayout)
	gen, err := r.begin(id, keywords)
	if err != nil {
		return "", err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.execute(context.Background(), gen, id, keywords)
	}()
	return id, nil
}

// Run executes a job synchronously and returns its results.
func (r *Runner) Run(ctx context.Context, keywords []string) ([]models.ResultRecord, error) {
	id := r.now().Format(JobIDLayout)
	gen, err := r.begin(id, keywords)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, gen, id, keywords)
}

// Wait blocks until all background jobs have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) begin(id string, keywords []string) (uint64, error) {
	if len(keywords) == 0 {
		return 0, ErrNoKeywords
	}
	gen, err := r.state.begin(id, len(keywords))
	if err != nil {
		return 0, err
	}
	r.notify()
	return gen, nil
}

func (r *Runner) execute(ctx context.Context, gen uint64, id string, keywords []string) (results []models.ResultRecord, err error) {
	log.Printf("Starting search job: %s (%d keywords)", id, len(keywords))
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Search job '%s' panicked: %v", id, rec)
			results = nil
			err = fmt.Errorf("Job panicked: %v", rec)
		}

		var applied bool
		if err != nil {
			applied = r.state.fail(gen, err.Error(), r.now())
		} else {
			applied = r.state.complete(gen, results, fmt.Sprintf("Completed: %d results", len(results)), r.now())
		}
		if applied {
			r.notify()
		}
		log.Printf("Finished search job: %s", id)
	}()

	if r.searcher == nil {
		return nil, ErrSearcherUnavailable
	}

	results = []models.ResultRecord{}
	for i, keyword := range keywords {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.state.advance(gen, i+1, fmt.Sprintf("Searching for: %s", keyword)) {
			log.Printf("Search job '%s' was reset, stopping", id)
			return results, nil
		}
		r.notify()

		outcome := SearchKeyword(ctx, r.searcher, i+1, keyword, r.limit)
		if outcome.Skipped() {
			log.Printf("Error while searching for '%s': %v", keyword, outcome.Err)
			continue
		}
		results = append(results, outcome.Records...)
	}
	return results, nil
}

func (r *Runner) notify() {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.BroadcastJSON(r.state.update()); err != nil {
		log.Printf("Failed to broadcast progress: %v", err)
	}
}

// SearchKeyword searches a single keyword and converts the posts into
// result records. Failures, including panics in the searcher, are returned
// in the outcome rather than propagated.
func SearchKeyword(ctx context.Context, s models.Searcher, index int, keyword string, limit int) (outcome models.KeywordOutcome) {
	outcome = models.KeywordOutcome{Index: index, Keyword: keyword}
	defer func() {
		if rec := recover(); rec != nil {
			outcome.Records = nil
			outcome.Err = fmt.Errorf("search panicked: %v", rec)
		}
	}()

	posts, err := s.Search(ctx, keyword, limit)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	for _, p := range posts {
		outcome.Records = append(outcome.Records, models.NewResultRecord(keyword, p))
	}
	return outcome
}
