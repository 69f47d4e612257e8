package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/reddit-search-go/internal/models"
	"github.com/vrsandeep/reddit-search-go/internal/reddit/mockreddit"
)

// recordingNotifier captures every progress update the runner publishes.
type recordingNotifier struct {
	mu      sync.Mutex
	updates []models.ProgressUpdate
}

func (n *recordingNotifier) BroadcastJSON(v interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, v.(models.ProgressUpdate))
	return nil
}

func (n *recordingNotifier) all() []models.ProgressUpdate {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.ProgressUpdate(nil), n.updates...)
}

func posts(n int) []models.Post {
	var ps []models.Post
	for i := 0; i < n; i++ {
		ps = append(ps, models.Post{Title: "post", Subreddit: "golang", Score: 10 - i, URL: "https://example.com", CreatedUTC: 1700000000})
	}
	return ps
}

func TestRunner_ExampleScenario(t *testing.T) {
	searcher := mockreddit.New().
		WithPosts("foo", posts(3)...).
		WithPosts("bar")
	state := NewState()
	r := NewRunner(state, searcher, 5, nil)

	id, err := r.Start([]string{"foo", "bar"})
	require.NoError(t, err)
	assert.Len(t, id, len(JobIDLayout))
	r.Wait()

	p := state.Snapshot()
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, 2, p.Current)
	assert.False(t, p.IsRunning)
	assert.True(t, p.HasResults)
	assert.Nil(t, p.Error)
	require.NotNil(t, p.SearchID)
	assert.Equal(t, id, *p.SearchID)
	assert.Equal(t, "Completed: 3 results", p.Message)

	results, ok := state.Results()
	require.True(t, ok)
	require.Len(t, results, 3)
	for _, rec := range results {
		assert.Equal(t, "foo", rec.Keyword)
	}
	assert.Equal(t, StatusCompleted, state.Status())
}

func TestRunner_PerKeywordFailureIsSkipped(t *testing.T) {
	searcher := mockreddit.New().
		WithPosts("one", posts(2)...).
		WithError("two", errors.New("rate limited")).
		WithPosts("three", posts(1)...)
	state := NewState()
	r := NewRunner(state, searcher, 5, nil)

	results, err := r.Run(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "one", results[0].Keyword)
	assert.Equal(t, "three", results[2].Keyword)
	assert.Equal(t, []string{"one", "two", "three"}, searcher.Calls())

	p := state.Snapshot()
	assert.Nil(t, p.Error)
	assert.True(t, p.HasResults)
	assert.Equal(t, 3, p.Current)
}

func TestRunner_PanicInSearcherIsSkipped(t *testing.T) {
	searcher := mockreddit.New().
		WithPanic("bad", "nil map").
		WithPosts("good", posts(1)...)
	state := NewState()
	r := NewRunner(state, searcher, 5, nil)

	results, err := r.Run(context.Background(), []string{"bad", "good"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Keyword)
}

func TestRunner_ResultsCappedAtLimit(t *testing.T) {
	searcher := mockreddit.New().WithPosts("many", posts(8)...)
	r := NewRunner(NewState(), searcher, 5, nil)

	results, err := r.Run(context.Background(), []string{"many"})
	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.Equal(t, 10, results[0].Score, "order from the searcher is preserved")
}

func TestRunner_EmptyResultsStillComplete(t *testing.T) {
	searcher := mockreddit.New().WithPosts("nothing")
	state := NewState()
	r := NewRunner(state, searcher, 5, nil)

	results, err := r.Run(context.Background(), []string{"nothing"})
	require.NoError(t, err)
	assert.Empty(t, results)

	stored, ok := state.Results()
	assert.True(t, ok)
	assert.Empty(t, stored)
	assert.True(t, state.Snapshot().HasResults)
}

func TestRunner_SearcherUnavailable(t *testing.T) {
	state := NewState()
	r := NewRunner(state, nil, 5, nil)

	_, err := r.Start([]string{"foo"})
	require.NoError(t, err)
	r.Wait()

	p := state.Snapshot()
	assert.False(t, p.IsRunning)
	assert.False(t, p.HasResults)
	require.NotNil(t, p.Error)
	assert.Equal(t, ErrSearcherUnavailable.Error(), *p.Error)
	assert.Equal(t, 0, p.Current, "no keyword is searched")
	assert.Equal(t, StatusFailed, state.Status())
}

func TestRunner_NoKeywords(t *testing.T) {
	state := NewState()
	r := NewRunner(state, mockreddit.New(), 5, nil)

	_, err := r.Start(nil)
	assert.ErrorIs(t, err, ErrNoKeywords)
	assert.Equal(t, StatusIdle, state.Status())
}

func TestRunner_ProgressIsMonotonic(t *testing.T) {
	notifier := &recordingNotifier{}
	keywords := []string{"a", "b", "c", "d"}
	r := NewRunner(NewState(), mockreddit.New(), 2, notifier)

	_, err := r.Run(context.Background(), keywords)
	require.NoError(t, err)

	updates := notifier.all()
	require.NotEmpty(t, updates)
	assert.Equal(t, 0, updates[0].Current)
	assert.Equal(t, StatusRunning, updates[0].Status)

	last := 0
	for _, u := range updates {
		assert.Equal(t, len(keywords), u.Total)
		assert.GreaterOrEqual(t, u.Current, last)
		last = u.Current
	}

	final := updates[len(updates)-1]
	assert.Equal(t, len(keywords), final.Current)
	assert.True(t, final.Done)
	assert.Equal(t, StatusCompleted, final.Status)
	assert.InDelta(t, 100.0, final.Progress, 0.001)
}

func TestRunner_RejectsConcurrentJob(t *testing.T) {
	searcher := mockreddit.New().WithDelay(100 * time.Millisecond)
	state := NewState()
	r := NewRunner(state, searcher, 1, nil)

	_, err := r.Start([]string{"slow", "slower"})
	require.NoError(t, err)

	_, err = r.Start([]string{"other"})
	assert.ErrorIs(t, err, ErrJobRunning)

	r.Wait()
	assert.NotContains(t, searcher.Calls(), "other")
	results, ok := state.Results()
	require.True(t, ok)
	assert.Len(t, results, 2)
}

func TestRunner_ResetDetachesRunningJob(t *testing.T) {
	searcher := mockreddit.New().WithDelay(50 * time.Millisecond)
	state := NewState()
	r := NewRunner(state, searcher, 1, nil)

	_, err := r.Start([]string{"a", "b", "c"})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	state.Reset()
	r.Wait()

	p := state.Snapshot()
	assert.Equal(t, models.Progress{}, p, "a reset job must not write into the cleared state")
	assert.Less(t, len(searcher.Calls()), 3, "the detached job stops searching")
}

func TestRunner_ContextCancelledFailsBatch(t *testing.T) {
	state := NewState()
	r := NewRunner(state, mockreddit.New(), 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)

	p := state.Snapshot()
	require.NotNil(t, p.Error)
	assert.False(t, p.HasResults)
}

func TestSearchKeyword(t *testing.T) {
	searcher := mockreddit.New().WithError("x", errors.New("boom"))

	outcome := SearchKeyword(context.Background(), searcher, 1, "x", 5)
	assert.True(t, outcome.Skipped())
	assert.Empty(t, outcome.Records)

	outcome = SearchKeyword(context.Background(), searcher, 2, "y", 3)
	assert.False(t, outcome.Skipped())
	assert.Equal(t, 2, outcome.Index)
	assert.Len(t, outcome.Records, 3)
	assert.Equal(t, "y", outcome.Records[0].Keyword)
}
