package jobs

import (
	"sync"
	"time"

	"github.com/vrsandeep/reddit-search-go/internal/models"
)

// Job statuses as reported to websocket subscribers.
const (
	StatusIdle      = "idle"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// State is the single record describing the current or most recent search
// job. It is shared between the job goroutine and HTTP handlers.
//
// Every job is tagged with a generation number. Reset and each new job bump
// the generation, and writes carrying an older generation are discarded, so
// a job that was reset away can never overwrite newer state.
type State struct {
	mu         sync.RWMutex
	generation uint64
	current    int
	total      int
	message    string
	running    bool
	results    []models.ResultRecord // nil until a job completes
	errMsg     *string
	searchID   *string
	finishedAt time.Time
}

func NewState() *State {
	return &State{}
}

// Snapshot returns the current progress. It never blocks on the job.
func (s *State) Snapshot() models.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := models.Progress{
		Current:    s.current,
		Total:      s.total,
		Message:    s.message,
		IsRunning:  s.running,
		HasResults: s.results != nil,
	}
	if s.errMsg != nil {
		msg := *s.errMsg
		p.Error = &msg
	}
	if s.searchID != nil {
		id := *s.searchID
		p.SearchID = &id
	}
	return p
}

// Status summarises the state machine position.
func (s *State) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

func (s *State) statusLocked() string {
	switch {
	case s.running:
		return StatusRunning
	case s.errMsg != nil:
		return StatusFailed
	case s.results != nil:
		return StatusCompleted
	default:
		return StatusIdle
	}
}

// Results returns a copy of the finished job's results. ok is false when no
// job has completed since the last reset.
func (s *State) Results() (results []models.ResultRecord, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.results == nil {
		return nil, false
	}
	return append(make([]models.ResultRecord, 0, len(s.results)), s.results...), true
}

// Reset returns the state to its initial empty form and detaches any
// running job.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *State) resetLocked() {
	s.generation++
	s.current = 0
	s.total = 0
	s.message = ""
	s.running = false
	s.results = nil
	s.errMsg = nil
	s.searchID = nil
	s.finishedAt = time.Time{}
}

// begin claims the state for a new job. It fails with ErrJobRunning if a
// job is already in progress.
func (s *State) begin(searchID string, total int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return 0, ErrJobRunning
	}
	s.resetLocked()
	s.total = total
	s.running = true
	s.searchID = &searchID
	return s.generation, nil
}

// advance records that the job moved on to keyword number index (1-based).
// It reports false if the job has been detached.
func (s *State) advance(gen uint64, index int, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.current = index
	s.message = message
	return true
}

func (s *State) complete(gen uint64, results []models.ResultRecord, message string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	if results == nil {
		results = []models.ResultRecord{}
	}
	s.results = results
	s.message = message
	s.running = false
	s.finishedAt = now
	return true
}

func (s *State) fail(gen uint64, errMsg string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.errMsg = &errMsg
	s.results = nil
	s.running = false
	s.finishedAt = now
	return true
}

// expire resets the state if a job finished before cutoff.
func (s *State) expire(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.finishedAt.IsZero() || !s.finishedAt.Before(cutoff) {
		return false
	}
	s.resetLocked()
	return true
}

// update builds the websocket payload for the current state.
func (s *State) update() models.ProgressUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := models.ProgressUpdate{
		Message: s.message,
		Current: s.current,
		Total:   s.total,
		Status:  s.statusLocked(),
	}
	if s.searchID != nil {
		u.JobID = *s.searchID
	}
	if s.total > 0 {
		u.Progress = float64(s.current) / float64(s.total) * 100
	}
	u.Done = u.Status == StatusCompleted || u.Status == StatusFailed
	return u
}
