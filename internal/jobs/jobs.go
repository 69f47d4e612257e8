package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vrsandeep/reddit-search-go/internal/config"
)

// JobContext provides the dependencies scheduled jobs need.
// The core.App struct implements this interface.
type JobContext interface {
	Config() *config.Config
	State() *State
}

// StartJobs starts the background job scheduler.
func StartJobs(app JobContext) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startResultExpiryJob(s, app)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
	return s
}

func startResultExpiryJob(s *gocron.Scheduler, app JobContext) {
	retention := app.Config().Results.RetentionMinutes
	if retention <= 0 {
		log.Println("Result retention is 0, scheduled expiry is disabled.")
		return
	}

	jobId := "result-expiry"
	log.Printf("Scheduling job: '%s' to run every minute (retention %d minutes).", jobId, retention)

	_, err := s.Every(1).Minute().Do(func() {
		ExpireResults(app.State(), time.Duration(retention)*time.Minute, time.Now())
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", jobId, err)
	}
}

// ExpireResults clears a finished job once it is older than retention.
func ExpireResults(state *State, retention time.Duration, now time.Time) bool {
	if !state.expire(now.Add(-retention)) {
		return false
	}
	log.Printf("Cleared search results older than %s", retention)
	return true
}
