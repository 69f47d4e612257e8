package models

// Progress is the snapshot of the search job returned to polling clients.
// Error and SearchID are nil when absent so they serialize as JSON null.
type Progress struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Message    string  `json:"message"`
	IsRunning  bool    `json:"is_running"`
	HasResults bool    `json:"has_results"`
	Error      *string `json:"error"`
	SearchID   *string `json:"search_id"`
}

// ProgressUpdate is pushed to websocket subscribers whenever the job state changes.
type ProgressUpdate struct {
	JobID    string  `json:"jobId"`
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	Current  int     `json:"current"`
	Total    int     `json:"total"`
	Status   string  `json:"status"` // e.g. "idle", "running", "completed", "failed"
	Done     bool    `json:"done"`
}
