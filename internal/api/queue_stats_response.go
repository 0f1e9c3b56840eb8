package api

// swagger:model api.QueueStatsResponse
type QueueStatsResponse struct {
	RunningWorkers int `json:"running_workers" example:"2"`
	QueuedJobs     int `json:"queued_jobs" example:"5"`
}
