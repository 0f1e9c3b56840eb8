package api

// swagger:model api.JobStatusResponse
type JobStatusResponse struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status" example:"done"`
	DocumentID int    `json:"document_id,omitempty"`
	Error      string `json:"error,omitempty"`
}
