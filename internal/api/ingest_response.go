package api

// swagger:model api.IngestAcceptedResponse
type IngestAcceptedResponse struct {
	JobID  string `json:"job_id" example:"7f6c1d1e-0a2b-4c3d-9e8f-1a2b3c4d5e6f"`
	Status string `json:"status" example:"queued"`
}
