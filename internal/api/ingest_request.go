package api

// swagger:model api.IngestRequest
type IngestRequest struct {
	Title string `json:"title" validate:"required" example:"invoice-2024-001"`
	Text  string `json:"text" validate:"required" example:"scanned text {\"total\": 12}"`

	// WaitMS optionally blocks the request until the job finishes,
	// up to the given number of milliseconds.
	WaitMS int `json:"wait_ms" validate:"gte=0" example:"500"`
}
