package api

// swagger:model api.DocumentListResponse
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total" example:"42"`
	Limit     int                `json:"limit" example:"20"`
	Offset    int                `json:"offset" example:"0"`
}
