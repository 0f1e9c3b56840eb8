package api

import "time"

// swagger:model api.DocumentResponse
type DocumentResponse struct {
	ID        int            `json:"id" example:"1"`
	UserID    int            `json:"user_id" example:"1"`
	Title     string         `json:"title" example:"invoice-2024-001"`
	Source    string         `json:"source"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
}
