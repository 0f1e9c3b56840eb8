package model

import "time"

// Document is the stored output of one ingestion job: the original text
// plus whatever structured fields could be extracted from it.
type Document struct {
	ID        int            `db:"id" json:"id"`
	UserID    int            `db:"user_id" json:"user_id"`
	Title     string         `db:"title" json:"title"`
	Source    string         `db:"source" json:"source"`
	Fields    map[string]any `db:"fields" json:"fields"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
