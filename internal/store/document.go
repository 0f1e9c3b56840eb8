package store

import (
	"context"
	"encoding/json"
	"fmt"

	"ingestd/internal/database"
	"ingestd/internal/model"
)

func InsertDocument(ctx context.Context, db database.DB, d *model.Document) (*model.Document, error) {
	fields, err := json.Marshal(d.Fields)
	if err != nil {
		return nil, fmt.Errorf("InsertDocument: %w", err)
	}
	row := db.QueryRow(ctx,
		`INSERT INTO documents (user_id, title, source, fields)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		d.UserID,
		d.Title,
		d.Source,
		fields,
	)
	if err := row.Scan(&d.ID, &d.CreatedAt); err != nil {
		return nil, fmt.Errorf("InsertDocument: %w", err)
	}
	return d, nil
}

func GetDocumentByID(ctx context.Context, db database.DB, docID int) (*model.Document, error) {
	row := db.QueryRow(ctx,
		`SELECT id, user_id, title, source, fields, created_at
		 FROM documents WHERE id = $1`,
		docID,
	)
	d := &model.Document{}
	var fields []byte
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Title,
		&d.Source,
		&fields,
		&d.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetDocumentByID: %w", err)
	}
	if err := json.Unmarshal(fields, &d.Fields); err != nil {
		return nil, fmt.Errorf("GetDocumentByID: %w", err)
	}
	return d, nil
}

func ListDocuments(ctx context.Context, db database.DB, limit, offset int) ([]model.Document, error) {
	rows, err := db.Query(ctx,
		`SELECT id, user_id, title, source, fields, created_at
		 FROM documents
		 ORDER BY id DESC
		 LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("ListDocuments: %w", err)
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var d model.Document
		var fields []byte
		if err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.Title,
			&d.Source,
			&fields,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListDocuments: %w", err)
		}
		if err := json.Unmarshal(fields, &d.Fields); err != nil {
			return nil, fmt.Errorf("ListDocuments: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListDocuments: %w", err)
	}
	return docs, nil
}

func CountDocuments(ctx context.Context, db database.DB) (int, error) {
	row := db.QueryRow(ctx, `SELECT count(*) FROM documents`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("CountDocuments: %w", err)
	}
	return n, nil
}
