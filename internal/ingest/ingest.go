// Package ingest turns ingestion requests into queue jobs: each job
// extracts structured fields from the submitted text, stores a document
// row, and publishes its progress to the cache so callers can poll
// after the HTTP response has returned.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ingestd/internal/cache"
	"ingestd/internal/database"
	"ingestd/internal/model"
	"ingestd/internal/queue"
	"ingestd/internal/service"
	"ingestd/internal/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Job states as published to the cache.
const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// statusTTL bounds how long a finished job stays pollable.
const statusTTL = 24 * time.Hour

// ErrUnknownJob is returned by GetStatus for ids with no status record.
var ErrUnknownJob = errors.New("unknown ingestion job")

// Test seams.
var (
	defaultUser    = service.DefaultUser
	extractJSON    = service.ExtractJSON
	insertDocument = store.InsertDocument
	newJobID       = uuid.NewString
)

// Status is the cached progress record of one ingestion job.
type Status struct {
	JobID      string `json:"job_id"`
	State      string `json:"state"`
	DocumentID int    `json:"document_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Request is one unit of ingestion work.
type Request struct {
	Title string
	Text  string
}

// Submitter binds ingestion requests to the execution queue.
type Submitter struct {
	db    database.DB
	cache cache.Cache
	queue *queue.Queue
}

func NewSubmitter(db database.DB, c cache.Cache, q *queue.Queue) *Submitter {
	return &Submitter{db: db, cache: c, queue: q}
}

// Submit enqueues the ingestion of req and returns the job id together
// with the future holding its outcome. The future's value is the stored
// *model.Document.
func (s *Submitter) Submit(ctx context.Context, req Request) (string, *queue.Future, error) {
	jobID := newJobID()
	// Status goes in before Submit so a fast worker can only move it
	// forward, never race it backwards.
	_ = s.setStatus(ctx, Status{JobID: jobID, State: StatusQueued})
	fut, err := s.queue.Submit(func() (any, error) {
		return s.run(jobID, req)
	})
	if err != nil {
		return "", nil, err
	}
	return jobID, fut, nil
}

// GetStatus reads the cached progress record of a job.
func (s *Submitter) GetStatus(ctx context.Context, jobID string) (*Status, error) {
	raw, err := s.cache.Get(ctx, statusKey(jobID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUnknownJob
	}
	if err != nil {
		return nil, fmt.Errorf("GetStatus: %w", err)
	}
	st := &Status{}
	if err := json.Unmarshal([]byte(raw), st); err != nil {
		return nil, fmt.Errorf("GetStatus: %w", err)
	}
	return st, nil
}

// run executes inside a queue worker. Status updates are advisory and
// never fail the job.
func (s *Submitter) run(jobID string, req Request) (*model.Document, error) {
	ctx := context.Background()
	_ = s.setStatus(ctx, Status{JobID: jobID, State: StatusRunning})

	fields, err := extractJSON(req.Text)
	if errors.Is(err, service.ErrNoJSON) {
		// Extraction is best effort; documents without structured
		// fields are still ingested.
		fields = map[string]any{}
	} else if err != nil {
		_ = s.setStatus(ctx, Status{JobID: jobID, State: StatusFailed, Error: err.Error()})
		return nil, err
	}

	owner, err := defaultUser(ctx, s.db)
	if err != nil {
		_ = s.setStatus(ctx, Status{JobID: jobID, State: StatusFailed, Error: err.Error()})
		return nil, err
	}

	doc, err := insertDocument(ctx, s.db, &model.Document{
		UserID: owner.ID,
		Title:  req.Title,
		Source: req.Text,
		Fields: fields,
	})
	if err != nil {
		_ = s.setStatus(ctx, Status{JobID: jobID, State: StatusFailed, Error: err.Error()})
		return nil, err
	}

	_ = s.setStatus(ctx, Status{JobID: jobID, State: StatusDone, DocumentID: doc.ID})
	return doc, nil
}

func (s *Submitter) setStatus(ctx context.Context, st Status) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, statusKey(st.JobID), raw, statusTTL).Err()
}

func statusKey(jobID string) string { return "ingest:job:" + jobID }
