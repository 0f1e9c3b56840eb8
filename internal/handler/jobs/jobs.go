// Package jobs exposes the ingestion queue over HTTP: job submission,
// job status polling and queue occupancy.
package jobs

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ingestd/internal/api"
	"ingestd/internal/ingest"
	"ingestd/internal/model"
	"ingestd/internal/queue"

	"github.com/labstack/echo/v4"
)

// Submitter is what the handlers need from ingest.Submitter.
type Submitter interface {
	Submit(ctx context.Context, req ingest.Request) (string, *queue.Future, error)
	GetStatus(ctx context.Context, jobID string) (*ingest.Status, error)
}

// @Summary     Submit an ingestion job
// @Description Queues the ingestion of a text document. With wait_ms the call blocks up to that long and returns the stored document on completion.
// @Tags        ingest
// @Accept      json
// @Produce     json
// @Param       request body api.IngestRequest true "Ingestion request"
// @Success     200 {object} api.DocumentResponse "job finished within wait_ms"
// @Success     202 {object} api.IngestAcceptedResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Failure     503 {object} api.ErrorResponse "queue is shut down"
// @Failure     504 {object} api.IngestAcceptedResponse "job still running after wait_ms; poll by job id"
// @Security    ApiKeyAuth
// @Router      /ingest [post]
func SubmitHandler(s Submitter) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.IngestRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		jobID, fut, err := s.Submit(c.Request().Context(), ingest.Request{
			Title: req.Title,
			Text:  req.Text,
		})
		if errors.Is(err, queue.ErrQueueClosed) {
			return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Message: "service is shutting down"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		if req.WaitMS <= 0 {
			return c.JSON(http.StatusAccepted, api.IngestAcceptedResponse{JobID: jobID, Status: ingest.StatusQueued})
		}

		v, err := fut.Result(time.Duration(req.WaitMS) * time.Millisecond)
		if errors.Is(err, queue.ErrResultTimeout) {
			// Still in flight; the caller can poll by job id.
			return c.JSON(http.StatusGatewayTimeout, api.IngestAcceptedResponse{JobID: jobID, Status: ingest.StatusQueued})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, documentResponse(v.(*model.Document)))
	}
}

// @Summary     Get ingestion job status
// @Tags        ingest
// @Produce     json
// @Param       job_id path string true "Job ID"
// @Success     200 {object} api.JobStatusResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ingest/{job_id} [get]
func StatusHandler(s Submitter) echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("job_id")
		st, err := s.GetStatus(c.Request().Context(), jobID)
		if errors.Is(err, ingest.ErrUnknownJob) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "unknown job"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, api.JobStatusResponse{
			JobID:      st.JobID,
			Status:     st.State,
			DocumentID: st.DocumentID,
			Error:      st.Error,
		})
	}
}

// @Summary     Queue occupancy snapshot
// @Description Point-in-time counts of busy workers and queued jobs
// @Tags        ingest
// @Produce     json
// @Success     200 {object} api.QueueStatsResponse
// @Security    ApiKeyAuth
// @Router      /queue/stats [get]
func StatsHandler(q *queue.Queue) echo.HandlerFunc {
	return func(c echo.Context) error {
		st := q.Stats()
		return c.JSON(http.StatusOK, api.QueueStatsResponse{
			RunningWorkers: st.RunningWorkers,
			QueuedJobs:     st.QueuedJobs,
		})
	}
}

func documentResponse(d *model.Document) api.DocumentResponse {
	return api.DocumentResponse{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Source:    d.Source,
		Fields:    d.Fields,
		CreatedAt: d.CreatedAt,
	}
}
