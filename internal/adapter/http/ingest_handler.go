package http

import (
	"context"
	"net/http"

	"credit-approval-service/internal/adapter/worker"

	"github.com/labstack/echo/v4"
)

// IngestQueue is the part of worker.Queue the handler drives.
type IngestQueue interface {
	Enqueue(ctx context.Context, dir string) (worker.Status, error)
	Status(ctx context.Context, jobID string) (worker.Status, error)
}

type IngestHandler struct{ q IngestQueue }

func NewIngestHandler(q IngestQueue) *IngestHandler { return &IngestHandler{q: q} }

// Enqueue schedules ingestion of the configured data directory. Callers cannot point the
// job at an arbitrary path.
func (h *IngestHandler) Enqueue(c echo.Context) error {
	st, err := h.q.Enqueue(c.Request().Context(), "")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, st)
}

func (h *IngestHandler) Job(c echo.Context) error {
	jobID := c.Param("job_id")
	if jobID == "" {
		return errorJSON(c, http.StatusBadRequest, "invalid job_id")
	}
	st, err := h.q.Status(c.Request().Context(), jobID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
