package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct{ db Pinger }

func NewHandler(db Pinger) *Handler { return &Handler{db: db} }

// Health reports 503 with db "down" when the database does not answer a ping.
func (h *Handler) Health(c echo.Context) error {
	code, status, dbState := http.StatusOK, "ok", "up"
	ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		code, status, dbState = http.StatusServiceUnavailable, "degraded", "down"
	}
	return c.JSON(code, map[string]any{
		"status": status,
		"db":     dbState,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
