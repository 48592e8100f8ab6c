package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/botfleet/console/internal/dashboard"
	"github.com/botfleet/console/pkg/logging"
)

// LogSource fetches interaction logs from the platform.
type LogSource interface {
	ListInteractionLogs(ctx context.Context, botID string, start, end time.Time) ([]dashboard.InteractionLog, error)
}

// DashboardHandler serves derived chart aggregates for one bot.
type DashboardHandler struct {
	source LogSource
	logger *logging.Logger
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(source LogSource, logger *logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{source: source, logger: logger}
}

// Stats computes dashboard aggregates over the requested window, defaulting
// to the last seven days.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		start = t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		end = t
	}

	logs, err := h.source.ListInteractionLogs(r.Context(), botID, start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	stats, err := dashboard.Compute(botID, logs, start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
