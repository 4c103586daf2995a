package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/tidyhouse/internal/auth"
	"github.com/dukerupert/tidyhouse/internal/schedule"
	"github.com/dukerupert/tidyhouse/internal/service"
)

type DashboardHandler struct {
	tracker *service.Tracker
	logger  *slog.Logger
}

func NewDashboardHandler(t *service.Tracker, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{tracker: t, logger: logger}
}

// Get returns the dashboard for now, or for the start of ?date=YYYY-MM-DD.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := auth.OwnerID(r.Context())

	var (
		d   schedule.Dashboard
		err error
	)
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, perr := time.Parse(time.DateOnly, raw)
		if perr != nil {
			writeMessage(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		d, err = h.tracker.DashboardOn(r.Context(), owner, day.Year(), day.Month(), day.Day())
	} else {
		d, err = h.tracker.Dashboard(r.Context(), owner, h.tracker.Now())
	}
	if err != nil {
		writeError(w, r, h.logger, "load dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
