package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labstock/labstock/internal/handler/dto"
	"github.com/labstock/labstock/internal/service"
)

// TimeLogHandler handles HTTP requests for clock-in/clock-out operations.
type TimeLogHandler struct {
	svc    *service.TimeLogService
	logger *slog.Logger
}

// NewTimeLogHandler creates a new TimeLogHandler.
func NewTimeLogHandler(svc *service.TimeLogService, logger *slog.Logger) *TimeLogHandler {
	return &TimeLogHandler{
		svc:    svc,
		logger: logger,
	}
}

// Clock handles POST /api/v1/timelog.
func (h *TimeLogHandler) Clock(w http.ResponseWriter, r *http.Request) {
	var req dto.ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	entry, err := h.svc.Clock(r.Context(), req.User, req.Date, req.ClockIn, req.ClockOut)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("clock_event", "user", entry.User, "date", entry.Date, "entry_id", entry.ID)

	writeJSON(w, http.StatusCreated, dto.TimeLogEntryResponse{
		ID:       entry.ID,
		User:     entry.User,
		Date:     entry.Date,
		ClockIn:  entry.ClockIn,
		ClockOut: entry.ClockOut,
	})
}

// List handles GET /api/v1/timelog/{user}.
func (h *TimeLogHandler) List(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	entries := h.svc.ForUser(r.Context(), user)
	writeJSON(w, http.StatusOK, dto.ToTimeLogListResponse(entries))
}

// Export handles GET /api/v1/timelog/{user}/export.
// It streams the user's timesheet as a CSV attachment.
func (h *TimeLogHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")

	export, err := h.svc.ExportCSV(r.Context(), user)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}
