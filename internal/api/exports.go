package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"hostes/internal/models"
	"hostes/internal/schedule"
)

// handleExportReservations builds an xlsx for a date range and streams it:
// GET /api/v1/exports/reservations?from=YYYY-MM-DD&to=YYYY-MM-DD
func (s *HTTPServer) handleExportReservations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, err := schedule.ParseDate(strings.TrimSpace(r.URL.Query().Get("from")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from is required (YYYY-MM-DD)")
		return
	}
	to, err := schedule.ParseDate(strings.TrimSpace(r.URL.Query().Get("to")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to is required (YYYY-MM-DD)")
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not precede from")
		return
	}

	// Собираем брони по дням диапазона
	var all []models.Reservation
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		batch, err := s.reservations.ListReservations(r.Context(), models.ReservationFilter{Date: day})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		all = append(all, batch...)
	}

	filePath, err := s.exporter.ReservationsToFile(r.Context(), all, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(filePath))
	http.ServeFile(w, r, filePath)
}
