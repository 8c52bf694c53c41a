package api

import (
	"net/http"
	"strings"

	"hostes/internal/models"
	"hostes/internal/schedule"
	"hostes/internal/service"
)

type createReservationRequest struct {
	TableID         string  `json:"tableId"`
	HallID          string  `json:"hallId"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	Guests          int     `json:"guests"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Duration        float64 `json:"duration"`
	Status          string  `json:"status"`
	SpecialRequests string  `json:"specialRequests"`
}

func (s *HTTPServer) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listReservations(w, r)
	case http.MethodPost:
		s.createReservation(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) createReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.reservations.CreateReservation(r.Context(), service.CreateReservationInput{
		TableID:         req.TableID,
		HallID:          req.HallID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Guests:          req.Guests,
		Date:            req.Date,
		Time:            req.Time,
		Duration:        req.Duration,
		Status:          req.Status,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) listReservations(w http.ResponseWriter, r *http.Request) {
	var filter models.ReservationFilter

	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		day, err := schedule.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format")
			return
		}
		filter.Date = day
	}
	filter.HallID = strings.TrimSpace(r.URL.Query().Get("hallId"))
	filter.TableID = strings.TrimSpace(r.URL.Query().Get("tableId"))
	filter.Status = strings.TrimSpace(r.URL.Query().Get("status"))
	if filter.Status != "" && !models.IsReservationStatus(filter.Status) {
		writeError(w, http.StatusBadRequest, "unknown reservation status")
		return
	}

	reservations, err := s.reservations.ListReservations(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
}

func (s *HTTPServer) handleReservationByID(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/reservations/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)

	// POST /api/v1/reservations/{id}/cancel
	if id, ok := strings.CutSuffix(rest, "/cancel"); ok {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.cancelReservation(w, r, id)
		return
	}

	id := strings.TrimSpace(rest)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "reservation id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		reservation, err := s.reservations.GetReservation(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reservation)
	case http.MethodPatch, http.MethodPut:
		var patch models.ReservationPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.reservations.UpdateReservation(r.Context(), id, patch)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.reservations.DeleteReservation(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) cancelReservation(w http.ResponseWriter, r *http.Request, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		writeError(w, http.StatusBadRequest, "reservation id is required")
		return
	}

	cancelled, err := s.reservations.CancelReservation(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cancelled)
}

// handleAvailability returns the day bucket for a table:
// GET /api/v1/availability/{tableId}?date=YYYY-MM-DD
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/v1/availability/"
	tableID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, prefix))
	if tableID == "" || strings.Contains(tableID, "/") {
		writeError(w, http.StatusBadRequest, "table id is required")
		return
	}

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	day, err := schedule.ParseDate(dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format")
		return
	}

	bucket, err := s.reservations.CheckAvailability(r.Context(), tableID, day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if bucket == nil {
		bucket = []models.Reservation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tableId":      tableID,
		"date":         schedule.DayKey(day),
		"reservations": bucket,
	})
}
