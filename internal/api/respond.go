package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"hostes/internal/database"
	"hostes/internal/models"
	"hostes/internal/schedule"
	"hostes/internal/service"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeDomainError maps service and storage errors onto HTTP statuses.
// Slot conflicts carry every blocking reservation so the client can show
// the hostess exactly what is in the way.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *schedule.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}

	var conflict *database.ConflictError
	if errors.As(err, &conflict) {
		conflicts := conflict.Conflicts
		if conflicts == nil {
			conflicts = []models.Reservation{}
		}
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     conflict.Error(),
			"conflicts": conflicts,
		})
		return
	}

	switch {
	case errors.Is(err, database.ErrReservationNotFound),
		errors.Is(err, database.ErrTableNotFound),
		errors.Is(err, database.ErrHallNotFound),
		errors.Is(err, database.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrLoginTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dst)
}
