package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"hostes/internal/models"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)

// ValidationError marks malformed input rejected before the store is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ValidateReservation checks every party and temporal field of a candidate
// reservation. tableSeats caps the guest count; pass 0 to skip the seat check
// (the caller has not resolved the table yet).
func ValidateReservation(r *models.Reservation, tableSeats int) error {
	if utf8.RuneCountInString(strings.TrimSpace(r.CustomerName)) < 2 {
		return invalid("customerName", "must be at least 2 characters")
	}
	if r.CustomerPhone == "" || !phonePattern.MatchString(r.CustomerPhone) {
		return invalid("customerPhone", "may contain only digits, spaces, +, -, parentheses")
	}
	if r.Guests < 1 || r.Guests > models.MaxGuests {
		return invalid("guests", fmt.Sprintf("must be between 1 and %d", models.MaxGuests))
	}
	if tableSeats > 0 && r.Guests > tableSeats {
		return invalid("guests", fmt.Sprintf("table seats %d, got %d guests", tableSeats, r.Guests))
	}
	if _, err := MinutesOfDay(r.Time); err != nil {
		return invalid("time", "expected HH:MM in 24-hour format")
	}
	if r.Duration <= 0 || r.Duration > models.MaxDurationHours {
		return invalid("duration", fmt.Sprintf("must be within (0, %g] hours", models.MaxDurationHours))
	}
	if r.Status != "" && !models.IsReservationStatus(r.Status) {
		return invalid("status", "unknown reservation status")
	}
	if r.Date.IsZero() {
		return invalid("date", "required")
	}
	return nil
}
