package database

import (
	"errors"
	"fmt"

	"hostes/internal/models"
)

var (
	ErrHallNotFound        = errors.New("hall not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrLoginTaken          = errors.New("login already taken")
)

// ConflictError carries every reservation blocking the requested slot so the
// caller can explain exactly why the table is busy.
type ConflictError struct {
	Conflicts []models.Reservation
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 1 {
		c := e.Conflicts[0]
		return fmt.Sprintf("time slot is already reserved: %s at %s for %gh (%s)",
			c.CustomerName, c.Time, c.Duration, c.Status)
	}
	return fmt.Sprintf("time slot is already reserved: %d overlapping reservations", len(e.Conflicts))
}
