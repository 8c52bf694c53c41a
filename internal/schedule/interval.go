// Package schedule contains the pure reservation-scheduling core: time
// parsing, interval arithmetic and conflict detection. It performs no I/O;
// the database layer feeds it day buckets and persists the results.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"hostes/internal/models"
)

// timePattern matches 24-hour HH:MM wall-clock times, single-digit hour allowed.
var timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Interval is a half-open [Start, End) span in minutes since midnight.
// End may exceed 1440 when a reservation runs past midnight; that is fine as
// long as both sides of a comparison live in the same day bucket.
type Interval struct {
	Start int
	End   int
}

// MinutesOfDay converts an HH:MM string to minutes since midnight.
func MinutesOfDay(hhmm string) (int, error) {
	if !timePattern.MatchString(hhmm) {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM in 24-hour format", hhmm)
	}
	parts := strings.SplitN(hhmm, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return hour*60 + minute, nil
}

// CanonicalTime zero-pads a valid HH:MM time to two-digit hours, so "9:05"
// becomes "09:05". Stored times must be canonical or the TEXT column's
// lexical ORDER BY puts "9:00" after "21:00". Invalid input is returned
// unchanged for the validation layer to reject.
func CanonicalTime(hhmm string) string {
	minutes, err := MinutesOfDay(hhmm)
	if err != nil {
		return hhmm
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IntervalOf computes the occupied interval for a start time and duration in hours.
func IntervalOf(hhmm string, durationHours float64) (Interval, error) {
	start, err := MinutesOfDay(hhmm)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: start + int(durationHours*60)}, nil
}

// Overlaps reports whether two half-open intervals intersect. A reservation
// ending exactly when another begins does not conflict, so back-to-back
// bookings are legal.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// Conflicts returns every non-cancelled reservation whose interval overlaps
// the candidate. excludeID skips the reservation being updated so it cannot
// conflict with its own prior state. The full set is returned, not just the
// first hit, so callers can tell the user exactly which bookings block the slot.
func Conflicts(candidate Interval, excludeID string, existing []models.Reservation) []models.Reservation {
	var conflicts []models.Reservation
	for _, r := range existing {
		if r.ID == excludeID || r.Status == models.StatusCancelled {
			continue
		}
		occupied, err := IntervalOf(r.Time, r.Duration)
		if err != nil {
			// A stored reservation with an unparseable time should block the
			// slot rather than silently vanish from the check.
			conflicts = append(conflicts, r)
			continue
		}
		if Overlaps(candidate, occupied) {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts
}
