package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hostes/internal/models"
	"hostes/internal/schedule"
)

const reservationColumns = `id, table_id, table_number, hall_id, customer_name, customer_phone,
	       guests, date, time, duration, status, special_requests, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*models.Reservation, error) {
	var r models.Reservation
	var dateStr string
	var special sql.NullString
	err := row.Scan(
		&r.ID, &r.TableID, &r.TableNumber, &r.HallID, &r.CustomerName, &r.CustomerPhone,
		&r.Guests, &dateStr, &r.Time, &r.Duration, &r.Status, &special, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Date, err = time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reservation date %s: %w", dateStr, err)
	}
	r.SpecialRequests = special.String
	return &r, nil
}

func (db *DB) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	r, err := scanReservation(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return r, nil
}

// ReservationsForDay returns the non-cancelled day bucket for one table,
// ordered by start time. This backs both availability reads and the conflict
// check; both sides share the same date normalization so the bucket boundary
// cannot drift.
func (db *DB) ReservationsForDay(ctx context.Context, tableID string, day time.Time) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations
              WHERE table_id = ? AND date = ? AND status != ?
              ORDER BY time ASC`
	return db.queryReservations(ctx, query, tableID, schedule.DayKey(day), models.StatusCancelled)
}

func (db *DB) reservationsForDayTx(ctx context.Context, tx *sql.Tx, tableID, dayKey, excludeID string) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations
              WHERE table_id = ? AND date = ? AND status != ? AND id != ?
              ORDER BY time ASC`
	rows, err := tx.QueryContext(ctx, query, tableID, dayKey, models.StatusCancelled, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query day bucket in tx: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

// CreateReservationChecked runs the day-bucket query, the overlap check and
// the insert under a per-(table, day) lock and a single transaction. Two
// concurrent requests for the same slot cannot both pass the check: exactly
// one commits, the other receives *ConflictError.
func (db *DB) CreateReservationChecked(ctx context.Context, r *models.Reservation) error {
	dayKey := schedule.DayKey(r.Date)
	lock := db.slotLock(r.TableID, dayKey)
	lock.Lock()
	defer lock.Unlock()

	candidate, err := schedule.IntervalOf(r.Time, r.Duration)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	bucket, err := db.reservationsForDayTx(ctx, tx, r.TableID, dayKey, "")
	if err != nil {
		return err
	}
	if conflicts := schedule.Conflicts(candidate, "", bucket); len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}

	now := time.Now()
	query := `INSERT INTO reservations (
				id, table_id, table_number, hall_id, customer_name, customer_phone,
				guests, date, time, duration, status, special_requests, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		r.ID, r.TableID, r.TableNumber, r.HallID, r.CustomerName, r.CustomerPhone,
		r.Guests, dayKey, r.Time, r.Duration, r.Status, r.SpecialRequests, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}

	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

// UpdateReservationChecked rewrites the full row. With recheck set, the
// overlap check runs against the new table/day bucket first, excluding the
// reservation itself, under the same slot lock as creates.
func (db *DB) UpdateReservationChecked(ctx context.Context, r *models.Reservation, recheck bool) error {
	dayKey := schedule.DayKey(r.Date)

	if recheck {
		lock := db.slotLock(r.TableID, dayKey)
		lock.Lock()
		defer lock.Unlock()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if recheck {
		candidate, err := schedule.IntervalOf(r.Time, r.Duration)
		if err != nil {
			return err
		}
		bucket, err := db.reservationsForDayTx(ctx, tx, r.TableID, dayKey, r.ID)
		if err != nil {
			return err
		}
		if conflicts := schedule.Conflicts(candidate, r.ID, bucket); len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}
	}

	now := time.Now()
	query := `UPDATE reservations SET
				table_id = ?, table_number = ?, hall_id = ?, customer_name = ?, customer_phone = ?,
				guests = ?, date = ?, time = ?, duration = ?, status = ?, special_requests = ?, updated_at = ?
			  WHERE id = ?`
	result, err := tx.ExecContext(ctx, query,
		r.TableID, r.TableNumber, r.HallID, r.CustomerName, r.CustomerPhone,
		r.Guests, dayKey, r.Time, r.Duration, r.Status, r.SpecialRequests, now, r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrReservationNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation update: %w", err)
	}

	r.UpdatedAt = now
	return nil
}

// CancelReservation sets the status unconditionally; cancelling can never
// create a conflict, so no overlap check runs here.
func (db *DB) CancelReservation(ctx context.Context, id string) (*models.Reservation, error) {
	query := `UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, models.StatusCancelled, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrReservationNotFound
	}
	return db.GetReservation(ctx, id)
}

// DeleteReservation is the administrative hard-delete path. It bypasses all
// conflict machinery on purpose.
func (db *DB) DeleteReservation(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ListReservations applies the optional filters and orders by date then time.
func (db *DB) ListReservations(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	var args []any

	if !f.Date.IsZero() {
		query += ` AND date = ?`
		args = append(args, schedule.DayKey(f.Date))
	}
	if f.HallID != "" {
		query += ` AND hall_id = ?`
		args = append(args, f.HallID)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.TableID != "" {
		query += ` AND table_id = ?`
		args = append(args, f.TableID)
	}
	query += ` ORDER BY date ASC, time ASC`

	return db.queryReservations(ctx, query, args...)
}

func (db *DB) queryReservations(ctx context.Context, query string, args ...any) ([]models.Reservation, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]models.Reservation, error) {
	var out []models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
