package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hostes/internal/models"
)

const tableColumns = `id, number, seats, shape, position_x, position_y, size_width, size_height,
	       status, section, rotation, seat_configuration, hall_id, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*models.Table, error) {
	var t models.Table
	var section, seatCfg sql.NullString
	err := row.Scan(
		&t.ID, &t.Number, &t.Seats, &t.Shape, &t.Position.X, &t.Position.Y,
		&t.Size.Width, &t.Size.Height, &t.Status, &section, &t.Rotation,
		&seatCfg, &t.HallID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Section = section.String
	t.SeatConfiguration = seatCfg.String
	return &t, nil
}

func (db *DB) GetTable(ctx context.Context, id string) (*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	t, err := scanTable(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return t, nil
}

// ListTables returns tables ordered by (hall, number); hallID narrows to one hall.
func (db *DB) ListTables(ctx context.Context, hallID string) ([]models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables`
	var args []any
	if hallID != "" {
		query += ` WHERE hall_id = ?`
		args = append(args, hallID)
	}
	query += ` ORDER BY hall_id ASC, number ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var out []models.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (db *DB) CreateTable(ctx context.Context, t *models.Table) error {
	now := time.Now()
	query := `INSERT INTO tables (
				id, number, seats, shape, position_x, position_y, size_width, size_height,
				status, section, rotation, seat_configuration, hall_id, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	err := db.exec(ctx, query,
		t.ID, t.Number, t.Seats, t.Shape, t.Position.X, t.Position.Y,
		t.Size.Width, t.Size.Height, t.Status, t.Section, t.Rotation,
		t.SeatConfiguration, t.HallID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// UpdateTable rewrites the full row. Reservations keep their frozen
// table_number snapshot even when the table is renumbered here.
func (db *DB) UpdateTable(ctx context.Context, t *models.Table) error {
	now := time.Now()
	query := `UPDATE tables SET
				number = ?, seats = ?, shape = ?, position_x = ?, position_y = ?,
				size_width = ?, size_height = ?, status = ?, section = ?, rotation = ?,
				seat_configuration = ?, hall_id = ?, updated_at = ?
			  WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		t.Number, t.Seats, t.Shape, t.Position.X, t.Position.Y,
		t.Size.Width, t.Size.Height, t.Status, t.Section, t.Rotation,
		t.SeatConfiguration, t.HallID, now, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update table: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrTableNotFound
	}
	t.UpdatedAt = now
	return nil
}

func (db *DB) DeleteTable(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrTableNotFound
	}
	return nil
}
