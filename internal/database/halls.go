package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hostes/internal/models"
)

func scanHall(row interface{ Scan(...any) error }) (*models.Hall, error) {
	var h models.Hall
	var sections, walls string
	err := row.Scan(&h.ID, &h.Name, &h.Width, &h.Height, &h.PixelRatio,
		&sections, &walls, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sections), &h.Sections); err != nil {
		return nil, fmt.Errorf("failed to decode hall sections: %w", err)
	}
	if err := json.Unmarshal([]byte(walls), &h.Walls); err != nil {
		return nil, fmt.Errorf("failed to decode hall walls: %w", err)
	}
	h.Walls = models.NormalizeWalls(h.Walls)
	return &h, nil
}

func (db *DB) GetHall(ctx context.Context, id string) (*models.Hall, error) {
	query := `SELECT id, name, width, height, pixel_ratio, sections, walls, created_at, updated_at
              FROM halls WHERE id = ?`
	h, err := scanHall(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHallNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hall: %w", err)
	}
	return h, nil
}

func (db *DB) ListHalls(ctx context.Context) ([]models.Hall, error) {
	query := `SELECT id, name, width, height, pixel_ratio, sections, walls, created_at, updated_at
              FROM halls ORDER BY created_at ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list halls: %w", err)
	}
	defer rows.Close()

	var out []models.Hall
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hall: %w", err)
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func (db *DB) CreateHall(ctx context.Context, h *models.Hall) error {
	sections, err := encodeDoc(h.Sections)
	if err != nil {
		return fmt.Errorf("failed to encode hall sections: %w", err)
	}
	walls, err := encodeDoc(models.NormalizeWalls(h.Walls))
	if err != nil {
		return fmt.Errorf("failed to encode hall walls: %w", err)
	}

	now := time.Now()
	query := `INSERT INTO halls (id, name, width, height, pixel_ratio, sections, walls, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if err := db.exec(ctx, query, h.ID, h.Name, h.Width, h.Height, h.PixelRatio, sections, walls, now, now); err != nil {
		return fmt.Errorf("failed to create hall: %w", err)
	}
	h.CreatedAt = now
	h.UpdatedAt = now
	return nil
}

func (db *DB) UpdateHall(ctx context.Context, h *models.Hall) error {
	sections, err := encodeDoc(h.Sections)
	if err != nil {
		return fmt.Errorf("failed to encode hall sections: %w", err)
	}
	walls, err := encodeDoc(models.NormalizeWalls(h.Walls))
	if err != nil {
		return fmt.Errorf("failed to encode hall walls: %w", err)
	}

	now := time.Now()
	query := `UPDATE halls SET name = ?, width = ?, height = ?, pixel_ratio = ?, sections = ?, walls = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, h.Name, h.Width, h.Height, h.PixelRatio, sections, walls, now, h.ID)
	if err != nil {
		return fmt.Errorf("failed to update hall: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrHallNotFound
	}
	h.UpdatedAt = now
	return nil
}

func (db *DB) DeleteHall(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM halls WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hall: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrHallNotFound
	}
	return nil
}

// encodeDoc keeps geometry documents as JSON text; nil slices become "[]".
func encodeDoc(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	s := string(raw)
	if s == "null" {
		s = "[]"
	}
	return s, nil
}
