package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB wraps the SQLite store for halls, tables, reservations and users.
// slotLocks serializes the check-then-insert critical section per
// (tableID, day); see CreateReservationChecked.
type DB struct {
	*sql.DB
	logger    *zerolog.Logger
	slotLocks sync.Map // map[string]*sync.Mutex, key "tableID|YYYY-MM-DD"
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(sqlDB); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("База данных инициализирована")
	return &DB{DB: sqlDB, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS halls (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            width REAL NOT NULL,
            height REAL NOT NULL,
            pixel_ratio REAL NOT NULL DEFAULT 50,
            sections TEXT NOT NULL DEFAULT '[]',
            walls TEXT NOT NULL DEFAULT '[]',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS tables (
            id TEXT PRIMARY KEY,
            number INTEGER NOT NULL,
            seats INTEGER NOT NULL,
            shape TEXT NOT NULL DEFAULT 'rectangle',
            position_x REAL NOT NULL DEFAULT 0,
            position_y REAL NOT NULL DEFAULT 0,
            size_width REAL NOT NULL DEFAULT 1,
            size_height REAL NOT NULL DEFAULT 1,
            status TEXT NOT NULL DEFAULT 'available',
            section TEXT,
            rotation REAL NOT NULL DEFAULT 0,
            seat_configuration TEXT,
            hall_id TEXT NOT NULL REFERENCES halls(id),
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS reservations (
            id TEXT PRIMARY KEY,
            table_id TEXT NOT NULL REFERENCES tables(id),
            table_number INTEGER NOT NULL,
            hall_id TEXT NOT NULL,
            customer_name TEXT NOT NULL,
            customer_phone TEXT NOT NULL,
            guests INTEGER NOT NULL,
            date TEXT NOT NULL,
            time TEXT NOT NULL,
            duration REAL NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            special_requests TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            login TEXT UNIQUE NOT NULL,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'hostess',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS sync_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            task_type TEXT NOT NULL,
            reservation_id TEXT NOT NULL,
            payload TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            processed_at DATETIME,
            next_retry_at DATETIME
        )`,

		`CREATE INDEX IF NOT EXISTS idx_tables_hall_id ON tables(hall_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_table_date ON reservations(table_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations(date)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_hall_id ON reservations(hall_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_queue_status ON sync_queue(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// slotLock returns the mutex guarding one table/day pair. Locks are never
// removed; the key space is small (tables x recently touched days).
func (db *DB) slotLock(tableID, dayKey string) *sync.Mutex {
	key := tableID + "|" + dayKey
	if v, ok := db.slotLocks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	v, _ := db.slotLocks.LoadOrStore(key, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (db *DB) exec(ctx context.Context, query string, args ...any) error {
	_, err := db.ExecContext(ctx, query, args...)
	return err
}

func (db *DB) Close() error {
	return db.DB.Close()
}
