package domain

import (
	"context"
	"time"

	"hostes/internal/models"
)

// Repository is the persistence contract consumed by the service layer.
// The SQLite implementation lives in internal/database.
type Repository interface {
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	CreateReservationChecked(ctx context.Context, r *models.Reservation) error
	UpdateReservationChecked(ctx context.Context, r *models.Reservation, recheck bool) error
	CancelReservation(ctx context.Context, id string) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	ListReservations(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error)
	ReservationsForDay(ctx context.Context, tableID string, day time.Time) ([]models.Reservation, error)

	GetTable(ctx context.Context, id string) (*models.Table, error)
	ListTables(ctx context.Context, hallID string) ([]models.Table, error)
	CreateTable(ctx context.Context, t *models.Table) error
	UpdateTable(ctx context.Context, t *models.Table) error
	DeleteTable(ctx context.Context, id string) error

	GetHall(ctx context.Context, id string) (*models.Hall, error)
	ListHalls(ctx context.Context) ([]models.Hall, error)
	CreateHall(ctx context.Context, h *models.Hall) error
	UpdateHall(ctx context.Context, h *models.Hall) error
	DeleteHall(ctx context.Context, id string) error

	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// AvailabilityCache caches day buckets on the read path. The write path never
// consults it; conflict checks always hit the store.
type AvailabilityCache interface {
	GetDay(ctx context.Context, tableID string, day time.Time) ([]models.Reservation, bool, error)
	SetDay(ctx context.Context, tableID string, day time.Time, bucket []models.Reservation) error
	InvalidateDay(ctx context.Context, tableID string, day time.Time) error
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SheetsWriter pushes reservation data to the Google Sheets schedule.
type SheetsWriter interface {
	UpsertReservation(ctx context.Context, r *models.Reservation) error
	DeleteReservationRow(ctx context.Context, reservationID string) error
	ReplaceScheduleSheet(ctx context.Context, day time.Time, reservations []models.Reservation) error
}
