package service

import (
	"context"

	"hostes/internal/domain"
	"hostes/internal/models"
	"hostes/internal/schedule"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FloorService manages halls and tables. Table geometry (position, size,
// rotation, walls) is stored as-is for the floor editor; only booking-relevant
// fields are validated hard.
type FloorService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewFloorService(repo domain.Repository, logger *zerolog.Logger) *FloorService {
	return &FloorService{repo: repo, logger: logger}
}

func (s *FloorService) GetHall(ctx context.Context, id string) (*models.Hall, error) {
	return s.repo.GetHall(ctx, id)
}

func (s *FloorService) ListHalls(ctx context.Context) ([]models.Hall, error) {
	return s.repo.ListHalls(ctx)
}

func (s *FloorService) CreateHall(ctx context.Context, h *models.Hall) (*models.Hall, error) {
	if h.Name == "" {
		return nil, &schedule.ValidationError{Field: "name", Reason: "hall name is required"}
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.Walls = models.NormalizeWalls(h.Walls)

	if err := s.repo.CreateHall(ctx, h); err != nil {
		return nil, err
	}
	s.logger.Info().Str("hall_id", h.ID).Str("name", h.Name).Msg("Hall created")
	return h, nil
}

func (s *FloorService) UpdateHall(ctx context.Context, h *models.Hall) (*models.Hall, error) {
	if h.Name == "" {
		return nil, &schedule.ValidationError{Field: "name", Reason: "hall name is required"}
	}
	h.Walls = models.NormalizeWalls(h.Walls)

	if err := s.repo.UpdateHall(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *FloorService) DeleteHall(ctx context.Context, id string) error {
	return s.repo.DeleteHall(ctx, id)
}

func (s *FloorService) GetTable(ctx context.Context, id string) (*models.Table, error) {
	return s.repo.GetTable(ctx, id)
}

func (s *FloorService) ListTables(ctx context.Context, hallID string) ([]models.Table, error) {
	return s.repo.ListTables(ctx, hallID)
}

func (s *FloorService) CreateTable(ctx context.Context, t *models.Table) (*models.Table, error) {
	if err := s.validateTable(ctx, t); err != nil {
		return nil, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.TableAvailable
	}

	if err := s.repo.CreateTable(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info().Str("table_id", t.ID).Int("number", t.Number).Msg("Table created")
	return t, nil
}

// UpdateTable may renumber a table; reservations made earlier keep the
// number that was current when they were booked.
func (s *FloorService) UpdateTable(ctx context.Context, t *models.Table) (*models.Table, error) {
	if err := s.validateTable(ctx, t); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTable(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *FloorService) DeleteTable(ctx context.Context, id string) error {
	return s.repo.DeleteTable(ctx, id)
}

func (s *FloorService) validateTable(ctx context.Context, t *models.Table) error {
	if t.Number <= 0 {
		return &schedule.ValidationError{Field: "number", Reason: "table number must be positive"}
	}
	if t.Seats < 1 || t.Seats > models.MaxGuests {
		return &schedule.ValidationError{Field: "seats", Reason: "seats must be between 1 and 20"}
	}
	if t.Shape != "" && !models.IsTableShape(t.Shape) {
		return &schedule.ValidationError{Field: "shape", Reason: "unknown table shape"}
	}
	if t.Status != "" && !models.IsTableStatus(t.Status) {
		return &schedule.ValidationError{Field: "status", Reason: "unknown table status"}
	}
	if t.HallID != "" {
		if _, err := s.repo.GetHall(ctx, t.HallID); err != nil {
			return err
		}
	}
	return nil
}
