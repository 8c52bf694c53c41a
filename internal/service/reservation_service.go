package service

import (
	"context"
	"errors"
	"time"

	"hostes/internal/database"
	"hostes/internal/domain"
	"hostes/internal/events"
	"hostes/internal/metrics"
	"hostes/internal/models"
	"hostes/internal/schedule"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CreateReservationInput carries the raw booking request. Date is the
// client-supplied string; it is normalized here so the write path and the
// availability read path share one day-bucket boundary.
type CreateReservationInput struct {
	TableID         string
	HallID          string
	CustomerName    string
	CustomerPhone   string
	Guests          int
	Date            string
	Time            string
	Duration        float64
	Status          string
	SpecialRequests string
}

type ReservationService struct {
	repo     domain.Repository
	cache    domain.AvailabilityCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewReservationService(repo domain.Repository, cache domain.AvailabilityCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReservationService {
	return &ReservationService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateReservation runs the full booking pipeline: table lookup, date
// normalization, field validation, then the conflict-checked insert. The
// table number is frozen onto the reservation at this point and survives
// later renumbering of the table.
func (s *ReservationService) CreateReservation(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	table, err := s.repo.GetTable(ctx, in.TableID)
	if err != nil {
		return nil, err
	}

	day, err := schedule.ParseDate(in.Date)
	if err != nil {
		return nil, &schedule.ValidationError{Field: "date", Reason: err.Error()}
	}

	r := &models.Reservation{
		ID:              uuid.NewString(),
		TableID:         table.ID,
		TableNumber:     table.Number,
		HallID:          in.HallID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		Guests:          in.Guests,
		Date:            day,
		Time:            schedule.CanonicalTime(in.Time),
		Duration:        in.Duration,
		Status:          in.Status,
		SpecialRequests: in.SpecialRequests,
	}
	if r.HallID == "" {
		r.HallID = table.HallID
	}
	if r.Status == "" {
		r.Status = models.StatusPending
	}

	if err := schedule.ValidateReservation(r, table.Seats); err != nil {
		return nil, err
	}

	if err := s.repo.CreateReservationChecked(ctx, r); err != nil {
		var conflict *database.ConflictError
		if errors.As(err, &conflict) {
			metrics.IncConflict()
			s.logger.Info().
				Str("table_id", r.TableID).
				Str("date", schedule.DayKey(r.Date)).
				Str("time", r.Time).
				Int("conflicts", len(conflict.Conflicts)).
				Msg("Reservation rejected: slot already taken")
		}
		return nil, err
	}

	metrics.IncReservationCreated(r.Status)
	s.invalidateDay(ctx, r.TableID, r.Date)
	s.publishEvent(events.EventReservationCreated, r)

	s.logger.Info().Str("reservation_id", r.ID).Int("table_number", r.TableNumber).Msg("Reservation created")
	return r, nil
}

// UpdateReservation applies a partial update. The overlap check re-runs
// (excluding the reservation itself) only when the new status is not
// cancelled and any of table, date, time or duration changed; editing party
// fields alone can never produce a false conflict.
func (s *ReservationService) UpdateReservation(ctx context.Context, id string, patch models.ReservationPatch) (*models.Reservation, error) {
	existing, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	oldTableID, oldDay := existing.TableID, existing.Date

	table, err := s.applyPatch(ctx, &updated, patch)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		if !models.IsReservationStatus(*patch.Status) {
			return nil, &schedule.ValidationError{Field: "status", Reason: "unknown reservation status"}
		}
		if !models.CanTransition(existing.Status, *patch.Status) {
			return nil, &schedule.ValidationError{
				Field:  "status",
				Reason: existing.Status + " reservations cannot become " + *patch.Status,
			}
		}
		updated.Status = *patch.Status
	}

	if err := schedule.ValidateReservation(&updated, table.Seats); err != nil {
		return nil, err
	}

	slotChanged := updated.TableID != existing.TableID ||
		!schedule.SameDay(updated.Date, existing.Date) ||
		updated.Time != existing.Time ||
		updated.Duration != existing.Duration
	recheck := updated.Status != models.StatusCancelled && slotChanged

	if err := s.repo.UpdateReservationChecked(ctx, &updated, recheck); err != nil {
		var conflict *database.ConflictError
		if errors.As(err, &conflict) {
			metrics.IncConflict()
		}
		return nil, err
	}

	s.invalidateDay(ctx, oldTableID, oldDay)
	s.invalidateDay(ctx, updated.TableID, updated.Date)

	eventType := events.EventReservationUpdated
	switch updated.Status {
	case models.StatusCancelled:
		eventType = events.EventReservationCancelled
	case models.StatusCompleted:
		if existing.Status != models.StatusCompleted {
			eventType = events.EventReservationCompleted
		}
	}
	s.publishEvent(eventType, &updated)

	return &updated, nil
}

// applyPatch merges non-nil fields into the working copy and resolves the
// owning table, refreezing the table number on a table change.
func (s *ReservationService) applyPatch(ctx context.Context, r *models.Reservation, patch models.ReservationPatch) (*models.Table, error) {
	if patch.TableID != nil && *patch.TableID != r.TableID {
		table, err := s.repo.GetTable(ctx, *patch.TableID)
		if err != nil {
			return nil, err
		}
		r.TableID = table.ID
		r.TableNumber = table.Number
	}

	table, err := s.repo.GetTable(ctx, r.TableID)
	if err != nil {
		return nil, err
	}

	if patch.HallID != nil {
		r.HallID = *patch.HallID
	}
	if patch.CustomerName != nil {
		r.CustomerName = *patch.CustomerName
	}
	if patch.CustomerPhone != nil {
		r.CustomerPhone = *patch.CustomerPhone
	}
	if patch.Guests != nil {
		r.Guests = *patch.Guests
	}
	if patch.Date != nil {
		day, err := schedule.ParseDate(*patch.Date)
		if err != nil {
			return nil, &schedule.ValidationError{Field: "date", Reason: err.Error()}
		}
		r.Date = day
	}
	if patch.Time != nil {
		r.Time = schedule.CanonicalTime(*patch.Time)
	}
	if patch.Duration != nil {
		r.Duration = *patch.Duration
	}
	if patch.SpecialRequests != nil {
		r.SpecialRequests = *patch.SpecialRequests
	}

	return table, nil
}

// CancelReservation frees the slot unconditionally; a cancellation can never
// create a conflict, so no overlap check runs.
func (s *ReservationService) CancelReservation(ctx context.Context, id string) (*models.Reservation, error) {
	r, err := s.repo.CancelReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateDay(ctx, r.TableID, r.Date)
	s.publishEvent(events.EventReservationCancelled, r)

	s.logger.Info().Str("reservation_id", id).Msg("Reservation cancelled")
	return r, nil
}

// DeleteReservation is the administrative hard-delete; it bypasses the
// conflict machinery entirely.
func (s *ReservationService) DeleteReservation(ctx context.Context, id string) error {
	r, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteReservation(ctx, id); err != nil {
		return err
	}

	s.invalidateDay(ctx, r.TableID, r.Date)
	s.publishEvent(events.EventReservationDeleted, r)
	return nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}

func (s *ReservationService) ListReservations(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error) {
	return s.repo.ListReservations(ctx, f)
}

// CheckAvailability returns the non-cancelled day bucket for a table, time
// ascending. Reads go through the availability cache when one is configured;
// the conflict-checking write path never does.
func (s *ReservationService) CheckAvailability(ctx context.Context, tableID string, day time.Time) ([]models.Reservation, error) {
	if _, err := s.repo.GetTable(ctx, tableID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if bucket, ok, err := s.cache.GetDay(ctx, tableID, day); err == nil && ok {
			return bucket, nil
		}
	}

	bucket, err := s.repo.ReservationsForDay(ctx, tableID, day)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDay(ctx, tableID, day, bucket); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache availability")
		}
	}
	return bucket, nil
}

func (s *ReservationService) invalidateDay(ctx context.Context, tableID string, day time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDay(ctx, tableID, day); err != nil {
		s.logger.Warn().Err(err).Str("table_id", tableID).Msg("Failed to invalidate availability cache")
	}
}

func (s *ReservationService) publishEvent(eventType string, r *models.Reservation) {
	if s.eventBus == nil {
		return
	}
	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		TableID:       r.TableID,
		TableNumber:   r.TableNumber,
		HallID:        r.HallID,
		CustomerName:  r.CustomerName,
		Status:        r.Status,
		Date:          r.Date,
		Time:          r.Time,
		Duration:      r.Duration,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}
