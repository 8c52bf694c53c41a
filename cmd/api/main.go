package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hostes/internal/api"
	"hostes/internal/config"
	"hostes/internal/database"
	"hostes/internal/events"
	"hostes/internal/export"
	"hostes/internal/google"
	"hostes/internal/logging"
	"hostes/internal/metrics"
	"hostes/internal/models"
	"hostes/internal/repository"
	"hostes/internal/service"
	"hostes/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	if err := seedFloorPlan(context.Background(), db, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	cache := initAvailabilityCache(redisClient, logger)
	sheetsService := initGoogleSheets(cfg, logger)

	// Запускаем воркер синхронизации Google Sheets
	var sheetsWorker *worker.SheetsWorker
	if sheetsService != nil {
		retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
		sheetsWorker = worker.NewSheetsWorker(db, sheetsService, redisClient, retryPolicy, logger)
		go sheetsWorker.Start(ctx)
	}

	eventBus := events.NewEventBus()
	subscribeReservationEvents(ctx, eventBus, db, sheetsWorker, logger)

	reservationLogger := logging.Component(logger, "reservations")
	floorLogger := logging.Component(logger, "floor")
	userLogger := logging.Component(logger, "users")
	exportLogger := logging.Component(logger, "export")

	reservationService := service.NewReservationService(db, cache, eventBus, &reservationLogger)
	floorService := service.NewFloorService(db, &floorLogger)
	userService := service.NewUserService(db, &userLogger)
	exporter := export.NewExporter(cfg.Exports.Path, &exportLogger)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
		go backupService.Start(ctx)
	}

	startMetrics(ctx, cfg, logger)

	httpServer := api.NewHTTPServer(cfg.API, reservationService, floorService, userService, exporter, logger)
	return startServer(ctx, httpServer, logger)
}

// subscribeReservationEvents routes reservation events into the Google Sheets
// sync queue. The event payload carries a trimmed snapshot, so upserts reload
// the reservation from the database before enqueueing. Handler errors are
// logged and swallowed: a broken sheets pipeline must never fail a booking.
func subscribeReservationEvents(
	ctx context.Context,
	bus *events.EventBus,
	db *database.DB,
	sheetsWorker *worker.SheetsWorker,
	logger *zerolog.Logger,
) {
	if bus == nil || sheetsWorker == nil || db == nil {
		return
	}

	decode := func(ev *events.Event) (events.ReservationEventPayload, error) {
		var payload events.ReservationEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return payload, err
		}
		return payload, nil
	}

	upsertHandler := func(ev *events.Event) error {
		payload, err := decode(ev)
		if err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}

		reservation, err := db.GetReservation(ctx, payload.ReservationID)
		if err != nil {
			logger.Error().Err(err).Str("reservation_id", payload.ReservationID).Msg("event bus: load reservation")
			return nil
		}

		if err := sheetsWorker.EnqueueTask(ctx, worker.TaskUpsert, reservation); err != nil {
			logger.Error().Err(err).Str("reservation_id", reservation.ID).Msg("event bus: enqueue upsert")
		}
		return nil
	}

	deleteHandler := func(ev *events.Event) error {
		payload, err := decode(ev)
		if err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}

		// The row is already gone from the database; the ID alone is enough
		// to remove it from the sheet.
		if err := sheetsWorker.EnqueueTask(ctx, worker.TaskDelete, &models.Reservation{ID: payload.ReservationID}); err != nil {
			logger.Error().Err(err).Str("reservation_id", payload.ReservationID).Msg("event bus: enqueue delete")
		}
		return nil
	}

	bus.Subscribe(events.EventReservationCreated, upsertHandler)
	bus.Subscribe(events.EventReservationUpdated, upsertHandler)
	bus.Subscribe(events.EventReservationCancelled, upsertHandler)
	bus.Subscribe(events.EventReservationCompleted, upsertHandler)
	bus.Subscribe(events.EventReservationDeleted, deleteHandler)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, &logger, closer, nil
}

// seedFloorPlan loads the initial halls and tables from configs/floorplan.yaml
// on an empty database. An existing layout is never overwritten.
func seedFloorPlan(ctx context.Context, db *database.DB, logger *zerolog.Logger) error {
	halls, err := db.ListHalls(ctx)
	if err != nil {
		return err
	}
	if len(halls) > 0 {
		return nil
	}

	planPath := os.Getenv("FLOORPLAN_PATH")
	if planPath == "" {
		planPath = "configs/floorplan.yaml"
	}
	data, err := os.ReadFile(planPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("floorplan_path", planPath).Msg("no floor plan file, starting with empty layout")
			return nil
		}
		return err
	}

	var plan struct {
		Halls []models.Hall `yaml:"halls"`
	}
	if err := yaml.Unmarshal(data, &plan); err != nil {
		logger.Error().Err(err).Str("floorplan_path", planPath).Msg("parse floor plan")
		return err
	}

	for i := range plan.Halls {
		hall := plan.Halls[i]
		tables := hall.Tables
		hall.Tables = nil
		hall.Walls = models.NormalizeWalls(hall.Walls)

		if err := db.CreateHall(ctx, &hall); err != nil {
			return err
		}
		for j := range tables {
			tables[j].HallID = hall.ID
			if err := db.CreateTable(ctx, &tables[j]); err != nil {
				return err
			}
		}
	}

	logger.Info().Int("halls", len(plan.Halls)).Msg("Floor plan seeded")
	return nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initAvailabilityCache(redisClient *redis.Client, logger *zerolog.Logger) *repository.FailoverAvailabilityCache {
	ttl := models.AvailabilityCacheTTL * time.Second
	memory := repository.NewMemoryAvailabilityCache(ttl)
	if redisClient == nil {
		return repository.NewFailoverAvailabilityCache(memory, memory, logger)
	}
	primary := repository.NewRedisAvailabilityCache(redisClient, ttl)
	return repository.NewFailoverAvailabilityCache(primary, memory, logger)
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.GoogleCredentialsFile == "" || cfg.Google.ScheduleSpreadSheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(
		cfg.Google.GoogleCredentialsFile,
		cfg.Google.ScheduleSpreadSheetID,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
