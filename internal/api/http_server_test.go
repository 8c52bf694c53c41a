package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"hostes/internal/config"
	"hostes/internal/database"
	"hostes/internal/events"
	"hostes/internal/export"
	"hostes/internal/models"
	"hostes/internal/repository"
	"hostes/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(path, &logger)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestHTTPServer(t *testing.T, db *database.DB) *HTTPServer {
	t.Helper()
	cfg := config.APIConfig{
		Enabled: true,
		Port:    0,
		Auth:    config.APIAuthConfig{Enabled: false},
	}
	return newTestHTTPServerWithConfig(t, db, cfg)
}

func newTestHTTPServerWithConfig(t *testing.T, db *database.DB, cfg config.APIConfig) *HTTPServer {
	t.Helper()
	logger := zerolog.New(io.Discard)
	cache := repository.NewMemoryAvailabilityCache(models.AvailabilityCacheTTL * time.Second)
	reservations := service.NewReservationService(db, cache, events.NewEventBus(), &logger)
	floor := service.NewFloorService(db, &logger)
	users := service.NewUserService(db, &logger)
	exporter := export.NewExporter(t.TempDir(), &logger)
	return NewHTTPServer(cfg, reservations, floor, users, exporter, &logger)
}

func createTestTable(t *testing.T, db *database.DB, number int) models.Table {
	t.Helper()
	ctx := context.Background()
	hall := models.Hall{ID: fmt.Sprintf("hall-%d", number), Name: "Основной зал", Width: 20, Height: 10}
	if err := db.CreateHall(ctx, &hall); err != nil {
		t.Fatalf("create hall: %v", err)
	}
	table := models.Table{
		ID:     fmt.Sprintf("table-%d", number),
		Number: number,
		Seats:  4,
		Shape:  "rectangle",
		Status: models.TableAvailable,
		HallID: hall.ID,
	}
	if err := db.CreateTable(ctx, &table); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return table
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func reservationBody(tableID string) map[string]any {
	return map[string]any{
		"tableId":       tableID,
		"customerName":  "Иван Петров",
		"customerPhone": "+7 900 123-45-67",
		"guests":        2,
		"date":          "2026-09-15",
		"time":          "19:00",
		"duration":      2,
	}
}

func TestCreateReservationHTTP(t *testing.T) {
	db := newTestDB(t)
	table := createTestTable(t, db, 5)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp := postJSON(t, ts.URL+"/api/v1/reservations", reservationBody(table.ID))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var created models.Reservation
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.TableNumber != 5 {
		t.Fatalf("expected frozen table number 5, got %d", created.TableNumber)
	}
	if created.Status != models.StatusPending {
		t.Fatalf("expected default status pending, got %s", created.Status)
	}
	if created.HallID != table.HallID {
		t.Fatalf("expected hall inherited from table, got %q", created.HallID)
	}
}

func TestCreateReservationConflictHTTP(t *testing.T) {
	db := newTestDB(t)
	table := createTestTable(t, db, 5)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp1 := postJSON(t, ts.URL+"/api/v1/reservations", reservationBody(table.ID))
	resp1.Body.Close()
	if resp1.StatusCode != http.StatusCreated {
		t.Fatalf("first booking: unexpected status %d", resp1.StatusCode)
	}

	overlap := reservationBody(table.ID)
	overlap["time"] = "20:00"
	resp2 := postJSON(t, ts.URL+"/api/v1/reservations", overlap)
	defer resp2.Body.Close()

	if resp2.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp2.StatusCode)
	}

	var body struct {
		Error     string               `json:"error"`
		Conflicts []models.Reservation `json:"conflicts"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Conflicts) != 1 {
		t.Fatalf("expected 1 conflicting reservation, got %d", len(body.Conflicts))
	}
	if body.Conflicts[0].Time != "19:00" {
		t.Fatalf("expected conflict at 19:00, got %s", body.Conflicts[0].Time)
	}
}

func TestCreateReservationErrorsHTTP(t *testing.T) {
	db := newTestDB(t)
	table := createTestTable(t, db, 5)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	t.Run("UnknownTable", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/v1/reservations", reservationBody("ghost"))
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("BadDate", func(t *testing.T) {
		body := reservationBody(table.ID)
		body["date"] = "15.09.2026"
		resp := postJSON(t, ts.URL+"/api/v1/reservations", body)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("TooManyGuests", func(t *testing.T) {
		body := reservationBody(table.ID)
		body["guests"] = 10
		resp := postJSON(t, ts.URL+"/api/v1/reservations", body)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/v1/reservations", "application/json", bytes.NewReader([]byte("{not json")))
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestCancelAndRebookHTTP(t *testing.T) {
	db := newTestDB(t)
	table := createTestTable(t, db, 5)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp := postJSON(t, ts.URL+"/api/v1/reservations", reservationBody(table.ID))
	var created models.Reservation
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()

	cancelResp, err := http.Post(ts.URL+"/api/v1/reservations/"+created.ID+"/cancel", "application/json", http.NoBody)
	if err != nil {
		t.Fatalf("cancel request: %v", err)
	}
	defer cancelResp.Body.Close()
	if cancelResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", cancelResp.StatusCode)
	}
	var cancelled models.Reservation
	if err := json.NewDecoder(cancelResp.Body).Decode(&cancelled); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	// Cancelled slot no longer blocks the same time.
	rebook := postJSON(t, ts.URL+"/api/v1/reservations", reservationBody(table.ID))
	defer rebook.Body.Close()
	if rebook.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 after cancel, got %d", rebook.StatusCode)
	}
}

func TestUpdateReservationHTTP(t *testing.T) {
	db := newTestDB(t)
	table := createTestTable(t, db, 5)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp := postJSON(t, ts.URL+"/api/v1/reservations", reservationBody(table.ID))
	var created models.Reservation
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()

	t.Run("RenameGuest", func(t *testing.T) {
		patch, _ := json.Marshal(map[string]any{"customerName": "Мария Иванова"})
		req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/api/v1/reservations/"+created.ID, bytes.NewReader(patch))
		resp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var updated models.Reservation
		if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if updated.CustomerName != "Мария Иванова" {
			t.Errorf("expected renamed guest, got %s", updated.CustomerName)
		}
	})

	t.Run("MoveIntoOccupiedSlot", func(t *testing.T) {
		second := reservationBody(table.ID)
		second["time"] = "13:00"
		resp := postJSON(t, ts.URL+"/api/v1/reservations", second)
		var other models.Reservation
		if err := json.NewDecoder(resp.Body).Decode(&other); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		resp.Body.Close()

		patch, _ := json.Marshal(map[string]any{"time": "19:30"})
		req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/api/v1/reservations/"+other.ID, bytes.NewReader(patch))
		patchResp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		defer patchResp.Body.Close()
		if patchResp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", patchResp.StatusCode)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		patch, _ := json.Marshal(map[string]any{"time": "18:00"})
		req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/api/v1/reservations/ghost", bytes.NewReader(patch))
		resp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestDeleteReservationHTTP(t *testing.T) {
	db := newTestDB(t)
	table := createTestTable(t, db, 5)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp := postJSON(t, ts.URL+"/api/v1/reservations", reservationBody(table.ID))
	var created models.Reservation
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/reservations/"+created.ID, http.NoBody)
	delResp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", delResp.StatusCode)
	}

	getResp, err := http.Get(ts.URL + "/api/v1/reservations/" + created.ID)
	assert.NoError(t, err)
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", getResp.StatusCode)
	}
}

func TestAvailabilityHTTP(t *testing.T) {
	db := newTestDB(t)
	table := createTestTable(t, db, 5)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp := postJSON(t, ts.URL+"/api/v1/reservations", reservationBody(table.ID))
	resp.Body.Close()

	url := fmt.Sprintf("%s/api/v1/availability/%s?date=2026-09-15", ts.URL, table.ID)
	availResp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer availResp.Body.Close()

	if availResp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", availResp.StatusCode)
	}

	var body struct {
		TableID      string               `json:"tableId"`
		Date         string               `json:"date"`
		Reservations []models.Reservation `json:"reservations"`
	}
	if err := json.NewDecoder(availResp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Date != "2026-09-15" {
		t.Errorf("expected date 2026-09-15, got %s", body.Date)
	}
	if len(body.Reservations) != 1 {
		t.Fatalf("expected 1 reservation in bucket, got %d", len(body.Reservations))
	}

	t.Run("EmptyDayIsEmptyList", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/api/v1/availability/%s?date=2026-09-16", ts.URL, table.ID))
		assert.NoError(t, err)
		defer resp.Body.Close()
		var body struct {
			Reservations []models.Reservation `json:"reservations"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Reservations == nil || len(body.Reservations) != 0 {
			t.Errorf("expected empty list, got %v", body.Reservations)
		}
	})

	t.Run("MissingDate", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/availability/" + table.ID)
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("UnknownTable", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/availability/ghost?date=2026-09-15")
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestListReservationsHTTP(t *testing.T) {
	db := newTestDB(t)
	table := createTestTable(t, db, 5)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	first := reservationBody(table.ID)
	resp := postJSON(t, ts.URL+"/api/v1/reservations", first)
	resp.Body.Close()

	second := reservationBody(table.ID)
	second["date"] = "2026-09-16"
	resp = postJSON(t, ts.URL+"/api/v1/reservations", second)
	resp.Body.Close()

	listResp, err := http.Get(ts.URL + "/api/v1/reservations?date=2026-09-15")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer listResp.Body.Close()

	var body struct {
		Reservations []models.Reservation `json:"reservations"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Reservations) != 1 {
		t.Fatalf("expected 1 reservation for the day, got %d", len(body.Reservations))
	}

	t.Run("UnknownStatusFilter", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/reservations?status=archived")
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestFloorEndpoints(t *testing.T) {
	db := newTestDB(t)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp := postJSON(t, ts.URL+"/api/v1/halls", map[string]any{
		"name":   "Терраса",
		"width":  15,
		"height": 8,
		"walls":  []map[string]any{{"id": "w1", "start": map[string]float64{"x": 0, "y": 0}, "end": map[string]float64{"x": 15, "y": 0}}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create hall: unexpected status %d", resp.StatusCode)
	}
	var hall models.Hall
	if err := json.NewDecoder(resp.Body).Decode(&hall); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()
	if len(hall.Walls) != 1 || hall.Walls[0].Type != "wall" {
		t.Fatalf("expected wall type defaulted, got %+v", hall.Walls)
	}

	resp = postJSON(t, ts.URL+"/api/v1/tables", map[string]any{
		"number": 7,
		"seats":  2,
		"shape":  "circle",
		"hallId": hall.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create table: unexpected status %d", resp.StatusCode)
	}
	var table models.Table
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()
	if table.Status != models.TableAvailable {
		t.Errorf("expected default status available, got %s", table.Status)
	}

	t.Run("ListTablesByHall", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/tables?hallId=" + hall.ID)
		assert.NoError(t, err)
		defer resp.Body.Close()
		var body struct {
			Tables []models.Table `json:"tables"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(body.Tables) != 1 {
			t.Errorf("expected 1 table, got %d", len(body.Tables))
		}
	})

	t.Run("TableInUnknownHall", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/v1/tables", map[string]any{"number": 8, "seats": 2, "hallId": "ghost"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("HallNotFound", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/halls/ghost")
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestUsersAndLoginHTTP(t *testing.T) {
	db := newTestDB(t)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp := postJSON(t, ts.URL+"/api/v1/users", map[string]any{
		"name":     "Ольга",
		"login":    "olga",
		"password": "secret",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user: unexpected status %d", resp.StatusCode)
	}
	var created models.User
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()
	if created.Role != models.RoleHostess {
		t.Errorf("expected default role hostess, got %s", created.Role)
	}

	t.Run("LoginSuccess", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/v1/auth/login", map[string]any{"login": "olga", "password": "secret"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/v1/auth/login", map[string]any{"login": "olga", "password": "wrong"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("DuplicateLogin", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/v1/users", map[string]any{"name": "Другая", "login": "olga", "password": "x"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", resp.StatusCode)
		}
	})
}

func TestHealth(t *testing.T) {
	db := newTestDB(t)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestAuthHTTP(t *testing.T) {
	db := newTestDB(t)
	table := createTestTable(t, db, 5)
	cfg := config.APIConfig{
		Enabled: true,
		Port:    0,
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "x-api-key",
			APIKeys: []config.APIClientKey{
				{Key: "valid-key", Name: "frontend", Permissions: []string{"read:reservations"}},
			},
		},
	}
	server := newTestHTTPServerWithConfig(t, db, cfg)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	t.Run("MissingKey", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/reservations")
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("InvalidKey", func(t *testing.T) {
		req, _ := http.NewRequest("GET", ts.URL+"/api/v1/reservations", http.NoBody)
		req.Header.Set("x-api-key", "wrong")
		resp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("ValidKey", func(t *testing.T) {
		req, _ := http.NewRequest("GET", ts.URL+"/api/v1/reservations", http.NoBody)
		req.Header.Set("x-api-key", "valid-key")
		resp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("WrongPermission", func(t *testing.T) {
		req, _ := http.NewRequest("GET", ts.URL+"/api/v1/availability/"+table.ID+"?date=2026-09-15", http.NoBody)
		req.Header.Set("x-api-key", "valid-key")
		resp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("LoginIsPublic", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/v1/auth/login", map[string]any{"login": "x", "password": "y"})
		defer resp.Body.Close()
		// 401 for bad credentials, not for a missing api key.
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestRateLimitHTTP(t *testing.T) {
	db := newTestDB(t)
	cfg := config.APIConfig{
		Enabled:   true,
		Port:      0,
		Auth:      config.APIAuthConfig{Enabled: false},
		RateLimit: config.APIRateLimitConfig{RPS: 1, Burst: 1},
	}
	server := newTestHTTPServerWithConfig(t, db, cfg)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp1, err := http.Get(ts.URL + "/api/v1/reservations")
	if err != nil {
		t.Fatalf("request 1 failed: %v", err)
	}
	defer resp1.Body.Close()
	if resp1.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp1.StatusCode)
	}

	resp2, err := http.Get(ts.URL + "/api/v1/reservations")
	if err != nil {
		t.Fatalf("request 2 failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", resp2.StatusCode)
	}
}

func TestExportReservationsHTTP(t *testing.T) {
	db := newTestDB(t)
	table := createTestTable(t, db, 5)
	server := newTestHTTPServer(t, db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)

	resp := postJSON(t, ts.URL+"/api/v1/reservations", reservationBody(table.ID))
	resp.Body.Close()

	exportResp, err := http.Get(ts.URL + "/api/v1/exports/reservations?from=2026-09-15&to=2026-09-16")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer exportResp.Body.Close()

	if exportResp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", exportResp.StatusCode)
	}
	if ct := exportResp.Header.Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	data, err := io.ReadAll(exportResp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(data) == 0 {
		t.Errorf("expected non-empty xlsx body")
	}

	t.Run("BackwardRange", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/exports/reservations?from=2026-09-16&to=2026-09-15")
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("MissingRange", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/exports/reservations")
		assert.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestHTTPServerShutdown(t *testing.T) {
	db := newTestDB(t)
	server := newTestHTTPServer(t, db)
	if err := server.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown unstarted server: %v", err)
	}
}
