package export

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"hostes/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportReservations() []models.Reservation {
	return []models.Reservation{
		{
			ID:            "res-1",
			TableNumber:   5,
			HallID:        "hall-main",
			CustomerName:  "Иван Петров",
			CustomerPhone: "+7 900 123-45-67",
			Guests:        2,
			Date:          time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			Time:          "19:00",
			Duration:      2,
			Status:        models.StatusConfirmed,
		},
		{
			ID:           "res-2",
			TableNumber:  3,
			HallID:       "hall-main",
			CustomerName: "Мария Иванова",
			Guests:       4,
			Date:         time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC),
			Time:         "12:30",
			Duration:     1.5,
			Status:       models.StatusCancelled,
		},
	}
}

func TestReservationsToFile(t *testing.T) {
	logger := zerolog.New(io.Discard)
	exporter := NewExporter(t.TempDir(), &logger)

	start := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

	path, err := exporter.ReservationsToFile(context.Background(), exportReservations(), start, end)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Contains(t, path, "reservations_2026-09-15_to_2026-09-16.xlsx")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Бронирования"

	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Период: 15.09.2026 - 16.09.2026", title)

	firstHeader, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Дата", firstHeader)

	date, err := f.GetCellValue(sheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-15", date)

	guest, err := f.GetCellValue(sheet, "E3")
	require.NoError(t, err)
	assert.Equal(t, "Иван Петров", guest)

	status, err := f.GetCellValue(sheet, "I4")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, status)
}

func TestReservationsToFileEmptyPeriod(t *testing.T) {
	logger := zerolog.New(io.Discard)
	exporter := NewExporter(t.TempDir(), &logger)

	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	path, err := exporter.ReservationsToFile(context.Background(), nil, day, day)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// Header row is still written even with no bookings.
	header, err := f.GetCellValue("Бронирования", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Дата", header)
}
