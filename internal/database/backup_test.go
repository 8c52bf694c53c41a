package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hostes/internal/config"
	"hostes/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformBackup(t *testing.T) {
	logger := zerolog.Nop()
	dbPath := filepath.Join(t.TempDir(), "source.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)

	table := seedTable(t, db, 5)
	r := newReservation(table, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), "19:00", 2)
	require.NoError(t, db.CreateReservationChecked(context.Background(), r))
	require.NoError(t, db.Close())

	backupDir := t.TempDir()
	svc := NewBackupService(dbPath, config.BackupConfig{
		Enabled:     true,
		StoragePath: backupDir,
	}, &logger)

	require.NoError(t, svc.PerformBackup())

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// The backup is a complete database: open it and read the data back.
	restored, err := NewDB(filepath.Join(backupDir, entries[0].Name()), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { restored.Close() })

	got, err := restored.GetReservation(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, 5, got.TableNumber)
}

func TestCleanupOldBackups(t *testing.T) {
	logger := zerolog.Nop()
	backupDir := t.TempDir()

	oldFile := filepath.Join(backupDir, "backup_20200101_000000.db")
	require.NoError(t, os.WriteFile(oldFile, []byte("stale"), 0o644))
	oldTime := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

	freshFile := filepath.Join(backupDir, "backup_fresh.db")
	require.NoError(t, os.WriteFile(freshFile, []byte("fresh"), 0o644))

	svc := NewBackupService("", config.BackupConfig{
		Enabled:       true,
		RetentionDays: 14,
		StoragePath:   backupDir,
	}, &logger)

	svc.CleanupOldBackups()

	_, err := os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(freshFile)
	assert.NoError(t, err)
}

func TestCleanupSkipsWithoutRetention(t *testing.T) {
	logger := zerolog.Nop()
	backupDir := t.TempDir()

	oldFile := filepath.Join(backupDir, "backup_old.db")
	require.NoError(t, os.WriteFile(oldFile, []byte("stale"), 0o644))
	oldTime := time.Now().AddDate(0, 0, -365)
	require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

	svc := NewBackupService("", config.BackupConfig{StoragePath: backupDir}, &logger)
	svc.CleanupOldBackups()

	_, err := os.Stat(oldFile)
	assert.NoError(t, err)
}
