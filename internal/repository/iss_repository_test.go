package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lyra/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// In-memory база живет в рамках одного соединения
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.IssPosition{}, &models.OsdrDataset{}))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func testPosition(ts time.Time) *models.IssPosition {
	return &models.IssPosition{
		Latitude:  51.5,
		Longitude: -0.1,
		Altitude:  417.5,
		Velocity:  27580.0,
		Timestamp: ts,
		FetchedAt: ts,
	}
}

func TestIssRepositoryUpsertIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewIssRepository(db)
	ctx := context.Background()

	ts := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, testPosition(ts)))

	// Повторная запись того же момента обновляет, а не дублирует
	updated := testPosition(ts)
	updated.Latitude = 52.0
	updated.Velocity = 27600.0
	require.NoError(t, repo.Upsert(ctx, updated))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	last, err := repo.GetLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, 52.0, last.Latitude)
	assert.Equal(t, 27600.0, last.Velocity)
}

func TestIssRepositoryGetLast(t *testing.T) {
	db := newTestDB(t)
	repo := NewIssRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		pos := testPosition(base.Add(time.Duration(i) * time.Hour))
		pos.Latitude = float64(i)
		require.NoError(t, repo.Upsert(ctx, pos))
	}

	last, err := repo.GetLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, last.Latitude)
}

func TestIssRepositoryGetHistoryFiltersAndOrders(t *testing.T) {
	db := newTestDB(t)
	repo := NewIssRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Upsert(ctx, testPosition(base.AddDate(0, 0, i))))
	}

	start := base.AddDate(0, 0, 2)
	end := base.AddDate(0, 0, 5)

	history, err := repo.GetHistory(ctx, &start, &end, 100)
	require.NoError(t, err)
	require.Len(t, history, 4)

	// Свежие вперед
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i-1].Timestamp.After(history[i].Timestamp))
	}
}

func TestIssRepositoryGetHistoryLimitClamp(t *testing.T) {
	db := newTestDB(t)
	repo := NewIssRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Upsert(ctx, testPosition(base.Add(time.Duration(i)*time.Minute))))
	}

	history, err := repo.GetHistory(ctx, nil, nil, 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	// Невалидный limit откатывается к дефолту
	history, err = repo.GetHistory(ctx, nil, nil, -1)
	require.NoError(t, err)
	assert.Len(t, history, 5)
}
