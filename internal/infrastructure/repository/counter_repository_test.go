package repository_test

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	infraRepo "github.com/bizfolio/bizfolio-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openCounterDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "counters.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.DocumentCounter{}))
	return db
}

func TestCounterNext_ConcurrentCallersGetDistinctValues(t *testing.T) {
	repo := infraRepo.NewCounterRepository(openCounterDB(t))
	ctx := context.Background()

	const callers = 25
	values := make(chan int64, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Next(ctx, "INV", "202608")
			assert.NoError(t, err)
			values <- v
		}()
	}
	wg.Wait()
	close(values)

	got := make([]int64, 0, callers)
	for v := range values {
		got = append(got, v)
	}
	require.Len(t, got, callers)

	// Every caller saw its own value: the full set is 1..callers with no
	// duplicates and no holes
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, v := range got {
		require.Equal(t, int64(i+1), v, "values must be distinct and contiguous: %v", got)
	}
}

func TestCounterNext_PeriodsCountIndependently(t *testing.T) {
	repo := infraRepo.NewCounterRepository(openCounterDB(t))
	ctx := context.Background()

	first, err := repo.Next(ctx, "INV", "202608")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := repo.Next(ctx, "INV", "202608")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)

	// A new month and a different document type both start fresh
	nextMonth, err := repo.Next(ctx, "INV", "202609")
	require.NoError(t, err)
	assert.Equal(t, int64(1), nextMonth)

	otherType, err := repo.Next(ctx, "QT", "202608")
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherType)
}
