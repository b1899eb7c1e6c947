package stats

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewStorage(tempDir)
	require.NoError(t, err)

	t.Run("Increment", func(t *testing.T) {
		storage.Increment(Delta{
			Analyses:           1,
			AnalysisFailures:   2,
			LinkCacheHits:      3,
			LinkCacheMisses:    4,
			DefinitionLookups:  5,
			DefinitionFailures: 6,
		})
		stats := storage.GetCurrentStats()

		assert.Equal(t, 1, stats.Analyses)
		assert.Equal(t, 2, stats.AnalysisFailures)
		assert.Equal(t, 3, stats.LinkCacheHits)
		assert.Equal(t, 4, stats.LinkCacheMisses)
		assert.Equal(t, 5, stats.DefinitionLookups)
		assert.Equal(t, 6, stats.DefinitionFailures)
		assert.False(t, stats.LastUpdated.IsZero())
	})

	t.Run("Persistence", func(t *testing.T) {
		require.NoError(t, storage.save())

		storage2, err := NewStorage(tempDir)
		require.NoError(t, err)
		defer storage2.Shutdown()

		stats := storage2.GetCurrentStats()
		assert.Equal(t, 1, stats.Analyses)
		assert.Equal(t, 5, stats.DefinitionLookups)
	})

	t.Run("Cleanup", func(t *testing.T) {
		oldMonth := time.Now().AddDate(0, -2, 0).Format("2006-01")
		storage.mutex.Lock()
		storage.stats[oldMonth] = &MonthlyStats{
			Analyses:    100,
			LastUpdated: time.Now().AddDate(0, -2, 0),
		}
		storage.mutex.Unlock()

		storage.Cleanup(1)

		_, exists := storage.GetMonthlyStats(oldMonth)
		assert.False(t, exists, "old stats should have been cleaned up")
		assert.Equal(t, []string{getCurrentMonth()}, storage.GetAllMonths())
	})

	t.Run("FileSize", func(t *testing.T) {
		require.NoError(t, storage.save())

		info, err := os.Stat(filepath.Join(tempDir, "stats.json"))
		require.NoError(t, err)
		assert.Less(t, info.Size(), int64(1024))
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		before := storage.GetCurrentStats()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					storage.Increment(Delta{Analyses: 1, LinkCacheHits: 1})
					storage.GetCurrentStats()
				}
			}()
		}
		wg.Wait()

		stats := storage.GetCurrentStats()
		assert.Equal(t, before.Analyses+1000, stats.Analyses)
		assert.Equal(t, before.LinkCacheHits+1000, stats.LinkCacheHits)
	})

	t.Run("Shutdown", func(t *testing.T) {
		require.NoError(t, storage.Shutdown())
		require.NoError(t, storage.Shutdown())

		_, err := os.Stat(filepath.Join(tempDir, "stats.json"))
		assert.NoError(t, err)
	})
}

func TestGetAllMonths_NewestFirst(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	defer storage.Shutdown()

	storage.mutex.Lock()
	storage.stats["2024-01"] = &MonthlyStats{}
	storage.stats["2024-03"] = &MonthlyStats{}
	storage.stats["2023-12"] = &MonthlyStats{}
	storage.mutex.Unlock()

	assert.Equal(t, []string{"2024-03", "2024-01", "2023-12"}, storage.GetAllMonths())
}
