package repository

import (
	"context"
	"testing"
	"time"

	"prokatnik/internal/domain"
	"prokatnik/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummaries(now time.Time) *domain.ItemSummaries {
	return &domain.ItemSummaries{
		Next: &models.BookingSummary{ID: 2, BookerID: 5, Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)},
		Last: &models.BookingSummary{ID: 1, BookerID: 5, Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour)},
	}
}

func TestRedisSummaryCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	cache := NewRedisSummaryCache(client, time.Hour)
	ctx := context.Background()
	now := time.Now()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, cache.SetItemSummaries(ctx, 7, testSummaries(now)))

		got, err := cache.GetItemSummaries(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.Next)
		assert.Equal(t, int64(2), got.Next.ID)
		require.NotNil(t, got.Last)
		assert.Equal(t, int64(1), got.Last.ID)
	})

	t.Run("MissIsNilNil", func(t *testing.T) {
		got, err := cache.GetItemSummaries(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, cache.SetItemSummaries(ctx, 8, testSummaries(now)))
		require.NoError(t, cache.InvalidateItem(ctx, 8))

		got, err := cache.GetItemSummaries(ctx, 8)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		require.NoError(t, cache.SetItemSummaries(ctx, 9, testSummaries(now)))
		s.FastForward(2 * time.Hour)

		got, err := cache.GetItemSummaries(ctx, 9)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("NilClient", func(t *testing.T) {
		broken := NewRedisSummaryCache(nil, time.Hour)
		_, err := broken.GetItemSummaries(ctx, 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})

	t.Run("Close", func(t *testing.T) {
		assert.NoError(t, Close(client))
	})
}
