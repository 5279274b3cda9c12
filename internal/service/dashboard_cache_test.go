package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/dto"
)

const cacheDay = "2024-06-10"

func newMiniCache(t *testing.T) (*DashboardCache, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)
	return NewDashboardCache(redis.NewClient(&redis.Options{Addr: mini.Addr()}), time.Minute, testLogger()), mini
}

func TestDashboardCacheInvalidatesOnlyOneOrganization(t *testing.T) {
	cache, _ := newMiniCache(t)
	ctx := context.Background()

	for studentID := uint(1); studentID <= 3; studentID++ {
		cache.Set(ctx, cache.Key(ctx, 10, studentID, cacheDay), dto.StudentDashboardResponse{Student: dto.StudentResponse{ID: studentID}})
	}
	cache.Set(ctx, cache.Key(ctx, 11, 4, cacheDay), dto.StudentDashboardResponse{Student: dto.StudentResponse{ID: 4}})

	cached, ok := cache.Get(ctx, cache.Key(ctx, 10, 2, cacheDay))
	require.True(t, ok)
	require.Equal(t, uint(2), cached.Student.ID)

	cache.InvalidateOrganization(ctx, 10)

	_, ok = cache.Get(ctx, cache.Key(ctx, 10, 1, cacheDay))
	require.False(t, ok)
	_, ok = cache.Get(ctx, cache.Key(ctx, 11, 4, cacheDay))
	require.True(t, ok)
}

func TestDashboardCacheDropsSnapshotsBuiltAcrossInvalidation(t *testing.T) {
	cache, mini := newMiniCache(t)
	ctx := context.Background()

	// A reader resolves its key, then a write lands before it stores the result.
	key := cache.Key(ctx, 10, 1, cacheDay)
	cache.InvalidateOrganization(ctx, 10)
	cache.Set(ctx, key, dto.StudentDashboardResponse{Student: dto.StudentResponse{ID: 1}})

	fresh := cache.Key(ctx, 10, 1, cacheDay)
	require.NotEqual(t, key, fresh)
	_, ok := cache.Get(ctx, fresh)
	require.False(t, ok)

	// The counter survives later invalidation scans.
	cache.InvalidateOrganization(ctx, 10)
	require.True(t, mini.Exists(generationKey(10)))
	require.Equal(t, fresh.Generation+1, cache.Key(ctx, 10, 1, cacheDay).Generation)
}

func TestDashboardCacheKeysByDay(t *testing.T) {
	cache, _ := newMiniCache(t)
	ctx := context.Background()

	cache.Set(ctx, cache.Key(ctx, 10, 1, cacheDay), dto.StudentDashboardResponse{})
	_, ok := cache.Get(ctx, cache.Key(ctx, 10, 1, cacheDay))
	require.True(t, ok)
	_, ok = cache.Get(ctx, cache.Key(ctx, 10, 1, "2024-06-11"))
	require.False(t, ok)
}

func TestDashboardCacheExpiresAndToleratesNilClient(t *testing.T) {
	cache, mini := newMiniCache(t)
	ctx := context.Background()

	key := cache.Key(ctx, 1, 1, cacheDay)
	cache.Set(ctx, key, dto.StudentDashboardResponse{})
	mini.FastForward(2 * time.Minute)
	_, ok := cache.Get(ctx, key)
	require.False(t, ok)

	var disabled *DashboardCache
	disabledKey := disabled.Key(ctx, 1, 1, cacheDay)
	require.Zero(t, disabledKey.Generation)
	disabled.Set(ctx, disabledKey, dto.StudentDashboardResponse{})
	disabled.InvalidateOrganization(ctx, 1)
	_, ok = disabled.Get(ctx, disabledKey)
	require.False(t, ok)
}
