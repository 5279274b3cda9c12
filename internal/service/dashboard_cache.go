package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/observability"
)

const invalidateScanCount = 100

// DashboardCache stores student dashboard snapshots in Redis, keyed by
// organization so that any write in an organization can drop its snapshots.
// A nil client disables caching.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewDashboardCache constructs a DashboardCache.
func NewDashboardCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *DashboardCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &DashboardCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "dashboard_cache").Logger(),
	}
}

// SnapshotKey addresses one cached student dashboard. Generation is the
// organization's invalidation counter at the moment the snapshot was first
// requested, so a snapshot built across an invalidation is written under a
// key no later reader asks for. Day pins due-date urgency to a calendar day.
type SnapshotKey struct {
	OrganizationID uint
	StudentID      uint
	Generation     int64
	Day            string
}

func (k SnapshotKey) String() string {
	return fmt.Sprintf("dashboard:org:%d:student:%d:gen:%d:day:%s", k.OrganizationID, k.StudentID, k.Generation, k.Day)
}

// The counter lives outside the dashboard:org:<id>:* namespace so that
// invalidation scans never delete it.
func generationKey(organizationID uint) string {
	return fmt.Sprintf("dashboard:generation:org:%d", organizationID)
}

// Key resolves the snapshot key for a student on the given day. Call it
// before loading data and reuse the result for Set.
func (c *DashboardCache) Key(ctx context.Context, organizationID, studentID uint, day string) SnapshotKey {
	key := SnapshotKey{OrganizationID: organizationID, StudentID: studentID, Day: day}
	if c == nil || c.client == nil {
		return key
	}

	generation, err := c.client.Get(ctx, generationKey(organizationID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn().Err(err).Uint("organization_id", organizationID).Msg("failed to read dashboard generation")
	}
	key.Generation = generation
	return key
}

// Get returns the cached snapshot, if any.
func (c *DashboardCache) Get(ctx context.Context, key SnapshotKey) (dto.StudentDashboardResponse, bool) {
	if c == nil || c.client == nil {
		return dto.StudentDashboardResponse{}, false
	}

	cached, err := c.client.Get(ctx, key.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
		observability.DashboardCacheResults().WithLabelValues("miss").Inc()
		return dto.StudentDashboardResponse{}, false
	}

	var response dto.StudentDashboardResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		c.logger.Warn().Err(err).Msg("discarding undecodable dashboard cache entry")
		observability.DashboardCacheResults().WithLabelValues("miss").Inc()
		return dto.StudentDashboardResponse{}, false
	}

	observability.DashboardCacheResults().WithLabelValues("hit").Inc()
	return response, true
}

// Set stores a snapshot under a key obtained from Key.
func (c *DashboardCache) Set(ctx context.Context, key SnapshotKey, response dto.StudentDashboardResponse) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to encode dashboard cache entry")
		return
	}
	if err := c.client.Set(ctx, key.String(), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to store dashboard cache")
	}
}

// InvalidateOrganization bumps the organization's generation, which retires
// every snapshot key handed out so far, then deletes the retired entries.
func (c *DashboardCache) InvalidateOrganization(ctx context.Context, organizationID uint) {
	if c == nil || c.client == nil || organizationID == 0 {
		return
	}

	if err := c.client.Incr(ctx, generationKey(organizationID)).Err(); err != nil {
		c.logger.Warn().Err(err).Uint("organization_id", organizationID).Msg("failed to advance dashboard generation")
	}

	pattern := fmt.Sprintf("dashboard:org:%d:*", organizationID)
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, invalidateScanCount).Result()
		if err != nil {
			c.logger.Warn().Err(err).Uint("organization_id", organizationID).Msg("failed to scan dashboard cache")
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn().Err(err).Uint("organization_id", organizationID).Msg("failed to invalidate dashboard cache")
				return
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
