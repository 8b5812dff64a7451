package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appsourcing "github.com/sourcingops/backend/internal/application/sourcing"
	"github.com/sourcingops/backend/internal/domain/sourcing"
)

const snapshotKeyPrefix = "snapshot:verification:"

// RedisSnapshotCache caches verification snapshots in Redis so multiple
// instances share the same view of the latest upload. Snapshots are stored
// as JSON under snapshot:verification:<sheetID> with a TTL.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSnapshotCache creates a Redis-backed snapshot cache using an
// existing client. The client lifecycle stays with the caller.
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSnapshotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSnapshotCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached snapshot for the sheet, if present.
// Redis or decode failures degrade to a cache miss.
func (c *RedisSnapshotCache) Get(ctx context.Context, sheetID string) (*sourcing.VerificationSnapshot, bool) {
	data, err := c.client.Get(ctx, snapshotKey(sheetID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("snapshot cache read failed",
				zap.String("sheet_id", sheetID),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var snapshot sourcing.VerificationSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Warn("snapshot cache entry corrupt, dropping",
			zap.String("sheet_id", sheetID),
			zap.Error(err),
		)
		c.client.Del(ctx, snapshotKey(sheetID))
		return nil, false
	}

	return &snapshot, true
}

// Put stores the snapshot with the configured TTL. Failures are logged,
// not returned: the repository remains the source of truth.
func (c *RedisSnapshotCache) Put(ctx context.Context, snapshot *sourcing.VerificationSnapshot) {
	if snapshot == nil {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Warn("snapshot cache encode failed",
			zap.String("sheet_id", snapshot.SheetID),
			zap.Error(err),
		)
		return
	}

	if err := c.client.Set(ctx, snapshotKey(snapshot.SheetID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("snapshot cache write failed",
			zap.String("sheet_id", snapshot.SheetID),
			zap.Error(err),
		)
	}
}

// Invalidate removes the sheet's cached snapshot
func (c *RedisSnapshotCache) Invalidate(ctx context.Context, sheetID string) {
	if err := c.client.Del(ctx, snapshotKey(sheetID)).Err(); err != nil {
		c.logger.Warn("snapshot cache invalidate failed",
			zap.String("sheet_id", sheetID),
			zap.Error(err),
		)
	}
}

func snapshotKey(sheetID string) string {
	return fmt.Sprintf("%s%s", snapshotKeyPrefix, sheetID)
}

var _ appsourcing.SnapshotCache = (*RedisSnapshotCache)(nil)
