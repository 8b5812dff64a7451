package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appsourcing "github.com/sourcingops/backend/internal/application/sourcing"
)

// NewSnapshotCache builds the snapshot cache selected by configuration.
// The redis backend requires a non-nil client; the caller keeps ownership
// of the client.
func NewSnapshotCache(backend string, ttl time.Duration, client *redis.Client, logger *zap.Logger) (appsourcing.SnapshotCache, error) {
	switch backend {
	case "memory":
		return NewMemorySnapshotCache(ttl), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis snapshot cache requires a redis client")
		}
		return NewRedisSnapshotCache(client, ttl, logger), nil
	default:
		return nil, fmt.Errorf("unknown snapshot cache backend %q", backend)
	}
}
