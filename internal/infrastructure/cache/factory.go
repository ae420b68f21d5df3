package cache

import (
	"context"

	"github.com/glowpos/backend/internal/domain/catalog"
	"github.com/glowpos/backend/internal/domain/identity"
	"github.com/glowpos/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewDirectoryFromConfig builds the name directory. When Redis is enabled
// but unreachable the directory runs on the local tier only and the
// returned client is nil.
func NewDirectoryFromConfig(
	ctx context.Context,
	redisCfg config.RedisConfig,
	realtimeCfg config.RealtimeConfig,
	employees identity.EmployeeRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) (*Directory, *redis.Client) {
	opts := []DirectoryOption{
		WithTTL(realtimeCfg.DirectoryCacheTTL),
		WithLogger(logger),
	}

	var client *redis.Client
	if redisCfg.Enabled {
		var err error
		client, err = NewRedisClient(ctx, redisCfg)
		if err != nil {
			logger.Warn("Redis unavailable, using in-process name cache only", zap.Error(err))
			client = nil
		} else {
			opts = append(opts, WithL2(NewRedisNameCache(client, "")))
			logger.Info("Using Redis name cache", zap.String("addr", redisCfg.Addr()))
		}
	}

	return NewDirectory(employees, products, opts...), client
}
