// Package storagefactory 根据配置创建持久存储和临时存储
package storagefactory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"catalyst/internal/config"
	"catalyst/internal/pkg/cache"
	"catalyst/internal/pkg/database"
	"catalyst/internal/pkg/mongodb"
	"catalyst/internal/repository"
	"catalyst/internal/repository/mongostore"
	"catalyst/internal/repository/sqlstore"
)

// NewStore 根据 database.driver 创建持久存储
func NewStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Database.Driver {
	case "mongo", "":
		client, err := mongodb.New(ctx, &cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		store, err := mongostore.New(ctx, client)
		if err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return store, nil
	case "postgres", "sqlite":
		db, err := database.Connect(&cfg.Database)
		if err != nil {
			return nil, err
		}
		store, err := sqlstore.New(db, cfg.Database.Driver)
		if err != nil {
			return nil, fmt.Errorf("migrate %s: %w", cfg.Database.Driver, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

// NewCache 创建临时存储
// 配置了 Redis 且可连接时使用 Redis，否则退回进程内 LRU
func NewCache(cfg *config.Config) cache.Store {
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(&cfg.Redis, cfg.Cache.DefaultTTL)
		if err == nil {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connected")
			return redisCache
		}
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis, falling back to in-memory store")
	}
	return cache.NewMemoryCache(cfg.Cache.Size, cfg.Cache.DefaultTTL)
}
