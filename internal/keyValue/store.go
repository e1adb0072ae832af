// Package keyValue is the string key/value store everything else persists into.
// It plays the role browser local storage plays for a single-page client:
// whole values under fixed string keys, no partial updates.
package keyValue

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voicewave-backend/internal/config"
	"voicewave-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store is implemented by every backend. An expiry of 0 means the key never
// expires. Get and GetDel report false for absent or expired keys.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key string, value string, expires time.Duration) error
	Del(key string) error
	GetDel(key string) (string, bool, error)
	Close() error
}

var ErrNoBackend = errors.New("no backend for the configured store")

// Open picks the backend named by cfg.Store. db and dialect are only used by
// the sql stores, redisClient only by the redis store.
func Open(cfg *models.ConfigFile, sugar *zap.SugaredLogger, redisClient *redis.Client, db *sql.DB, dialect string) (Store, error) {
	switch cfg.Store {
	case config.StoreHashmap:
		sugar.Info("Using hashmap as key/value store")
		return NewHashmapStore(sugar), nil
	case config.StoreRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("%w: redis client missing", ErrNoBackend)
		}
		sugar.Infof("Using redis at %s as key/value store", cfg.RedisAddress)
		return NewRedisStore(sugar, redisClient), nil
	case config.StoreSqlite, config.StoreMysql, config.StorePostgres:
		if db == nil {
			return nil, fmt.Errorf("%w: database missing", ErrNoBackend)
		}
		sugar.Infof("Using %s as key/value store", dialect)
		return NewSQLStore(sugar, db, dialect), nil
	case config.StorePebble:
		sugar.Infof("Using pebble at %s as key/value store", cfg.PebblePath)
		return OpenPebbleStore(sugar, cfg.PebblePath)
	}
	return nil, fmt.Errorf("%w: %q", ErrNoBackend, cfg.Store)
}

func expiresAt(expires time.Duration) time.Time {
	if expires <= 0 {
		return time.Time{}
	}
	return time.Now().Add(expires)
}

func expired(at time.Time, now time.Time) bool {
	return !at.IsZero() && !at.After(now)
}
