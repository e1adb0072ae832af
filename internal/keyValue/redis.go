package keyValue

import (
	"context"
	"errors"
	"time"

	"voicewave-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var redisCtx = context.Background()

// NewRedisClient connects and pings. The same client is shared with the hub.
func NewRedisClient(cfg *models.ConfigFile) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	if err := client.Ping(redisCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

type RedisStore struct {
	sugar       *zap.SugaredLogger
	redisClient *redis.Client
}

func NewRedisStore(sugar *zap.SugaredLogger, redisClient *redis.Client) *RedisStore {
	return &RedisStore{sugar: sugar, redisClient: redisClient}
}

func (s *RedisStore) Get(key string) (string, bool, error) {
	s.sugar.Debugf("Getting value of key [%s] from redis", key)

	value, err := s.redisClient.Get(redisCtx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) GetDel(key string) (string, bool, error) {
	s.sugar.Debugf("Getting and deleting value of key [%s] from redis", key)

	value, err := s.redisClient.GetDel(redisCtx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(key string, value string, expires time.Duration) error {
	s.sugar.Debugf("Setting value of key [%s] in redis", key)
	if expires < 0 {
		expires = 0
	}
	return s.redisClient.Set(redisCtx, key, value, expires).Err()
}

func (s *RedisStore) Del(key string) error {
	return s.redisClient.Del(redisCtx, key).Err()
}

// Close leaves the client open, it is owned by main.
func (s *RedisStore) Close() error {
	return nil
}
