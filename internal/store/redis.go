package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marcogenualdo/taddoist/internal/config"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisStore(client, cfg.KeyPrefix), nil
}

func newRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "taddoist"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (rs *RedisStore) redisKey(userID, key string) string {
	return rs.prefix + ":settings:" + userID + ":" + key
}

func (rs *RedisStore) Get(ctx context.Context, userID, key string) (string, error) {
	if err := validateKey(userID, key); err != nil {
		return "", err
	}

	val, err := rs.client.Get(ctx, rs.redisKey(userID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}

	var rec record
	if err := json.Unmarshal(val, &rec); err != nil {
		return "", fmt.Errorf("failed to decode setting %s: %w", key, err)
	}
	return rec.Data, nil
}

func (rs *RedisStore) Set(ctx context.Context, userID, key, value string) error {
	if err := validateKey(userID, key); err != nil {
		return err
	}

	payload, err := json.Marshal(record{Data: value, Created: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}

	if err := rs.client.Set(ctx, rs.redisKey(userID, key), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

func (rs *RedisStore) Delete(ctx context.Context, userID, key string) error {
	if err := validateKey(userID, key); err != nil {
		return err
	}
	return rs.client.Del(ctx, rs.redisKey(userID, key)).Err()
}

func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
