package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/suchimauz/clinic-intake-router/internal/config"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

// RedisSessionAdapter общее хранилище сессий для нескольких экземпляров сервиса
type RedisSessionAdapter struct {
	cfg    *config.Config
	client *redis.Client
	logger out.LoggerPort
}

func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func NewRedisSessionAdapter(cfg *config.Config, client *redis.Client, logger out.LoggerPort) *RedisSessionAdapter {
	return &RedisSessionAdapter{
		cfg:    cfg,
		client: client,
		logger: logger.WithModule("RedisSessionAdapter"),
	}
}

// Ping проверка соединения при старте
func (a *RedisSessionAdapter) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx).Err(); err != nil {
		a.logger.Error("session.redis.ping_failed", out.LogFields{
			"addr":  a.cfg.Redis.Addr,
			"error": err.Error(),
		})
		return err
	}
	return nil
}

func (a *RedisSessionAdapter) key(key string) string {
	if a.cfg.Redis.Prefix == "" {
		return key
	}
	return a.cfg.Redis.Prefix + ":" + key
}

func (a *RedisSessionAdapter) Get(ctx context.Context, key string) (string, error) {
	value, err := a.client.Get(ctx, a.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		a.logger.Error("session.redis.get_failed", out.LogFields{
			"key":   key,
			"error": err.Error(),
		})
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// GetMany один MGET вместо запроса на каждый ключ
func (a *RedisSessionAdapter) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return values, nil
	}

	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, a.key(k))
	}

	result, err := a.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		a.logger.Error("session.redis.mget_failed", out.LogFields{
			"keys":  keys,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for i, raw := range result {
		if value, ok := raw.(string); ok {
			values[keys[i]] = value
		}
	}
	return values, nil
}

func (a *RedisSessionAdapter) Set(ctx context.Context, key, value string) error {
	if err := a.client.Set(ctx, a.key(key), value, a.cfg.Session.TTL).Err(); err != nil {
		a.logger.Error("session.redis.set_failed", out.LogFields{
			"key":   key,
			"error": err.Error(),
		})
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// SetExclusive запись и удаление выполняются в одной транзакции MULTI/EXEC
func (a *RedisSessionAdapter) SetExclusive(ctx context.Context, key, value string, exclusive ...string) error {
	_, err := a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(exclusive) > 0 {
			keys := make([]string, 0, len(exclusive))
			for _, k := range exclusive {
				keys = append(keys, a.key(k))
			}
			pipe.Del(ctx, keys...)
		}
		pipe.Set(ctx, a.key(key), value, a.cfg.Session.TTL)
		return nil
	})
	if err != nil {
		a.logger.Error("session.redis.set_exclusive_failed", out.LogFields{
			"key":   key,
			"error": err.Error(),
		})
		return fmt.Errorf("redis set exclusive %s: %w", key, err)
	}
	return nil
}

func (a *RedisSessionAdapter) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, a.key(k))
	}

	if err := a.client.Del(ctx, prefixed...).Err(); err != nil {
		a.logger.Error("session.redis.delete_failed", out.LogFields{
			"keys":  keys,
			"error": err.Error(),
		})
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
