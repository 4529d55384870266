// Package cache 提供查询结果缓存服务。
// 封装 Redis 客户端，支持 TTL、JSON 序列化、按模式批量失效与 cache-aside 读取。
// 缓存故障只记录日志，绝不阻塞读路径。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 键不存在。
var ErrCacheMiss = errors.New("cache miss")

// Service 缓存服务接口。
type Service interface {
	Get(ctx context.Context, key string) (string, error)
	GetJSON(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Remove(ctx context.Context, keys ...string) error
	RemoveByPattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, key string) (bool, error)
	GetOrSet(ctx context.Context, key string, ttl time.Duration, dest any, loader func(ctx context.Context) (any, error)) error
}

type redisService struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewService 创建基于 Redis 的缓存服务。
func NewService(client redis.UniversalClient, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisService{client: client, logger: logger}
}

func (s *redisService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		s.logger.WarnContext(ctx, "cache get failed", "key", key, "error", err)
		return "", err
	}
	return val, nil
}

func (s *redisService) GetJSON(ctx context.Context, key string, dest any) error {
	val, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *redisService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "cache set failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (s *redisService) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data, ttl)
}

func (s *redisService) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.WarnContext(ctx, "cache remove failed", "keys", keys, "error", err)
		return err
	}
	return nil
}

// RemoveByPattern 按模式批量删除。
// 使用 SCAN 游标遍历避免 KEYS 阻塞，按批删除。粗粒度失效牺牲精度换取简单性。
func (s *redisService) RemoveByPattern(ctx context.Context, pattern string) error {
	iter := s.client.Scan(ctx, 0, pattern, 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 200 {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				s.logger.WarnContext(ctx, "cache pattern remove failed", "pattern", pattern, "error", err)
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.WarnContext(ctx, "cache scan failed", "pattern", pattern, "error", err)
		return err
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			s.logger.WarnContext(ctx, "cache pattern remove failed", "pattern", pattern, "error", err)
			return err
		}
	}
	return nil
}

func (s *redisService) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.logger.WarnContext(ctx, "cache exists failed", "key", key, "error", err)
		return false, err
	}
	return n > 0, nil
}

// GetOrSet cache-aside 读取：命中直接反序列化，未命中调用 loader 并回填。
// 回填失败只记日志，不影响返回结果。
func (s *redisService) GetOrSet(ctx context.Context, key string, ttl time.Duration, dest any, loader func(ctx context.Context) (any, error)) error {
	if err := s.GetJSON(ctx, key, dest); err == nil {
		return nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.WarnContext(ctx, "cache read degraded to loader", "key", key, "error", err)
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "cache backfill failed", "key", key, "error", err)
	}
	return nil
}
