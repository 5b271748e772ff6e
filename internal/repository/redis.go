package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prokatnik/internal/config"
	"prokatnik/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisSummaryCache хранит посчитанные next/last сводки вещей в Redis.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	return redis.NewClient(options)
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func summaryKey(itemID int64) string {
	return fmt.Sprintf("item_summaries:%d", itemID)
}

func (r *RedisSummaryCache) GetItemSummaries(ctx context.Context, itemID int64) (*domain.ItemSummaries, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, summaryKey(itemID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summaries from redis: %w", err)
	}

	var summaries domain.ItemSummaries
	if err := json.Unmarshal([]byte(val), &summaries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summaries: %w", err)
	}
	return &summaries, nil
}

func (r *RedisSummaryCache) SetItemSummaries(ctx context.Context, itemID int64, summaries *domain.ItemSummaries) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal summaries: %w", err)
	}
	if err := r.client.Set(ctx, summaryKey(itemID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set summaries in redis: %w", err)
	}
	return nil
}

func (r *RedisSummaryCache) InvalidateItem(ctx context.Context, itemID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, summaryKey(itemID)).Err(); err != nil {
		return fmt.Errorf("failed to delete summaries from redis: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
