package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cocktail-finder/internal/infrastructure/config"
	"cocktail-finder/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Service Redis 快取
type Service struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewService 連線 Redis 並建立快取服務
func NewService(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("redis cache initialized",
		zap.String("addr", cfg.Addr),
		zap.Duration("ttl", ttl),
	)

	return newServiceWithClient(client, cfg.KeyPrefix, ttl), nil
}

func newServiceWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *Service {
	return &Service{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Name 後端名稱
func (s *Service) Name() string {
	return config.CacheBackendRedis
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, query string) (*Entry, error) {
	data, err := s.client.Get(ctx, s.generateKey(query)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var entry Entry
	if err := common.ParseJSONBytes(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	return &entry, nil
}

// Set 設置緩存；ttl 為 0 時不過期
func (s *Service) Set(ctx context.Context, entry *Entry) error {
	stored := cloneEntry(entry)
	stored.Query = Key(entry.Query)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	data, err := common.ToJSON(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := s.client.Set(ctx, s.generateKey(stored.Query), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉連線
func (s *Service) Close() error {
	return s.client.Close()
}

// generateKey 生成緩存鍵
func (s *Service) generateKey(query string) string {
	return s.keyPrefix + Key(query)
}
