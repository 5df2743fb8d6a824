package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cocktail-finder/internal/infrastructure/config"
	"cocktail-finder/internal/pkg/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrCacheMiss 查無快取
var ErrCacheMiss = errors.New("cache miss")

// Entry 快取條目，以小寫查詢字串為鍵
type Entry struct {
	ID              primitive.ObjectID        `json:"-" bson:"_id,omitempty"`
	Query           string                    `json:"query" bson:"query"`
	Results         []common.NormalizedResult `json:"results" bson:"results"`
	FormattedRecipe *common.FormattedRecipe   `json:"formattedRecipe" bson:"formattedRecipe"`
	CreatedAt       time.Time                 `json:"createdAt" bson:"createdAt"`
}

// Store 快取後端
type Store interface {
	// Get 依查詢字串讀取；找不到時回傳 ErrCacheMiss
	Get(ctx context.Context, query string) (*Entry, error)
	// Set 寫入條目；同一鍵後寫者覆蓋
	Set(ctx context.Context, entry *Entry) error
	// Name 後端名稱
	Name() string
	Close() error
}

// StatsReporter 可回報統計資料的後端
type StatsReporter interface {
	GetStats() map[string]interface{}
}

// Key 快取鍵：去除前後空白後轉小寫
func Key(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// NewStore 依設定建立快取後端；停用時回傳 nil
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("cache disabled")
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendMemory, "":
		return NewManager(cfg.Cache), nil
	case config.CacheBackendRedis:
		return NewService(ctx, cfg.Redis, cfg.Cache.TTL)
	case config.CacheBackendMongo:
		return NewMongoStore(ctx, cfg.Mongo, cfg.Cache.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func cloneEntry(e *Entry) *Entry {
	c := *e
	c.Results = append([]common.NormalizedResult(nil), e.Results...)
	return &c
}
