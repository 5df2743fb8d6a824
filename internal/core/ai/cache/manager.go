package cache

import (
	"context"
	"sync"
	"time"

	"cocktail-finder/internal/infrastructure/config"
	"cocktail-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheManager 記憶體快取
type CacheManager struct {
	maxSize int
	ttl     time.Duration
	mu      sync.RWMutex
	store   map[string]cacheEntry
	stats   cacheStats
	stop    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// cacheEntry 緩存條目
type cacheEntry struct {
	entry       *Entry
	expiresAt   time.Time // 零值表示永不過期
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewManager 創建新的緩存管理器
func NewManager(cfg config.CacheConfig) *CacheManager {
	m := &CacheManager{
		maxSize: cfg.MaxSize,
		ttl:     cfg.TTL,
		store:   make(map[string]cacheEntry),
		stop:    make(chan struct{}),
	}

	// 只有設定 TTL 時才需要清理過期項目
	if cfg.TTL > 0 && cfg.CleanupInterval > 0 {
		m.wg.Add(1)
		go m.startCleanup(cfg.CleanupInterval)
	}

	common.LogInfo("memory cache initialized",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
	)

	return m
}

// Name 後端名稱
func (m *CacheManager) Name() string {
	return config.CacheBackendMemory
}

// Get 獲取緩存值
func (m *CacheManager) Get(_ context.Context, query string) (*Entry, error) {
	key := Key(query)

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.store[key]
	if !ok {
		m.stats.misses++
		return nil, ErrCacheMiss
	}
	if m.expired(item, time.Now()) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		return nil, ErrCacheMiss
	}

	item.lastAccess = time.Now()
	item.accessCount++
	m.store[key] = item
	m.stats.hits++

	return cloneEntry(item.entry), nil
}

// Set 設置緩存值；同鍵直接覆蓋
func (m *CacheManager) Set(_ context.Context, entry *Entry) error {
	key := Key(entry.Query)
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.store[key]; !exists && m.maxSize > 0 && len(m.store) >= m.maxSize {
		// 先清理過期項目，仍然滿的話淘汰最少使用的項目
		if m.cleanup(now) == 0 {
			m.evictLRU()
		}
	}

	stored := cloneEntry(entry)
	stored.Query = key
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}

	item := cacheEntry{entry: stored, lastAccess: now}
	if m.ttl > 0 {
		item.expiresAt = now.Add(m.ttl)
	}
	m.store[key] = item

	return nil
}

func (m *CacheManager) expired(item cacheEntry, now time.Time) bool {
	return !item.expiresAt.IsZero() && now.After(item.expiresAt)
}

// startCleanup 啟動清理過期緩存的協程
func (m *CacheManager) startCleanup(interval time.Duration) {
	defer m.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup(time.Now())
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

// cleanup 清理過期的緩存；呼叫端需持有寫鎖
func (m *CacheManager) cleanup(now time.Time) int {
	count := 0
	for key, item := range m.store {
		if m.expired(item, now) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		common.LogDebug("cleaned up expired cache entries",
			zap.Int("count", count),
			zap.Int("remaining_size", len(m.store)),
		)
	}
	return count
}

// evictLRU 淘汰訪問次數最少、最久未訪問的項目
func (m *CacheManager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, item := range m.store {
		if oldestKey == "" ||
			item.accessCount < lowestAccessCount ||
			(item.accessCount == lowestAccessCount && item.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = item.lastAccess
			lowestAccessCount = item.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogDebug("cache entry evicted", zap.String("key", oldestKey))
	}
}

// Len 目前條目數
func (m *CacheManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// GetStats 獲取緩存統計信息
func (m *CacheManager) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ratio := 0.0
	if total := m.stats.hits + m.stats.misses; total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"backend":   config.CacheBackendMemory,
		"size":      len(m.store),
		"max_size":  m.maxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": ratio,
	}
}

// Close 關閉緩存管理器
func (m *CacheManager) Close() error {
	m.once.Do(func() {
		close(m.stop)
	})
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]cacheEntry)
	common.LogInfo("memory cache closed",
		zap.Int64("hits", m.stats.hits),
		zap.Int64("misses", m.stats.misses),
		zap.Int64("evictions", m.stats.evictions),
	)
	return nil
}
