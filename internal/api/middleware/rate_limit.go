package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"cocktail-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64 // 每秒補充的令牌數
	lastTime time.Time
	now      func() time.Time
}

// NewRateLimiter 創建新的限流器：每個 window 最多 requests 次
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return newRateLimiter(requests, window, time.Now)
}

func newRateLimiter(requests int, window time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		lastTime: now(),
		now:      now,
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.lastTime).Seconds()
	rl.lastTime = now
	rl.tokens = math.Min(rl.capacity, rl.tokens+elapsed*rl.rate)

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// ClientLimiter 依用戶端 IP 分別限流；閒置超過 window 的桶由清理協程移除
type ClientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*RateLimiter
	requests int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewClientLimiter 創建依 IP 的限流器並啟動清理協程；使用完畢需呼叫 Close
func NewClientLimiter(requests int, window time.Duration) *ClientLimiter {
	return newClientLimiter(requests, window, time.Now)
}

func newClientLimiter(requests int, window time.Duration, now func() time.Time) *ClientLimiter {
	if window <= 0 {
		window = time.Minute
	}
	cl := &ClientLimiter{
		limiters: make(map[string]*RateLimiter),
		requests: requests,
		window:   window,
		now:      now,
		stop:     make(chan struct{}),
	}
	cl.wg.Add(1)
	go cl.cleanup(window)
	return cl
}

func (cl *ClientLimiter) cleanup(interval time.Duration) {
	defer cl.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := cl.evictIdle(cl.now()); n > 0 {
				common.LogDebug("evicted idle rate limiters", zap.Int("count", n))
			}
		case <-cl.stop:
			return
		}
	}
}

// evictIdle 移除閒置至少一個 window 的桶；此時桶已補滿，移除不影響限流結果
func (cl *ClientLimiter) evictIdle(now time.Time) int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	evicted := 0
	for client, limiter := range cl.limiters {
		limiter.mu.Lock()
		idle := now.Sub(limiter.lastTime)
		limiter.mu.Unlock()
		if idle >= cl.window {
			delete(cl.limiters, client)
			evicted++
		}
	}
	return evicted
}

// Len 目前追蹤的用戶端數量
func (cl *ClientLimiter) Len() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.limiters)
}

// Allow 檢查該用戶端是否允許請求
func (cl *ClientLimiter) Allow(client string) bool {
	cl.mu.Lock()
	limiter, ok := cl.limiters[client]
	if !ok {
		limiter = newRateLimiter(cl.requests, cl.window, cl.now)
		cl.limiters[client] = limiter
	}
	cl.mu.Unlock()
	return limiter.Allow()
}

// Middleware 限流中間件；用戶端以 gin 的 ClientIP 辨識，僅信任設定中的代理標頭
func (cl *ClientLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.Allow(c.ClientIP()) {
			common.LogWarn("rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(cl.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.ToResponse(false))
			return
		}

		c.Next()
	}
}

// Close 停止清理協程
func (cl *ClientLimiter) Close() {
	cl.once.Do(func() {
		close(cl.stop)
	})
	cl.wg.Wait()
}
