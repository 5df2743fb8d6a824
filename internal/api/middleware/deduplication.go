package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"cocktail-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deduplicator 在 window 內重複送出的相同 POST 請求不再執行，改為回放第一次的回應
type Deduplicator struct {
	window   time.Duration
	mu       sync.Mutex
	requests map[string]*dedupEntry
	stop     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// dedupEntry 第一次請求的紀錄；done 關閉後 status、contentType、body 才可讀取
type dedupEntry struct {
	at          time.Time
	done        chan struct{}
	status      int
	contentType string
	body        []byte
}

// NewDeduplicator 創建去重器並啟動清理協程；使用完畢需呼叫 Close
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	d := &Deduplicator{
		window:   window,
		requests: make(map[string]*dedupEntry),
		stop:     make(chan struct{}),
	}
	d.wg.Add(1)
	go d.cleanup(10 * time.Minute)
	return d
}

func (d *Deduplicator) cleanup(interval time.Duration) {
	defer d.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			d.mu.Lock()
			for k, e := range d.requests {
				if now.Sub(e.at) > 10*d.window {
					delete(d.requests, k)
				}
			}
			d.mu.Unlock()
		case <-d.stop:
			return
		}
	}
}

// seen 回傳該指紋的紀錄，以及是否為 window 內的重複請求
func (d *Deduplicator) seen(fingerprint string, now time.Time) (*dedupEntry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.requests[fingerprint]; ok && now.Sub(e.at) <= d.window {
		return e, true
	}
	e := &dedupEntry{at: now, done: make(chan struct{})}
	d.requests[fingerprint] = e
	return e, false
}

// recordingWriter 同時寫出並保留回應內容
type recordingWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *recordingWriter) Write(data []byte) (int, error) {
	w.buf.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware 去重中間件
func (d *Deduplicator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			common.LogWarn("failed to read request body", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.ErrBodyTooLarge.ToResponse(false))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		hash := sha256.Sum256(body)
		fingerprint := c.ClientIP() + ":" + c.Request.URL.Path + ":" + hex.EncodeToString(hash[:])

		entry, duplicate := d.seen(fingerprint, time.Now())
		if !duplicate {
			d.record(c, entry)
			return
		}

		select {
		case <-entry.done:
		case <-c.Request.Context().Done():
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.ToResponse(false))
			return
		}

		// 第一次請求失敗時不回放，讓這次重新執行
		if entry.status < 200 || entry.status >= 300 {
			c.Next()
			return
		}

		common.LogInfo("duplicate request served from first response",
			zap.String("ip", c.ClientIP()),
			zap.String("path", c.Request.URL.Path),
		)
		c.Header("X-Duplicate-Request", "replayed")
		c.Data(entry.status, entry.contentType, entry.body)
		c.Abort()
	}
}

// record 執行第一次請求並保存回應供重複請求回放
func (d *Deduplicator) record(c *gin.Context, entry *dedupEntry) {
	w := &recordingWriter{ResponseWriter: c.Writer}
	c.Writer = w
	defer func() {
		c.Writer = w.ResponseWriter
		if w.Written() {
			entry.status = w.Status()
		}
		entry.contentType = w.Header().Get("Content-Type")
		entry.body = w.buf.Bytes()
		close(entry.done)
	}()
	c.Next()
}

// Close 停止清理協程
func (d *Deduplicator) Close() {
	d.once.Do(func() {
		close(d.stop)
	})
	d.wg.Wait()
}
