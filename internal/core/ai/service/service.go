package service

import (
	"context"
	"time"

	"cocktail-finder/internal/core/ai/provider"
	"cocktail-finder/internal/core/ai/queue"
	"cocktail-finder/internal/infrastructure/config"
	"cocktail-finder/internal/pkg/common"
)

// Service AI 服務：在 provider 外加上並發限制、逾時設定與呼叫日誌
type Service struct {
	provider provider.Provider
	queue    *queue.Manager
	timeouts map[string]time.Duration
}

// 呼叫點名稱
const (
	CallSiteSearch  = "search"
	CallSiteComment = "comment"
	CallSiteVision  = "vision"
)

// NewService 創建 AI 服務
func NewService(cfg config.GeminiConfig, p provider.Provider, q *queue.Manager) *Service {
	return &Service{
		provider: p,
		queue:    q,
		timeouts: map[string]time.Duration{
			CallSiteSearch:  cfg.TextTimeout,
			CallSiteVision:  cfg.TextTimeout,
			CallSiteComment: cfg.CommentTimeout,
		},
	}
}

// Generate 透過 provider 發送請求；不重試
func (s *Service) Generate(ctx context.Context, req *provider.Request) (string, error) {
	if d, ok := s.timeouts[req.CallSite]; ok && d > 0 {
		r := *req
		r.Options.Timeout = d
		req = &r
	}

	if s.queue != nil {
		if err := s.queue.Acquire(ctx); err != nil {
			return "", err
		}
		defer s.queue.Release()
	}

	start := time.Now()
	text, err := s.provider.Generate(ctx, req)
	common.LogAICall(req.CallSite, time.Since(start), err)
	if err != nil {
		return "", err
	}

	if s.queue != nil {
		s.queue.IncrementProcessed()
	}
	return text, nil
}

// GetModel 獲取模型名稱
func (s *Service) GetModel() string {
	return s.provider.GetModel()
}

// QueueStatus 回傳隊列狀態
func (s *Service) QueueStatus() *queue.Status {
	if s.queue == nil {
		return nil
	}
	return s.queue.GetQueueStatus()
}

// Close 關閉服務
func (s *Service) Close() error {
	if s.queue != nil {
		s.queue.Close()
	}
	return s.provider.Close()
}
