package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cocktail-finder/internal/core/ai"
	"cocktail-finder/internal/core/ai/provider"
	"cocktail-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL Gemini REST 端點
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	maxErrorBody = 512
)

// Client Gemini generateContent 客戶端
type Client struct {
	client *resty.Client
	model  string
}

// NewClient 創建新的 Gemini 客戶端
func NewClient(cfg provider.Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
		model:  cfg.Model,
	}
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.model
}

// Generate 發送 prompt（及可選的圖片），回傳第一個候選文字
func (c *Client) Generate(ctx context.Context, req *provider.Request) (string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return "", common.NewConfigError("gemini api key is not configured")
	}

	opts := req.Options
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	body := buildRequest(req)

	common.LogDebug("sending request to gemini",
		zap.String("model", c.model),
		zap.String("call_site", req.CallSite),
		zap.Bool("has_image", req.ImageBase64 != ""),
		zap.Int("prompt_length", len(req.Prompt)),
	)

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", req.APIKey).
		SetBody(body).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", common.NewUpstreamError(0, fmt.Sprintf("request timed out after %s", time.Since(start).Round(time.Millisecond)), err)
		}
		return "", common.NewUpstreamError(0, "failed to send request", err)
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", common.NewUpstreamError(resp.StatusCode(), errorMessage(resp.Body()), nil)
	}

	var out ai.GenerateResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", common.NewUpstreamError(resp.StatusCode(), "malformed response envelope", err)
	}

	text, ok := out.FirstText()
	if !ok {
		return "", common.NewUpstreamError(resp.StatusCode(), "response has no candidates[0].content.parts[0].text", nil)
	}
	return text, nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

func buildRequest(req *provider.Request) *ai.GenerateRequest {
	parts := []ai.Part{{Text: req.Prompt}}
	if req.ImageBase64 != "" {
		mime := req.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, ai.Part{InlineData: &ai.InlineData{MimeType: mime, Data: req.ImageBase64}})
	}

	return &ai.GenerateRequest{
		Contents: []ai.Content{{Parts: parts}},
		GenerationConfig: ai.GenerationConfig{
			Temperature:     req.Options.Temperature,
			TopK:            req.Options.TopK,
			TopP:            req.Options.TopP,
			MaxOutputTokens: req.Options.MaxOutputTokens,
			CandidateCount:  req.Options.CandidateCount,
		},
	}
}

// errorMessage 取出錯誤訊息，移除可能回顯的 base64 資料
func errorMessage(body []byte) string {
	var e ai.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return common.Truncate(e.Error.Message, maxErrorBody)
	}
	s := string(body)
	if strings.Contains(s, "base64") || strings.Contains(s, "inline_data") {
		return "[IMAGE_DATA_REMOVED]"
	}
	if s == "" {
		return "empty response body"
	}
	return common.Truncate(s, maxErrorBody)
}
