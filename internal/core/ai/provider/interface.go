package provider

import (
	"context"
	"time"
)

// Options 生成參數，依呼叫點調整
type Options struct {
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
	CandidateCount  int
	Timeout         time.Duration
}

// 各呼叫點的預設生成參數
var (
	// TextGeneration 文字食譜生成
	TextGeneration = Options{
		Temperature:     0.9,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 2048,
		CandidateCount:  1,
		Timeout:         30 * time.Second,
	}

	// VisionGeneration 圖片辨識
	VisionGeneration = Options{
		Temperature:     0.4,
		TopK:            32,
		TopP:            1,
		MaxOutputTokens: 1024,
		CandidateCount:  1,
		Timeout:         30 * time.Second,
	}

	// CommentGeneration 調酒師短評
	CommentGeneration = Options{
		Temperature:     1.0,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 150,
		CandidateCount:  1,
		Timeout:         15 * time.Second,
	}
)

// Request 表示發送到 AI 提供者的請求
type Request struct {
	Prompt      string
	APIKey      string
	ImageBase64 string // 不含 data URI 前綴
	MimeType    string
	Options     Options
	CallSite    string // 用於日誌
}

// Provider 定義 AI 提供者介面
type Provider interface {
	// Generate 回傳第一個候選的第一段文字
	Generate(ctx context.Context, req *Request) (string, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// Close 關閉提供者連接
	Close() error
}

// Config 定義 AI 提供者配置
type Config struct {
	Model   string
	BaseURL string
}
