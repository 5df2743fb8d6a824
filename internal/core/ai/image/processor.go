package image

import (
	"errors"
	"strings"
)

const defaultMimeType = "image/jpeg"

// Processor 將圖片資料整理成模型需要的 inline_data 格式
type Processor struct{}

// NewProcessor 創建圖片處理器
func NewProcessor() *Processor {
	return &Processor{}
}

// Split 拆出 mime type 與 base64 資料；沒有 data URI 前綴時視為 JPEG
func (p *Processor) Split(imageData string) (mimeType, data string, err error) {
	imageData = strings.TrimSpace(imageData)
	if imageData == "" {
		return "", "", errors.New("image data is empty")
	}
	if !strings.HasPrefix(imageData, "data:") {
		return defaultMimeType, imageData, nil
	}

	header, body, ok := strings.Cut(imageData, ",")
	if !ok || body == "" {
		return "", "", errors.New("invalid data URI")
	}
	mimeType = strings.TrimPrefix(header, "data:")
	mimeType, _, _ = strings.Cut(mimeType, ";")
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return mimeType, body, nil
}
