package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"  // 支援 GIF
	_ "image/png"  // 支援 PNG

	"cocktail-finder/internal/pkg/common"

	_ "golang.org/x/image/webp" // 支援 WebP
)

const jpegQuality = 85

// Service 圖片處理服務
type Service struct {
	maxSizeBytes int64
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
	}
}

// ProcessImage 解析 data URI 或純 base64 圖片，檢查大小與格式後轉為 JPEG data URI
func (s *Service) ProcessImage(imageData string) (string, error) {
	img, err := s.decode(imageData)
	if err != nil {
		return "", err
	}

	// 將圖片轉換為 JPEG 格式
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	// 重新編碼為 base64
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *Service) decode(imageData string) (image.Image, error) {
	imageData = strings.TrimSpace(imageData)
	if imageData == "" {
		return nil, common.NewValidationError("image data is empty")
	}

	payload := imageData
	if strings.HasPrefix(imageData, "data:") {
		if !strings.HasPrefix(imageData, "data:image/") {
			return nil, common.NewValidationError("invalid image data format")
		}
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 {
			return nil, common.NewValidationError("invalid base64 data format")
		}
		payload = parts[1]
	}

	// 粗略檢查編碼前的長度，避免解碼超大資料
	if s.maxSizeBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > s.maxSizeBytes+2 {
		return nil, common.NewValidationError(fmt.Sprintf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes))
	}

	decodedData, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, common.NewValidationError(fmt.Sprintf("failed to decode base64 data: %v", err))
	}

	// 檢查文件大小
	if s.maxSizeBytes > 0 && int64(len(decodedData)) > s.maxSizeBytes {
		return nil, common.NewValidationError(fmt.Sprintf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes))
	}

	img, format, err := image.Decode(bytes.NewReader(decodedData))
	if err != nil {
		return nil, common.NewValidationError(fmt.Sprintf("failed to decode image: %v", err))
	}
	if !isSupportedFormat(format) {
		return nil, common.NewValidationError(fmt.Sprintf("unsupported image format: %s", format))
	}
	return img, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"jpg":  true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
