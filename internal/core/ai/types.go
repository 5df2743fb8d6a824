package ai

// GenerateRequest generateContent 請求
type GenerateRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// Content 內容
type Content struct {
	Parts []Part `json:"parts"`
}

// Part 文字或內嵌圖片
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData 內嵌 base64 資料
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// GenerationConfig 生成參數
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	CandidateCount  int     `json:"candidateCount"`
}

// GenerateResponse generateContent 響應；所有層級都可能缺少
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate 候選
type Candidate struct {
	Content *Content `json:"content"`
}

// ErrorResponse 錯誤響應
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// FirstText 取出 candidates[0].content.parts[0].text
func (r *GenerateResponse) FirstText() (string, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return "", false
	}
	c := r.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 {
		return "", false
	}
	text := c.Parts[0].Text
	if text == "" {
		return "", false
	}
	return text, true
}
