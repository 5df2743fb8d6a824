package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v)
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	return ensureEOF(dec)
}

// DecodeValue 解析任意 JSON 值；數字保留為 float64，方便與原始資料比對
func DecodeValue(data string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := ensureEOF(dec); err != nil {
		return nil, err
	}
	return v, nil
}

// ensureEOF 確保沒有多餘資料
func ensureEOF(dec *json.Decoder) error {
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var codeFencePattern = regexp.MustCompile("(?s)```[A-Za-z]*[ \t]*\\r?\\n?(.*?)```")

// StripCodeFences 取出 ```json ... ``` 或 ``` ... ``` 區塊內容；沒有區塊時回傳原文
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if m := codeFencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	// 被截斷的回應可能只有開頭的 fence
	if strings.HasPrefix(text, "```") {
		if nl := strings.Index(text, "\n"); nl != -1 {
			return strings.TrimSpace(text[nl+1:])
		}
		return strings.TrimSpace(strings.TrimLeft(text, "`"))
	}
	return text
}

// FencedBlocks 回傳文字中所有 markdown fence 區塊的內容
func FencedBlocks(text string) []string {
	matches := codeFencePattern.FindAllStringSubmatch(text, -1)
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, strings.TrimSpace(m[1]))
	}
	return blocks
}

// ErrNoJSON 找不到成對的 JSON 括號
var ErrNoJSON = errors.New("no JSON content found")

// ExtractJSONBlock 以最先出現的 [ 或 { 為起點，對應最後一個 ] 或 } 截取 JSON
func ExtractJSONBlock(text string) (string, error) {
	arrIdx := strings.Index(text, "[")
	objIdx := strings.Index(text, "{")
	if arrIdx == -1 && objIdx == -1 {
		return "", ErrNoJSON
	}

	start, closer := arrIdx, "]"
	if arrIdx == -1 || (objIdx != -1 && objIdx < arrIdx) {
		start, closer = objIdx, "}"
	}

	end := strings.LastIndex(text, closer)
	if end == -1 {
		return "", fmt.Errorf("%w: no closing %s", ErrNoJSON, closer)
	}
	if end < start {
		return "", fmt.Errorf("%w: closing %s precedes opening bracket", ErrNoJSON, closer)
	}
	return text[start : end+1], nil
}

// RepairJSON 依序修正常見的模型輸出錯誤：尾逗號、未加引號的鍵、未加引號的值
func RepairJSON(raw string) string {
	return QuoteBareValues(QuoteJSONKeys(RemoveTrailingCommas(raw)))
}

// RemoveTrailingCommas 移除 } 或 ] 前多餘的逗號，字串內容不受影響
func RemoveTrailingCommas(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	var sc stringScanner
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if sc.step(ch) {
			sb.WriteByte(ch)
			continue
		}
		if ch == ',' {
			j := skipSpace(raw, i+1)
			if j < len(raw) && (raw[j] == '}' || raw[j] == ']') {
				continue
			}
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw) + 16)
	var sc stringScanner
	var last byte
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if sc.step(ch) {
			sb.WriteByte(ch)
			if !sc.inString {
				last = '"'
			}
			continue
		}
		if isIdentStart(ch) && (last == '{' || last == ',') {
			j := i
			for j < len(raw) && isIdentPart(raw[j]) {
				j++
			}
			k := skipSpace(raw, j)
			if k < len(raw) && raw[k] == ':' {
				sb.WriteByte('"')
				sb.WriteString(raw[i:j])
				sb.WriteByte('"')
				last = '"'
			} else {
				sb.WriteString(raw[i:j])
				last = raw[j-1]
			}
			i = j - 1
			continue
		}
		sb.WriteByte(ch)
		if !isJSONSpace(ch) {
			last = ch
		}
	}
	return sb.String()
}

var bareLiteralPattern = regexp.MustCompile(`^(-?\d+(\.\d+)?([eE][+-]?\d+)?|true|false|null)$`)

// QuoteBareValues 將物件中未加引號的字串值補上引號；數字、布林與 null 保持不變
func QuoteBareValues(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw) + 16)
	var sc stringScanner
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if sc.step(ch) {
			sb.WriteByte(ch)
			continue
		}
		sb.WriteByte(ch)
		if ch != ':' {
			continue
		}

		j := skipSpace(raw, i+1)
		if j >= len(raw) {
			continue
		}
		switch raw[j] {
		case '"', '{', '[':
			continue
		}

		k := j
		for k < len(raw) && !strings.ContainsRune(",}]\n", rune(raw[k])) {
			k++
		}
		value := strings.TrimSpace(raw[j:k])
		sb.WriteString(raw[i+1 : j])
		switch {
		case value == "":
			sb.WriteString("null")
		case bareLiteralPattern.MatchString(value):
			sb.WriteString(value)
		default:
			quoted, _ := json.Marshal(value)
			sb.Write(quoted)
		}
		i = k - 1
	}
	return sb.String()
}

// stringScanner 追蹤目前是否位於 JSON 字串內
type stringScanner struct {
	inString bool
	escaped  bool
}

// step 回傳 ch 是否屬於字串（包含起訖引號）
func (s *stringScanner) step(ch byte) bool {
	if s.inString {
		switch {
		case s.escaped:
			s.escaped = false
		case ch == '\\':
			s.escaped = true
		case ch == '"':
			s.inString = false
		}
		return true
	}
	if ch == '"' {
		s.inString = true
		return true
	}
	return false
}

func skipSpace(s string, i int) int {
	for i < len(s) && isJSONSpace(s[i]) {
		i++
	}
	return i
}

func isJSONSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
