package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Split(t *testing.T) {
	p := NewProcessor()

	tests := []struct {
		name     string
		in       string
		wantMime string
		wantData string
		wantErr  bool
	}{
		{"data uri", "data:image/png;base64,iVBOR", "image/png", "iVBOR", false},
		{"raw base64", " /9j/4AAQ ", "image/jpeg", "/9j/4AAQ", false},
		{"missing mime", "data:;base64,abc", "image/jpeg", "abc", false},
		{"empty", "", "", "", true},
		{"no payload", "data:image/png;base64,", "", "", true},
		{"no comma", "data:image/png;base64", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, data, err := p.Split(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMime, mime)
			assert.Equal(t, tt.wantData, data)
		})
	}
}
