package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cocktail-finder/internal/core/ai/provider"
	"cocktail-finder/internal/core/ai/queue"
	"cocktail-finder/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	last   provider.Request
	text   string
	err    error
	closed bool
}

func (p *stubProvider) Generate(_ context.Context, req *provider.Request) (string, error) {
	p.last = *req
	return p.text, p.err
}

func (p *stubProvider) GetModel() string { return "gemini-stub" }

func (p *stubProvider) Close() error {
	p.closed = true
	return nil
}

var testGemini = config.GeminiConfig{TextTimeout: 30 * time.Second, CommentTimeout: 15 * time.Second}

func TestGenerate_AppliesCallSiteTimeout(t *testing.T) {
	p := &stubProvider{text: "ok"}
	s := NewService(testGemini, p, queue.NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}))
	defer s.Close()

	tests := []struct {
		callSite string
		want     time.Duration
	}{
		{CallSiteSearch, 30 * time.Second},
		{CallSiteVision, 30 * time.Second},
		{CallSiteComment, 15 * time.Second},
		{"other", time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.callSite, func(t *testing.T) {
			req := &provider.Request{Prompt: "p", APIKey: "k", CallSite: tt.callSite, Options: provider.Options{Timeout: time.Second}}
			text, err := s.Generate(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, "ok", text)
			assert.Equal(t, tt.want, p.last.Options.Timeout)
			// caller's request is not modified
			assert.Equal(t, time.Second, req.Options.Timeout)
		})
	}

	status := s.QueueStatus()
	assert.Equal(t, int64(len(tests)), status.ProcessedCount)
	assert.Equal(t, 0, status.InFlight)
	assert.Equal(t, "gemini-stub", s.GetModel())
}

func TestGenerate_ErrorReleasesSlot(t *testing.T) {
	boom := errors.New("boom")
	p := &stubProvider{err: boom}
	s := NewService(testGemini, p, queue.NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}))

	_, err := s.Generate(context.Background(), &provider.Request{CallSite: CallSiteSearch})
	assert.ErrorIs(t, err, boom)

	status := s.QueueStatus()
	assert.Equal(t, 0, status.InFlight)
	assert.Equal(t, int64(0), status.ProcessedCount)

	require.NoError(t, s.Close())
	assert.True(t, p.closed)

	_, err = s.Generate(context.Background(), &provider.Request{CallSite: CallSiteSearch})
	assert.ErrorIs(t, err, queue.ErrClosed)
}

func TestGenerate_WithoutQueue(t *testing.T) {
	s := NewService(testGemini, &stubProvider{text: "ok"}, nil)

	text, err := s.Generate(context.Background(), &provider.Request{CallSite: CallSiteComment})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Nil(t, s.QueueStatus())
}
