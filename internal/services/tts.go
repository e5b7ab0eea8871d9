package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/providers"
)

// TTSTimeout is the only explicit network timeout in the system.
const TTSTimeout = 30 * time.Second

var ErrEmptyText = errors.New("text is required")

// TTSService proxies speech synthesis with an at-most-one-in-flight policy:
// starting a new request cancels any pending one. The cancel handle lives
// here, outside the pending call.
type TTSService struct {
	client       *providers.ElevenLabsClient
	defaultVoice string

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewTTSService creates a new TTSService
func NewTTSService(client *providers.ElevenLabsClient, defaultVoice string) *TTSService {
	return &TTSService{client: client, defaultVoice: defaultVoice}
}

// SpeechResult carries the synthesized audio back to the handler.
type SpeechResult struct {
	AudioBase64 string `json:"audio_base64"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Synthesize converts text to audio, aborting after 30 seconds and aborting
// any previous in-flight synthesis first.
func (s *TTSService) Synthesize(ctx context.Context, text, voiceID, modelID string) (*SpeechResult, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if voiceID == "" {
		voiceID = s.defaultVoice
	}

	reqCtx, cancel := context.WithTimeout(ctx, TTSTimeout)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	audio, err := s.client.Synthesize(reqCtx, text, voiceID, modelID)

	s.mu.Lock()
	if s.gen == gen {
		s.cancel = nil
	}
	s.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	return &SpeechResult{
		AudioBase64: base64.StdEncoding.EncodeToString(audio),
		ContentType: "audio/mpeg",
		Size:        len(audio),
	}, nil
}
