package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

// DefaultTTSModel is used when the caller does not pick one.
const DefaultTTSModel = "eleven_turbo_v2_5"

// ElevenLabsClient wraps the text-to-speech synthesis endpoint.
type ElevenLabsClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

func NewElevenLabsClient(apiKey string, httpClient *http.Client) *ElevenLabsClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ElevenLabsClient{apiKey: apiKey, httpClient: httpClient, baseURL: elevenLabsBaseURL}
}

// SetBaseURL overrides the API endpoint (used for testing)
func (c *ElevenLabsClient) SetBaseURL(u string) {
	c.baseURL = u
}

// Synthesize converts text to MP3 audio bytes. Cancellation and the 30s
// deadline are carried by ctx; the caller owns that policy.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, voiceID, modelID string) ([]byte, error) {
	if modelID == "" {
		modelID = DefaultTTSModel
	}

	body, err := json.Marshal(map[string]interface{}{
		"text":     text,
		"model_id": modelID,
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tts audio: %w", err)
	}
	return audio, nil
}
