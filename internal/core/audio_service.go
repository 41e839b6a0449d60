package core

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"batech.ht/mythos-ai/internal/config"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1/text-to-speech"

// AudioService narrates lesson text with the ElevenLabs text-to-speech API
// and returns the MP3 as a data URI. Callers treat every failure here as
// non-fatal: a lesson without audio is still a lesson.
type AudioService struct {
	apiKey     string
	voiceID    string
	httpClient *http.Client
}

func NewAudioService() *AudioService {
	return &AudioService{
		apiKey:     config.AppConfig.ElevenLabsAPIKey,
		voiceID:    config.AppConfig.ElevenLabsVoiceID,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *AudioService) GenerateAudio(ctx context.Context, text string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("audio provider not configured")
	}

	body := map[string]any{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s", elevenLabsBaseURL, s.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	audioBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("audio provider http %d: %s", res.StatusCode, string(audioBytes))
	}
	if len(audioBytes) == 0 {
		return "", fmt.Errorf("empty audio response")
	}

	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audioBytes), nil
}
