package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"batech.ht/mythos-ai/internal/config"
	"batech.ht/mythos-ai/internal/model"
)

// PlaceholderImageURL is substituted whenever the image provider fails or is
// not configured. Image failure never fails the overall request.
const PlaceholderImageURL = "https://placehold.co/1024x1024/1e1b4b/a5b4fc?text=MythosAI"

var imageStyleModifiers = map[model.ImageStyle]string{
	model.StyleDigitalArt:  "modern digital art",
	model.StyleRealistic:   "realistic photography",
	model.StyleCartoon:     "3D animated cartoon style, Pixar-like",
	model.StyleWatercolor:  "soft watercolor painting",
	model.StyleOilPainting: "classical oil painting",
	model.StyleSketch:      "pencil sketch",
	model.StyleRetro:       "retro vintage poster",
}

// ImageService talks to an images/generations endpoint (Ark and OpenAI share
// the same request and response shape) and returns either the hosted URL or
// a data URI built from the base64 payload.
type ImageService struct {
	apiURL     string
	apiKey     string
	model      string
	size       string
	httpClient *http.Client
}

func NewImageService() *ImageService {
	return &ImageService{
		apiURL:     config.AppConfig.ImageAPIURL,
		apiKey:     config.AppConfig.ImageAPIKey,
		model:      config.AppConfig.ImageModel,
		size:       "1024x1024",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *ImageService) GenerateImage(ctx context.Context, prompt string, style model.ImageStyle, culturalContext bool) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("image provider not configured")
	}

	fullPrompt := prompt
	if mod := imageStyleModifiers[style]; mod != "" {
		fullPrompt += ", " + mod
	}
	if culturalContext {
		fullPrompt += ", vibrant Caribbean color palette, Haitian cultural motifs"
	}

	body := map[string]any{
		"model":  s.model,
		"prompt": fullPrompt,
		"size":   s.size,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, strings.NewReader(string(b)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	respBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("image provider http %d: %s", res.StatusCode, string(respBytes))
	}

	var resp struct {
		Data []struct {
			URL    string `json:"url"`
			B64    string `json:"b64_json"`
			Format string `json:"format"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return "", fmt.Errorf("failed to decode image response: %w", err)
	}

	for _, d := range resp.Data {
		if d.URL != "" {
			return d.URL, nil
		}
		if d.B64 != "" {
			format := d.Format
			if format == "" {
				format = "png"
			}
			return "data:image/" + format + ";base64," + d.B64, nil
		}
	}
	return "", fmt.Errorf("no image returned")
}
