package core

import (
	"context"
	"fmt"
	"time"

	"batech.ht/mythos-ai/internal/model"
)

// VideoService is the "simulate" rendering strategy: after a short artificial
// delay the cover image itself is returned as the video reference, flagged as
// simulated. The delay models a slow asynchronous provider so the rest of the
// pipeline and the UI behave the same once a real backend exists.
type VideoService struct {
	renderDelay time.Duration
}

func NewVideoService() *VideoService {
	return &VideoService{renderDelay: 1500 * time.Millisecond}
}

func (s *VideoService) GenerateVideo(ctx context.Context, imageURL string, format model.VideoFormat) (*VideoResult, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("no source image for video")
	}

	select {
	case <-time.After(s.renderDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &VideoResult{URL: imageURL, Simulated: true}, nil
}
