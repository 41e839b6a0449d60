package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/api/googleapi"

	"batech.ht/mythos-ai/internal/model"
)

var (
	// ErrEmptyTopic is reported before any provider is contacted.
	ErrEmptyTopic = errors.New("topic is required")
	// ErrMalformedLesson marks a text provider response that does not match
	// the requested structure.
	ErrMalformedLesson = errors.New("malformed lesson response")
)

// Orchestrator runs the four-stage generation pipeline for one StoryRequest:
// text, then image, then video (which needs the image), then audio. Only the
// text leg can fail the whole request; the other legs degrade.
type Orchestrator struct {
	text  TextGenerator // nil when no credential is configured
	demo  TextGenerator
	image ImageGenerator
	audio AudioGenerator
	video VideoGenerator
}

func NewOrchestrator(text TextGenerator, demo TextGenerator, image ImageGenerator, audio AudioGenerator, video VideoGenerator) *Orchestrator {
	return &Orchestrator{
		text:  text,
		demo:  demo,
		image: image,
		audio: audio,
		video: video,
	}
}

// Generate produces one GeneratedStory or fails; it never returns a partially
// built record together with an error.
func (o *Orchestrator) Generate(ctx context.Context, req *model.StoryRequest) (*model.GeneratedStory, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, ErrEmptyTopic
	}

	// No credential at all: the designed degraded mode. No provider is
	// contacted, the demo story stands in for the whole pipeline.
	if o.text == nil {
		return o.demoStory(ctx, req)
	}

	draft, err := o.text.GenerateLesson(ctx, req)
	if err != nil {
		if isAuthOrQuotaError(err) {
			log.Printf("Text provider rejected the call (%v), falling back to demo story", err)
			return o.demoStory(ctx, req)
		}
		return nil, fmt.Errorf("text generation failed: %w", err)
	}

	story := &model.GeneratedStory{
		Title:              draft.Title,
		Content:            draft.Content,
		ImagePrompt:        draft.ImagePrompt,
		NextStepSuggestion: draft.NextStepSuggestion,
		VideoFormat:        req.VideoFormat,
	}

	if req.MediaType != model.MediaTextOnly {
		imageURL, err := o.image.GenerateImage(ctx, draft.ImagePrompt, req.ImageStyle, req.CulturalContext)
		if err != nil {
			log.Printf("Image generation failed, using placeholder: %v", err)
			imageURL = PlaceholderImageURL
		}
		story.ImageURL = imageURL

		if req.MediaType == model.MediaVideo && story.ImageURL != "" {
			result, err := o.video.GenerateVideo(ctx, story.ImageURL, req.VideoFormat)
			if err != nil {
				log.Printf("Video generation failed: %v", err)
				story.VideoError = "The video could not be rendered; the illustrated lesson is available instead."
			} else {
				story.VideoURL = result.URL
				story.VideoSimulated = result.Simulated
			}
		}
	}

	// Audio runs last and is independent of the image legs. It could run in
	// parallel with them; the pipeline stays sequential on purpose.
	audioURL, err := o.audio.GenerateAudio(ctx, CleanNarrationText(draft.Content))
	if err != nil {
		log.Printf("Audio generation failed, lesson returned without narration: %v", err)
	} else {
		story.AudioURL = audioURL
	}

	return story, nil
}

// demoStory builds the complete fallback record without touching any
// provider: placeholder image when media was requested, no audio, no video.
// A video request still carries an explanation instead of a video URL.
func (o *Orchestrator) demoStory(ctx context.Context, req *model.StoryRequest) (*model.GeneratedStory, error) {
	draft, err := o.demo.GenerateLesson(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("demo generation failed: %w", err)
	}

	story := &model.GeneratedStory{
		Title:              draft.Title,
		Content:            draft.Content,
		ImagePrompt:        draft.ImagePrompt,
		NextStepSuggestion: draft.NextStepSuggestion,
	}
	if req.MediaType != model.MediaTextOnly {
		story.ImageURL = PlaceholderImageURL
	}
	if req.MediaType == model.MediaVideo {
		story.VideoError = "Video rendering is not available in demo mode."
	}
	return story, nil
}

// isAuthOrQuotaError recognizes the anticipated provider rejections (bad key,
// exhausted quota) that are redirected to the demo story instead of being
// surfaced as failures.
func isAuthOrQuotaError(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 401, 403, 429:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "api key") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "permission_denied") ||
		strings.Contains(msg, "resource_exhausted")
}
