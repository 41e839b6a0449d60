package core

import (
	"context"

	"batech.ht/mythos-ai/internal/model"
)

// LessonDraft is the structured result of the text leg: exactly the four
// string fields the providers are asked to fill.
type LessonDraft struct {
	Title              string `json:"title"`
	Content            string `json:"content"`
	ImagePrompt        string `json:"imagePrompt"`
	NextStepSuggestion string `json:"nextStepSuggestion"`
}

// TextGenerator produces the lesson text. The Gemini-backed service and the
// deterministic demo generator both satisfy it; the orchestrator picks one
// based on configuration, not scattered conditionals.
type TextGenerator interface {
	GenerateLesson(ctx context.Context, req *model.StoryRequest) (*LessonDraft, error)
}

// ImageGenerator turns an image prompt into a URL (remote or data URI).
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, style model.ImageStyle, culturalContext bool) (string, error)
}

// AudioGenerator narrates already-cleaned lesson text.
type AudioGenerator interface {
	GenerateAudio(ctx context.Context, text string) (string, error)
}

type VideoResult struct {
	URL       string
	Simulated bool
}

// VideoGenerator renders a video from the lesson's cover image. The only
// current implementation simulates the render; a real backend can be
// substituted behind this contract with Simulated cleared.
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, imageURL string, format model.VideoFormat) (*VideoResult, error)
}
