package core

import (
	"context"
	"fmt"

	"batech.ht/mythos-ai/internal/model"
)

// DemoService is the deterministic stand-in TextGenerator used when no text
// credential is configured, or when the provider rejects the call with an
// authorization or quota error. It is a pure function of the request topic.
type DemoService struct{}

func NewDemoService() *DemoService {
	return &DemoService{}
}

func (s *DemoService) GenerateLesson(ctx context.Context, req *model.StoryRequest) (*LessonDraft, error) {
	topic := req.Topic

	content := fmt.Sprintf(
		"Welcome to your lesson on %q!\n\n"+
			"This is a demo-mode lesson: no AI provider is reachable right now, so the text "+
			"below is a fixed preview rather than generated content.\n\n"+
			"Imagine a full, illustrated explanation of %s here: what it is, why it matters, "+
			"and a memorable example to anchor it. Once a text provider credential is "+
			"configured, every lesson is written from scratch for your topic, audience and "+
			"language.\n\n"+
			"In the meantime you can still explore the app: browse your history, switch the "+
			"theme, or start another lesson.",
		topic, topic)

	return &LessonDraft{
		Title:              fmt.Sprintf("Demo lesson: %s", topic),
		Content:            content,
		ImagePrompt:        fmt.Sprintf("A colorful classroom illustration about %s", topic),
		NextStepSuggestion: fmt.Sprintf("Ask a question about %s to continue the lesson.", topic),
	}, nil
}
