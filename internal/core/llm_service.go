package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"batech.ht/mythos-ai/internal/config"
	"batech.ht/mythos-ai/internal/model"
)

// LLMService is the Gemini-backed TextGenerator. It asks the model for a
// structured JSON object with exactly the four LessonDraft fields.
type LLMService struct {
	client    *genai.Client
	modelName string
}

func NewLLMService() *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client:    client,
		modelName: config.AppConfig.GeminiModel,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

var lessonResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":              {Type: genai.TypeString, Description: "A catchy title for the lesson"},
		"content":            {Type: genai.TypeString, Description: "The full lesson or story body"},
		"imagePrompt":        {Type: genai.TypeString, Description: "English description of a single cover illustration"},
		"nextStepSuggestion": {Type: genai.TypeString, Description: "One short idea to continue the lesson"},
	},
	Required: []string{"title", "content", "imagePrompt", "nextStepSuggestion"},
}

func (s *LLMService) GenerateLesson(ctx context.Context, req *model.StoryRequest) (*LessonDraft, error) {
	gm := s.client.GenerativeModel(s.modelName)

	gm.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(personaFor(req))},
	}
	gm.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   lessonResponseSchema,
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(buildLessonPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("gemini lesson request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response from gemini", ErrMalformedLesson)
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	return parseLessonDraft(raw.String())
}

// parseLessonDraft decodes the structured provider output. A response that
// does not match the schema is a hard generation error, never silently
// patched up.
func parseLessonDraft(raw string) (*LessonDraft, error) {
	// Some models still wrap JSON mode output in a markdown fence.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var draft LessonDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLesson, err)
	}
	if draft.Title == "" || draft.Content == "" {
		return nil, fmt.Errorf("%w: missing title or content", ErrMalformedLesson)
	}
	return &draft, nil
}
