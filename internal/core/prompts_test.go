package core

import (
	"strings"
	"testing"

	"batech.ht/mythos-ai/internal/model"
)

func TestPersonaSelection(t *testing.T) {
	cases := []struct {
		name     string
		genre    model.StoryGenre
		followUp bool
		want     string
	}{
		{"educational initial", model.GenreEducational, false, personaExplainConcept},
		{"educational follow-up", model.GenreEducational, true, personaAnswerQuestion},
		{"story initial", model.GenreFantasy, false, personaNarrateStory},
		{"story follow-up", model.GenreAdventure, true, personaContinueStory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &model.StoryRequest{Genre: tc.genre, IsFollowUp: tc.followUp}
			if got := personaFor(req); got != tc.want {
				t.Fatalf("personaFor(%s, followUp=%v) picked the wrong persona", tc.genre, tc.followUp)
			}
		})
	}
}

func TestBuildLessonPromptIncludesConstraints(t *testing.T) {
	req := testRequest(model.MediaTextWithImage)
	req.CulturalContext = true

	prompt := buildLessonPrompt(req)
	if !strings.Contains(prompt, "Photosynthesis") {
		t.Fatal("prompt must contain the topic")
	}
	if !strings.Contains(prompt, "French") {
		t.Fatal("prompt must name the output language")
	}
	if !strings.Contains(prompt, "children aged 5-10") {
		t.Fatal("prompt must describe the target audience")
	}
	if !strings.Contains(prompt, "Haitian culture") {
		t.Fatal("cultural context flag must add the cultural instruction")
	}
}

func TestBuildLessonPromptFollowUpKeepsTurnOrder(t *testing.T) {
	req := testRequest(model.MediaTextOnly)
	req.IsFollowUp = true
	req.Topic = "Why are leaves green?"
	req.ConversationHistory = []model.ConversationTurn{
		{Role: "ai", Text: "Lesson about photosynthesis."},
		{Role: "user", Text: "Tell me more."},
		{Role: "ai", Text: "More detail about light."},
		{Role: "user", Text: "Why are leaves green?"},
	}

	prompt := buildLessonPrompt(req)

	positions := make([]int, 0, len(req.ConversationHistory))
	for _, turn := range req.ConversationHistory {
		idx := strings.Index(prompt, turn.Text)
		if idx < 0 {
			t.Fatalf("prompt is missing turn %q", turn.Text)
		}
		positions = append(positions, idx)
	}
	for i := 1; i < len(positions); i++ {
		if positions[i] < positions[i-1] {
			t.Fatalf("conversation turns out of order in prompt:\n%s", prompt)
		}
	}

	if !strings.Contains(prompt, "new message: Why are leaves green?") {
		t.Fatal("the new user message must come last, labeled as the new message")
	}
}

func TestBuildLessonPromptRendersNewMessageOnce(t *testing.T) {
	req := testRequest(model.MediaTextOnly)
	req.IsFollowUp = true
	req.Topic = "Why are leaves green?"
	req.ConversationHistory = []model.ConversationTurn{
		{Role: "ai", Text: "Lesson about photosynthesis."},
		{Role: "user", Text: "Why are leaves green?"},
	}

	prompt := buildLessonPrompt(req)
	if got := strings.Count(prompt, "Why are leaves green?"); got != 1 {
		t.Fatalf("new message must appear exactly once in the prompt, got %d:\n%s", got, prompt)
	}
}
