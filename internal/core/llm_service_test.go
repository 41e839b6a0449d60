package core

import (
	"errors"
	"testing"
)

func TestParseLessonDraft(t *testing.T) {
	raw := `{"title":"T","content":"C","imagePrompt":"P","nextStepSuggestion":"N"}`
	draft, err := parseLessonDraft(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Title != "T" || draft.Content != "C" || draft.ImagePrompt != "P" || draft.NextStepSuggestion != "N" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
}

func TestParseLessonDraftStripsMarkdownFence(t *testing.T) {
	raw := "```json\n{\"title\":\"T\",\"content\":\"C\",\"imagePrompt\":\"P\",\"nextStepSuggestion\":\"N\"}\n```"
	draft, err := parseLessonDraft(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Title != "T" {
		t.Fatalf("unexpected title %q", draft.Title)
	}
}

func TestParseLessonDraftRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "here is your story: once upon a time"},
		{"empty object", "{}"},
		{"missing content", `{"title":"T"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseLessonDraft(tc.raw)
			if !errors.Is(err, ErrMalformedLesson) {
				t.Fatalf("expected ErrMalformedLesson, got %v", err)
			}
		})
	}
}
