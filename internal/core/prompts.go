package core

import (
	"fmt"
	"strings"

	"batech.ht/mythos-ai/internal/model"
)

// The four persona instructions, selected by (educational genre?) x (follow-up?).
const (
	personaExplainConcept = "You are a patient teacher. Explain the concept the student asks about " +
		"as a clear, structured mini-lesson with concrete everyday examples. " +
		"Finish with one short suggestion for what to explore next."

	personaAnswerQuestion = "You are a patient teacher continuing an ongoing lesson. Answer the " +
		"student's follow-up question directly, building on what was already covered in the " +
		"conversation. Do not restart the lesson from scratch."

	personaNarrateStory = "You are a gifted storyteller. Write an original, vivid story about the " +
		"requested subject, with a beginning, a middle and a satisfying end. " +
		"Finish with one short idea for how the story could continue."

	personaContinueStory = "You are a gifted storyteller continuing a story in progress. Pick up " +
		"exactly where the conversation left off and weave the reader's input into the next part. " +
		"Keep characters and tone consistent."
)

var ageGroupDescriptions = map[model.AgeGroup]string{
	model.AgeGroupChild: "children aged 5-10, using simple words and a playful tone",
	model.AgeGroupTeen:  "teenagers aged 11-17, relatable and engaging",
	model.AgeGroupAdult: "adults, detailed and at an expert level",
}

func personaFor(req *model.StoryRequest) string {
	if req.Genre == model.GenreEducational {
		if req.IsFollowUp {
			return personaAnswerQuestion
		}
		return personaExplainConcept
	}
	if req.IsFollowUp {
		return personaContinueStory
	}
	return personaNarrateStory
}

// buildLessonPrompt assembles the task text sent alongside the persona:
// topic, audience, output language, optional cultural instruction and, on
// follow-ups, the full conversation so far with the new message last.
func buildLessonPrompt(req *model.StoryRequest) string {
	var b strings.Builder

	audience := ageGroupDescriptions[req.AgeGroup]
	if audience == "" {
		audience = "a general audience"
	}

	if req.IsFollowUp {
		turns := req.ConversationHistory
		// The new message closes the history and is rendered separately below.
		if n := len(turns); n > 0 && turns[n-1].Role == "user" && turns[n-1].Text == req.Topic {
			turns = turns[:n-1]
		}
		b.WriteString("The conversation so far:\n")
		for _, turn := range turns {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Text)
		}
		fmt.Fprintf(&b, "\nThe student's new message: %s\n", req.Topic)
	} else {
		fmt.Fprintf(&b, "Subject: %s\n", req.Topic)
	}

	fmt.Fprintf(&b, "\nTarget audience: %s.\n", audience)
	fmt.Fprintf(&b, "Write everything in %s.\n", req.Language)

	if req.CulturalContext {
		b.WriteString("Anchor the content in Haitian culture: local references, places, proverbs and history where they fit naturally.\n")
	}

	b.WriteString("\nAlso produce a detailed English description for a single cover illustration of this content (imagePrompt), " +
		"and one short suggestion for continuing the lesson (nextStepSuggestion).")

	return b.String()
}
