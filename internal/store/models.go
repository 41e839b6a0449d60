package store

import (
	"time"

	"batech.ht/mythos-ai/internal/model"
)

type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// LessonSession anchors one lesson conversation: the request that created it
// and the initial story every follow-up builds on.
type LessonSession struct {
	ID        string    `json:"id"` // UUID
	UserID    int64     `json:"user_id"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`

	Request *model.StoryRequest   `json:"request,omitempty"`
	Story   *model.GeneratedStory `json:"story,omitempty"`
}

// ChatMessage is one transcript turn. AI turns carry the full story record;
// their Content always equals the embedded story's content.
type ChatMessage struct {
	ID        string                `json:"id"` // UUID
	SessionID string                `json:"session_id"`
	Role      string                `json:"role"` // "user" or "ai"
	Content   string                `json:"content"`
	Story     *model.GeneratedStory `json:"story,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
}

// HistoryItem is a persisted snapshot of a finished top-level generation.
// Items are never mutated after creation.
type HistoryItem struct {
	ID            string           `json:"id"` // UUID, assigned at save time
	Timestamp     time.Time        `json:"timestamp"`
	OriginalTopic string           `json:"original_topic"`
	MediaType     model.MediaType  `json:"media_type"`
	Genre         model.StoryGenre `json:"genre"`

	model.GeneratedStory
}
