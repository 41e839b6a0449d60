package store

import (
	"path/filepath"
	"testing"
	"time"

	"batech.ht/mythos-ai/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetOrCreateUserIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	first, err := s.GetOrCreateUser("a@ecole.ht", "Ana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.GetOrCreateUser("a@ecole.ht", "Ana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("same email must map to the same user, got %d and %d", first.ID, second.ID)
	}

	renamed, err := s.GetOrCreateUser("a@ecole.ht", "Anacaona")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renamed.DisplayName != "Anacaona" {
		t.Fatalf("display name should follow the latest login, got %q", renamed.DisplayName)
	}
}

func TestLessonSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	user, _ := s.GetOrCreateUser("a@ecole.ht", "Ana")

	req := &model.StoryRequest{
		Topic:     "La Révolution Haïtienne",
		Genre:     model.GenreEducational,
		AgeGroup:  model.AgeGroupTeen,
		MediaType: model.MediaTextWithImage,
		Language:  "Français",
	}
	story := &model.GeneratedStory{Title: "1804", Content: "Une leçon.", ImageURL: "https://img.example/1.png"}

	session, err := s.CreateLessonSession(user.ID, req, story)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.GetLessonSession(session.ID, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded == nil {
		t.Fatal("session not found after insert")
	}
	if loaded.Request.Topic != req.Topic || loaded.Story.Title != story.Title {
		t.Fatalf("request/story did not round-trip: %+v", loaded)
	}

	// Sessions are owned by their user.
	other, _ := s.GetOrCreateUser("b@ecole.ht", "Bob")
	if found, _ := s.GetLessonSession(session.ID, other.ID); found != nil {
		t.Fatal("a session must not be visible to another user")
	}
}

func TestChatMessagesKeepChronologicalOrder(t *testing.T) {
	s := newTestStore(t)
	user, _ := s.GetOrCreateUser("a@ecole.ht", "Ana")
	session, err := s.CreateLessonSession(user.ID, &model.StoryRequest{Topic: "t", MediaType: model.MediaTextOnly}, &model.GeneratedStory{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	turns := []ChatMessage{
		{SessionID: session.ID, Role: "user", Content: "first"},
		{SessionID: session.ID, Role: "ai", Content: "second", Story: &model.GeneratedStory{Title: "T", Content: "second"}},
		{SessionID: session.ID, Role: "user", Content: "third"},
	}
	for i := range turns {
		if err := s.CreateChatMessage(&turns[i]); err != nil {
			t.Fatalf("failed to insert message %d: %v", i, err)
		}
		time.Sleep(2 * time.Millisecond) // distinct timestamps
	}

	messages, err := s.GetChatMessagesBySessionID(session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if messages[i].Content != want {
			t.Fatalf("message %d out of order: got %q want %q", i, messages[i].Content, want)
		}
	}
	if messages[1].Story == nil || messages[1].Story.Content != "second" {
		t.Fatal("ai turn must carry its embedded story")
	}
}

func TestReplaceHistoryMirrorsTheBoundedCollection(t *testing.T) {
	s := newTestStore(t)
	user, _ := s.GetOrCreateUser("a@ecole.ht", "Ana")

	items := []HistoryItem{
		{ID: "newer", Timestamp: time.Now(), OriginalTopic: "b", MediaType: model.MediaTextOnly, Genre: model.GenreMystery, GeneratedStory: model.GeneratedStory{Title: "B", Content: "b"}},
		{ID: "older", Timestamp: time.Now().Add(-time.Minute), OriginalTopic: "a", MediaType: model.MediaTextOnly, Genre: model.GenreMystery, GeneratedStory: model.GeneratedStory{Title: "A", Content: "a"}},
	}
	if err := s.ReplaceHistory(user.ID, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.GetHistoryItems(user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 2 || loaded[0].ID != "newer" {
		t.Fatalf("expected newest-first history, got %+v", loaded)
	}

	// A second replace fully overwrites the previous rows.
	if err := s.ReplaceHistory(user.ID, items[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, _ = s.GetHistoryItems(user.ID)
	if len(loaded) != 1 {
		t.Fatalf("expected 1 item after replace, got %d", len(loaded))
	}

	if err := s.ClearHistory(user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, _ = s.GetHistoryItems(user.ID)
	if len(loaded) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(loaded))
	}
}

func TestThemeDefaultsAndUpdates(t *testing.T) {
	s := newTestStore(t)
	user, _ := s.GetOrCreateUser("a@ecole.ht", "Ana")

	theme, err := s.GetTheme(user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != "dark" {
		t.Fatalf("default theme must be dark, got %q", theme)
	}

	if err := s.SetTheme(user.ID, "light"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	theme, _ = s.GetTheme(user.ID)
	if theme != "light" {
		t.Fatalf("expected light theme, got %q", theme)
	}

	if err := s.SetTheme(user.ID, "sepia"); err == nil {
		t.Fatal("invalid theme must be rejected")
	}
}
