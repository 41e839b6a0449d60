package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"batech.ht/mythos-ai/internal/model"
	"batech.ht/mythos-ai/internal/store"
)

var (
	ErrSessionNotFound = errors.New("lesson session not found")
	// ErrGenerationInFlight rejects a follow-up while another generation for
	// the same session is still running.
	ErrGenerationInFlight = errors.New("a generation for this lesson is already in progress")
)

// LessonService coordinates the orchestrator, the transcript store and the
// history service: creating lessons, serving them back, and extending a
// lesson conversation one exchange at a time.
type LessonService struct {
	dbStore *store.SQLiteStore
	orch    *Orchestrator
	history *HistoryService

	mu       sync.Mutex
	inFlight map[string]bool // session IDs with a running generation
}

func NewLessonService(dbStore *store.SQLiteStore, orch *Orchestrator, history *HistoryService) *LessonService {
	return &LessonService{
		dbStore:  dbStore,
		orch:     orch,
		history:  history,
		inFlight: make(map[string]bool),
	}
}

func (s *LessonService) GetOrCreateUser(email, displayName string) (*store.User, error) {
	return s.dbStore.GetOrCreateUser(email, displayName)
}

// CreateLesson runs one top-level generation cycle and anchors a new session
// on the result. Successful top-level generations are also snapshotted into
// the bounded history.
func (s *LessonService) CreateLesson(ctx context.Context, userID int64, req *model.StoryRequest) (*store.LessonSession, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	story, err := s.orch.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	session, err := s.dbStore.CreateLessonSession(userID, req, story)
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson session: %w", err)
	}

	s.history.Save(userID, story, req)
	return session, nil
}

func (s *LessonService) GetLessons(userID int64) ([]store.LessonSession, error) {
	return s.dbStore.GetLessonSessionsByUserID(userID)
}

func (s *LessonService) GetLessonDetails(sessionID string, userID int64) (*store.LessonSession, []store.ChatMessage, error) {
	session, err := s.dbStore.GetLessonSession(sessionID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get lesson session: %w", err)
	}
	if session == nil {
		return nil, nil, nil // Not found
	}

	messages, err := s.dbStore.GetChatMessagesBySessionID(sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get transcript: %w", err)
	}
	return session, messages, nil
}

// ContinueLesson extends a session by one exchange. The user turn is
// persisted optimistically before the orchestrator runs, so the question
// stays in the transcript even when the answer fails; the failure itself is
// returned to the caller rather than swallowed.
func (s *LessonService) ContinueLesson(ctx context.Context, userID int64, sessionID string, userMessage string) (*store.ChatMessage, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, ErrEmptyTopic
	}

	session, err := s.dbStore.GetLessonSession(sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if !s.acquireSession(sessionID) {
		return nil, ErrGenerationInFlight
	}
	defer s.releaseSession(sessionID)

	userMsg := store.ChatMessage{
		SessionID: sessionID,
		Role:      "user",
		Content:   userMessage,
	}
	if err := s.dbStore.CreateChatMessage(&userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	transcript, err := s.dbStore.GetChatMessagesBySessionID(sessionID)
	if err != nil {
		log.Printf("Failed to load transcript for session %s, continuing with the new message only: %v", sessionID, err)
		transcript = []store.ChatMessage{userMsg}
	}

	followUp := buildFollowUpRequest(session, transcript, userMessage)

	story, err := s.orch.Generate(ctx, followUp)
	if err != nil {
		// The optimistic user turn stays in the transcript.
		return nil, err
	}

	aiMsg := store.ChatMessage{
		SessionID: sessionID,
		Role:      "ai",
		Content:   story.Content,
		Story:     story,
	}
	if err := s.dbStore.CreateChatMessage(&aiMsg); err != nil {
		return nil, fmt.Errorf("failed to store ai message: %w", err)
	}
	return &aiMsg, nil
}

// buildFollowUpRequest derives the follow-up StoryRequest from the anchoring
// session: same settings, topic replaced by the new message, and the context
// ordered as [initial lesson content, prior turns in order, new message].
func buildFollowUpRequest(session *store.LessonSession, transcript []store.ChatMessage, userMessage string) *model.StoryRequest {
	history := make([]model.ConversationTurn, 0, len(transcript)+1)
	history = append(history, model.ConversationTurn{Role: "ai", Text: session.Story.Content})

	for _, msg := range transcript {
		text := msg.Content
		if msg.Role == "ai" && msg.Story != nil {
			text = msg.Story.Content
		}
		history = append(history, model.ConversationTurn{Role: msg.Role, Text: text})
	}

	followUp := *session.Request
	followUp.Topic = userMessage
	followUp.IsFollowUp = true
	followUp.ConversationHistory = history
	return &followUp
}

func (s *LessonService) acquireSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[sessionID] {
		return false
	}
	s.inFlight[sessionID] = true
	return true
}

func (s *LessonService) releaseSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

// validateRequest enforces the request invariants before any provider call.
func validateRequest(req *model.StoryRequest) error {
	if strings.TrimSpace(req.Topic) == "" {
		return ErrEmptyTopic
	}
	if req.MediaType != model.MediaVideo {
		req.VideoFormat = "" // only meaningful for video requests
	} else if req.VideoFormat == "" {
		req.VideoFormat = model.VideoFormatMP4
	}
	if !req.IsFollowUp {
		req.ConversationHistory = nil
	}
	return nil
}
