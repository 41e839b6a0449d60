package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"batech.ht/mythos-ai/internal/auth"
	"batech.ht/mythos-ai/internal/core"
	"batech.ht/mythos-ai/internal/model"
	"batech.ht/mythos-ai/internal/store"
)

type APIHandler struct {
	lessonService  *core.LessonService
	historyService *core.HistoryService
	dbStore        *store.SQLiteStore
}

func NewAPIHandler(ls *core.LessonService, hs *core.HistoryService, db *store.SQLiteStore) *APIHandler {
	return &APIHandler{
		lessonService:  ls,
		historyService: hs,
		dbStore:        db,
	}
}

func (h *APIHandler) SessionAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		email, err := auth.ValidateSessionToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.dbStore.GetUserByEmail(email)
		if err != nil {
			log.Printf("Error in SessionAuthMiddleware for user %s: %v", email, err)
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}

		if user == nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		ctx = context.WithValue(ctx, "userEmail", user.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type LoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginHandler is the simulated login: any email and display name are
// accepted and exchanged for a session token.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Name == "" {
		http.Error(w, "Email and name are required", http.StatusBadRequest)
		return
	}

	user, err := h.lessonService.GetOrCreateUser(req.Email, req.Name)
	if err != nil {
		log.Printf("Error creating user %s: %v", req.Email, err)
		http.Error(w, "Failed to create user session", http.StatusInternalServerError)
		return
	}

	token, err := auth.GenerateSessionToken(req.Email)
	if err != nil {
		log.Printf("Error generating session token for user %s: %v", req.Email, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]any{"token": token, "user": user})
}

type CreateLessonResponse struct {
	*store.LessonSession
}

func (h *APIHandler) CreateLessonHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req model.StoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.lessonService.CreateLesson(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, core.ErrEmptyTopic) {
			http.Error(w, "A topic or concept to learn is required", http.StatusBadRequest)
			return
		}
		log.Printf("Error creating lesson for user %d: %v", userID, err)
		http.Error(w, "Lesson generation failed, please try again", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateLessonResponse{LessonSession: session})
}

func (h *APIHandler) ListLessonsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	sessions, err := h.lessonService.GetLessons(userID)
	if err != nil {
		log.Printf("Error listing lessons for user %d: %v", userID, err)
		http.Error(w, "Failed to list lessons", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(sessions)
}

type GetLessonDetailsResponse struct {
	*store.LessonSession
	Messages []store.ChatMessage `json:"messages"`
}

func (h *APIHandler) GetLessonDetailsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	sessionID := chi.URLParam(r, "sessionID")

	session, messages, err := h.lessonService.GetLessonDetails(sessionID, userID)
	if err != nil {
		log.Printf("Error getting lesson details for user %d, session %s: %v", userID, sessionID, err)
		http.Error(w, "Failed to get lesson details", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Lesson not found", http.StatusNotFound)
		return
	}

	resp := GetLessonDetailsResponse{
		LessonSession: session,
		Messages:      messages,
	}
	json.NewEncoder(w).Encode(resp)
}

type PostFollowUpRequest struct {
	Message string `json:"message"`
}

func (h *APIHandler) PostFollowUpHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	sessionID := chi.URLParam(r, "sessionID")

	var req PostFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	aiMessage, err := h.lessonService.ContinueLesson(r.Context(), userID, sessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyTopic):
			http.Error(w, "Message cannot be empty", http.StatusBadRequest)
		case errors.Is(err, core.ErrSessionNotFound):
			http.Error(w, "Lesson not found", http.StatusNotFound)
		case errors.Is(err, core.ErrGenerationInFlight):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Printf("Error continuing lesson for user %d, session %s: %v", userID, sessionID, err)
			http.Error(w, "Follow-up generation failed, please try again", http.StatusBadGateway)
		}
		return
	}
	json.NewEncoder(w).Encode(aiMessage)
}

func (h *APIHandler) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	json.NewEncoder(w).Encode(h.historyService.List(userID))
}

func (h *APIHandler) GetHistoryItemHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	itemID := chi.URLParam(r, "itemID")

	item := h.historyService.Get(userID, itemID)
	if item == nil {
		http.Error(w, "History item not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(item)
}

func (h *APIHandler) ClearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	h.historyService.Clear(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) GetThemeHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	theme, err := h.dbStore.GetTheme(userID)
	if err != nil {
		log.Printf("Error getting theme for user %d: %v", userID, err)
		http.Error(w, "Failed to get theme", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"theme": theme})
}

type SetThemeRequest struct {
	Theme string `json:"theme"`
}

func (h *APIHandler) SetThemeHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req SetThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.dbStore.SetTheme(userID, req.Theme); err != nil {
		http.Error(w, "Theme must be 'light' or 'dark'", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
