package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"batech.ht/mythos-ai/internal/model"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        email TEXT UNIQUE NOT NULL,
        display_name TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS lesson_sessions (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        topic TEXT NOT NULL,
        request_json TEXT NOT NULL,
        story_json TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS chat_messages (
        id TEXT PRIMARY KEY, -- UUID
        session_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'ai')),
        content TEXT NOT NULL,
        story_json TEXT, -- Full GeneratedStory for ai turns
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES lesson_sessions (id)
    );

    CREATE TABLE IF NOT EXISTS history_items (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        original_topic TEXT NOT NULL,
        media_type TEXT NOT NULL,
        genre TEXT NOT NULL,
        story_json TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS settings (
        user_id INTEGER PRIMARY KEY,
        theme TEXT NOT NULL CHECK (theme IN ('light', 'dark')),
        FOREIGN KEY (user_id) REFERENCES users (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods
func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, email, display_name, created_at FROM users WHERE email = ?", email).Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// GetOrCreateUser upserts the simulated login record {email, display name}.
func (s *SQLiteStore) GetOrCreateUser(email, displayName string) (*User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if displayName != "" && displayName != user.DisplayName {
			if _, err := s.db.Exec("UPDATE users SET display_name = ? WHERE id = ?", displayName, user.ID); err != nil {
				return nil, fmt.Errorf("failed to update display name: %w", err)
			}
			user.DisplayName = displayName
		}
		return user, nil
	}

	res, err := s.db.Exec("INSERT INTO users (email, display_name) VALUES (?, ?)", email, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(id)
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, email, display_name, created_at FROM users WHERE id = ?", id).Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Lesson session methods
func (s *SQLiteStore) CreateLessonSession(userID int64, req *model.StoryRequest, story *model.GeneratedStory) (*LessonSession, error) {
	requestJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	storyJSON, err := json.Marshal(story)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal story: %w", err)
	}

	sessionID := uuid.NewString()
	now := time.Now()

	stmt, err := s.db.Prepare("INSERT INTO lesson_sessions (id, user_id, topic, request_json, story_json, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare session insert: %w", err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(sessionID, userID, req.Topic, string(requestJSON), string(storyJSON), now); err != nil {
		return nil, fmt.Errorf("failed to execute session insert: %w", err)
	}

	return &LessonSession{
		ID:        sessionID,
		UserID:    userID,
		Topic:     req.Topic,
		CreatedAt: now,
		Request:   req,
		Story:     story,
	}, nil
}

func (s *SQLiteStore) GetLessonSession(sessionID string, userID int64) (*LessonSession, error) {
	var session LessonSession
	var requestJSON, storyJSON string
	err := s.db.QueryRow("SELECT id, user_id, topic, request_json, story_json, created_at FROM lesson_sessions WHERE id = ? AND user_id = ?", sessionID, userID).
		Scan(&session.ID, &session.UserID, &session.Topic, &requestJSON, &storyJSON, &session.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get lesson session: %w", err)
	}

	if err := json.Unmarshal([]byte(requestJSON), &session.Request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session request: %w", err)
	}
	if err := json.Unmarshal([]byte(storyJSON), &session.Story); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session story: %w", err)
	}
	return &session, nil
}

func (s *SQLiteStore) GetLessonSessionsByUserID(userID int64) ([]LessonSession, error) {
	rows, err := s.db.Query("SELECT id, user_id, topic, created_at FROM lesson_sessions WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson sessions: %w", err)
	}
	defer rows.Close()

	var sessions []LessonSession
	for rows.Next() {
		var session LessonSession
		if err := rows.Scan(&session.ID, &session.UserID, &session.Topic, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Chat message methods
func (s *SQLiteStore) CreateChatMessage(msg *ChatMessage) error {
	msg.ID = uuid.NewString() // Ensure ID is set
	msg.Timestamp = time.Now()

	var storyJSON sql.NullString
	if msg.Story != nil {
		b, err := json.Marshal(msg.Story)
		if err != nil {
			return fmt.Errorf("failed to marshal message story: %w", err)
		}
		storyJSON = sql.NullString{String: string(b), Valid: true}
	}

	stmt, err := s.db.Prepare("INSERT INTO chat_messages (id, session_id, role, content, story_json, timestamp) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(msg.ID, msg.SessionID, msg.Role, msg.Content, storyJSON, msg.Timestamp); err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetChatMessagesBySessionID(sessionID string) ([]ChatMessage, error) {
	query := "SELECT id, session_id, role, content, story_json, timestamp FROM chat_messages WHERE session_id = ? ORDER BY timestamp ASC"
	rows, err := s.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		var storyJSON sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &storyJSON, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if storyJSON.Valid && storyJSON.String != "" {
			if err := json.Unmarshal([]byte(storyJSON.String), &msg.Story); err != nil {
				return nil, fmt.Errorf("failed to unmarshal message story: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// History methods.
// ReplaceHistory rewrites the whole bounded collection for one user in a
// single transaction; the in-memory view owned by the history service is the
// source of truth and is simply mirrored here.
func (s *SQLiteStore) ReplaceHistory(userID int64, items []HistoryItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM history_items WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear history rows: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO history_items (id, user_id, original_topic, media_type, genre, story_json, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		storyJSON, err := json.Marshal(item.GeneratedStory)
		if err != nil {
			return fmt.Errorf("failed to marshal history story: %w", err)
		}
		if _, err := stmt.Exec(item.ID, userID, item.OriginalTopic, string(item.MediaType), string(item.Genre), string(storyJSON), item.Timestamp); err != nil {
			return fmt.Errorf("failed to insert history item: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetHistoryItems(userID int64) ([]HistoryItem, error) {
	rows, err := s.db.Query("SELECT id, original_topic, media_type, genre, story_json, created_at FROM history_items WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history items: %w", err)
	}
	defer rows.Close()

	var items []HistoryItem
	for rows.Next() {
		var item HistoryItem
		var storyJSON string
		if err := rows.Scan(&item.ID, &item.OriginalTopic, &item.MediaType, &item.Genre, &storyJSON, &item.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if err := json.Unmarshal([]byte(storyJSON), &item.GeneratedStory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history story: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *SQLiteStore) ClearHistory(userID int64) error {
	if _, err := s.db.Exec("DELETE FROM history_items WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete history items: %w", err)
	}
	return nil
}

// Settings methods
func (s *SQLiteStore) GetTheme(userID int64) (string, error) {
	var theme string
	err := s.db.QueryRow("SELECT theme FROM settings WHERE user_id = ?", userID).Scan(&theme)
	if err != nil {
		if err == sql.ErrNoRows {
			return "dark", nil // Default theme
		}
		return "", fmt.Errorf("failed to query theme: %w", err)
	}
	return theme, nil
}

func (s *SQLiteStore) SetTheme(userID int64, theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("invalid theme %q", theme)
	}
	if _, err := s.db.Exec("INSERT INTO settings (user_id, theme) VALUES (?, ?) ON CONFLICT(user_id) DO UPDATE SET theme = excluded.theme", userID, theme); err != nil {
		return fmt.Errorf("failed to set theme: %w", err)
	}
	return nil
}
