package core

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"batech.ht/mythos-ai/internal/model"
	"batech.ht/mythos-ai/internal/store"
)

// MaxHistoryItems bounds the per-user history; saving past the cap evicts
// oldest-first.
const MaxHistoryItems = 5

// HistoryPersister is the slice of the store the history service needs.
type HistoryPersister interface {
	ReplaceHistory(userID int64, items []store.HistoryItem) error
	GetHistoryItems(userID int64) ([]store.HistoryItem, error)
	ClearHistory(userID int64) error
}

// HistoryService owns the bounded per-user history collection. The in-memory
// view is authoritative for the running session; writes through to the store
// are best effort and a failed write never loses the in-memory update.
type HistoryService struct {
	persister HistoryPersister

	mu    sync.Mutex
	cache map[int64][]store.HistoryItem
}

func NewHistoryService(persister HistoryPersister) *HistoryService {
	return &HistoryService{
		persister: persister,
		cache:     make(map[int64][]store.HistoryItem),
	}
}

// Save snapshots a finished top-level generation: prepend, truncate to the
// cap, persist.
func (s *HistoryService) Save(userID int64, story *model.GeneratedStory, req *model.StoryRequest) store.HistoryItem {
	item := store.HistoryItem{
		ID:             uuid.NewString(),
		Timestamp:      time.Now(),
		OriginalTopic:  req.Topic,
		MediaType:      req.MediaType,
		Genre:          req.Genre,
		GeneratedStory: *story,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := append([]store.HistoryItem{item}, s.loadLocked(userID)...)
	if len(items) > MaxHistoryItems {
		items = items[:MaxHistoryItems]
	}
	s.cache[userID] = items

	if err := s.persister.ReplaceHistory(userID, items); err != nil {
		log.Printf("Failed to persist history for user %d, in-memory view kept: %v", userID, err)
	}
	return item
}

func (s *HistoryService) List(userID int64) []store.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.loadLocked(userID)
	out := make([]store.HistoryItem, len(items))
	copy(out, items)
	return out
}

// Get returns the matching snapshot, or nil. Items are read-only.
func (s *HistoryService) Get(userID int64, itemID string) *store.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.loadLocked(userID) {
		if item.ID == itemID {
			snapshot := item
			return &snapshot
		}
	}
	return nil
}

func (s *HistoryService) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[userID] = []store.HistoryItem{}
	if err := s.persister.ClearHistory(userID); err != nil {
		log.Printf("Failed to clear persisted history for user %d: %v", userID, err)
	}
}

// loadLocked lazily reads a user's history from the store on first touch.
// Callers must hold s.mu.
func (s *HistoryService) loadLocked(userID int64) []store.HistoryItem {
	if items, ok := s.cache[userID]; ok {
		return items
	}
	items, err := s.persister.GetHistoryItems(userID)
	if err != nil {
		log.Printf("Failed to load history for user %d, starting empty: %v", userID, err)
		items = []store.HistoryItem{}
	}
	if len(items) > MaxHistoryItems {
		items = items[:MaxHistoryItems]
	}
	s.cache[userID] = items
	return items
}
