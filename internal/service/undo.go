package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

type undoEntry struct {
	userID    int64
	snapshot  models.TimelineEvent
	expiresAt time.Time
}

// UndoStore holds the pending undo tokens of archived events. Tokens are
// single use, bound to the user that archived the event, and expire after
// the undo window. When the store is full the oldest token is evicted.
type UndoStore struct {
	mu     sync.Mutex
	tokens *lru.Cache
	window time.Duration
	now    func() time.Time
}

// NewUndoStore creates an UndoStore holding at most size tokens.
func NewUndoStore(size int, window time.Duration) (*UndoStore, error) {
	if size <= 0 {
		size = constants.DefaultUndoCacheSize
	}
	if window <= 0 {
		window = constants.DefaultUndoWindow
	}
	tokens, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create undo store: %w", err)
	}
	return &UndoStore{tokens: tokens, window: window, now: time.Now}, nil
}

// Window returns how long a token stays valid.
func (s *UndoStore) Window() time.Duration {
	return s.window
}

// Issue records a snapshot of an archived event and returns its undo token.
func (s *UndoStore) Issue(userID int64, event *models.TimelineEvent) (string, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.New().String()
	expiresAt := s.now().Add(s.window)
	s.tokens.Add(token, undoEntry{userID: userID, snapshot: *event, expiresAt: expiresAt})
	return token, expiresAt
}

// Redeem consumes a token and returns the archived snapshot. Unknown, expired
// and foreign tokens all yield an undo-expired error. A foreign token stays
// live for its owner.
func (s *UndoStore) Redeem(userID int64, token string) (*models.TimelineEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.tokens.Get(token)
	if !ok {
		return nil, utils.NewUndoExpiredError()
	}
	entry := v.(undoEntry)
	if !s.now().Before(entry.expiresAt) {
		s.tokens.Remove(token)
		return nil, utils.NewUndoExpiredError()
	}
	if entry.userID != userID {
		return nil, utils.NewUndoExpiredError()
	}

	s.tokens.Remove(token)
	snapshot := entry.snapshot
	return &snapshot, nil
}

// Purge drops expired tokens and returns how many were removed.
func (s *UndoStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for _, key := range s.tokens.Keys() {
		v, ok := s.tokens.Peek(key)
		if !ok {
			continue
		}
		if !now.Before(v.(undoEntry).expiresAt) {
			s.tokens.Remove(key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tokens held, expired or not.
func (s *UndoStore) Len() int {
	return s.tokens.Len()
}
