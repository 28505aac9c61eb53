// Package session keeps per-conversation navigation and workflow state.
// Sessions live in memory only; losing them on restart is acceptable.
package session

import (
	"sync"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/broadcast"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/menu"
)

// Session stores conversation state for one user. It is never shared
// across conversations.
type Session struct {
	Current  menu.Menu
	Previous menu.Menu
	Game     menu.Game

	// AwaitingQuestion is set while the bot expects the next plain
	// message to be a new question.
	AwaitingQuestion bool
	// ActiveQuestion is the ticket an admin is currently relaying with.
	ActiveQuestion int64
	// Draft holds an admin's pending broadcast, if any.
	Draft *broadcast.Draft
}

// Store is a concurrency-safe session registry keyed by user ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns a snapshot of the user's session, or a default session if
// none exists yet. The default game is ATS.
func (s *Store) Get(userID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[userID]; ok {
		return *sess
	}
	return Session{Game: menu.GameATS}
}

// Update mutates the user's session under the store lock, creating it
// lazily on first contact.
func (s *Store) Update(userID int64, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{Game: menu.GameATS}
		s.sessions[userID] = sess
	}
	fn(sess)
}

// Clear removes the entire session for a user.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}
