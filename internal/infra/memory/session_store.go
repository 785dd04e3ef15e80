package memory

import (
	"context"
	"sync"
	"time"

	"affiliate-dashboard/internal/domain/auth"
)

// SessionStore 保存 gateway session，過期的 session 在讀取時移除。
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]auth.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]auth.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) SaveSession(ctx context.Context, sess auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, id string) (auth.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if !sess.Active(s.now()) {
		_ = s.DeleteSession(ctx, id)
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len 目前保存的 session 數量。
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
