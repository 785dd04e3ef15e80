package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"affiliate-dashboard/internal/domain/auth"

	"github.com/redis/go-redis/v9"
)

// SessionStore 以 JSON 儲存 session，TTL 與 session 到期時間一致。
type SessionStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewSessionStore(client *redis.Client, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix, now: time.Now}
}

func (s *SessionStore) key(id string) string {
	return s.prefix + id
}

func (s *SessionStore) SaveSession(ctx context.Context, sess auth.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", sess.ID)
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, id string) (auth.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if err != nil {
		return auth.Session{}, fmt.Errorf("get session: %w", err)
	}
	var sess auth.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return auth.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
