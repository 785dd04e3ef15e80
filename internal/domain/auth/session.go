package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound 找不到 session 或已失效。
var ErrSessionNotFound = errors.New("session not found")

// Session 紀錄已登入的身分與上游 token。
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active 檢查 session 是否仍可使用。
func (s Session) Active(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// SessionStore 提供 session 儲存/查詢/刪除。
type SessionStore interface {
	SaveSession(ctx context.Context, sess Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// SessionHolder 保存目前的 session：登入、登出與 401 是寫入者，請求是讀取者。
type SessionHolder struct {
	mu           sync.RWMutex
	current      *Session
	onInvalidate func(Session)
}

func NewSessionHolder() *SessionHolder {
	return &SessionHolder{}
}

// Set 登入後寫入。
func (h *SessionHolder) Set(sess Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = &sess
}

// Current 回傳目前 session。
func (h *SessionHolder) Current() (Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return Session{}, false
	}
	return *h.current, true
}

// Token 回傳上游 token，未登入時為空字串。
func (h *SessionHolder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return ""
	}
	return h.current.Token
}

// Clear 登出時清除。
func (h *SessionHolder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
}

// Invalidate 上游回應 401 時清除，並通知註冊的 callback。
func (h *SessionHolder) Invalidate() {
	h.mu.Lock()
	old := h.current
	h.current = nil
	fn := h.onInvalidate
	h.mu.Unlock()

	if old != nil && fn != nil {
		fn(*old)
	}
}

// OnInvalidate 註冊 401 失效時的 callback。
func (h *SessionHolder) OnInvalidate(fn func(Session)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onInvalidate = fn
}
