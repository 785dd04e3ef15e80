package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/metrics"

	"github.com/google/uuid"
)

// Store 為參考上游使用的記憶體資料庫，以 RWMutex 保護。
type Store struct {
	mu         sync.RWMutex
	users      map[string]auth.User
	emails     map[string]string // email -> id
	records    []metrics.PeriodRecord
	plans      map[string]metrics.VipPlan
	planOrder  []string
	members    []metrics.VipMember
	accounts   map[string]metrics.TradingAccount
	operations []metrics.TradingOperation
	platforms  map[string][]metrics.Platform
	reports    []metrics.DailyReport
	now        func() time.Time
}

// NewStore 建立新的記憶體 Store 實例。
func NewStore() *Store {
	return &Store{
		users:     make(map[string]auth.User),
		emails:    make(map[string]string),
		plans:     make(map[string]metrics.VipPlan),
		accounts:  make(map[string]metrics.TradingAccount),
		platforms: make(map[string][]metrics.Platform),
		now:       time.Now,
	}
}

func (s *Store) nextID() string {
	return uuid.NewString()
}

// owner 需在持有鎖時呼叫。
func (s *Store) owner(id string) metrics.OwnerRef {
	u, ok := s.users[id]
	if !ok {
		return metrics.OwnerRef{ID: id}
	}
	return metrics.OwnerRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (s *Store) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

// CreateUser 建立帳號，email 不可重複。
func (s *Store) CreateUser(ctx context.Context, u auth.User) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	if email == "" {
		return auth.User{}, fmt.Errorf("email is required")
	}
	if _, exists := s.emails[email]; exists {
		return auth.User{}, auth.ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = s.nextID()
	}
	if u.Status == "" {
		u.Status = auth.StatusActive
	}
	u.Email = email
	s.users[u.ID] = u
	s.emails[email] = u.ID
	return u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

// ListUsers 依 email 排序。
func (s *Store) ListUsers(ctx context.Context) ([]auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]auth.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
