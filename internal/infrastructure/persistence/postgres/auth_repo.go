package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// Store 參考上游的 Postgres 實作，與記憶體 Store 提供相同方法。
type Store struct {
	db    *sql.DB
	newID func() string
}

// NewStore 建立 Postgres Store。
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, newID: uuid.NewString}
}

// CreateUser 建立帳號；email 重複時回傳 auth.ErrEmailTaken。
func (s *Store) CreateUser(ctx context.Context, u auth.User) (auth.User, error) {
	const q = `
INSERT INTO users (id, email, name, password_hash, role, status)
VALUES ($1, $2, $3, $4, $5, $6);
`
	if u.ID == "" {
		u.ID = s.newID()
	}
	if u.Status == "" {
		u.Status = auth.StatusActive
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, err := s.db.ExecContext(ctx, q, u.ID, u.Email, u.Name, u.Password, string(u.Role), string(u.Status)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.User{}, auth.ErrEmailTaken
		}
		return auth.User{}, err
	}
	return u, nil
}

const selectUser = `SELECT id, email, name, password_hash, role, status FROM users`

func scanUser(row interface{ Scan(...any) error }) (auth.User, error) {
	var u auth.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.Role, &u.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, err
	}
	return u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx, selectUser+` WHERE email = $1;`, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (auth.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE id = $1;`, id))
}

// ListUsers 依 email 排序。
func (s *Store) ListUsers(ctx context.Context) ([]auth.User, error) {
	rows, err := s.db.QueryContext(ctx, selectUser+` ORDER BY email;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]auth.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// owner 查詢擁有者名稱與 email；找不到時只帶 ID。
func (s *Store) owner(ctx context.Context, id string) (metrics.OwnerRef, error) {
	const q = `SELECT name, email FROM users WHERE id = $1;`
	ref := metrics.OwnerRef{ID: id}
	err := s.db.QueryRowContext(ctx, q, id).Scan(&ref.Name, &ref.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return metrics.OwnerRef{}, err
	}
	return ref, nil
}

// nullTime 零值交給資料庫預設 NOW()。
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// windowArgs 展開區間查詢的三個參數：bounded, from, to。
func windowArgs(w period.Window) (bool, time.Time, time.Time) {
	if !w.Bounded {
		return false, time.Time{}, time.Time{}
	}
	return true, w.From, w.To
}

func affectedOrNotFound(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, metrics.ErrNotFound)
	}
	return nil
}
