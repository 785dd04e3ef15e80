package auth

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// Role 定義系統角色。
type Role string

const (
	RoleTraffer Role = "traffer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole 解析角色字串，未知角色回傳 ErrUnknownRole。
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Valid 是否為已知角色。
func (r Role) Valid() bool {
	switch r {
	case RoleTraffer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// NeedsSecretCode 經理與管理員註冊需提供邀請碼。
func (r Role) NeedsSecretCode() bool {
	return r == RoleManager || r == RoleAdmin
}

// Status 定義帳號狀態。
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// User 基本帳號資料。
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Status   Status `json:"status,omitempty"`
	Password string `json:"-"` // 雜湊後密碼
}

// Validate 基本欄位檢查。
func (u User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Role == "" {
		return errors.New("role is required")
	}
	return nil
}

// IsActive 檢查是否可登入；未填狀態視為啟用。
func (u User) IsActive() bool {
	return u.Status == "" || u.Status == StatusActive
}
