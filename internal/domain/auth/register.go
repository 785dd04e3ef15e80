package auth

import (
	"strings"

	"affiliate-dashboard/internal/domain/validation"
)

// MinPasswordLength 密碼最短長度。
const MinPasswordLength = 6

// Registration 註冊表單。
type Registration struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       Role   `json:"role"`
	SecretCode string `json:"secretCode,omitempty"`
}

// Normalize 去除空白並統一 email 大小寫，角色未填時為推廣人員。
func (r Registration) Normalize() Registration {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.SecretCode = strings.TrimSpace(r.SecretCode)
	if r.Role == "" {
		r.Role = RoleTraffer
	}
	return r
}

// Validate 檢查必填欄位、密碼長度與邀請碼。
func (r Registration) Validate() error {
	if err := r.ValidateProfile(); err != nil {
		return err
	}
	if r.Role.NeedsSecretCode() && r.SecretCode == "" {
		return validation.Errorf("secretCode", "is required for %s accounts", r.Role)
	}
	return nil
}

// ValidateProfile 同 Validate 但不檢查邀請碼，供管理員建立帳號使用。
func (r Registration) ValidateProfile() error {
	if r.Name == "" {
		return validation.Errorf("name", "is required")
	}
	if r.Email == "" {
		return validation.Errorf("email", "is required")
	}
	if !strings.Contains(r.Email, "@") {
		return validation.Errorf("email", "is not a valid address")
	}
	if r.Password == "" {
		return validation.Errorf("password", "is required")
	}
	if len(r.Password) < MinPasswordLength {
		return validation.Errorf("password", "must be at least %d characters", MinPasswordLength)
	}
	if !r.Role.Valid() {
		return validation.Errorf("role", "unknown role %q", r.Role)
	}
	return nil
}
