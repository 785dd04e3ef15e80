package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/validation"

	"github.com/google/uuid"
)

// IdentityProvider 上游帳號服務。
type IdentityProvider interface {
	Login(ctx context.Context, email, password string) (auth.Identity, error)
	RegisterPublic(ctx context.Context, reg auth.Registration) (auth.Identity, error)
}

// TokenIssuer 簽發 gateway token。
type TokenIssuer interface {
	Issue(sessionID string, user auth.User) (string, time.Time, error)
}

// Permission 表示功能權限。
type Permission string

const (
	PermDashboardView Permission = "dashboard:view"
	PermManagerEntry  Permission = "manager:entry"
	PermTrafferEntry  Permission = "traffer:entry"
	PermAdminReport   Permission = "admin:report"
	PermUserManage    Permission = "user:manage"
)

// RolePermissions 角色權限表。
var RolePermissions = map[auth.Role][]Permission{
	auth.RoleAdmin: {
		PermDashboardView,
		PermAdminReport,
		PermUserManage,
	},
	auth.RoleManager: {
		PermDashboardView,
		PermManagerEntry,
	},
	auth.RoleTraffer: {
		PermDashboardView,
		PermTrafferEntry,
	},
}

// Authorizer 檢查角色/權限。
type Authorizer struct{}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

func (a *Authorizer) HasPermission(role auth.Role, perm Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// LoginResult 登入或註冊後建立的 session 與 gateway token。
type LoginResult struct {
	Session     auth.Session
	AccessToken string
	ExpiresAt   time.Time
}

type sessionStarter struct {
	sessions auth.SessionStore
	tokens   TokenIssuer
	now      func() time.Time
	newID    func() string
}

func (s sessionStarter) start(ctx context.Context, id auth.Identity) (LoginResult, error) {
	sessID := s.newID()
	token, exp, err := s.tokens.Issue(sessID, id.User)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	sess := auth.Session{
		ID:        sessID,
		Token:     id.Token,
		User:      id.User,
		CreatedAt: s.now(),
		ExpiresAt: exp,
	}
	if err := s.sessions.SaveSession(ctx, sess); err != nil {
		return LoginResult{}, fmt.Errorf("save session: %w", err)
	}
	return LoginResult{Session: sess, AccessToken: token, ExpiresAt: exp}, nil
}

// LoginUseCase 透過上游驗證帳密並建立 session。
type LoginUseCase struct {
	idp     IdentityProvider
	starter sessionStarter
}

func NewLoginUseCase(idp IdentityProvider, sessions auth.SessionStore, tokens TokenIssuer) *LoginUseCase {
	return &LoginUseCase{
		idp:     idp,
		starter: sessionStarter{sessions: sessions, tokens: tokens, now: time.Now, newID: uuid.NewString},
	}
}

type LoginInput struct {
	Email    string
	Password string
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return LoginResult{}, validation.Errorf("email", "is required")
	}
	if input.Password == "" {
		return LoginResult{}, validation.Errorf("password", "is required")
	}

	id, err := uc.idp.Login(ctx, email, input.Password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	return uc.starter.start(ctx, id)
}

// RegisterUseCase 檢查註冊表單後自行註冊並登入。
type RegisterUseCase struct {
	idp     IdentityProvider
	starter sessionStarter
}

func NewRegisterUseCase(idp IdentityProvider, sessions auth.SessionStore, tokens TokenIssuer) *RegisterUseCase {
	return &RegisterUseCase{
		idp:     idp,
		starter: sessionStarter{sessions: sessions, tokens: tokens, now: time.Now, newID: uuid.NewString},
	}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, reg auth.Registration) (LoginResult, error) {
	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		return LoginResult{}, err
	}
	id, err := uc.idp.RegisterPublic(ctx, reg)
	if err != nil {
		return LoginResult{}, fmt.Errorf("register: %w", err)
	}
	return uc.starter.start(ctx, id)
}

// LogoutUseCase 刪除 session。
type LogoutUseCase struct {
	sessions auth.SessionStore
}

func NewLogoutUseCase(sessions auth.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return validation.Errorf("session", "is required")
	}
	return uc.sessions.DeleteSession(ctx, sessionID)
}
