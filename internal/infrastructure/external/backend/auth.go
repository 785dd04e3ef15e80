package backend

import (
	"context"
	"errors"
	"net/http"

	"affiliate-dashboard/internal/domain/auth"
)

type identityResponse struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
}

func (r identityResponse) toDomain() (auth.Identity, error) {
	if r.Token == "" {
		return auth.Identity{}, errors.New("upstream returned no token")
	}
	return auth.Identity{Token: r.Token, User: r.User.toDomain()}, nil
}

// Login 以帳密登入上游。
func (c *Client) Login(ctx context.Context, email, password string) (auth.Identity, error) {
	in := map[string]string{"email": email, "password": password}
	var out identityResponse
	if err := c.call(ctx, http.MethodPost, "/auth/login", nil, in, &out); err != nil {
		return auth.Identity{}, err
	}
	return out.toDomain()
}

// RegisterPublic 自行註冊，經理與管理員需附邀請碼。
func (c *Client) RegisterPublic(ctx context.Context, reg auth.Registration) (auth.Identity, error) {
	var out identityResponse
	if err := c.call(ctx, http.MethodPost, "/auth/register-public", nil, reg, &out); err != nil {
		return auth.Identity{}, err
	}
	return out.toDomain()
}

// RegisterUser 管理員建立帳號。
func (c *Client) RegisterUser(ctx context.Context, reg auth.Registration) (auth.User, error) {
	var out struct {
		User wireUser `json:"user"`
	}
	if err := c.call(ctx, http.MethodPost, "/auth/register", nil, reg, &out); err != nil {
		return auth.User{}, err
	}
	return out.User.toDomain(), nil
}

// Me 取得目前身分。
func (c *Client) Me(ctx context.Context) (auth.User, error) {
	var out struct {
		User wireUser `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return auth.User{}, err
	}
	return out.User.toDomain(), nil
}
