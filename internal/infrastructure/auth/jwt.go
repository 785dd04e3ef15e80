package authinfra

import (
	"errors"
	"fmt"
	"time"

	"affiliate-dashboard/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken token 格式錯誤、簽章不符或已過期。
var ErrInvalidToken = errors.New("invalid token")

// JWTIssuer 產生/驗證 HS256 access token。
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTIssuer 建立 JWT 簽發器。
func NewJWTIssuer(secret string, ttl time.Duration, issuer string) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// Claims 定義 access token 的 payload。SessionID 只在 gateway 簽發的 token 出現。
type Claims struct {
	SessionID string `json:"sid,omitempty"`
	UserID    string `json:"uid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TTL token 有效期。
func (j *JWTIssuer) TTL() time.Duration {
	return j.ttl
}

// Issue 為使用者簽發 token，回傳 token 與到期時間。
func (j *JWTIssuer) Issue(sessionID string, user auth.User) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(j.ttl)
	claims := Claims{
		SessionID: sessionID,
		UserID:    user.ID,
		Role:      string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse 驗證並解析 token。
func (j *JWTIssuer) Parse(token string) (Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return Claims{}, ErrInvalidToken
	}
	if j.issuer != "" && claims.Issuer != j.issuer {
		return Claims{}, fmt.Errorf("%w: issuer %q", ErrInvalidToken, claims.Issuer)
	}
	return claims, nil
}
