package httpapi

import (
	"errors"
	"net/http"
	"time"

	appauth "affiliate-dashboard/internal/application/auth"
	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/validation"
	"affiliate-dashboard/internal/infrastructure/external/backend"

	"github.com/gin-gonic/gin"
)

func userBody(u auth.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}

	res, err := s.loginUC.Execute(c.Request.Context(), appauth.LoginInput{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		if rejectedCredentials(err) {
			s.log.Info().Str("email", body.Email).Msg("login rejected")
			writeError(c, http.StatusUnauthorized, errCodeInvalidCredentials, "invalid email or password")
			return
		}
		s.writeFailure(c, err)
		return
	}
	s.respondLogin(c, http.StatusOK, res)
}

func (s *Server) handleRegister(c *gin.Context) {
	var reg auth.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	res, err := s.registerUC.Execute(c.Request.Context(), reg)
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	s.log.Info().Str("user_id", res.Session.User.ID).Str("role", string(res.Session.User.Role)).Msg("user registered")
	s.respondLogin(c, http.StatusCreated, res)
}

func (s *Server) respondLogin(c *gin.Context, status int, res appauth.LoginResult) {
	s.setAccessCookie(c, res.AccessToken, res.ExpiresAt)
	writeOK(c, status, gin.H{
		"user":         userBody(res.Session.User),
		"access_token": res.AccessToken,
		"token_type":   "Bearer",
		"expiry":       res.ExpiresAt.Format(time.RFC3339),
	})
}

// handleLogout 一律清除 cookie；token 有效時同時刪除 session。
func (s *Server) handleLogout(c *gin.Context) {
	if token := requestToken(c); token != "" {
		if claims, err := s.tokens.Parse(token); err == nil && claims.SessionID != "" {
			if err := s.logoutUC.Execute(c.Request.Context(), claims.SessionID); err != nil {
				s.log.Warn().Err(err).Msg("logout")
			}
		}
	}
	s.clearAccessCookie(c)
	writeOK(c, http.StatusOK, nil)
}

// handleMe 向上游確認 token 仍有效。
func (s *Server) handleMe(c *gin.Context) {
	user, err := upstream(c).Me(c.Request.Context())
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	sess, _ := currentSession(c)
	writeOK(c, http.StatusOK, gin.H{
		"user":       userBody(user),
		"expires_at": sess.ExpiresAt.Format(time.RFC3339),
	})
}

// handleCreateUser 管理員建立帳號，不需邀請碼。
func (s *Server) handleCreateUser(c *gin.Context) {
	var reg auth.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	reg = reg.Normalize()
	if err := reg.ValidateProfile(); err != nil {
		s.writeFailure(c, err)
		return
	}
	user, err := upstream(c).RegisterUser(c.Request.Context(), reg)
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusCreated, gin.H{"user": userBody(user)})
}

// rejectedCredentials 上游以 400/401 拒絕帳密。
func rejectedCredentials(err error) bool {
	if _, ok := validation.As(err); ok {
		return false
	}
	if errors.Is(err, backend.ErrUnauthorized) {
		return true
	}
	var apiErr *backend.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}
