package httpapi

import (
	"context"
	"errors"
	"net/http"

	appauth "affiliate-dashboard/internal/application/auth"
	"affiliate-dashboard/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

const (
	ctxSessionKey  = "session"
	ctxUpstreamKey = "upstream"
)

// requireAuth 驗證 gateway token 並載入 session；perm 為空時只檢查登入。
// 每個請求建立自己的 SessionHolder，上游回應 401 時由 holder 刪除 session。
func (s *Server) requireAuth(perm appauth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			writeError(c, http.StatusUnauthorized, errCodeUnauthorized, "unauthorized")
			return
		}

		claims, err := s.tokens.Parse(token)
		if err != nil || claims.SessionID == "" {
			writeError(c, http.StatusUnauthorized, errCodeUnauthorized, "invalid token")
			return
		}

		ctx := c.Request.Context()
		sess, err := s.sessions.GetSession(ctx, claims.SessionID)
		if err != nil {
			if !errors.Is(err, auth.ErrSessionNotFound) {
				s.log.Error().Err(err).Msg("load session")
			}
			writeError(c, http.StatusUnauthorized, errCodeUnauthorized, "session expired, please log in again")
			return
		}
		if !sess.Active(s.now()) {
			_ = s.sessions.DeleteSession(ctx, sess.ID)
			writeError(c, http.StatusUnauthorized, errCodeUnauthorized, "session expired, please log in again")
			return
		}

		holder := auth.NewSessionHolder()
		holder.Set(sess)
		holder.OnInvalidate(s.dropSession)

		c.Set(ctxSessionKey, sess)
		c.Set(ctxUpstreamKey, s.bind(holder))

		if perm != "" && !s.authz.HasPermission(sess.User.Role, perm) {
			writeError(c, http.StatusForbidden, errCodeForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

// requirePermission 需在 requireAuth 之後使用。
func (s *Server) requirePermission(perm appauth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c)
		if !ok || !s.authz.HasPermission(sess.User.Role, perm) {
			writeError(c, http.StatusForbidden, errCodeForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

// dropSession 上游 token 失效時刪除 session；請求可能已結束，因此不使用請求的 context。
func (s *Server) dropSession(sess auth.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), sessionCleanupWait)
	defer cancel()
	if err := s.sessions.DeleteSession(ctx, sess.ID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("delete invalidated session")
		return
	}
	s.log.Info().Str("session_id", sess.ID).Str("user_id", sess.User.ID).Msg("session invalidated by upstream")
}

func currentSession(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return auth.Session{}, false
	}
	sess, ok := v.(auth.Session)
	return sess, ok
}

func upstream(c *gin.Context) Upstream {
	v, _ := c.Get(ctxUpstreamKey)
	up, _ := v.(Upstream)
	return up
}

func requestToken(c *gin.Context) string {
	if token := parseBearer(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if t, err := c.Cookie(accessCookieName); err == nil {
		return t
	}
	return ""
}
