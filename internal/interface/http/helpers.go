package httpapi

import (
	"net/http"
	"strings"
	"time"

	"affiliate-dashboard/internal/domain/period"

	"github.com/gin-gonic/gin"
)

func parseBearer(h string) string {
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (s *Server) setAccessCookie(c *gin.Context, token string, expiry time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		accessCookieName,
		token,
		int(time.Until(expiry).Seconds()),
		"/",
		"",
		s.cfg.HTTP.SecureCookie,
		true, // HttpOnly
	)
}

func (s *Server) clearAccessCookie(c *gin.Context) {
	c.SetCookie(accessCookieName, "", -1, "/", "", s.cfg.HTTP.SecureCookie, true)
}

func queryPeriod(c *gin.Context) period.Period {
	return period.Parse(c.Query("period"))
}
