package httpapi

import (
	"context"
	"net/http"
	"time"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 3 * time.Second

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "pong",
		"timestamp": s.now().Unix(),
		"status":    "alive",
	})
}

// handleHealth 上游無法連線時仍回 200，由 upstream 欄位顯示狀態。
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	upstreamStatus := "ok"
	if err := s.client.Health(ctx); err != nil {
		upstreamStatus = "error: " + err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"health":   "ok",
		"upstream": upstreamStatus,
		"sessions": s.sessionBackend(),
		"time":     s.now().Format(time.RFC3339),
	})
}

func (s *Server) sessionBackend() string {
	if s.cfg.Session.Store == "" {
		return "memory"
	}
	return s.cfg.Session.Store
}

func (s *Server) handlePeriods(c *gin.Context) {
	writeOK(c, http.StatusOK, gin.H{"periods": period.Options()})
}

func (s *Server) handlePlatforms(c *gin.Context) {
	writeOK(c, http.StatusOK, gin.H{"platforms": metrics.Platforms()})
}
