package httpapi

import (
	"context"
	"net/http"

	"affiliate-dashboard/internal/application/dashboard"
	"affiliate-dashboard/internal/application/reports"
	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/period"

	"github.com/gin-gonic/gin"
)

// roleViews 依角色載入對應畫面。
type roleViews struct {
	ctx    context.Context
	up     Upstream
	period period.Period
	opts   reports.Options
}

var _ auth.RoleViews[any] = roleViews{}

func (v roleViews) Traffer() (any, error) {
	return dashboard.NewTrafferView(v.up).Load(v.ctx)
}

func (v roleViews) Manager() (any, error) {
	return dashboard.NewManagerView(v.up).Load(v.ctx)
}

func (v roleViews) Admin() (any, error) {
	return reports.NewUseCase(v.up, v.opts).BuildAdminReport(v.ctx, v.period)
}

func (s *Server) handleDashboard(c *gin.Context) {
	sess, _ := currentSession(c)
	view, err := auth.Dispatch[any](sess.User.Role, roleViews{
		ctx:    c.Request.Context(),
		up:     upstream(c),
		period: queryPeriod(c),
		opts:   s.reportOpts,
	})
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{
		"role": sess.User.Role,
		"view": view,
	})
}
