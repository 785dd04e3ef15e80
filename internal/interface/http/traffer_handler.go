package httpapi

import (
	"net/http"

	"affiliate-dashboard/internal/application/dashboard"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleTrafferDashboard(c *gin.Context) {
	view, err := dashboard.NewTrafferView(upstream(c)).Load(c.Request.Context())
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"view": view})
}

func (s *Server) handleSavePlatforms(c *gin.Context) {
	var body struct {
		Platforms []string `json:"platforms"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	platforms, err := dashboard.NewTrafferView(upstream(c)).SavePlatforms(c.Request.Context(), body.Platforms)
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"platforms": platforms})
}

func (s *Server) handleAddDailyReport(c *gin.Context) {
	var form dashboard.DailyReportForm
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	report, err := dashboard.NewTrafferView(upstream(c)).AddDailyReport(c.Request.Context(), form)
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusCreated, gin.H{"report": report})
}
