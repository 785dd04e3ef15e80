package httpapi

import (
	"fmt"
	"net/http"

	"affiliate-dashboard/internal/application/reports"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleAdminReport(c *gin.Context) {
	rep, err := reports.NewUseCase(upstream(c), s.reportOpts).BuildAdminReport(c.Request.Context(), queryPeriod(c))
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"report": rep})
}

func (s *Server) handleAdminReportCSV(c *gin.Context) {
	p := queryPeriod(c)
	out, err := reports.NewUseCase(upstream(c), s.reportOpts).ExportManagersCSV(c.Request.Context(), p)
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	name := "managers"
	if q := p.QueryValue(); q != "" {
		name += "-" + q
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
}
