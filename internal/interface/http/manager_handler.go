package httpapi

import (
	"net/http"

	"affiliate-dashboard/internal/application/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) managerView(c *gin.Context) *dashboard.ManagerView {
	return dashboard.NewManagerView(upstream(c))
}

func (s *Server) handleManagerDashboard(c *gin.Context) {
	view, err := s.managerView(c).Load(c.Request.Context())
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"view": view})
}

func (s *Server) handleSubmitBingX(c *gin.Context) {
	var form dashboard.BingXForm
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	rec, err := s.managerView(c).SubmitBingX(c.Request.Context(), form)
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusCreated, gin.H{"record": rec})
}

// handlePreviewProfit 依交易量試算交易獲利。
func (s *Server) handlePreviewProfit(c *gin.Context) {
	volume, err := decimal.NewFromString(c.Query("volume"))
	if err != nil {
		writeError(c, http.StatusBadRequest, errCodeValidation, "tradingVolume: must be a number")
		return
	}
	writeOK(c, http.StatusOK, gin.H{
		"tradingVolume": volume,
		"tradingProfit": s.managerView(c).PreviewTradingProfit(volume),
	})
}

func (s *Server) handleAddVipMember(c *gin.Context) {
	var form dashboard.VipMemberForm
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	member, err := s.managerView(c).AddVipMember(c.Request.Context(), form)
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusCreated, gin.H{"member": member})
}

func (s *Server) handleRemoveVipMember(c *gin.Context) {
	if err := s.managerView(c).RemoveVipMember(c.Request.Context(), c.Param("id")); err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusOK, nil)
}

func (s *Server) handleSetDeposit(c *gin.Context) {
	var body struct {
		InitialDeposit *decimal.Decimal `json:"initialDeposit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	acct, err := s.managerView(c).SetDeposit(c.Request.Context(), body.InitialDeposit)
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"account": acct})
}

func (s *Server) handleAddOperation(c *gin.Context) {
	var form dashboard.OperationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	op, err := s.managerView(c).AddOperation(c.Request.Context(), form)
	if err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusCreated, gin.H{"operation": op})
}

func (s *Server) handleRemoveOperation(c *gin.Context) {
	if err := s.managerView(c).RemoveOperation(c.Request.Context(), c.Param("id")); err != nil {
		s.writeFailure(c, err)
		return
	}
	writeOK(c, http.StatusOK, nil)
}
