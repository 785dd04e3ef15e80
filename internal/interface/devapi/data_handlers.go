package devapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type recordRequest struct {
	NewReferrals  int64           `json:"newReferrals"`
	TradingVolume decimal.Decimal `json:"tradingVolume"`
	TradingProfit decimal.Decimal `json:"tradingProfit"`
	AdCosts       decimal.Decimal `json:"adCosts"`
	AdProfit      decimal.Decimal `json:"adProfit"`
}

func (s *Server) handleCreateRecord(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid body")
		return
	}
	user := currentUser(c)
	rec := metrics.PeriodRecord{
		NewReferrals:  req.NewReferrals,
		TradingVolume: req.TradingVolume,
		TradingProfit: req.TradingProfit,
		AdCosts:       req.AdCosts,
		AdProfit:      req.AdProfit,
		CreatedAt:     s.now(),
		Owner:         metrics.OwnerRef{ID: user.ID},
	}
	if err := rec.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	saved, err := s.store.InsertRecord(c.Request.Context(), rec)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": toRecordDTO(saved)})
}

func (s *Server) handleListRecords(c *gin.Context) {
	list, err := s.store.ListRecords(c.Request.Context(), currentUser(c).ID, period.Window{})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, toRecordDTO))
}

func (s *Server) handleAllRecords(c *gin.Context) {
	list, err := s.store.ListRecords(c.Request.Context(), "", s.window(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, toRecordDTO))
}

func (s *Server) handleListPlans(c *gin.Context) {
	plans, err := s.store.ListPlans(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(plans, toPlanDTO))
}

type memberRequest struct {
	Name   string `json:"name"`
	PlanID string `json:"planId"`
}

func (s *Server) handleCreateMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.PlanID == "" {
		abort(c, http.StatusBadRequest, "Name and plan are required")
		return
	}
	member, err := s.store.InsertMember(c.Request.Context(), metrics.VipMember{
		Name:      req.Name,
		Plan:      metrics.VipPlan{ID: req.PlanID},
		DateAdded: s.now(),
		Owner:     metrics.OwnerRef{ID: currentUser(c).ID},
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": toMemberDTO(member)})
}

func (s *Server) handleListMembers(c *gin.Context) {
	list, err := s.store.ListMembers(c.Request.Context(), currentUser(c).ID, period.Window{})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, toMemberDTO))
}

func (s *Server) handleDeleteMember(c *gin.Context) {
	if err := s.store.DeleteMember(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

func (s *Server) handleAllMembers(c *gin.Context) {
	list, err := s.store.ListMembers(c.Request.Context(), "", s.window(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, toMemberDTO))
}

func (s *Server) handleAccount(c *gin.Context) {
	ctx := c.Request.Context()
	owner := currentUser(c).ID
	acct, err := s.store.GetAccount(ctx, owner)
	if err != nil {
		s.fail(c, err)
		return
	}
	ops, err := s.store.ListOperations(ctx, owner, period.Window{})
	if err != nil {
		s.fail(c, err)
		return
	}
	var account *accountDTO
	if acct != nil {
		dto := toAccountDTO(*acct)
		account = &dto
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "operations": mapSlice(ops, toOperationDTO)})
}

type depositRequest struct {
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
}

func (s *Server) handleDeposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid body")
		return
	}
	acct, err := s.store.SetDeposit(c.Request.Context(), currentUser(c).ID, req.InitialDeposit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": toAccountDTO(acct)})
}

type operationRequest struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (s *Server) handleCreateOperation(c *gin.Context) {
	var req operationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid body")
		return
	}
	op := metrics.TradingOperation{
		Type:        metrics.OperationType(strings.ToLower(strings.TrimSpace(req.Type))),
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Date:        s.now(),
		Owner:       metrics.OwnerRef{ID: currentUser(c).ID},
	}
	if err := op.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	saved, err := s.store.InsertOperation(c.Request.Context(), op)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"operation": toOperationDTO(saved)})
}

func (s *Server) handleDeleteOperation(c *gin.Context) {
	if err := s.store.DeleteOperation(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Operation deleted"})
}

// handleAllTrading 帳戶不受期間篩選，交易紀錄依日期篩選。
func (s *Server) handleAllTrading(c *gin.Context) {
	ctx := c.Request.Context()
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	ops, err := s.store.ListOperations(ctx, "", s.window(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accounts":   mapSlice(accounts, toAccountDTO),
		"operations": mapSlice(ops, toOperationDTO),
	})
}

func (s *Server) handleActivity(c *gin.Context) {
	act, err := s.store.GetActivity(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": toActivityDTO(act)})
}

// platformInput 接受 "tiktok" 或 {"id":"tiktok","name":"TikTok"}。
type platformInput string

func (p *platformInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = platformInput(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*p = platformInput(obj.ID)
	return nil
}

type platformsRequest struct {
	SelectedPlatforms []platformInput `json:"selectedPlatforms"`
}

func (s *Server) handleSavePlatforms(c *gin.Context) {
	var req platformsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid body")
		return
	}
	if len(req.SelectedPlatforms) == 0 {
		abort(c, http.StatusBadRequest, "Select at least one platform")
		return
	}
	platforms := make([]metrics.Platform, 0, len(req.SelectedPlatforms))
	for _, in := range req.SelectedPlatforms {
		p := metrics.Platform(strings.ToLower(strings.TrimSpace(string(in))))
		if _, ok := metrics.LookupPlatform(p); !ok {
			abort(c, http.StatusBadRequest, "Unknown platform "+string(in))
			return
		}
		platforms = append(platforms, p)
	}
	ctx := c.Request.Context()
	owner := currentUser(c).ID
	if err := s.store.SavePlatforms(ctx, owner, platforms); err != nil {
		s.fail(c, err)
		return
	}
	act, err := s.store.GetActivity(ctx, owner)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": toActivityDTO(act)})
}

type reportRequest struct {
	Platform       string          `json:"platform"`
	VideosUploaded int64           `json:"videosUploaded"`
	Views          int64           `json:"views"`
	Engagement     decimal.Decimal `json:"engagement"`
}

func (s *Server) handleCreateReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid body")
		return
	}
	report := metrics.DailyReport{
		Platform:       metrics.Platform(strings.ToLower(strings.TrimSpace(req.Platform))),
		VideosUploaded: req.VideosUploaded,
		Views:          req.Views,
		Engagement:     req.Engagement,
		CreatedAt:      s.now(),
		Owner:          metrics.OwnerRef{ID: currentUser(c).ID},
	}
	if err := report.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	saved, err := s.store.InsertReport(c.Request.Context(), report)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": toReportDTO(saved)})
}

func (s *Server) handleAllTraffer(c *gin.Context) {
	list, err := s.store.ListActivities(c.Request.Context(), s.window(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, toActivityDTO))
}
