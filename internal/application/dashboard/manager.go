package dashboard

import (
	"context"
	"strings"

	"affiliate-dashboard/internal/application/action"
	"affiliate-dashboard/internal/application/aggregate"
	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/reports"
	"affiliate-dashboard/internal/domain/validation"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ManagerGateway 經理畫面需要的上游操作。
type ManagerGateway interface {
	SaveBingX(ctx context.Context, rec metrics.PeriodRecord) (metrics.PeriodRecord, error)
	ListBingX(ctx context.Context) ([]metrics.PeriodRecord, error)
	ListVipMembers(ctx context.Context) ([]metrics.VipMember, error)
	ListVipPlans(ctx context.Context) ([]metrics.VipPlan, error)
	AddVipMember(ctx context.Context, name, planID string) (metrics.VipMember, error)
	DeleteVipMember(ctx context.Context, id string) error
	Account(ctx context.Context) (metrics.AccountSnapshot, error)
	SetDeposit(ctx context.Context, amount decimal.Decimal) (metrics.TradingAccount, error)
	AddOperation(ctx context.Context, op metrics.TradingOperation) (metrics.TradingOperation, error)
	DeleteOperation(ctx context.Context, id string) error
}

// ManagerDashboard 經理總覽。
type ManagerDashboard struct {
	Records      []metrics.PeriodRecord     `json:"records"`
	Totals       reports.Totals             `json:"totals"`
	VipMembers   []metrics.VipMember        `json:"vipMembers"`
	VipPlans     []metrics.VipPlan          `json:"vipPlans"`
	VipRevenue   decimal.Decimal            `json:"vipRevenue"`
	Account      *metrics.TradingAccount    `json:"account"`
	Operations   []metrics.TradingOperation `json:"operations"`
	Balance      decimal.Decimal            `json:"balance"`
	TradingStats reports.TradingStats       `json:"tradingStats"`
}

// BingXForm 每日 BingX 表單；未填欄位為 nil。
type BingXForm struct {
	NewReferrals  *int64           `json:"newReferrals"`
	TradingVolume *decimal.Decimal `json:"tradingVolume"`
	TradingProfit *decimal.Decimal `json:"tradingProfit"`
	AdCosts       *decimal.Decimal `json:"adCosts"`
	AdProfit      *decimal.Decimal `json:"adProfit"`
}

// Record 檢查表單並轉為紀錄；未填交易獲利時依交易量估算。
func (f BingXForm) Record() (metrics.PeriodRecord, error) {
	if f.NewReferrals == nil && f.TradingVolume == nil {
		return metrics.PeriodRecord{}, validation.Errorf("newReferrals", "enter new referrals or trading volume")
	}
	rec := metrics.PeriodRecord{
		TradingVolume: valueOrZero(f.TradingVolume),
		AdCosts:       valueOrZero(f.AdCosts),
		AdProfit:      valueOrZero(f.AdProfit),
	}
	if f.NewReferrals != nil {
		rec.NewReferrals = *f.NewReferrals
	}
	if f.TradingProfit != nil {
		rec.TradingProfit = *f.TradingProfit
	} else {
		rec.TradingProfit = aggregate.TradingProfitFromVolume(rec.TradingVolume)
	}
	if err := rec.Validate(); err != nil {
		return metrics.PeriodRecord{}, err
	}
	return rec, nil
}

// VipMemberForm 新增會員表單。
type VipMemberForm struct {
	Name   string `json:"name"`
	PlanID string `json:"planId"`
}

// OperationForm 交易紀錄表單。
type OperationForm struct {
	Type        string           `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
}

// ManagerView 經理畫面用例。
type ManagerView struct {
	api ManagerGateway
}

func NewManagerView(api ManagerGateway) *ManagerView {
	return &ManagerView{api: api}
}

// Load 並行載入 BingX、VIP 與交易資料，全部完成後才組合畫面。
func (v *ManagerView) Load(ctx context.Context) (ManagerDashboard, error) {
	var (
		out     ManagerDashboard
		records []metrics.PeriodRecord
		members []metrics.VipMember
		plans   []metrics.VipPlan
		snap    metrics.AccountSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = v.api.ListBingX(gctx)
		return action.Failed("failed to load BingX data", err)
	})
	g.Go(func() error {
		var err error
		members, err = v.api.ListVipMembers(gctx)
		return action.Failed("failed to load VIP data", err)
	})
	g.Go(func() error {
		var err error
		plans, err = v.api.ListVipPlans(gctx)
		return action.Failed("failed to load VIP data", err)
	})
	g.Go(func() error {
		var err error
		snap, err = v.api.Account(gctx)
		return action.Failed("failed to load trading data", err)
	})
	if err := g.Wait(); err != nil {
		return out, err
	}

	out.Records = records
	out.VipMembers = members
	out.VipPlans = plans
	out.Account = snap.Account
	out.Operations = snap.Operations
	out.Totals = aggregate.ComputeTotals(records, members, snap.Operations)
	out.VipRevenue = out.Totals.TotalVipRevenue
	out.Balance = aggregate.ComputeCurrentBalance(snap.Account, snap.Operations)
	out.TradingStats = aggregate.ComputeTradingStats(snap.Operations)
	return out, nil
}

// SubmitBingX 送出當日 BingX 數據。
func (v *ManagerView) SubmitBingX(ctx context.Context, form BingXForm) (metrics.PeriodRecord, error) {
	rec, err := form.Record()
	if err != nil {
		return metrics.PeriodRecord{}, err
	}
	saved, err := v.api.SaveBingX(ctx, rec)
	return saved, action.Failed("failed to save BingX data", err)
}

// PreviewTradingProfit 表單即時顯示的估算獲利。
func (v *ManagerView) PreviewTradingProfit(volume decimal.Decimal) decimal.Decimal {
	return aggregate.TradingProfitFromVolume(volume).RoundBank(reports.CurrencyPlaces)
}

// AddVipMember 新增會員，名稱與方案皆必填。
func (v *ManagerView) AddVipMember(ctx context.Context, form VipMemberForm) (metrics.VipMember, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return metrics.VipMember{}, validation.Errorf("name", "is required")
	}
	if strings.TrimSpace(form.PlanID) == "" {
		return metrics.VipMember{}, validation.Errorf("planId", "select a plan")
	}
	m, err := v.api.AddVipMember(ctx, name, strings.TrimSpace(form.PlanID))
	return m, action.Failed("failed to add VIP member", err)
}

// RemoveVipMember 刪除會員。
func (v *ManagerView) RemoveVipMember(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return validation.Errorf("id", "is required")
	}
	return action.Failed("failed to delete VIP member", v.api.DeleteVipMember(ctx, id))
}

// SetDeposit 設定初始資金，只能設定一次。
func (v *ManagerView) SetDeposit(ctx context.Context, amount *decimal.Decimal) (metrics.TradingAccount, error) {
	if amount == nil || !amount.IsPositive() {
		return metrics.TradingAccount{}, validation.Errorf("initialDeposit", "must be greater than zero")
	}
	snap, err := v.api.Account(ctx)
	if err != nil {
		return metrics.TradingAccount{}, action.Failed("failed to load trading data", err)
	}
	if snap.Account != nil && snap.Account.IsDepositSet {
		return metrics.TradingAccount{}, validation.Errorf("initialDeposit", "initial deposit already set")
	}
	acct, err := v.api.SetDeposit(ctx, *amount)
	return acct, action.Failed("failed to set initial deposit", err)
}

// AddOperation 新增交易紀錄，需先設定初始資金。
func (v *ManagerView) AddOperation(ctx context.Context, form OperationForm) (metrics.TradingOperation, error) {
	op := metrics.TradingOperation{
		Type:        metrics.OperationType(strings.ToLower(strings.TrimSpace(form.Type))),
		Amount:      valueOrZero(form.Amount),
		Description: strings.TrimSpace(form.Description),
	}
	if err := op.Validate(); err != nil {
		return metrics.TradingOperation{}, err
	}
	snap, err := v.api.Account(ctx)
	if err != nil {
		return metrics.TradingOperation{}, action.Failed("failed to load trading data", err)
	}
	if !snap.Account.CanRecordOperations() {
		return metrics.TradingOperation{}, validation.Errorf("initialDeposit", "set the initial deposit first")
	}
	saved, err := v.api.AddOperation(ctx, op)
	return saved, action.Failed("failed to add trading operation", err)
}

// RemoveOperation 刪除交易紀錄。
func (v *ManagerView) RemoveOperation(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return validation.Errorf("id", "is required")
	}
	return action.Failed("failed to delete trading operation", v.api.DeleteOperation(ctx, id))
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
