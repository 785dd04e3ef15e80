package reports

import (
	"context"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"affiliate-dashboard/internal/application/action"
	"affiliate-dashboard/internal/application/aggregate"
	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
	reportsDomain "affiliate-dashboard/internal/domain/reports"

	"golang.org/x/sync/errgroup"
)

// DefaultTrendPoints 趨勢圖預設取最近幾筆紀錄。
const DefaultTrendPoints = 7

// Source 提供全體資料查詢（管理員權限）。
type Source interface {
	AllBingX(ctx context.Context, p period.Period) ([]metrics.PeriodRecord, error)
	AllVipMembers(ctx context.Context, p period.Period) ([]metrics.VipMember, error)
	AllTrading(ctx context.Context, p period.Period) (metrics.TradingLedger, error)
	AllTraffer(ctx context.Context, p period.Period) ([]metrics.TrafferActivity, error)
}

// Options 報表行為設定。
type Options struct {
	// Location 計算區間邊界的時區，nil 時使用 UTC。
	Location *time.Location
	// SkipClientFilter 為 true 時完全信任上游的區間過濾。
	SkipClientFilter bool
	TrendPoints      int
}

// UseCase 管理員總覽與報表匯出。
type UseCase struct {
	src  Source
	opts Options
	now  func() time.Time
}

// NewUseCase 建立管理員報表用例。
func NewUseCase(src Source, opts Options) *UseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.TrendPoints <= 0 {
		opts.TrendPoints = DefaultTrendPoints
	}
	return &UseCase{src: src, opts: opts, now: time.Now}
}

type snapshot struct {
	records    []metrics.PeriodRecord
	members    []metrics.VipMember
	ledger     metrics.TradingLedger
	activities []metrics.TrafferActivity
}

// fetch 並行讀取四個來源，任一失敗即取消其餘請求。
func (u *UseCase) fetch(ctx context.Context, p period.Period) (snapshot, error) {
	var s snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		s.records, err = u.src.AllBingX(gctx, p)
		return action.Failed("failed to load BingX data", err)
	})
	g.Go(func() error {
		var err error
		s.members, err = u.src.AllVipMembers(gctx, p)
		return action.Failed("failed to load VIP data", err)
	})
	g.Go(func() error {
		var err error
		s.ledger, err = u.src.AllTrading(gctx, p)
		return action.Failed("failed to load trading data", err)
	})
	g.Go(func() error {
		var err error
		s.activities, err = u.src.AllTraffer(gctx, p)
		return action.Failed("failed to load traffer data", err)
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	if !u.opts.SkipClientFilter {
		s = s.within(p.Range(u.now().In(u.opts.Location)))
	}
	return s, nil
}

func (s snapshot) within(w period.Window) snapshot {
	if !w.Bounded {
		return s
	}
	out := snapshot{ledger: metrics.TradingLedger{Accounts: s.ledger.Accounts}}
	for _, r := range s.records {
		if keep(w, r.CreatedAt) {
			out.records = append(out.records, r)
		}
	}
	for _, m := range s.members {
		if keep(w, m.DateAdded) {
			out.members = append(out.members, m)
		}
	}
	for _, op := range s.ledger.Operations {
		if keep(w, op.Date) {
			out.ledger.Operations = append(out.ledger.Operations, op)
		}
	}
	for _, a := range s.activities {
		kept := a
		kept.DailyReports = nil
		for _, r := range a.DailyReports {
			if keep(w, r.CreatedAt) {
				kept.DailyReports = append(kept.DailyReports, r)
			}
		}
		out.activities = append(out.activities, kept)
	}
	return out
}

// keep 沒有時間戳的資料無從判斷區間，沿用上游的過濾結果。
func keep(w period.Window, t time.Time) bool {
	return t.IsZero() || w.Contains(t)
}

// BuildAdminReport 產出管理員總覽：總額、平均、圖表序列與經理、推廣人員明細。
func (u *UseCase) BuildAdminReport(ctx context.Context, p period.Period) (reportsDomain.AdminReport, error) {
	s, err := u.fetch(ctx, p)
	if err != nil {
		return reportsDomain.AdminReport{}, err
	}

	totals := aggregate.ComputeTotals(s.records, s.members, s.ledger.Operations)
	averages := aggregate.ComputeAverages(totals, len(s.records))
	out := reportsDomain.AdminReport{
		Period:              p.Option(),
		GeneratedAt:         u.now().In(u.opts.Location),
		Totals:              totals,
		Averages:            averages,
		AveragesDisplay:     averages.Display(),
		AdROI:               aggregate.AdROI(totals),
		AverageSubscription: aggregate.AverageSubscription(totals, len(s.members)),
		Summary: reportsDomain.DataSummary{
			BingxRecords:      len(s.records),
			VipMembers:        len(s.members),
			TradingAccounts:   len(s.ledger.Accounts),
			TradingOperations: len(s.ledger.Operations),
			TrafferActivities: len(s.activities),
		},
		Breakdown: aggregate.RevenueBreakdown(totals),
		Trend:     aggregate.RevenueTrend(s.records, u.opts.TrendPoints),
		Managers:  aggregate.GroupByManager(s.records, s.members),
		Traffers:  aggregate.GroupByTraffer(s.activities),
	}
	return out, nil
}

// ExportManagersCSV 匯出經理明細 CSV。
func (u *UseCase) ExportManagersCSV(ctx context.Context, p period.Period) (string, error) {
	s, err := u.fetch(ctx, p)
	if err != nil {
		return "", err
	}
	stats := aggregate.GroupByManager(s.records, s.members)

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	header := []string{"owner_id", "name", "email", "bingx_profit", "referrals", "vip_revenue", "vip_count", "total_revenue"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, st := range stats {
		record := []string{
			st.OwnerID,
			st.Name,
			st.Email,
			st.BingxProfit.StringFixedBank(reportsDomain.CurrencyPlaces),
			strconv.FormatInt(st.Referrals, 10),
			st.VipRevenue.StringFixedBank(reportsDomain.CurrencyPlaces),
			strconv.Itoa(st.VipCount),
			st.TotalRevenue.StringFixedBank(reportsDomain.CurrencyPlaces),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
