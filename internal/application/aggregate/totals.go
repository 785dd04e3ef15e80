// Package aggregate 將推廣、VIP 與交易紀錄折算成總額、平均與分組統計。
// 所有函式皆為純函式，不做 I/O，也不修改輸入。
package aggregate

import (
	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/reports"

	"github.com/shopspring/decimal"
)

// ComputeTotals 匯總各來源數據。提領不列入個人交易損益。
func ComputeTotals(records []metrics.PeriodRecord, members []metrics.VipMember, ops []metrics.TradingOperation) reports.Totals {
	t := reports.Totals{
		TotalTradingVolume:   decimal.Zero,
		TotalTradingProfit:   decimal.Zero,
		TotalAdCosts:         decimal.Zero,
		TotalAdProfit:        decimal.Zero,
		TotalVipRevenue:      decimal.Zero,
		TotalPersonalTrading: decimal.Zero,
	}
	for _, r := range records {
		t.TotalReferrals += r.NewReferrals
		t.TotalTradingVolume = t.TotalTradingVolume.Add(r.TradingVolume)
		t.TotalTradingProfit = t.TotalTradingProfit.Add(r.TradingProfit)
		t.TotalAdCosts = t.TotalAdCosts.Add(r.AdCosts)
		t.TotalAdProfit = t.TotalAdProfit.Add(r.AdProfit)
	}
	for _, m := range members {
		t.TotalVipRevenue = t.TotalVipRevenue.Add(m.Plan.Price)
	}
	stats := ComputeTradingStats(ops)
	t.TotalPersonalTrading = stats.Profits.Sub(stats.Losses)

	t.TotalRevenue = t.TotalTradingProfit.Add(t.TotalAdProfit).Add(t.TotalVipRevenue).Add(t.TotalPersonalTrading)
	t.TotalCosts = t.TotalAdCosts
	t.NetProfit = t.TotalRevenue.Sub(t.TotalCosts)
	return t
}

// ComputeAverages 以紀錄筆數（最少 1）平均各項總額，保留精確值。
func ComputeAverages(t reports.Totals, recordCount int) reports.Averages {
	days := decimal.NewFromInt(int64(max(recordCount, 1)))
	return reports.Averages{
		ReferralsPerDay:       decimal.NewFromInt(t.TotalReferrals).Div(days),
		TradingVolumePerDay:   t.TotalTradingVolume.Div(days),
		TradingProfitPerDay:   t.TotalTradingProfit.Div(days),
		AdCostsPerDay:         t.TotalAdCosts.Div(days),
		AdProfitPerDay:        t.TotalAdProfit.Div(days),
		VipRevenuePerDay:      t.TotalVipRevenue.Div(days),
		PersonalTradingPerDay: t.TotalPersonalTrading.Div(days),
		RevenuePerDay:         t.TotalRevenue.Div(days),
		CostsPerDay:           t.TotalCosts.Div(days),
		NetProfitPerDay:       t.NetProfit.Div(days),
	}
}

// AdROI 廣告投報率（百分比），無廣告成本時為 0。
func AdROI(t reports.Totals) decimal.Decimal {
	if !t.TotalAdCosts.IsPositive() {
		return decimal.Zero
	}
	return t.TotalAdProfit.Div(t.TotalAdCosts).Mul(decimal.NewFromInt(100))
}

// AverageSubscription 平均每位 VIP 的訂閱金額。
func AverageSubscription(t reports.Totals, memberCount int) decimal.Decimal {
	if memberCount <= 0 {
		return decimal.Zero
	}
	return t.TotalVipRevenue.Div(decimal.NewFromInt(int64(memberCount)))
}

var (
	profitPerMillion = decimal.NewFromInt(250)
	oneMillion       = decimal.NewFromInt(1_000_000)
)

// TradingProfitFromVolume 依交易量估算佣金：每一百萬交易量 250。
func TradingProfitFromVolume(volume decimal.Decimal) decimal.Decimal {
	return volume.Mul(profitPerMillion).Div(oneMillion)
}
