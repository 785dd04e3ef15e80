package aggregate

import (
	"sort"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/reports"
)

// RevenueBreakdown 產出營收圓餅圖，只保留正值區塊。
func RevenueBreakdown(t reports.Totals) []reports.RevenueSlice {
	all := []reports.RevenueSlice{
		{Key: "trading", Name: "BingX Trading", Value: t.TotalTradingProfit},
		{Key: "ads", Name: "Advertising", Value: t.TotalAdProfit},
		{Key: "vip", Name: "VIP Subscriptions", Value: t.TotalVipRevenue},
		{Key: "personal", Name: "Personal Trading", Value: t.TotalPersonalTrading},
	}
	out := make([]reports.RevenueSlice, 0, len(all))
	for _, s := range all {
		if s.Value.IsPositive() {
			out = append(out, s)
		}
	}
	return out
}

// RevenueTrend 取建立時間最新的 n 筆紀錄，依時間先後排列。
func RevenueTrend(records []metrics.PeriodRecord, n int) []reports.TrendPoint {
	if n <= 0 || len(records) == 0 {
		return []reports.TrendPoint{}
	}
	sorted := make([]metrics.PeriodRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	out := make([]reports.TrendPoint, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, reports.TrendPoint{
			Date:          r.CreatedAt,
			TradingProfit: r.TradingProfit,
			AdProfit:      r.AdProfit,
		})
	}
	return out
}
