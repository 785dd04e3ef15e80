package aggregate

import (
	"testing"
	"time"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/reports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: want %s, got %s", msg, want, got.String())
}

func sampleRecords() []metrics.PeriodRecord {
	return []metrics.PeriodRecord{
		{NewReferrals: 12, TradingVolume: d("2500000"), TradingProfit: d("625"), AdCosts: d("150"), AdProfit: d("300")},
		{NewReferrals: 8, TradingVolume: d("1800000"), TradingProfit: d("450"), AdCosts: d("120"), AdProfit: d("250")},
	}
}

func TestComputeTotals_TwoDays(t *testing.T) {
	got := ComputeTotals(sampleRecords(), nil, nil)

	assert.Equal(t, int64(20), got.TotalReferrals)
	assertDec(t, "4300000", got.TotalTradingVolume, "volume")
	assertDec(t, "1075", got.TotalTradingProfit, "trading profit")
	assertDec(t, "270", got.TotalAdCosts, "ad costs")
	assertDec(t, "550", got.TotalAdProfit, "ad profit")
	assertDec(t, "1625", got.TotalRevenue, "revenue")
	assertDec(t, "270", got.TotalCosts, "costs")
	assertDec(t, "1355", got.NetProfit, "net")
}

func TestComputeTotals_ZeroFields(t *testing.T) {
	got := ComputeTotals([]metrics.PeriodRecord{{}, {}, {}}, nil, nil)

	assert.Zero(t, got.TotalReferrals)
	for name, v := range map[string]decimal.Decimal{
		"volume":   got.TotalTradingVolume,
		"profit":   got.TotalTradingProfit,
		"adCosts":  got.TotalAdCosts,
		"adProfit": got.TotalAdProfit,
		"vip":      got.TotalVipRevenue,
		"personal": got.TotalPersonalTrading,
		"revenue":  got.TotalRevenue,
		"costs":    got.TotalCosts,
		"net":      got.NetProfit,
	} {
		assert.Truef(t, v.IsZero(), "%s should be zero, got %s", name, v)
	}
}

func TestComputeTotals_NetIsRevenueMinusCosts(t *testing.T) {
	inputs := [][]metrics.PeriodRecord{
		nil,
		sampleRecords(),
		{{AdCosts: d("900"), AdProfit: d("100.10")}},
		{{TradingProfit: d("-20.5"), AdCosts: d("0.3")}},
	}
	ops := []metrics.TradingOperation{
		{Type: metrics.OperationProfit, Amount: d("10.01")},
		{Type: metrics.OperationLoss, Amount: d("3")},
	}
	for _, recs := range inputs {
		got := ComputeTotals(recs, nil, ops)
		assert.True(t, got.NetProfit.Equal(got.TotalRevenue.Sub(got.TotalCosts)))
	}
}

func TestComputeTotals_VipAndPersonalTrading(t *testing.T) {
	members := []metrics.VipMember{
		{Plan: metrics.VipPlan{Price: d("100")}},
		{Plan: metrics.VipPlan{Price: d("250")}},
	}
	ops := []metrics.TradingOperation{
		{Type: metrics.OperationProfit, Amount: d("200")},
		{Type: metrics.OperationLoss, Amount: d("50")},
		{Type: metrics.OperationWithdrawal, Amount: d("100")},
	}
	got := ComputeTotals(nil, members, ops)

	assertDec(t, "350", got.TotalVipRevenue, "vip revenue")
	assertDec(t, "150", got.TotalPersonalTrading, "personal trading excludes withdrawals")
	assertDec(t, "500", got.TotalRevenue, "revenue")
	assertDec(t, "175", AverageSubscription(got, len(members)), "average subscription")
}

func TestComputeTotals_DecimalExactness(t *testing.T) {
	recs := make([]metrics.PeriodRecord, 10)
	for i := range recs {
		recs[i] = metrics.PeriodRecord{AdProfit: d("0.1")}
	}
	got := ComputeTotals(recs, nil, nil)
	assertDec(t, "1", got.TotalAdProfit, "ten times 0.1")
}

func TestComputeTotals_Idempotent(t *testing.T) {
	recs := sampleRecords()
	first := ComputeTotals(recs, nil, nil)
	second := ComputeTotals(recs, nil, nil)
	assert.Equal(t, first, second)
	assert.Equal(t, ComputeAverages(first, len(recs)), ComputeAverages(second, len(recs)))
}

func TestComputeAverages(t *testing.T) {
	totals := ComputeTotals(sampleRecords(), nil, nil)
	avg := ComputeAverages(totals, 2)

	assertDec(t, "10", avg.ReferralsPerDay, "referrals")
	assertDec(t, "2150000", avg.TradingVolumePerDay, "volume")
	assertDec(t, "537.5", avg.TradingProfitPerDay, "profit")
	assertDec(t, "677.5", avg.NetProfitPerDay, "net")

	disp := avg.Display()
	assert.Equal(t, "537.5", disp.TradingProfitPerDay.String())
	assert.Equal(t, "10", disp.ReferralsPerDay.String())
}

func TestComputeAverages_PersonalTrading(t *testing.T) {
	ops := []metrics.TradingOperation{
		{Type: metrics.OperationProfit, Amount: d("200")},
		{Type: metrics.OperationLoss, Amount: d("50")},
		{Type: metrics.OperationWithdrawal, Amount: d("100")},
	}
	totals := ComputeTotals(sampleRecords(), nil, ops)
	avg := ComputeAverages(totals, 2)

	assertDec(t, "150", totals.TotalPersonalTrading, "personal trading total")
	assertDec(t, "75", avg.PersonalTradingPerDay, "personal trading per day")

	avg = ComputeAverages(totals, 4)
	assertDec(t, "37.5", avg.PersonalTradingPerDay, "personal trading per day")
	assert.Equal(t, "37.5", avg.Display().PersonalTradingPerDay.String())
}

func TestComputeAverages_EmptyEqualsTotals(t *testing.T) {
	totals := ComputeTotals(nil, []metrics.VipMember{{Plan: metrics.VipPlan{Price: d("99")}}}, nil)
	avg := ComputeAverages(totals, 0)

	assert.True(t, avg.RevenuePerDay.Equal(totals.TotalRevenue))
	assert.True(t, avg.VipRevenuePerDay.Equal(totals.TotalVipRevenue))
	assert.True(t, avg.NetProfitPerDay.Equal(totals.NetProfit))
	assert.True(t, avg.ReferralsPerDay.IsZero())
}

func TestComputeAverages_DisplayDoesNotFeedBack(t *testing.T) {
	totals := reports.Totals{TotalTradingProfit: d("100")}
	avg := ComputeAverages(totals, 3)

	assert.Equal(t, "33.33", avg.Display().TradingProfitPerDay.String())
	// 精確值乘回去不會因顯示四捨五入而偏離
	back := avg.TradingProfitPerDay.Mul(decimal.NewFromInt(3)).Round(8)
	assert.True(t, back.Equal(d("100")))
}

func TestComputeCurrentBalance(t *testing.T) {
	acct := &metrics.TradingAccount{InitialDeposit: d("1000"), IsDepositSet: true}
	ops := []metrics.TradingOperation{
		{Type: metrics.OperationProfit, Amount: d("200")},
		{Type: metrics.OperationLoss, Amount: d("50")},
		{Type: metrics.OperationWithdrawal, Amount: d("100")},
	}
	assertDec(t, "1050", ComputeCurrentBalance(acct, ops), "balance")

	permutations := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, p := range permutations {
		shuffled := []metrics.TradingOperation{ops[p[0]], ops[p[1]], ops[p[2]]}
		assertDec(t, "1050", ComputeCurrentBalance(acct, shuffled), "permuted balance")
	}
}

func TestComputeCurrentBalance_FailsClosed(t *testing.T) {
	ops := []metrics.TradingOperation{{Type: metrics.OperationProfit, Amount: d("200")}}
	assert.True(t, ComputeCurrentBalance(nil, ops).IsZero())
	assert.True(t, ComputeCurrentBalance(&metrics.TradingAccount{InitialDeposit: d("500")}, ops).IsZero())
}

func TestComputeTradingStats(t *testing.T) {
	s := ComputeTradingStats([]metrics.TradingOperation{
		{Type: metrics.OperationProfit, Amount: d("10")},
		{Type: metrics.OperationProfit, Amount: d("5.5")},
		{Type: metrics.OperationLoss, Amount: d("3")},
		{Type: metrics.OperationWithdrawal, Amount: d("7")},
	})
	assertDec(t, "15.5", s.Profits, "profits")
	assertDec(t, "3", s.Losses, "losses")
	assertDec(t, "7", s.Withdrawals, "withdrawals")
}

func TestGroupByManager(t *testing.T) {
	ann := metrics.OwnerRef{ID: "m1", Name: "Ann", Email: "ann@example.com"}
	records := []metrics.PeriodRecord{
		{NewReferrals: 5, TradingProfit: d("100"), AdProfit: d("50"), Owner: metrics.OwnerRef{ID: "m1", Name: "Ann (bingx)"}},
		{NewReferrals: 3, TradingProfit: d("20"), AdProfit: d("10"), Owner: metrics.OwnerRef{ID: "m2", Name: "Bob"}},
		{NewReferrals: 1, TradingProfit: d("1"), Owner: metrics.OwnerRef{ID: "m4"}},
	}
	members := []metrics.VipMember{
		{Plan: metrics.VipPlan{Price: d("100")}, Owner: ann},
		{Plan: metrics.VipPlan{Price: d("250")}, Owner: ann},
		{Plan: metrics.VipPlan{Price: d("40")}, Owner: metrics.OwnerRef{ID: "m3", Name: "Cid"}},
	}

	got := GroupByManager(records, members)
	require.Len(t, got, 4)

	assert.Equal(t, "m1", got[0].OwnerID)
	assert.Equal(t, "Ann", got[0].Name, "VIP name wins over BingX name")
	assert.Equal(t, "ann@example.com", got[0].Email)
	assertDec(t, "150", got[0].BingxProfit, "m1 bingx")
	assertDec(t, "350", got[0].VipRevenue, "m1 vip")
	assert.Equal(t, 2, got[0].VipCount)
	assert.Equal(t, int64(5), got[0].Referrals)
	assertDec(t, "500", got[0].TotalRevenue, "m1 total")

	assert.Equal(t, "m3", got[1].OwnerID)
	assert.Equal(t, "Cid", got[1].Name)
	assert.True(t, got[1].BingxProfit.IsZero(), "VIP-only manager has zero BingX side")

	assert.Equal(t, "m2", got[2].OwnerID)
	assert.Equal(t, "Bob", got[2].Name)
	assert.Zero(t, got[2].VipCount)
	assert.True(t, got[2].VipRevenue.IsZero())

	assert.Equal(t, "m4", got[3].OwnerID)
	assert.Equal(t, metrics.UnknownName, got[3].Name)
}

func TestGroupByManager_TieBreakByID(t *testing.T) {
	records := []metrics.PeriodRecord{
		{TradingProfit: d("10"), Owner: metrics.OwnerRef{ID: "b"}},
		{TradingProfit: d("10"), Owner: metrics.OwnerRef{ID: "a"}},
	}
	got := GroupByManager(records, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].OwnerID)
	assert.Equal(t, "b", got[1].OwnerID)
}

func TestGroupByManager_Empty(t *testing.T) {
	assert.Empty(t, GroupByManager(nil, nil))
}

func TestAdROI(t *testing.T) {
	assertDec(t, "200", AdROI(reports.Totals{TotalAdCosts: d("150"), TotalAdProfit: d("300")}), "roi")
	assert.True(t, AdROI(reports.Totals{TotalAdProfit: d("300")}).IsZero())
	assert.True(t, AverageSubscription(reports.Totals{TotalVipRevenue: d("10")}, 0).IsZero())
}

func TestTradingProfitFromVolume(t *testing.T) {
	assertDec(t, "625", TradingProfitFromVolume(d("2500000")), "2.5M")
	assertDec(t, "450", TradingProfitFromVolume(d("1800000")), "1.8M")
	assertDec(t, "0.25", TradingProfitFromVolume(d("1000")), "1k")
	assert.True(t, TradingProfitFromVolume(decimal.Zero).IsZero())
}

func TestRevenueBreakdown_PositiveOnly(t *testing.T) {
	slices := RevenueBreakdown(reports.Totals{
		TotalTradingProfit:   d("100"),
		TotalAdProfit:        d("0"),
		TotalVipRevenue:      d("50"),
		TotalPersonalTrading: d("-10"),
	})
	require.Len(t, slices, 2)
	assert.Equal(t, "trading", slices[0].Key)
	assert.Equal(t, "vip", slices[1].Key)
}

func TestRevenueTrend(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var recs []metrics.PeriodRecord
	for i := 9; i >= 0; i-- {
		recs = append(recs, metrics.PeriodRecord{
			CreatedAt:     base.AddDate(0, 0, i),
			TradingProfit: decimal.NewFromInt(int64(i)),
		})
	}
	got := RevenueTrend(recs, 7)
	require.Len(t, got, 7)
	assert.Equal(t, base.AddDate(0, 0, 3), got[0].Date)
	assert.Equal(t, base.AddDate(0, 0, 9), got[6].Date)
	// 不修改輸入順序
	assert.Equal(t, base.AddDate(0, 0, 9), recs[0].CreatedAt)

	assert.Empty(t, RevenueTrend(nil, 7))
	assert.Len(t, RevenueTrend(recs[:2], 7), 2)
}

func TestComputeTrafferStats(t *testing.T) {
	s := ComputeTrafferStats([]metrics.DailyReport{
		{VideosUploaded: 3, Views: 1000, Engagement: d("4.5")},
		{VideosUploaded: 2, Views: 500, Engagement: d("5")},
		{VideosUploaded: 1, Views: 0},
	})
	assert.Equal(t, int64(6), s.TotalVideos)
	assert.Equal(t, int64(1500), s.TotalViews)
	assert.Equal(t, 3, s.Reports)
	assert.Equal(t, "3.2", s.Display().AverageEngagement.String())

	empty := ComputeTrafferStats(nil)
	assert.True(t, empty.AverageEngagement.IsZero())
}

func TestGroupByTraffer(t *testing.T) {
	acts := []metrics.TrafferActivity{
		{
			Owner:             metrics.OwnerRef{ID: "t1", Name: "Tia"},
			SelectedPlatforms: []metrics.Platform{metrics.PlatformTikTok, metrics.PlatformX},
			DailyReports:      []metrics.DailyReport{{VideosUploaded: 2, Views: 300}, {VideosUploaded: 1, Views: 200}},
		},
		{
			Owner:             metrics.OwnerRef{ID: "t2"},
			SelectedPlatforms: []metrics.Platform{metrics.PlatformThreads},
			DailyReports:      []metrics.DailyReport{{VideosUploaded: 5, Views: 900}},
		},
	}
	got := GroupByTraffer(acts)
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].OwnerID)
	assert.Equal(t, metrics.UnknownName, got[0].Name)
	assert.Equal(t, int64(900), got[0].TotalReach)
	assert.Equal(t, 2, got[1].PlatformsActive)
	assert.Equal(t, int64(500), got[1].TotalReach)
	assert.Equal(t, int64(3), got[1].TotalVideos)
}
