package reports

import (
	"time"

	"affiliate-dashboard/internal/domain/period"

	"github.com/shopspring/decimal"
)

// 顯示用小數位數，只用於輸出，不回流到計算。
const (
	ReferralPlaces   int32 = 1
	VolumePlaces     int32 = 0
	CurrencyPlaces   int32 = 2
	EngagementPlaces int32 = 1
)

// Totals 匯總所有推廣、VIP 與個人交易數據。
type Totals struct {
	TotalReferrals       int64           `json:"totalReferrals"`
	TotalTradingVolume   decimal.Decimal `json:"totalTradingVolume"`
	TotalTradingProfit   decimal.Decimal `json:"totalTradingProfit"`
	TotalAdCosts         decimal.Decimal `json:"totalAdCosts"`
	TotalAdProfit        decimal.Decimal `json:"totalAdProfit"`
	TotalVipRevenue      decimal.Decimal `json:"totalVipRevenue"`
	TotalPersonalTrading decimal.Decimal `json:"totalPersonalTrading"`
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	TotalCosts           decimal.Decimal `json:"totalCosts"`
	NetProfit            decimal.Decimal `json:"netProfit"`
}

// Averages 每日平均值（精確值）。
type Averages struct {
	ReferralsPerDay       decimal.Decimal `json:"referralsPerDay"`
	TradingVolumePerDay   decimal.Decimal `json:"tradingVolumePerDay"`
	TradingProfitPerDay   decimal.Decimal `json:"tradingProfitPerDay"`
	AdCostsPerDay         decimal.Decimal `json:"adCostsPerDay"`
	AdProfitPerDay        decimal.Decimal `json:"adProfitPerDay"`
	VipRevenuePerDay      decimal.Decimal `json:"vipRevenuePerDay"`
	PersonalTradingPerDay decimal.Decimal `json:"personalTradingPerDay"`
	RevenuePerDay         decimal.Decimal `json:"revenuePerDay"`
	CostsPerDay           decimal.Decimal `json:"costsPerDay"`
	NetProfitPerDay       decimal.Decimal `json:"netProfitPerDay"`
}

// Display 回傳四捨六入五成雙後的顯示值。
func (a Averages) Display() Averages {
	return Averages{
		ReferralsPerDay:       a.ReferralsPerDay.RoundBank(ReferralPlaces),
		TradingVolumePerDay:   a.TradingVolumePerDay.RoundBank(VolumePlaces),
		TradingProfitPerDay:   a.TradingProfitPerDay.RoundBank(CurrencyPlaces),
		AdCostsPerDay:         a.AdCostsPerDay.RoundBank(CurrencyPlaces),
		AdProfitPerDay:        a.AdProfitPerDay.RoundBank(CurrencyPlaces),
		VipRevenuePerDay:      a.VipRevenuePerDay.RoundBank(CurrencyPlaces),
		PersonalTradingPerDay: a.PersonalTradingPerDay.RoundBank(CurrencyPlaces),
		RevenuePerDay:         a.RevenuePerDay.RoundBank(CurrencyPlaces),
		CostsPerDay:           a.CostsPerDay.RoundBank(CurrencyPlaces),
		NetProfitPerDay:       a.NetProfitPerDay.RoundBank(CurrencyPlaces),
	}
}

// ManagerStat 單一經理的營收統計。
type ManagerStat struct {
	OwnerID      string          `json:"ownerId"`
	Name         string          `json:"name"`
	Email        string          `json:"email,omitempty"`
	BingxProfit  decimal.Decimal `json:"bingxProfit"`
	Referrals    int64           `json:"referrals"`
	VipRevenue   decimal.Decimal `json:"vipRevenue"`
	VipCount     int             `json:"vipCount"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// TradingStats 個人交易的獲利、虧損與提領合計。
type TradingStats struct {
	Profits     decimal.Decimal `json:"profits"`
	Losses      decimal.Decimal `json:"losses"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
}

// TrafferStats 推廣人員內容成效合計。
type TrafferStats struct {
	TotalVideos       int64           `json:"totalVideos"`
	TotalViews        int64           `json:"totalViews"`
	AverageEngagement decimal.Decimal `json:"averageEngagement"`
	Reports           int             `json:"reports"`
}

// Display 回傳顯示用的平均互動率。
func (s TrafferStats) Display() TrafferStats {
	s.AverageEngagement = s.AverageEngagement.RoundBank(EngagementPlaces)
	return s
}

// TrafferStat 單一推廣人員的摘要。
type TrafferStat struct {
	OwnerID         string `json:"ownerId"`
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	PlatformsActive int    `json:"platformsActive"`
	TotalVideos     int64  `json:"totalVideos"`
	TotalReach      int64  `json:"totalReach"`
}

// RevenueSlice 營收圓餅圖的一塊。
type RevenueSlice struct {
	Key   string          `json:"key"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// TrendPoint 營收折線圖的一個點。
type TrendPoint struct {
	Date          time.Time       `json:"date"`
	TradingProfit decimal.Decimal `json:"tradingProfit"`
	AdProfit      decimal.Decimal `json:"adProfit"`
}

// DataSummary 各資料來源筆數。
type DataSummary struct {
	BingxRecords      int `json:"bingxRecords"`
	VipMembers        int `json:"vipMembers"`
	TradingAccounts   int `json:"tradingAccounts"`
	TradingOperations int `json:"tradingOperations"`
	TrafferActivities int `json:"trafferActivities"`
}

// AdminReport 管理員總覽。
type AdminReport struct {
	Period              period.Option   `json:"period"`
	GeneratedAt         time.Time       `json:"generatedAt"`
	Totals              Totals          `json:"totals"`
	Averages            Averages        `json:"averages"`
	AveragesDisplay     Averages        `json:"averagesDisplay"`
	AdROI               decimal.Decimal `json:"adRoi"`
	AverageSubscription decimal.Decimal `json:"averageSubscription"`
	Summary             DataSummary     `json:"summary"`
	Breakdown           []RevenueSlice  `json:"breakdown"`
	Trend               []TrendPoint    `json:"trend"`
	Managers            []ManagerStat   `json:"managers"`
	Traffers            []TrafferStat   `json:"traffers"`
}
