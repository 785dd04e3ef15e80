package metrics

import (
	"time"

	"affiliate-dashboard/internal/domain/validation"

	"github.com/shopspring/decimal"
)

// PeriodRecord 是經理每日回報的 BingX 推廣數據，建立後不再修改。
type PeriodRecord struct {
	ID            string          `json:"id"`
	NewReferrals  int64           `json:"newReferrals"`
	TradingVolume decimal.Decimal `json:"tradingVolume"`
	TradingProfit decimal.Decimal `json:"tradingProfit"`
	AdCosts       decimal.Decimal `json:"adCosts"`
	AdProfit      decimal.Decimal `json:"adProfit"`
	CreatedAt     time.Time       `json:"createdAt"`
	Owner         OwnerRef        `json:"owner"`
}

// Validate 檢查非負欄位。
func (r PeriodRecord) Validate() error {
	if r.NewReferrals < 0 {
		return validation.Errorf("newReferrals", "must not be negative")
	}
	if r.TradingVolume.IsNegative() {
		return validation.Errorf("tradingVolume", "must not be negative")
	}
	if r.AdCosts.IsNegative() {
		return validation.Errorf("adCosts", "must not be negative")
	}
	return nil
}
