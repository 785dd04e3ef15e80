package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// VipPlan 訂閱方案。
type VipPlan struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// VipMember 付費會員，營收貢獻為所屬方案價格（每位會員計一次）。
type VipMember struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Plan      VipPlan   `json:"plan"`
	DateAdded time.Time `json:"dateAdded"`
	Owner     OwnerRef  `json:"owner"`
}
