package metrics

import (
	"time"

	"affiliate-dashboard/internal/domain/validation"

	"github.com/shopspring/decimal"
)

// DailyReport 推廣人員單日單平台的內容成效。
type DailyReport struct {
	ID             string          `json:"id"`
	Platform       Platform        `json:"platform"`
	VideosUploaded int64           `json:"videosUploaded"`
	Views          int64           `json:"views"`
	Engagement     decimal.Decimal `json:"engagement"`
	CreatedAt      time.Time       `json:"createdAt"`
	Owner          OwnerRef        `json:"owner"`
}

// Validate 檢查平台代碼與非負欄位。
func (r DailyReport) Validate() error {
	if r.Platform == "" {
		return validation.Errorf("platform", "is required")
	}
	if _, ok := LookupPlatform(r.Platform); !ok {
		return validation.Errorf("platform", "unknown platform %q", r.Platform)
	}
	if r.VideosUploaded < 0 {
		return validation.Errorf("videosUploaded", "must not be negative")
	}
	if r.Views < 0 {
		return validation.Errorf("views", "must not be negative")
	}
	if r.Engagement.IsNegative() {
		return validation.Errorf("engagement", "must not be negative")
	}
	return nil
}

// TrafferActivity 推廣人員已選平台與每日回報。
type TrafferActivity struct {
	Owner             OwnerRef      `json:"owner"`
	SelectedPlatforms []Platform    `json:"selectedPlatforms"`
	DailyReports      []DailyReport `json:"dailyReports"`
}

// HasPlatform 是否已選擇該平台。
func (a TrafferActivity) HasPlatform(p Platform) bool {
	for _, sp := range a.SelectedPlatforms {
		if sp == p {
			return true
		}
	}
	return false
}
