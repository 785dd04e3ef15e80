package period

import (
	"strings"
	"time"
)

// Period 統計區間代碼；零值代表全部期間。
type Period string

const (
	All       Period = ""
	Today     Period = "today"
	Yesterday Period = "yesterday"
	Week      Period = "week"
	Month     Period = "month"
)

// Option 提供給選單的區間描述。
type Option struct {
	ID          Period `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var options = []Option{
	{ID: Today, Name: "Today", Description: "Data for the current day"},
	{ID: Yesterday, Name: "Yesterday", Description: "Data for the previous day"},
	{ID: Week, Name: "Week", Description: "Data for the last 7 days"},
	{ID: Month, Name: "Month", Description: "Data for the current month"},
}

// Options 回傳可選區間（不含全部期間）。
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Parse 將字串轉為區間，未知或空字串視為全部期間。
func Parse(token string) Period {
	p := Period(strings.ToLower(strings.TrimSpace(token)))
	for _, o := range options {
		if o.ID == p {
			return p
		}
	}
	return All
}

// Label 顯示名稱。
func (p Period) Label() string {
	for _, o := range options {
		if o.ID == p {
			return o.Name
		}
	}
	return "All time"
}

// Description 區間說明。
func (p Period) Description() string {
	for _, o := range options {
		if o.ID == p {
			return o.Description
		}
	}
	return "All recorded data"
}

// Option 回傳區間的選單描述，全部期間也有對應項目。
func (p Period) Option() Option {
	return Option{ID: p, Name: p.Label(), Description: p.Description()}
}

// QueryValue 帶給上游的 period 參數，全部期間為空字串。
func (p Period) QueryValue() string {
	return string(p)
}

// Window 半開區間 [From, To)；Bounded 為 false 時包含所有時間。
type Window struct {
	From    time.Time
	To      time.Time
	Bounded bool
}

// Contains 判斷時間是否落在區間內。
func (w Window) Contains(t time.Time) bool {
	if !w.Bounded {
		return true
	}
	return !t.Before(w.From) && t.Before(w.To)
}

// Range 依 now 所在時區計算區間邊界。
func (p Period) Range(now time.Time) Window {
	start := startOfDay(now)
	switch p {
	case Today:
		return Window{From: start, To: start.AddDate(0, 0, 1), Bounded: true}
	case Yesterday:
		return Window{From: start.AddDate(0, 0, -1), To: start, Bounded: true}
	case Week:
		return Window{From: start.AddDate(0, 0, -6), To: start.AddDate(0, 0, 1), Bounded: true}
	case Month:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Window{From: first, To: first.AddDate(0, 1, 0), Bounded: true}
	default:
		return Window{}
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
