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
)

// TrafferGateway 推廣人員畫面需要的上游操作。
type TrafferGateway interface {
	Activity(ctx context.Context) (metrics.TrafferActivity, error)
	SavePlatforms(ctx context.Context, platforms []metrics.Platform) error
	AddDailyReport(ctx context.Context, r metrics.DailyReport) (metrics.DailyReport, error)
}

// TrafferStep 推廣人員畫面目前的步驟。
type TrafferStep string

const (
	StepPlatforms TrafferStep = "platforms"
	StepReports   TrafferStep = "reports"
)

// TrafferDashboard 推廣人員總覽。
type TrafferDashboard struct {
	Step         TrafferStep            `json:"step"`
	Catalog      []metrics.PlatformInfo `json:"catalog"`
	Platforms    []metrics.PlatformInfo `json:"platforms"`
	Reports      []metrics.DailyReport  `json:"reports"`
	Stats        reports.TrafferStats   `json:"stats"`
	StatsDisplay reports.TrafferStats   `json:"statsDisplay"`
}

// DailyReportForm 每日回報表單。
type DailyReportForm struct {
	Platform       string           `json:"platform"`
	VideosUploaded *int64           `json:"videosUploaded"`
	Views          *int64           `json:"views"`
	Engagement     *decimal.Decimal `json:"engagement"`
}

// TrafferView 推廣人員畫面用例。
type TrafferView struct {
	api TrafferGateway
}

func NewTrafferView(api TrafferGateway) *TrafferView {
	return &TrafferView{api: api}
}

// Load 讀取已選平台與回報；尚未選平台時停在選擇步驟。
func (v *TrafferView) Load(ctx context.Context) (TrafferDashboard, error) {
	act, err := v.api.Activity(ctx)
	if err != nil {
		return TrafferDashboard{}, action.Failed("failed to load activity", err)
	}
	out := TrafferDashboard{
		Step:      StepPlatforms,
		Catalog:   metrics.Platforms(),
		Platforms: resolvePlatforms(act.SelectedPlatforms),
		Reports:   act.DailyReports,
	}
	if out.Reports == nil {
		out.Reports = []metrics.DailyReport{}
	}
	if len(out.Platforms) > 0 {
		out.Step = StepReports
	}
	out.Stats = aggregate.ComputeTrafferStats(act.DailyReports)
	out.StatsDisplay = out.Stats.Display()
	return out, nil
}

// SavePlatforms 儲存平台選擇，至少一個且須為目錄內的平台。
func (v *TrafferView) SavePlatforms(ctx context.Context, ids []string) ([]metrics.PlatformInfo, error) {
	seen := make(map[metrics.Platform]bool, len(ids))
	var selected []metrics.Platform
	for _, raw := range ids {
		p := metrics.Platform(strings.ToLower(strings.TrimSpace(raw)))
		if p == "" || seen[p] {
			continue
		}
		if _, ok := metrics.LookupPlatform(p); !ok {
			return nil, validation.Errorf("platforms", "unknown platform %q", raw)
		}
		seen[p] = true
		selected = append(selected, p)
	}
	if len(selected) == 0 {
		return nil, validation.Errorf("platforms", "select at least one platform")
	}
	if err := v.api.SavePlatforms(ctx, selected); err != nil {
		return nil, action.Failed("failed to save platforms", err)
	}
	return resolvePlatforms(selected), nil
}

// AddDailyReport 新增回報；平台必須在已選清單內。
func (v *TrafferView) AddDailyReport(ctx context.Context, form DailyReportForm) (metrics.DailyReport, error) {
	p := metrics.Platform(strings.ToLower(strings.TrimSpace(form.Platform)))
	if p == "" {
		return metrics.DailyReport{}, validation.Errorf("platform", "is required")
	}
	if form.VideosUploaded == nil {
		return metrics.DailyReport{}, validation.Errorf("videosUploaded", "is required")
	}
	r := metrics.DailyReport{
		Platform:       p,
		VideosUploaded: *form.VideosUploaded,
		Engagement:     valueOrZero(form.Engagement),
	}
	if form.Views != nil {
		r.Views = *form.Views
	}
	if err := r.Validate(); err != nil {
		return metrics.DailyReport{}, err
	}

	act, err := v.api.Activity(ctx)
	if err != nil {
		return metrics.DailyReport{}, action.Failed("failed to load activity", err)
	}
	if !act.HasPlatform(p) {
		return metrics.DailyReport{}, validation.Errorf("platform", "platform %q is not selected", p)
	}
	saved, err := v.api.AddDailyReport(ctx, r)
	return saved, action.Failed("failed to add report", err)
}

func resolvePlatforms(ids []metrics.Platform) []metrics.PlatformInfo {
	out := make([]metrics.PlatformInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := metrics.LookupPlatform(id); ok {
			out = append(out, info)
		}
	}
	return out
}
