package backend

import (
	"context"
	"net/http"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
)

// Activity 目前推廣人員的平台與回報。
func (c *Client) Activity(ctx context.Context) (metrics.TrafferActivity, error) {
	var out struct {
		Activity *wireActivity `json:"activity"`
	}
	if err := c.call(ctx, http.MethodGet, "/traffer/activity", nil, nil, &out); err != nil {
		return metrics.TrafferActivity{}, err
	}
	if out.Activity == nil {
		return metrics.TrafferActivity{}, nil
	}
	return out.Activity.toDomain(), nil
}

// SavePlatforms 儲存已選平台。
func (c *Client) SavePlatforms(ctx context.Context, platforms []metrics.Platform) error {
	selected := make([]wirePlatform, 0, len(platforms))
	for _, p := range platforms {
		name := string(p)
		if info, ok := metrics.LookupPlatform(p); ok {
			name = info.Name
		}
		selected = append(selected, wirePlatform{ID: string(p), Name: name})
	}
	in := map[string]any{"selectedPlatforms": selected}
	return c.call(ctx, http.MethodPost, "/traffer/platforms", nil, in, nil)
}

// AddDailyReport 新增每日回報。
func (c *Client) AddDailyReport(ctx context.Context, r metrics.DailyReport) (metrics.DailyReport, error) {
	in := map[string]any{
		"platform":       string(r.Platform),
		"videosUploaded": r.VideosUploaded,
		"views":          r.Views,
		"engagement":     number(r.Engagement),
	}
	var out struct {
		Report wireReport `json:"report"`
	}
	if err := c.call(ctx, http.MethodPost, "/traffer/daily-report", nil, in, &out); err != nil {
		return metrics.DailyReport{}, err
	}
	return out.Report.toDomain(metrics.OwnerRef{}), nil
}

// AllTraffer 所有推廣人員的活動（管理員）。
func (c *Client) AllTraffer(ctx context.Context, p period.Period) ([]metrics.TrafferActivity, error) {
	var out []wireActivity
	if err := c.call(ctx, http.MethodGet, "/traffer/all-data", periodParams(p), nil, &out); err != nil {
		return nil, err
	}
	return convert(out, wireActivity.toDomain), nil
}
