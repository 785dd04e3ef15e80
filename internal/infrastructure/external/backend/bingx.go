package backend

import (
	"context"
	"net/http"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
)

// SaveBingX 新增一筆當日 BingX 數據。
func (c *Client) SaveBingX(ctx context.Context, rec metrics.PeriodRecord) (metrics.PeriodRecord, error) {
	in := map[string]any{
		"newReferrals":  rec.NewReferrals,
		"tradingVolume": number(rec.TradingVolume),
		"tradingProfit": number(rec.TradingProfit),
		"adCosts":       number(rec.AdCosts),
		"adProfit":      number(rec.AdProfit),
	}
	var out struct {
		Record *wireRecord `json:"record"`
	}
	if err := c.call(ctx, http.MethodPost, "/bingx/data", nil, in, &out); err != nil {
		return metrics.PeriodRecord{}, err
	}
	if out.Record == nil {
		return rec, nil
	}
	return out.Record.toDomain(), nil
}

// ListBingX 目前經理自己的紀錄。
func (c *Client) ListBingX(ctx context.Context) ([]metrics.PeriodRecord, error) {
	var out []wireRecord
	if err := c.call(ctx, http.MethodGet, "/bingx/data", nil, nil, &out); err != nil {
		return nil, err
	}
	return convert(out, wireRecord.toDomain), nil
}

// AllBingX 所有經理的紀錄（管理員）。
func (c *Client) AllBingX(ctx context.Context, p period.Period) ([]metrics.PeriodRecord, error) {
	var out []wireRecord
	if err := c.call(ctx, http.MethodGet, "/bingx/all-data", periodParams(p), nil, &out); err != nil {
		return nil, err
	}
	return convert(out, wireRecord.toDomain), nil
}
