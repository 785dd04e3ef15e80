package backend

import (
	"context"
	"net/http"
	"net/url"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
)

// ListVipPlans 訂閱方案。
func (c *Client) ListVipPlans(ctx context.Context) ([]metrics.VipPlan, error) {
	var out []wirePlan
	if err := c.call(ctx, http.MethodGet, "/vip/plans", nil, nil, &out); err != nil {
		return nil, err
	}
	return convert(out, wirePlan.toDomain), nil
}

// ListVipMembers 目前經理的會員。
func (c *Client) ListVipMembers(ctx context.Context) ([]metrics.VipMember, error) {
	var out []wireMember
	if err := c.call(ctx, http.MethodGet, "/vip/members", nil, nil, &out); err != nil {
		return nil, err
	}
	return convert(out, wireMember.toDomain), nil
}

// AddVipMember 新增會員。
func (c *Client) AddVipMember(ctx context.Context, name, planID string) (metrics.VipMember, error) {
	in := map[string]string{"name": name, "planId": planID}
	var out struct {
		Member wireMember `json:"member"`
	}
	if err := c.call(ctx, http.MethodPost, "/vip/members", nil, in, &out); err != nil {
		return metrics.VipMember{}, err
	}
	return out.Member.toDomain(), nil
}

// DeleteVipMember 刪除會員。
func (c *Client) DeleteVipMember(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/vip/members/"+url.PathEscape(id), nil, nil, nil)
}

// AllVipMembers 所有經理的會員（管理員）。
func (c *Client) AllVipMembers(ctx context.Context, p period.Period) ([]metrics.VipMember, error) {
	var out []wireMember
	if err := c.call(ctx, http.MethodGet, "/vip/all-members", periodParams(p), nil, &out); err != nil {
		return nil, err
	}
	return convert(out, wireMember.toDomain), nil
}
