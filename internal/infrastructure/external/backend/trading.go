package backend

import (
	"context"
	"net/http"
	"net/url"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"

	"github.com/shopspring/decimal"
)

// Account 目前經理的帳戶與交易紀錄；尚未建立帳戶時 Account 為 nil。
func (c *Client) Account(ctx context.Context) (metrics.AccountSnapshot, error) {
	var out struct {
		Account    *wireAccount    `json:"account"`
		Operations []wireOperation `json:"operations"`
	}
	if err := c.call(ctx, http.MethodGet, "/trading/account", nil, nil, &out); err != nil {
		return metrics.AccountSnapshot{}, err
	}
	snap := metrics.AccountSnapshot{Operations: convert(out.Operations, wireOperation.toDomain)}
	if out.Account != nil {
		acct := out.Account.toDomain()
		snap.Account = &acct
	}
	return snap, nil
}

// SetDeposit 設定初始資金。
func (c *Client) SetDeposit(ctx context.Context, amount decimal.Decimal) (metrics.TradingAccount, error) {
	in := map[string]any{"initialDeposit": number(amount)}
	var out struct {
		Account wireAccount `json:"account"`
	}
	if err := c.call(ctx, http.MethodPost, "/trading/deposit", nil, in, &out); err != nil {
		return metrics.TradingAccount{}, err
	}
	return out.Account.toDomain(), nil
}

// AddOperation 新增交易紀錄。
func (c *Client) AddOperation(ctx context.Context, op metrics.TradingOperation) (metrics.TradingOperation, error) {
	in := map[string]any{
		"type":        string(op.Type),
		"amount":      number(op.Amount),
		"description": op.Description,
	}
	var out struct {
		Operation wireOperation `json:"operation"`
	}
	if err := c.call(ctx, http.MethodPost, "/trading/operations", nil, in, &out); err != nil {
		return metrics.TradingOperation{}, err
	}
	return out.Operation.toDomain(), nil
}

// DeleteOperation 刪除交易紀錄。
func (c *Client) DeleteOperation(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/trading/operations/"+url.PathEscape(id), nil, nil, nil)
}

// AllTrading 所有經理的帳戶與交易紀錄（管理員）。
func (c *Client) AllTrading(ctx context.Context, p period.Period) (metrics.TradingLedger, error) {
	var out struct {
		Accounts   []wireAccount   `json:"accounts"`
		Operations []wireOperation `json:"operations"`
	}
	if err := c.call(ctx, http.MethodGet, "/trading/all-data", periodParams(p), nil, &out); err != nil {
		return metrics.TradingLedger{}, err
	}
	return metrics.TradingLedger{
		Accounts:   convert(out.Accounts, wireAccount.toDomain),
		Operations: convert(out.Operations, wireOperation.toDomain),
	}, nil
}
