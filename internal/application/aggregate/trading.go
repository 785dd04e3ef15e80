package aggregate

import (
	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/reports"

	"github.com/shopspring/decimal"
)

// ComputeTradingStats 分別加總獲利、虧損與提領。
func ComputeTradingStats(ops []metrics.TradingOperation) reports.TradingStats {
	s := reports.TradingStats{
		Profits:     decimal.Zero,
		Losses:      decimal.Zero,
		Withdrawals: decimal.Zero,
	}
	for _, op := range ops {
		switch op.Type {
		case metrics.OperationProfit:
			s.Profits = s.Profits.Add(op.Amount)
		case metrics.OperationLoss:
			s.Losses = s.Losses.Add(op.Amount)
		case metrics.OperationWithdrawal:
			s.Withdrawals = s.Withdrawals.Add(op.Amount)
		}
	}
	return s
}

// ComputeCurrentBalance 初始資金加獲利減虧損與提領；未設定資金時為 0。
func ComputeCurrentBalance(account *metrics.TradingAccount, ops []metrics.TradingOperation) decimal.Decimal {
	if account == nil || !account.IsDepositSet {
		return decimal.Zero
	}
	s := ComputeTradingStats(ops)
	return account.InitialDeposit.Add(s.Profits).Sub(s.Losses).Sub(s.Withdrawals)
}
