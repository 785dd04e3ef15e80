package postgres

import (
	"context"
	"database/sql"
	"errors"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
	"affiliate-dashboard/internal/domain/validation"

	"github.com/shopspring/decimal"
)

// GetAccount 尚未建立帳戶時回傳 nil。
func (s *Store) GetAccount(ctx context.Context, ownerID string) (*metrics.TradingAccount, error) {
	const q = `
SELECT a.owner_id, COALESCE(u.name, ''), COALESCE(u.email, ''), a.initial_deposit, a.is_deposit_set
FROM trading_accounts a
LEFT JOIN users u ON u.id = a.owner_id
WHERE a.owner_id = $1;
`
	var acct metrics.TradingAccount
	err := s.db.QueryRowContext(ctx, q, ownerID).Scan(
		&acct.Owner.ID, &acct.Owner.Name, &acct.Owner.Email, &acct.InitialDeposit, &acct.IsDepositSet,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// SetDeposit 初始資金只能設定一次；條件式 upsert 在已設定時不回傳任何列。
func (s *Store) SetDeposit(ctx context.Context, ownerID string, amount decimal.Decimal) (metrics.TradingAccount, error) {
	const q = `
INSERT INTO trading_accounts (owner_id, initial_deposit, is_deposit_set, updated_at)
VALUES ($1, $2, TRUE, NOW())
ON CONFLICT (owner_id) DO UPDATE
SET initial_deposit = EXCLUDED.initial_deposit, is_deposit_set = TRUE, updated_at = NOW()
WHERE trading_accounts.is_deposit_set = FALSE
RETURNING initial_deposit, is_deposit_set;
`
	if !amount.IsPositive() {
		return metrics.TradingAccount{}, validation.Errorf("initialDeposit", "must be greater than zero")
	}
	var acct metrics.TradingAccount
	err := s.db.QueryRowContext(ctx, q, ownerID, amount).Scan(&acct.InitialDeposit, &acct.IsDepositSet)
	if errors.Is(err, sql.ErrNoRows) {
		return metrics.TradingAccount{}, metrics.ErrDepositAlreadySet
	}
	if err != nil {
		return metrics.TradingAccount{}, err
	}
	acct.Owner, err = s.owner(ctx, ownerID)
	if err != nil {
		return metrics.TradingAccount{}, err
	}
	return acct, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]metrics.TradingAccount, error) {
	const q = `
SELECT a.owner_id, COALESCE(u.name, ''), COALESCE(u.email, ''), a.initial_deposit, a.is_deposit_set
FROM trading_accounts a
LEFT JOIN users u ON u.id = a.owner_id
ORDER BY a.owner_id;
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]metrics.TradingAccount, 0)
	for rows.Next() {
		var a metrics.TradingAccount
		if err := rows.Scan(&a.Owner.ID, &a.Owner.Name, &a.Owner.Email, &a.InitialDeposit, &a.IsDepositSet); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// InsertOperation 僅在帳戶已設定初始資金時寫入，否則回傳 metrics.ErrDepositNotSet。
func (s *Store) InsertOperation(ctx context.Context, op metrics.TradingOperation) (metrics.TradingOperation, error) {
	const q = `
WITH ins AS (
    INSERT INTO trading_operations (id, owner_id, type, amount, description, date)
    SELECT $1, $2, $3, $4, $5, COALESCE($6, NOW())
    WHERE EXISTS (SELECT 1 FROM trading_accounts WHERE owner_id = $2 AND is_deposit_set)
    RETURNING owner_id, date
)
SELECT ins.date, COALESCE(u.name, ''), COALESCE(u.email, '')
FROM ins LEFT JOIN users u ON u.id = ins.owner_id;
`
	if op.ID == "" {
		op.ID = s.newID()
	}
	err := s.db.QueryRowContext(ctx, q, op.ID, op.Owner.ID, string(op.Type), op.Amount, op.Description, nullTime(op.Date)).
		Scan(&op.Date, &op.Owner.Name, &op.Owner.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return metrics.TradingOperation{}, metrics.ErrDepositNotSet
	}
	if err != nil {
		return metrics.TradingOperation{}, err
	}
	return op, nil
}

func (s *Store) ListOperations(ctx context.Context, ownerID string, w period.Window) ([]metrics.TradingOperation, error) {
	const q = `
SELECT o.id, o.type, o.amount, o.description, o.date, o.owner_id, COALESCE(u.name, ''), COALESCE(u.email, '')
FROM trading_operations o
LEFT JOIN users u ON u.id = o.owner_id
WHERE ($1::text = '' OR o.owner_id = $1)
  AND (NOT $2::boolean OR (o.date >= $3 AND o.date < $4))
ORDER BY o.date DESC;
`
	bounded, from, to := windowArgs(w)
	rows, err := s.db.QueryContext(ctx, q, ownerID, bounded, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]metrics.TradingOperation, 0)
	for rows.Next() {
		var op metrics.TradingOperation
		if err := rows.Scan(
			&op.ID, &op.Type, &op.Amount, &op.Description, &op.Date, &op.Owner.ID, &op.Owner.Name, &op.Owner.Email,
		); err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

func (s *Store) DeleteOperation(ctx context.Context, ownerID, id string) error {
	const q = `DELETE FROM trading_operations WHERE id = $1 AND owner_id = $2;`
	res, err := s.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "operation", id)
}
