package memory

import (
	"context"
	"fmt"
	"sort"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"

	"github.com/shopspring/decimal"
)

// GetAccount 尚未建立帳戶時回傳 nil。
func (s *Store) GetAccount(ctx context.Context, ownerID string) (*metrics.TradingAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[ownerID]
	if !ok {
		return nil, nil
	}
	acct.Owner = s.owner(ownerID)
	return &acct, nil
}

// SetDeposit 初始資金只能設定一次。
func (s *Store) SetDeposit(ctx context.Context, ownerID string, amount decimal.Decimal) (metrics.TradingAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[ownerID]
	if err := acct.SetDeposit(amount); err != nil {
		return metrics.TradingAccount{}, err
	}
	acct.Owner = metrics.OwnerRef{ID: ownerID}
	s.accounts[ownerID] = acct

	acct.Owner = s.owner(ownerID)
	return acct, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]metrics.TradingAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]metrics.TradingAccount, 0, len(s.accounts))
	for id, acct := range s.accounts {
		acct.Owner = s.owner(id)
		out = append(out, acct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Owner.ID < out[j].Owner.ID })
	return out, nil
}

// InsertOperation 需先設定初始資金。
func (s *Store) InsertOperation(ctx context.Context, op metrics.TradingOperation) (metrics.TradingOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[op.Owner.ID]
	if !ok || !acct.CanRecordOperations() {
		return metrics.TradingOperation{}, metrics.ErrDepositNotSet
	}
	if op.ID == "" {
		op.ID = s.nextID()
	}
	op.Date = s.stamp(op.Date)
	op.Owner = metrics.OwnerRef{ID: op.Owner.ID}
	s.operations = append(s.operations, op)

	op.Owner = s.owner(op.Owner.ID)
	return op, nil
}

func (s *Store) ListOperations(ctx context.Context, ownerID string, w period.Window) ([]metrics.TradingOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]metrics.TradingOperation, 0)
	for _, op := range s.operations {
		if ownerID != "" && op.Owner.ID != ownerID {
			continue
		}
		if !w.Contains(op.Date) {
			continue
		}
		op.Owner = s.owner(op.Owner.ID)
		out = append(out, op)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) DeleteOperation(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, op := range s.operations {
		if op.ID == id && op.Owner.ID == ownerID {
			s.operations = append(s.operations[:i], s.operations[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("operation %s: %w", id, metrics.ErrNotFound)
}
