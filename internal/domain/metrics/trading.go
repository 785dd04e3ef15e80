package metrics

import (
	"errors"
	"time"

	"affiliate-dashboard/internal/domain/validation"

	"github.com/shopspring/decimal"
)

var (
	ErrDepositAlreadySet = errors.New("initial deposit already set")
	ErrDepositNotSet     = errors.New("initial deposit not set")
)

// OperationType 個人交易紀錄類型。
type OperationType string

const (
	OperationProfit     OperationType = "profit"
	OperationLoss       OperationType = "loss"
	OperationWithdrawal OperationType = "withdrawal"
)

// Valid 是否為已知類型。
func (t OperationType) Valid() bool {
	switch t {
	case OperationProfit, OperationLoss, OperationWithdrawal:
		return true
	}
	return false
}

// TradingOperation 經理個人帳戶的一筆獲利、虧損或提領。
type TradingOperation struct {
	ID          string          `json:"id"`
	Type        OperationType   `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Owner       OwnerRef        `json:"owner"`
}

// Validate 檢查類型、金額與說明。
func (o TradingOperation) Validate() error {
	if !o.Type.Valid() {
		return validation.Errorf("type", "must be one of profit, loss, withdrawal")
	}
	if !o.Amount.IsPositive() {
		return validation.Errorf("amount", "must be greater than zero")
	}
	if o.Description == "" {
		return validation.Errorf("description", "is required")
	}
	return nil
}

// TradingAccount 經理的個人交易帳戶，初始資金只能設定一次。
type TradingAccount struct {
	Owner          OwnerRef        `json:"owner"`
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
	IsDepositSet   bool            `json:"isDepositSet"`
}

// SetDeposit 設定初始資金。
func (a *TradingAccount) SetDeposit(amount decimal.Decimal) error {
	if a.IsDepositSet {
		return ErrDepositAlreadySet
	}
	if !amount.IsPositive() {
		return validation.Errorf("initialDeposit", "must be greater than zero")
	}
	a.InitialDeposit = amount
	a.IsDepositSet = true
	return nil
}

// CanRecordOperations 尚未設定初始資金前不可記錄交易。
func (a *TradingAccount) CanRecordOperations() bool {
	return a != nil && a.IsDepositSet
}

// AccountSnapshot 是單一經理的帳戶與交易紀錄。
type AccountSnapshot struct {
	Account    *TradingAccount    `json:"account"`
	Operations []TradingOperation `json:"operations"`
}

// TradingLedger 是所有經理的帳戶與交易紀錄。
type TradingLedger struct {
	Accounts   []TradingAccount   `json:"accounts"`
	Operations []TradingOperation `json:"operations"`
}
