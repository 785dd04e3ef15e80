// Package devapi 是開發與測試用的參考上游，提供儀表板所需的 REST API。
package devapi

import (
	"context"

	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"

	"github.com/shopspring/decimal"
)

// Store 參考上游的資料存取；memory.Store 與 postgres.Store 皆實作。
type Store interface {
	CreateUser(ctx context.Context, u auth.User) (auth.User, error)
	FindUserByEmail(ctx context.Context, email string) (auth.User, error)
	FindUserByID(ctx context.Context, id string) (auth.User, error)
	ListUsers(ctx context.Context) ([]auth.User, error)

	InsertRecord(ctx context.Context, rec metrics.PeriodRecord) (metrics.PeriodRecord, error)
	ListRecords(ctx context.Context, ownerID string, w period.Window) ([]metrics.PeriodRecord, error)

	UpsertPlan(ctx context.Context, plan metrics.VipPlan) (metrics.VipPlan, error)
	ListPlans(ctx context.Context) ([]metrics.VipPlan, error)
	InsertMember(ctx context.Context, m metrics.VipMember) (metrics.VipMember, error)
	ListMembers(ctx context.Context, ownerID string, w period.Window) ([]metrics.VipMember, error)
	DeleteMember(ctx context.Context, ownerID, id string) error

	GetAccount(ctx context.Context, ownerID string) (*metrics.TradingAccount, error)
	SetDeposit(ctx context.Context, ownerID string, amount decimal.Decimal) (metrics.TradingAccount, error)
	ListAccounts(ctx context.Context) ([]metrics.TradingAccount, error)
	InsertOperation(ctx context.Context, op metrics.TradingOperation) (metrics.TradingOperation, error)
	ListOperations(ctx context.Context, ownerID string, w period.Window) ([]metrics.TradingOperation, error)
	DeleteOperation(ctx context.Context, ownerID, id string) error

	GetActivity(ctx context.Context, ownerID string) (metrics.TrafferActivity, error)
	SavePlatforms(ctx context.Context, ownerID string, platforms []metrics.Platform) error
	InsertReport(ctx context.Context, r metrics.DailyReport) (metrics.DailyReport, error)
	ListActivities(ctx context.Context, w period.Window) ([]metrics.TrafferActivity, error)
}

// PasswordHasher 雜湊與比對密碼。
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hashed, plain string) bool
}
