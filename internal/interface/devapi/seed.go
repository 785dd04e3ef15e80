package devapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"

	"github.com/shopspring/decimal"
)

// SeedPassword 示範帳號的共用密碼。
const SeedPassword = "password123"

type seedUser struct {
	email string
	name  string
	role  auth.Role
}

var seedUsers = []seedUser{
	{"admin@example.com", "Admin", auth.RoleAdmin},
	{"manager1@example.com", "Manager_1", auth.RoleManager},
	{"manager2@example.com", "Manager_2", auth.RoleManager},
	{"manager3@example.com", "Manager_3", auth.RoleManager},
	{"traffer1@example.com", "Traffer_1", auth.RoleTraffer},
	{"traffer2@example.com", "Traffer_2", auth.RoleTraffer},
}

var seedPlans = []metrics.VipPlan{
	{ID: "plan-basic", Name: "Basic", Price: decimal.NewFromInt(49)},
	{ID: "plan-pro", Name: "Pro", Price: decimal.NewFromInt(149)},
	{ID: "plan-premium", Name: "Premium", Price: decimal.NewFromInt(299)},
}

// 七天示範數據，最後一筆為今天。
type seedDay struct {
	referrals int64
	volume    int64
	profit    int64
	adCosts   int64
	adProfit  int64
	personal  int64
}

var seedDays = []seedDay{
	{12, 2500000, 625, 150, 300, 89},
	{8, 1800000, 450, 120, 250, -45},
	{15, 3200000, 800, 200, 420, 156},
	{10, 2100000, 525, 180, 380, 78},
	{18, 4100000, 1025, 250, 520, 234},
	{13, 2800000, 700, 160, 340, 112},
	{22, 5200000, 1300, 300, 650, 287},
}

type seedReport struct {
	platform   metrics.Platform
	videos     int64
	views      int64
	engagement string
}

var seedTraffers = map[string]struct {
	platforms []metrics.Platform
	reports   []seedReport
}{
	"traffer1@example.com": {
		platforms: []metrics.Platform{metrics.PlatformTikTok, metrics.PlatformYouTube, metrics.PlatformInstagram, metrics.PlatformX},
		reports: []seedReport{
			{metrics.PlatformTikTok, 5, 5200, "4.8"},
			{metrics.PlatformYouTube, 3, 4100, "3.9"},
			{metrics.PlatformInstagram, 4, 3620, "5.2"},
			{metrics.PlatformX, 2, 2500, "2.1"},
		},
	},
	"traffer2@example.com": {
		platforms: []metrics.Platform{metrics.PlatformTikTok, metrics.PlatformInstagram, metrics.PlatformThreads},
		reports: []seedReport{
			{metrics.PlatformTikTok, 4, 4000, "4.1"},
			{metrics.PlatformInstagram, 2, 2950, "3.6"},
			{metrics.PlatformThreads, 3, 1800, "2.7"},
		},
	},
}

// Seed 建立示範帳號、方案與最近七天的數據；已有紀錄時只補帳號與方案。
func Seed(ctx context.Context, store Store, hasher PasswordHasher, now time.Time) error {
	users := make(map[string]auth.User, len(seedUsers))
	for _, su := range seedUsers {
		u, err := ensureUser(ctx, store, hasher, su)
		if err != nil {
			return err
		}
		users[su.email] = u
	}
	for _, p := range seedPlans {
		if _, err := store.UpsertPlan(ctx, p); err != nil {
			return fmt.Errorf("seed plan %s: %w", p.Name, err)
		}
	}

	existing, err := store.ListRecords(ctx, "", period.Window{})
	if err != nil {
		return fmt.Errorf("seed check records: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	managers := []auth.User{users["manager1@example.com"], users["manager2@example.com"], users["manager3@example.com"]}
	deposits := []int64{5000, 3000, 2000}
	for i, m := range managers {
		if _, err := store.SetDeposit(ctx, m.ID, decimal.NewFromInt(deposits[i])); err != nil && !errors.Is(err, metrics.ErrDepositAlreadySet) {
			return fmt.Errorf("seed deposit %s: %w", m.Name, err)
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	for i, d := range seedDays {
		at := today.AddDate(0, 0, i-len(seedDays)+1)
		owner := metrics.OwnerRef{ID: managers[i%len(managers)].ID}
		if _, err := store.InsertRecord(ctx, metrics.PeriodRecord{
			NewReferrals:  d.referrals,
			TradingVolume: decimal.NewFromInt(d.volume),
			TradingProfit: decimal.NewFromInt(d.profit),
			AdCosts:       decimal.NewFromInt(d.adCosts),
			AdProfit:      decimal.NewFromInt(d.adProfit),
			CreatedAt:     at,
			Owner:         owner,
		}); err != nil {
			return fmt.Errorf("seed record: %w", err)
		}

		op := metrics.TradingOperation{
			Type:        metrics.OperationProfit,
			Amount:      decimal.NewFromInt(d.personal),
			Description: "Daily trading result",
			Date:        at,
			Owner:       owner,
		}
		if d.personal < 0 {
			op.Type = metrics.OperationLoss
			op.Amount = op.Amount.Neg()
		}
		if _, err := store.InsertOperation(ctx, op); err != nil {
			return fmt.Errorf("seed operation: %w", err)
		}

		plan := seedPlans[i%len(seedPlans)]
		if _, err := store.InsertMember(ctx, metrics.VipMember{
			Name:      fmt.Sprintf("VIP Client %d", i+1),
			Plan:      metrics.VipPlan{ID: plan.ID},
			DateAdded: at,
			Owner:     owner,
		}); err != nil {
			return fmt.Errorf("seed member: %w", err)
		}
	}
	if _, err := store.InsertOperation(ctx, metrics.TradingOperation{
		Type:        metrics.OperationWithdrawal,
		Amount:      decimal.NewFromInt(200),
		Description: "Monthly withdrawal",
		Date:        today,
		Owner:       metrics.OwnerRef{ID: managers[0].ID},
	}); err != nil {
		return fmt.Errorf("seed withdrawal: %w", err)
	}

	for email, t := range seedTraffers {
		owner := users[email]
		if err := store.SavePlatforms(ctx, owner.ID, t.platforms); err != nil {
			return fmt.Errorf("seed platforms: %w", err)
		}
		for i, r := range t.reports {
			if _, err := store.InsertReport(ctx, metrics.DailyReport{
				Platform:       r.platform,
				VideosUploaded: r.videos,
				Views:          r.views,
				Engagement:     decimal.RequireFromString(r.engagement),
				CreatedAt:      today.AddDate(0, 0, -i),
				Owner:          metrics.OwnerRef{ID: owner.ID},
			}); err != nil {
				return fmt.Errorf("seed report: %w", err)
			}
		}
	}
	return nil
}

func ensureUser(ctx context.Context, store Store, hasher PasswordHasher, su seedUser) (auth.User, error) {
	if u, err := store.FindUserByEmail(ctx, su.email); err == nil {
		return u, nil
	} else if !errors.Is(err, auth.ErrUserNotFound) {
		return auth.User{}, fmt.Errorf("seed lookup %s: %w", su.email, err)
	}
	hashed, err := hasher.Hash(SeedPassword)
	if err != nil {
		return auth.User{}, err
	}
	u, err := store.CreateUser(ctx, auth.User{
		Email:    su.email,
		Name:     su.name,
		Role:     su.role,
		Status:   auth.StatusActive,
		Password: hashed,
	})
	if err != nil {
		return auth.User{}, fmt.Errorf("seed user %s: %w", su.email, err)
	}
	return u, nil
}
