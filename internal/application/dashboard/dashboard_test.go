package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"affiliate-dashboard/internal/application/action"
	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func intPtr(v int64) *int64 { return &v }

type fakeManagerAPI struct {
	mu sync.Mutex

	records []metrics.PeriodRecord
	members []metrics.VipMember
	plans   []metrics.VipPlan
	snap    metrics.AccountSnapshot

	recordsErr error
	membersErr error
	accountErr error

	saved      []metrics.PeriodRecord
	addedOps   []metrics.TradingOperation
	depositSet *decimal.Decimal
	deleted    []string
}

func (f *fakeManagerAPI) SaveBingX(_ context.Context, rec metrics.PeriodRecord) (metrics.PeriodRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = "rec-new"
	f.saved = append(f.saved, rec)
	return rec, nil
}

func (f *fakeManagerAPI) ListBingX(context.Context) ([]metrics.PeriodRecord, error) {
	return f.records, f.recordsErr
}

func (f *fakeManagerAPI) ListVipMembers(context.Context) ([]metrics.VipMember, error) {
	return f.members, f.membersErr
}

func (f *fakeManagerAPI) ListVipPlans(context.Context) ([]metrics.VipPlan, error) {
	return f.plans, nil
}

func (f *fakeManagerAPI) AddVipMember(_ context.Context, name, planID string) (metrics.VipMember, error) {
	for _, p := range f.plans {
		if p.ID == planID {
			return metrics.VipMember{ID: "m-new", Name: name, Plan: p}, nil
		}
	}
	return metrics.VipMember{}, errors.New("plan not found")
}

func (f *fakeManagerAPI) DeleteVipMember(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeManagerAPI) Account(context.Context) (metrics.AccountSnapshot, error) {
	return f.snap, f.accountErr
}

func (f *fakeManagerAPI) SetDeposit(_ context.Context, amount decimal.Decimal) (metrics.TradingAccount, error) {
	f.depositSet = &amount
	return metrics.TradingAccount{InitialDeposit: amount, IsDepositSet: true}, nil
}

func (f *fakeManagerAPI) AddOperation(_ context.Context, op metrics.TradingOperation) (metrics.TradingOperation, error) {
	op.ID = "op-new"
	f.addedOps = append(f.addedOps, op)
	return op, nil
}

func (f *fakeManagerAPI) DeleteOperation(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func seededManagerAPI() *fakeManagerAPI {
	basic := metrics.VipPlan{ID: "p1", Name: "Basic", Price: dec("100")}
	pro := metrics.VipPlan{ID: "p2", Name: "Pro", Price: dec("250")}
	return &fakeManagerAPI{
		records: []metrics.PeriodRecord{
			{NewReferrals: 12, TradingVolume: dec("2500000"), TradingProfit: dec("625"), AdCosts: dec("150"), AdProfit: dec("300")},
			{NewReferrals: 8, TradingVolume: dec("1800000"), TradingProfit: dec("450"), AdCosts: dec("120"), AdProfit: dec("250")},
		},
		members: []metrics.VipMember{{ID: "m1", Plan: basic}, {ID: "m2", Plan: pro}},
		plans:   []metrics.VipPlan{basic, pro},
		snap: metrics.AccountSnapshot{
			Account: &metrics.TradingAccount{InitialDeposit: dec("1000"), IsDepositSet: true},
			Operations: []metrics.TradingOperation{
				{Type: metrics.OperationProfit, Amount: dec("200"), Description: "a"},
				{Type: metrics.OperationLoss, Amount: dec("50"), Description: "b"},
				{Type: metrics.OperationWithdrawal, Amount: dec("100"), Description: "c"},
			},
		},
	}
}

func TestManagerView_Load(t *testing.T) {
	v := NewManagerView(seededManagerAPI())

	got, err := v.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, got.Records, 2)
	assert.Len(t, got.VipPlans, 2)
	assert.True(t, dec("350").Equal(got.VipRevenue), "vip revenue %s", got.VipRevenue)
	assert.True(t, dec("1050").Equal(got.Balance), "balance %s", got.Balance)
	assert.True(t, dec("200").Equal(got.TradingStats.Profits))
	assert.True(t, dec("50").Equal(got.TradingStats.Losses))
	assert.True(t, dec("100").Equal(got.TradingStats.Withdrawals))
	assert.Equal(t, int64(20), got.Totals.TotalReferrals)
}

func TestManagerView_LoadFailureNamesSection(t *testing.T) {
	api := seededManagerAPI()
	api.membersErr = errors.New("boom")
	v := NewManagerView(api)

	_, err := v.Load(context.Background())
	require.Error(t, err)
	msg, ok := action.Message(err)
	require.True(t, ok)
	assert.Equal(t, "failed to load VIP data", msg)
}

func TestManagerView_SubmitBingX(t *testing.T) {
	t.Run("requires referrals or volume", func(t *testing.T) {
		v := NewManagerView(seededManagerAPI())
		_, err := v.SubmitBingX(context.Background(), BingXForm{AdCosts: decPtr("10")})
		verr, ok := validation.As(err)
		require.True(t, ok)
		assert.Equal(t, "newReferrals", verr.Field)
	})

	t.Run("computes trading profit from volume", func(t *testing.T) {
		api := seededManagerAPI()
		v := NewManagerView(api)
		rec, err := v.SubmitBingX(context.Background(), BingXForm{TradingVolume: decPtr("2000000")})
		require.NoError(t, err)
		assert.True(t, dec("500").Equal(rec.TradingProfit), "profit %s", rec.TradingProfit)
		assert.Equal(t, "rec-new", rec.ID)
		require.Len(t, api.saved, 1)
	})

	t.Run("explicit profit wins", func(t *testing.T) {
		v := NewManagerView(seededManagerAPI())
		rec, err := v.SubmitBingX(context.Background(), BingXForm{
			NewReferrals:  intPtr(3),
			TradingVolume: decPtr("2000000"),
			TradingProfit: decPtr("123.45"),
		})
		require.NoError(t, err)
		assert.True(t, dec("123.45").Equal(rec.TradingProfit))
	})

	t.Run("rejects negative values", func(t *testing.T) {
		v := NewManagerView(seededManagerAPI())
		_, err := v.SubmitBingX(context.Background(), BingXForm{NewReferrals: intPtr(-1)})
		_, ok := validation.As(err)
		assert.True(t, ok)
	})
}

func TestManagerView_PreviewTradingProfit(t *testing.T) {
	v := NewManagerView(seededManagerAPI())
	assert.True(t, dec("0.25").Equal(v.PreviewTradingProfit(dec("1000"))))
	assert.True(t, decimal.Zero.Equal(v.PreviewTradingProfit(decimal.Zero)))
}

func TestManagerView_AddVipMember(t *testing.T) {
	v := NewManagerView(seededManagerAPI())

	_, err := v.AddVipMember(context.Background(), VipMemberForm{Name: " ", PlanID: "p1"})
	_, ok := validation.As(err)
	assert.True(t, ok)

	_, err = v.AddVipMember(context.Background(), VipMemberForm{Name: "Alice"})
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "planId", verr.Field)

	m, err := v.AddVipMember(context.Background(), VipMemberForm{Name: " Alice ", PlanID: "p2"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", m.Name)
	assert.Equal(t, "Pro", m.Plan.Name)

	_, err = v.AddVipMember(context.Background(), VipMemberForm{Name: "Bob", PlanID: "missing"})
	msg, ok := action.Message(err)
	require.True(t, ok)
	assert.Equal(t, "failed to add VIP member", msg)
}

func TestManagerView_SetDeposit(t *testing.T) {
	t.Run("already set", func(t *testing.T) {
		api := seededManagerAPI()
		v := NewManagerView(api)
		_, err := v.SetDeposit(context.Background(), decPtr("500"))
		_, ok := validation.As(err)
		assert.True(t, ok)
		assert.Nil(t, api.depositSet)
	})

	t.Run("must be positive", func(t *testing.T) {
		api := &fakeManagerAPI{}
		v := NewManagerView(api)
		_, err := v.SetDeposit(context.Background(), decPtr("0"))
		_, ok := validation.As(err)
		assert.True(t, ok)
		_, err = v.SetDeposit(context.Background(), nil)
		_, ok = validation.As(err)
		assert.True(t, ok)
	})

	t.Run("first deposit", func(t *testing.T) {
		api := &fakeManagerAPI{}
		v := NewManagerView(api)
		acct, err := v.SetDeposit(context.Background(), decPtr("1000"))
		require.NoError(t, err)
		assert.True(t, acct.IsDepositSet)
		require.NotNil(t, api.depositSet)
		assert.True(t, dec("1000").Equal(*api.depositSet))
	})
}

func TestManagerView_AddOperation(t *testing.T) {
	t.Run("requires deposit", func(t *testing.T) {
		api := &fakeManagerAPI{}
		v := NewManagerView(api)
		_, err := v.AddOperation(context.Background(), OperationForm{Type: "profit", Amount: decPtr("10"), Description: "x"})
		verr, ok := validation.As(err)
		require.True(t, ok)
		assert.Equal(t, "initialDeposit", verr.Field)
		assert.Empty(t, api.addedOps)
	})

	t.Run("validates form", func(t *testing.T) {
		v := NewManagerView(seededManagerAPI())
		_, err := v.AddOperation(context.Background(), OperationForm{Type: "bonus", Amount: decPtr("10"), Description: "x"})
		_, ok := validation.As(err)
		assert.True(t, ok)
		_, err = v.AddOperation(context.Background(), OperationForm{Type: "loss", Description: "x"})
		_, ok = validation.As(err)
		assert.True(t, ok)
	})

	t.Run("records", func(t *testing.T) {
		api := seededManagerAPI()
		v := NewManagerView(api)
		op, err := v.AddOperation(context.Background(), OperationForm{Type: "Withdrawal", Amount: decPtr("25"), Description: "rent"})
		require.NoError(t, err)
		assert.Equal(t, metrics.OperationWithdrawal, op.Type)
		assert.Len(t, api.addedOps, 1)
	})

	t.Run("upstream failure", func(t *testing.T) {
		api := seededManagerAPI()
		api.accountErr = errors.New("down")
		v := NewManagerView(api)
		_, err := v.AddOperation(context.Background(), OperationForm{Type: "profit", Amount: decPtr("1"), Description: "x"})
		msg, ok := action.Message(err)
		require.True(t, ok)
		assert.Equal(t, "failed to load trading data", msg)
	})
}

func TestManagerView_Remove(t *testing.T) {
	api := seededManagerAPI()
	v := NewManagerView(api)

	require.NoError(t, v.RemoveVipMember(context.Background(), "m1"))
	require.NoError(t, v.RemoveOperation(context.Background(), "op1"))
	assert.Equal(t, []string{"m1", "op1"}, api.deleted)

	_, ok := validation.As(v.RemoveOperation(context.Background(), ""))
	assert.True(t, ok)
}

type fakeTrafferAPI struct {
	activity    metrics.TrafferActivity
	activityErr error
	saved       []metrics.Platform
	reports     []metrics.DailyReport
}

func (f *fakeTrafferAPI) Activity(context.Context) (metrics.TrafferActivity, error) {
	return f.activity, f.activityErr
}

func (f *fakeTrafferAPI) SavePlatforms(_ context.Context, platforms []metrics.Platform) error {
	f.saved = platforms
	return nil
}

func (f *fakeTrafferAPI) AddDailyReport(_ context.Context, r metrics.DailyReport) (metrics.DailyReport, error) {
	r.ID = "r-new"
	f.reports = append(f.reports, r)
	return r, nil
}

func TestTrafferView_Load(t *testing.T) {
	t.Run("no platforms yet", func(t *testing.T) {
		v := NewTrafferView(&fakeTrafferAPI{})
		got, err := v.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StepPlatforms, got.Step)
		assert.Len(t, got.Catalog, 5)
		assert.Empty(t, got.Platforms)
		assert.NotNil(t, got.Reports)
		assert.Equal(t, 0, got.Stats.Reports)
	})

	t.Run("with reports", func(t *testing.T) {
		api := &fakeTrafferAPI{activity: metrics.TrafferActivity{
			SelectedPlatforms: []metrics.Platform{metrics.PlatformTikTok, metrics.PlatformX},
			DailyReports: []metrics.DailyReport{
				{Platform: metrics.PlatformTikTok, VideosUploaded: 3, Views: 1000, Engagement: dec("4.5")},
				{Platform: metrics.PlatformX, VideosUploaded: 2, Views: 500, Engagement: dec("3.2")},
				{Platform: metrics.PlatformX, VideosUploaded: 1, Views: 250, Engagement: dec("2")},
			},
		}}
		v := NewTrafferView(api)
		got, err := v.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StepReports, got.Step)
		require.Len(t, got.Platforms, 2)
		assert.Equal(t, "X (Twitter)", got.Platforms[1].Name)
		assert.Equal(t, int64(6), got.Stats.TotalVideos)
		assert.Equal(t, int64(1750), got.Stats.TotalViews)
		assert.True(t, dec("3.2").Equal(got.StatsDisplay.AverageEngagement), "display %s", got.StatsDisplay.AverageEngagement)
	})

	t.Run("upstream failure", func(t *testing.T) {
		v := NewTrafferView(&fakeTrafferAPI{activityErr: errors.New("down")})
		_, err := v.Load(context.Background())
		msg, ok := action.Message(err)
		require.True(t, ok)
		assert.Equal(t, "failed to load activity", msg)
	})
}

func TestTrafferView_SavePlatforms(t *testing.T) {
	api := &fakeTrafferAPI{}
	v := NewTrafferView(api)

	_, err := v.SavePlatforms(context.Background(), nil)
	_, ok := validation.As(err)
	assert.True(t, ok)

	_, err = v.SavePlatforms(context.Background(), []string{"tiktok", "myspace"})
	_, ok = validation.As(err)
	assert.True(t, ok)
	assert.Nil(t, api.saved)

	got, err := v.SavePlatforms(context.Background(), []string{"tiktok", " TikTok ", "youtube"})
	require.NoError(t, err)
	assert.Equal(t, []metrics.Platform{metrics.PlatformTikTok, metrics.PlatformYouTube}, api.saved)
	require.Len(t, got, 2)
	assert.Equal(t, "YouTube Shorts", got[1].Name)
}

func TestTrafferView_AddDailyReport(t *testing.T) {
	api := &fakeTrafferAPI{activity: metrics.TrafferActivity{
		SelectedPlatforms: []metrics.Platform{metrics.PlatformTikTok},
	}}
	v := NewTrafferView(api)

	cases := []struct {
		name  string
		form  DailyReportForm
		field string
	}{
		{"missing platform", DailyReportForm{VideosUploaded: intPtr(1)}, "platform"},
		{"missing videos", DailyReportForm{Platform: "tiktok"}, "videosUploaded"},
		{"negative views", DailyReportForm{Platform: "tiktok", VideosUploaded: intPtr(1), Views: intPtr(-5)}, "views"},
		{"not selected", DailyReportForm{Platform: "youtube", VideosUploaded: intPtr(1)}, "platform"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.AddDailyReport(context.Background(), tc.form)
			verr, ok := validation.As(err)
			require.True(t, ok, "want validation error, got %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
	assert.Empty(t, api.reports)

	r, err := v.AddDailyReport(context.Background(), DailyReportForm{
		Platform: "tiktok", VideosUploaded: intPtr(0), Views: intPtr(120), Engagement: decPtr("5.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "r-new", r.ID)
	assert.Equal(t, int64(0), r.VideosUploaded)
	assert.Len(t, api.reports, 1)
}
