// Package digest 定期把管理員總覽摘要推送到 Telegram。
package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/period"
	reportsDomain "affiliate-dashboard/internal/domain/reports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var ErrNotAdmin = errors.New("digest account must be an admin")

// Authenticator 以摘要帳號登入上游。
type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.Identity, error)
}

// ReportBuilder 產出管理員總覽。
type ReportBuilder interface {
	BuildAdminReport(ctx context.Context, p period.Period) (reportsDomain.AdminReport, error)
}

// Notifier 推送文字訊息。
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}

// Config 摘要排程設定。
type Config struct {
	Interval time.Duration
	Period   period.Period
	TopN     int
	Email    string
	Password string
}

// Worker 定期登入、產出報表並推送摘要。
type Worker struct {
	cfg      Config
	login    Authenticator
	holder   *auth.SessionHolder
	report   ReportBuilder
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
	stopChan chan struct{}
}

// NewWorker 建立摘要工作者；holder 必須與 report 使用的上游 client 共用。
func NewWorker(cfg Config, login Authenticator, holder *auth.SessionHolder, report ReportBuilder, notifier Notifier, logger zerolog.Logger) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 3
	}
	return &Worker{
		cfg:      cfg,
		login:    login,
		holder:   holder,
		report:   report,
		notifier: notifier,
		log:      logger.With().Str("component", "digest").Logger(),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start 啟動排程迴圈，啟動後立即執行一次。
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.cfg.Interval).Str("period", w.cfg.Period.Label()).Msg("starting digest worker")
	ticker := time.NewTicker(w.cfg.Interval)
	go func() {
		defer ticker.Stop()
		w.runLogged(ctx)
		for {
			select {
			case <-ticker.C:
				w.runLogged(ctx)
			case <-w.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop 停止迴圈。
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) runLogged(ctx context.Context) {
	if err := w.RunOnce(ctx); err != nil {
		w.log.Error().Err(err).Msg("digest run failed")
		return
	}
	w.log.Info().Msg("digest sent")
}

// RunOnce 產出並推送一次摘要。上游回 401 時 session 會被清除，下次執行重新登入。
func (w *Worker) RunOnce(ctx context.Context) error {
	if err := w.ensureSession(ctx); err != nil {
		return err
	}
	rep, err := w.report.BuildAdminReport(ctx, w.cfg.Period)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	if err := w.notifier.SendMessage(ctx, Format(rep, w.cfg.TopN)); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

func (w *Worker) ensureSession(ctx context.Context) error {
	if _, ok := w.holder.Current(); ok {
		return nil
	}
	ident, err := w.login.Login(ctx, w.cfg.Email, w.cfg.Password)
	if err != nil {
		return fmt.Errorf("digest login: %w", err)
	}
	if ident.User.Role != auth.RoleAdmin {
		return ErrNotAdmin
	}
	w.holder.Set(auth.Session{
		Token:     ident.Token,
		User:      ident.User,
		CreatedAt: w.now(),
	})
	w.log.Debug().Str("user", ident.User.Email).Msg("digest session established")
	return nil
}

// Format 將總覽轉為純文字摘要。
func Format(rep reportsDomain.AdminReport, topN int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Affiliate digest (%s)\n", rep.Period.Name)
	fmt.Fprintf(&sb, "Revenue: %s\n", money(rep.Totals.TotalRevenue))
	fmt.Fprintf(&sb, "Costs: %s\n", money(rep.Totals.TotalCosts))
	fmt.Fprintf(&sb, "Net profit: %s\n", money(rep.Totals.NetProfit))
	fmt.Fprintf(&sb, "Referrals: %d\n", rep.Totals.TotalReferrals)
	fmt.Fprintf(&sb, "VIP members: %d (avg %s)\n", rep.Summary.VipMembers, money(rep.AverageSubscription))
	fmt.Fprintf(&sb, "Ad ROI: %s%%\n", money(rep.AdROI))

	if len(rep.Managers) > 0 {
		sb.WriteString("Top managers:\n")
		for i, m := range rep.Managers {
			if i >= topN {
				break
			}
			fmt.Fprintf(&sb, "%d. %s %s\n", i+1, m.Name, money(m.TotalRevenue))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func money(d decimal.Decimal) string {
	return d.StringFixedBank(reportsDomain.CurrencyPlaces)
}
