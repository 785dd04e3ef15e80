package devapi

import (
	"encoding/json"
	"time"

	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/metrics"

	"github.com/shopspring/decimal"
)

// 回應沿用文件型資料庫的欄位命名（_id、userId）。

func num(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

type userDTO struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserDTO(u auth.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

type ownerDTO struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func toOwnerDTO(o metrics.OwnerRef) ownerDTO {
	return ownerDTO{ID: o.ID, Name: o.Name, Email: o.Email}
}

type recordDTO struct {
	ID            string      `json:"_id"`
	NewReferrals  int64       `json:"newReferrals"`
	TradingVolume json.Number `json:"tradingVolume"`
	TradingProfit json.Number `json:"tradingProfit"`
	AdCosts       json.Number `json:"adCosts"`
	AdProfit      json.Number `json:"adProfit"`
	CreatedAt     time.Time   `json:"createdAt"`
	UserID        ownerDTO    `json:"userId"`
}

func toRecordDTO(r metrics.PeriodRecord) recordDTO {
	return recordDTO{
		ID:            r.ID,
		NewReferrals:  r.NewReferrals,
		TradingVolume: num(r.TradingVolume),
		TradingProfit: num(r.TradingProfit),
		AdCosts:       num(r.AdCosts),
		AdProfit:      num(r.AdProfit),
		CreatedAt:     r.CreatedAt,
		UserID:        toOwnerDTO(r.Owner),
	}
}

type planDTO struct {
	ID    string      `json:"_id"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

func toPlanDTO(p metrics.VipPlan) planDTO {
	return planDTO{ID: p.ID, Name: p.Name, Price: num(p.Price)}
}

type memberDTO struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Plan      planDTO   `json:"plan"`
	DateAdded time.Time `json:"dateAdded"`
	UserID    ownerDTO  `json:"userId"`
}

func toMemberDTO(m metrics.VipMember) memberDTO {
	return memberDTO{ID: m.ID, Name: m.Name, Plan: toPlanDTO(m.Plan), DateAdded: m.DateAdded, UserID: toOwnerDTO(m.Owner)}
}

type accountDTO struct {
	InitialDeposit json.Number `json:"initialDeposit"`
	IsDepositSet   bool        `json:"isDepositSet"`
	UserID         ownerDTO    `json:"userId"`
}

func toAccountDTO(a metrics.TradingAccount) accountDTO {
	return accountDTO{InitialDeposit: num(a.InitialDeposit), IsDepositSet: a.IsDepositSet, UserID: toOwnerDTO(a.Owner)}
}

type operationDTO struct {
	ID          string      `json:"_id"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	UserID      ownerDTO    `json:"userId"`
}

func toOperationDTO(o metrics.TradingOperation) operationDTO {
	return operationDTO{
		ID:          o.ID,
		Type:        string(o.Type),
		Amount:      num(o.Amount),
		Description: o.Description,
		Date:        o.Date,
		UserID:      toOwnerDTO(o.Owner),
	}
}

type platformDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type reportDTO struct {
	ID             string      `json:"_id"`
	Platform       string      `json:"platform"`
	VideosUploaded int64       `json:"videosUploaded"`
	Views          int64       `json:"views"`
	Engagement     json.Number `json:"engagement"`
	CreatedAt      time.Time   `json:"createdAt"`
	UserID         ownerDTO    `json:"userId"`
}

func toReportDTO(r metrics.DailyReport) reportDTO {
	return reportDTO{
		ID:             r.ID,
		Platform:       string(r.Platform),
		VideosUploaded: r.VideosUploaded,
		Views:          r.Views,
		Engagement:     num(r.Engagement),
		CreatedAt:      r.CreatedAt,
		UserID:         toOwnerDTO(r.Owner),
	}
}

type activityDTO struct {
	UserID            ownerDTO      `json:"userId"`
	SelectedPlatforms []platformDTO `json:"selectedPlatforms"`
	DailyReports      []reportDTO   `json:"dailyReports"`
}

func toActivityDTO(a metrics.TrafferActivity) activityDTO {
	out := activityDTO{
		UserID:            toOwnerDTO(a.Owner),
		SelectedPlatforms: make([]platformDTO, 0, len(a.SelectedPlatforms)),
		DailyReports:      mapSlice(a.DailyReports, toReportDTO),
	}
	for _, p := range a.SelectedPlatforms {
		name := string(p)
		if info, ok := metrics.LookupPlatform(p); ok {
			name = info.Name
		}
		out.SelectedPlatforms = append(out.SelectedPlatforms, platformDTO{ID: string(p), Name: name})
	}
	return out
}

func mapSlice[T any, D any](list []T, fn func(T) D) []D {
	out := make([]D, 0, len(list))
	for _, v := range list {
		out = append(out, fn(v))
	}
	return out
}
