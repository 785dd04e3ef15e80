package backend

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/metrics"

	"github.com/shopspring/decimal"
)

// 上游 JSON 結構。擁有者欄位可能是字串 id 或含 _id/id 的物件，在此統一轉為 OwnerRef。

type wireID struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
}

func (w wireID) value() string {
	if w.MongoID != "" {
		return w.MongoID
	}
	return w.ID
}

type wireOwner metrics.OwnerRef

func (o *wireOwner) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] != '{' {
		*o = wireOwner{ID: strings.Trim(string(b), `"`)}
		return nil
	}
	var obj struct {
		wireID
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*o = wireOwner{ID: obj.value(), Name: obj.Name, Email: obj.Email}
	return nil
}

// wireTime 容許空字串與 null。
type wireTime time.Time

func (t *wireTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = wireTime(parsed)
	return nil
}

// wireDecimal 容許空字串與 null，皆視為 0。
type wireDecimal decimal.Decimal

func (d *wireDecimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if s := string(b); s == "" || s == "null" || s == `""` {
		*d = wireDecimal(decimal.Zero)
		return nil
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(b); err != nil {
		return err
	}
	*d = wireDecimal(v)
	return nil
}

func (d wireDecimal) value() decimal.Decimal {
	return decimal.Decimal(d)
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

type wireUser struct {
	wireID
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (w wireUser) toDomain() auth.User {
	return auth.User{
		ID:    w.value(),
		Name:  w.Name,
		Email: w.Email,
		Role:  auth.Role(strings.ToLower(w.Role)),
	}
}

type wireRecord struct {
	wireID
	NewReferrals  wireDecimal `json:"newReferrals"`
	TradingVolume wireDecimal `json:"tradingVolume"`
	TradingProfit wireDecimal `json:"tradingProfit"`
	AdCosts       wireDecimal `json:"adCosts"`
	AdProfit      wireDecimal `json:"adProfit"`
	CreatedAt     wireTime    `json:"createdAt"`
	Date          wireTime    `json:"date"`
	UserID        wireOwner   `json:"userId"`
}

func (w wireRecord) toDomain() metrics.PeriodRecord {
	created := time.Time(w.CreatedAt)
	if created.IsZero() {
		created = time.Time(w.Date)
	}
	return metrics.PeriodRecord{
		ID:            w.value(),
		NewReferrals:  w.NewReferrals.value().IntPart(),
		TradingVolume: w.TradingVolume.value(),
		TradingProfit: w.TradingProfit.value(),
		AdCosts:       w.AdCosts.value(),
		AdProfit:      w.AdProfit.value(),
		CreatedAt:     created,
		Owner:         metrics.OwnerRef(w.UserID),
	}
}

type wirePlan struct {
	wireID
	Name  string      `json:"name"`
	Price wireDecimal `json:"price"`
}

func (w *wirePlan) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &w.MongoID)
	}
	type plain wirePlan
	return json.Unmarshal(b, (*plain)(w))
}

func (w wirePlan) toDomain() metrics.VipPlan {
	return metrics.VipPlan{ID: w.value(), Name: w.Name, Price: w.Price.value()}
}

type wireMember struct {
	wireID
	Name      string    `json:"name"`
	Plan      wirePlan  `json:"plan"`
	DateAdded wireTime  `json:"dateAdded"`
	CreatedAt wireTime  `json:"createdAt"`
	UserID    wireOwner `json:"userId"`
}

func (w wireMember) toDomain() metrics.VipMember {
	added := time.Time(w.DateAdded)
	if added.IsZero() {
		added = time.Time(w.CreatedAt)
	}
	return metrics.VipMember{
		ID:        w.value(),
		Name:      w.Name,
		Plan:      w.Plan.toDomain(),
		DateAdded: added,
		Owner:     metrics.OwnerRef(w.UserID),
	}
}

type wireAccount struct {
	InitialDeposit wireDecimal `json:"initialDeposit"`
	IsDepositSet   bool        `json:"isDepositSet"`
	UserID         wireOwner   `json:"userId"`
}

func (w wireAccount) toDomain() metrics.TradingAccount {
	return metrics.TradingAccount{
		Owner:          metrics.OwnerRef(w.UserID),
		InitialDeposit: w.InitialDeposit.value(),
		IsDepositSet:   w.IsDepositSet,
	}
}

type wireOperation struct {
	wireID
	Type        string      `json:"type"`
	Amount      wireDecimal `json:"amount"`
	Description string      `json:"description"`
	Date        wireTime    `json:"date"`
	CreatedAt   wireTime    `json:"createdAt"`
	UserID      wireOwner   `json:"userId"`
}

func (w wireOperation) toDomain() metrics.TradingOperation {
	date := time.Time(w.Date)
	if date.IsZero() {
		date = time.Time(w.CreatedAt)
	}
	return metrics.TradingOperation{
		ID:          w.value(),
		Type:        metrics.OperationType(w.Type),
		Amount:      w.Amount.value(),
		Description: w.Description,
		Date:        date,
		Owner:       metrics.OwnerRef(w.UserID),
	}
}

// wirePlatform 可能是 "tiktok" 或 {"id":"tiktok","name":"TikTok"}。
type wirePlatform struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p *wirePlatform) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &p.ID)
	}
	var obj struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	p.ID, p.Name = obj.ID, obj.Name
	return nil
}

type wireReport struct {
	wireID
	Platform       string      `json:"platform"`
	VideosUploaded wireDecimal `json:"videosUploaded"`
	Views          wireDecimal `json:"views"`
	Engagement     wireDecimal `json:"engagement"`
	CreatedAt      wireTime    `json:"createdAt"`
	Date           wireTime    `json:"date"`
	UserID         wireOwner   `json:"userId"`
}

func (w wireReport) toDomain(owner metrics.OwnerRef) metrics.DailyReport {
	created := time.Time(w.CreatedAt)
	if created.IsZero() {
		created = time.Time(w.Date)
	}
	if w.UserID.ID != "" {
		owner = metrics.OwnerRef(w.UserID)
	}
	return metrics.DailyReport{
		ID:             w.value(),
		Platform:       metrics.Platform(w.Platform),
		VideosUploaded: w.VideosUploaded.value().IntPart(),
		Views:          w.Views.value().IntPart(),
		Engagement:     w.Engagement.value(),
		CreatedAt:      created,
		Owner:          owner,
	}
}

type wireActivity struct {
	UserID            wireOwner      `json:"userId"`
	SelectedPlatforms []wirePlatform `json:"selectedPlatforms"`
	DailyReports      []wireReport   `json:"dailyReports"`
}

func (w wireActivity) toDomain() metrics.TrafferActivity {
	owner := metrics.OwnerRef(w.UserID)
	out := metrics.TrafferActivity{
		Owner:             owner,
		SelectedPlatforms: make([]metrics.Platform, 0, len(w.SelectedPlatforms)),
		DailyReports:      make([]metrics.DailyReport, 0, len(w.DailyReports)),
	}
	for _, p := range w.SelectedPlatforms {
		out.SelectedPlatforms = append(out.SelectedPlatforms, metrics.Platform(p.ID))
	}
	for _, r := range w.DailyReports {
		out.DailyReports = append(out.DailyReports, r.toDomain(owner))
	}
	return out
}

func convert[W any, D any](list []W, fn func(W) D) []D {
	out := make([]D, 0, len(list))
	for _, w := range list {
		out = append(out, fn(w))
	}
	return out
}
