package aggregate

import (
	"sort"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/reports"

	"github.com/shopspring/decimal"
)

type ownerNames struct {
	name  string
	email string
}

func (o *ownerNames) note(ref metrics.OwnerRef) {
	if o.name == "" {
		o.name = ref.Name
	}
	if o.email == "" {
		o.email = ref.Email
	}
}

// GroupByManager 依擁有者合併 BingX 與 VIP 數據。
// 名稱優先取 VIP 來源，其次 BingX，皆無則為 Unknown。結果依總營收遞減、再依 ID 排序。
func GroupByManager(records []metrics.PeriodRecord, members []metrics.VipMember) []reports.ManagerStat {
	stats := make(map[string]*reports.ManagerStat)
	vipNames := make(map[string]*ownerNames)
	bingxNames := make(map[string]*ownerNames)

	get := func(id string) *reports.ManagerStat {
		s := stats[id]
		if s == nil {
			s = &reports.ManagerStat{
				OwnerID:      id,
				BingxProfit:  decimal.Zero,
				VipRevenue:   decimal.Zero,
				TotalRevenue: decimal.Zero,
			}
			stats[id] = s
		}
		return s
	}
	names := func(m map[string]*ownerNames, id string) *ownerNames {
		n := m[id]
		if n == nil {
			n = &ownerNames{}
			m[id] = n
		}
		return n
	}

	for _, m := range members {
		s := get(m.Owner.ID)
		s.VipRevenue = s.VipRevenue.Add(m.Plan.Price)
		s.VipCount++
		names(vipNames, m.Owner.ID).note(m.Owner)
	}
	for _, r := range records {
		s := get(r.Owner.ID)
		s.BingxProfit = s.BingxProfit.Add(r.TradingProfit).Add(r.AdProfit)
		s.Referrals += r.NewReferrals
		names(bingxNames, r.Owner.ID).note(r.Owner)
	}

	out := make([]reports.ManagerStat, 0, len(stats))
	for id, s := range stats {
		var vip, bx ownerNames
		if n := vipNames[id]; n != nil {
			vip = *n
		}
		if n := bingxNames[id]; n != nil {
			bx = *n
		}
		s.Name = firstNonEmpty(vip.name, bx.name, metrics.UnknownName)
		s.Email = firstNonEmpty(vip.email, bx.email)
		s.TotalRevenue = s.VipRevenue.Add(s.BingxProfit)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].OwnerID < out[j].OwnerID
	})
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
