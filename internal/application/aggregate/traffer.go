package aggregate

import (
	"sort"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/reports"

	"github.com/shopspring/decimal"
)

// ComputeTrafferStats 加總影片與觀看數，互動率取所有回報的平均。
func ComputeTrafferStats(list []metrics.DailyReport) reports.TrafferStats {
	s := reports.TrafferStats{AverageEngagement: decimal.Zero, Reports: len(list)}
	if len(list) == 0 {
		return s
	}
	sum := decimal.Zero
	for _, r := range list {
		s.TotalVideos += r.VideosUploaded
		s.TotalViews += r.Views
		sum = sum.Add(r.Engagement)
	}
	s.AverageEngagement = sum.Div(decimal.NewFromInt(int64(len(list))))
	return s
}

// GroupByTraffer 每位推廣人員的平台數與總觸及，依觸及遞減排序。
func GroupByTraffer(activities []metrics.TrafferActivity) []reports.TrafferStat {
	byOwner := make(map[string]*reports.TrafferStat)
	for _, a := range activities {
		s := byOwner[a.Owner.ID]
		if s == nil {
			s = &reports.TrafferStat{OwnerID: a.Owner.ID}
			byOwner[a.Owner.ID] = s
		}
		if s.Name == "" {
			s.Name = a.Owner.Name
		}
		if s.Email == "" {
			s.Email = a.Owner.Email
		}
		s.PlatformsActive += len(a.SelectedPlatforms)
		for _, r := range a.DailyReports {
			s.TotalVideos += r.VideosUploaded
			s.TotalReach += r.Views
		}
	}

	out := make([]reports.TrafferStat, 0, len(byOwner))
	for _, s := range byOwner {
		if s.Name == "" {
			s.Name = metrics.UnknownName
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalReach != out[j].TotalReach {
			return out[i].TotalReach > out[j].TotalReach
		}
		return out[i].OwnerID < out[j].OwnerID
	})
	return out
}
