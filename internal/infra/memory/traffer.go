package memory

import (
	"context"
	"sort"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
)

// GetActivity 沒有任何紀錄時回傳空的活動。
func (s *Store) GetActivity(ctx context.Context, ownerID string) (metrics.TrafferActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activity(ownerID, period.Window{}), nil
}

func (s *Store) SavePlatforms(ctx context.Context, ownerID string, platforms []metrics.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]metrics.Platform, len(platforms))
	copy(cp, platforms)
	s.platforms[ownerID] = cp
	return nil
}

func (s *Store) InsertReport(ctx context.Context, r metrics.DailyReport) (metrics.DailyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = s.nextID()
	}
	r.CreatedAt = s.stamp(r.CreatedAt)
	r.Owner = metrics.OwnerRef{ID: r.Owner.ID}
	s.reports = append(s.reports, r)

	r.Owner = s.owner(r.Owner.ID)
	return r, nil
}

// ListActivities 每位有選平台或回報的推廣人員一筆。
func (s *Store) ListActivities(ctx context.Context, w period.Window) ([]metrics.TrafferActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owners := make(map[string]struct{})
	for id := range s.platforms {
		owners[id] = struct{}{}
	}
	for _, r := range s.reports {
		owners[r.Owner.ID] = struct{}{}
	}
	ids := make([]string, 0, len(owners))
	for id := range owners {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]metrics.TrafferActivity, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.activity(id, w))
	}
	return out, nil
}

func (s *Store) activity(ownerID string, w period.Window) metrics.TrafferActivity {
	act := metrics.TrafferActivity{
		Owner:             s.owner(ownerID),
		SelectedPlatforms: append([]metrics.Platform{}, s.platforms[ownerID]...),
		DailyReports:      []metrics.DailyReport{},
	}
	for _, r := range s.reports {
		if r.Owner.ID != ownerID || !w.Contains(r.CreatedAt) {
			continue
		}
		r.Owner = act.Owner
		act.DailyReports = append(act.DailyReports, r)
	}
	sort.SliceStable(act.DailyReports, func(i, j int) bool {
		return act.DailyReports[i].CreatedAt.After(act.DailyReports[j].CreatedAt)
	})
	return act
}
