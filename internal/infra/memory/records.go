package memory

import (
	"context"
	"sort"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
)

func (s *Store) InsertRecord(ctx context.Context, rec metrics.PeriodRecord) (metrics.PeriodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = s.nextID()
	}
	rec.CreatedAt = s.stamp(rec.CreatedAt)
	rec.Owner = metrics.OwnerRef{ID: rec.Owner.ID}
	s.records = append(s.records, rec)

	rec.Owner = s.owner(rec.Owner.ID)
	return rec, nil
}

// ListRecords ownerID 為空時回傳所有經理，依建立時間新到舊。
func (s *Store) ListRecords(ctx context.Context, ownerID string, w period.Window) ([]metrics.PeriodRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]metrics.PeriodRecord, 0)
	for _, r := range s.records {
		if ownerID != "" && r.Owner.ID != ownerID {
			continue
		}
		if !w.Contains(r.CreatedAt) {
			continue
		}
		r.Owner = s.owner(r.Owner.ID)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
