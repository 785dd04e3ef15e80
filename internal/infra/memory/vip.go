package memory

import (
	"context"
	"fmt"
	"sort"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
)

// UpsertPlan 新增或更新方案。
func (s *Store) UpsertPlan(ctx context.Context, plan metrics.VipPlan) (metrics.VipPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if plan.ID == "" {
		plan.ID = s.nextID()
	}
	if _, exists := s.plans[plan.ID]; !exists {
		s.planOrder = append(s.planOrder, plan.ID)
	}
	s.plans[plan.ID] = plan
	return plan, nil
}

// ListPlans 依價格排序。
func (s *Store) ListPlans(ctx context.Context) ([]metrics.VipPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]metrics.VipPlan, 0, len(s.planOrder))
	for _, id := range s.planOrder {
		out = append(out, s.plans[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	return out, nil
}

// InsertMember 依 Plan.ID 解析方案。
func (s *Store) InsertMember(ctx context.Context, m metrics.VipMember) (metrics.VipMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans[m.Plan.ID]
	if !ok {
		return metrics.VipMember{}, fmt.Errorf("plan %s: %w", m.Plan.ID, metrics.ErrNotFound)
	}
	if m.ID == "" {
		m.ID = s.nextID()
	}
	m.Plan = plan
	m.DateAdded = s.stamp(m.DateAdded)
	m.Owner = metrics.OwnerRef{ID: m.Owner.ID}
	s.members = append(s.members, m)

	m.Owner = s.owner(m.Owner.ID)
	return m, nil
}

func (s *Store) ListMembers(ctx context.Context, ownerID string, w period.Window) ([]metrics.VipMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]metrics.VipMember, 0)
	for _, m := range s.members {
		if ownerID != "" && m.Owner.ID != ownerID {
			continue
		}
		if !w.Contains(m.DateAdded) {
			continue
		}
		m.Owner = s.owner(m.Owner.ID)
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateAdded.After(out[j].DateAdded) })
	return out, nil
}

// DeleteMember 只能刪除自己的會員。
func (s *Store) DeleteMember(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.members {
		if m.ID == id && m.Owner.ID == ownerID {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("member %s: %w", id, metrics.ErrNotFound)
}
