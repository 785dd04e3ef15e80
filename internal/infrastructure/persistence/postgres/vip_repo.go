package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
)

// UpsertPlan 以 id 為唯一鍵新增或更新方案。
func (s *Store) UpsertPlan(ctx context.Context, plan metrics.VipPlan) (metrics.VipPlan, error) {
	const q = `
INSERT INTO vip_plans (id, name, price)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price;
`
	if plan.ID == "" {
		plan.ID = s.newID()
	}
	if _, err := s.db.ExecContext(ctx, q, plan.ID, plan.Name, plan.Price); err != nil {
		return metrics.VipPlan{}, err
	}
	return plan, nil
}

// ListPlans 依價格排序。
func (s *Store) ListPlans(ctx context.Context) ([]metrics.VipPlan, error) {
	const q = `SELECT id, name, price FROM vip_plans ORDER BY price, id;`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]metrics.VipPlan, 0)
	for rows.Next() {
		var p metrics.VipPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertMember 依 Plan.ID 解析方案，方案不存在時回傳 metrics.ErrNotFound。
func (s *Store) InsertMember(ctx context.Context, m metrics.VipMember) (metrics.VipMember, error) {
	const planQ = `SELECT id, name, price FROM vip_plans WHERE id = $1;`
	const q = `
WITH ins AS (
    INSERT INTO vip_members (id, owner_id, name, plan_id, date_added)
    VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
    RETURNING owner_id, date_added
)
SELECT ins.date_added, COALESCE(u.name, ''), COALESCE(u.email, '')
FROM ins LEFT JOIN users u ON u.id = ins.owner_id;
`
	var plan metrics.VipPlan
	if err := s.db.QueryRowContext(ctx, planQ, m.Plan.ID).Scan(&plan.ID, &plan.Name, &plan.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return metrics.VipMember{}, fmt.Errorf("plan %s: %w", m.Plan.ID, metrics.ErrNotFound)
		}
		return metrics.VipMember{}, err
	}
	m.Plan = plan
	if m.ID == "" {
		m.ID = s.newID()
	}
	err := s.db.QueryRowContext(ctx, q, m.ID, m.Owner.ID, m.Name, plan.ID, nullTime(m.DateAdded)).
		Scan(&m.DateAdded, &m.Owner.Name, &m.Owner.Email)
	if err != nil {
		return metrics.VipMember{}, err
	}
	return m, nil
}

func (s *Store) ListMembers(ctx context.Context, ownerID string, w period.Window) ([]metrics.VipMember, error) {
	const q = `
SELECT m.id, m.name, m.date_added, m.owner_id, COALESCE(u.name, ''), COALESCE(u.email, ''),
       p.id, p.name, p.price
FROM vip_members m
JOIN vip_plans p ON p.id = m.plan_id
LEFT JOIN users u ON u.id = m.owner_id
WHERE ($1::text = '' OR m.owner_id = $1)
  AND (NOT $2::boolean OR (m.date_added >= $3 AND m.date_added < $4))
ORDER BY m.date_added DESC;
`
	bounded, from, to := windowArgs(w)
	rows, err := s.db.QueryContext(ctx, q, ownerID, bounded, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]metrics.VipMember, 0)
	for rows.Next() {
		var m metrics.VipMember
		if err := rows.Scan(
			&m.ID, &m.Name, &m.DateAdded, &m.Owner.ID, &m.Owner.Name, &m.Owner.Email,
			&m.Plan.ID, &m.Plan.Name, &m.Plan.Price,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMember 只能刪除自己的會員。
func (s *Store) DeleteMember(ctx context.Context, ownerID, id string) error {
	const q = `DELETE FROM vip_members WHERE id = $1 AND owner_id = $2;`
	res, err := s.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "member", id)
}
