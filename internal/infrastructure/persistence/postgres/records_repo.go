package postgres

import (
	"context"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
)

func (s *Store) InsertRecord(ctx context.Context, rec metrics.PeriodRecord) (metrics.PeriodRecord, error) {
	const q = `
WITH ins AS (
    INSERT INTO bingx_records (id, owner_id, new_referrals, trading_volume, trading_profit, ad_costs, ad_profit, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
    RETURNING owner_id, created_at
)
SELECT ins.created_at, COALESCE(u.name, ''), COALESCE(u.email, '')
FROM ins LEFT JOIN users u ON u.id = ins.owner_id;
`
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	err := s.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.Owner.ID,
		rec.NewReferrals,
		rec.TradingVolume,
		rec.TradingProfit,
		rec.AdCosts,
		rec.AdProfit,
		nullTime(rec.CreatedAt),
	).Scan(&rec.CreatedAt, &rec.Owner.Name, &rec.Owner.Email)
	if err != nil {
		return metrics.PeriodRecord{}, err
	}
	return rec, nil
}

// ListRecords ownerID 為空時回傳所有經理，依建立時間新到舊。
func (s *Store) ListRecords(ctx context.Context, ownerID string, w period.Window) ([]metrics.PeriodRecord, error) {
	const q = `
SELECT r.id, r.owner_id, COALESCE(u.name, ''), COALESCE(u.email, ''),
       r.new_referrals, r.trading_volume, r.trading_profit, r.ad_costs, r.ad_profit, r.created_at
FROM bingx_records r
LEFT JOIN users u ON u.id = r.owner_id
WHERE ($1::text = '' OR r.owner_id = $1)
  AND (NOT $2::boolean OR (r.created_at >= $3 AND r.created_at < $4))
ORDER BY r.created_at DESC;
`
	bounded, from, to := windowArgs(w)
	rows, err := s.db.QueryContext(ctx, q, ownerID, bounded, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]metrics.PeriodRecord, 0)
	for rows.Next() {
		var r metrics.PeriodRecord
		if err := rows.Scan(
			&r.ID, &r.Owner.ID, &r.Owner.Name, &r.Owner.Email,
			&r.NewReferrals, &r.TradingVolume, &r.TradingProfit, &r.AdCosts, &r.AdProfit, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
