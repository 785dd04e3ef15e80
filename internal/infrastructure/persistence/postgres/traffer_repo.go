package postgres

import (
	"context"
	"sort"

	"affiliate-dashboard/internal/domain/metrics"
	"affiliate-dashboard/internal/domain/period"
)

// GetActivity 沒有任何紀錄時回傳只帶擁有者 ID 的空活動。
func (s *Store) GetActivity(ctx context.Context, ownerID string) (metrics.TrafferActivity, error) {
	list, err := s.activities(ctx, ownerID, period.Window{})
	if err != nil {
		return metrics.TrafferActivity{}, err
	}
	if len(list) == 0 {
		return metrics.TrafferActivity{
			Owner:             metrics.OwnerRef{ID: ownerID},
			SelectedPlatforms: []metrics.Platform{},
			DailyReports:      []metrics.DailyReport{},
		}, nil
	}
	return list[0], nil
}

// SavePlatforms 以交易整批取代已選平台並保留順序。
func (s *Store) SavePlatforms(ctx context.Context, ownerID string, platforms []metrics.Platform) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM traffer_platforms WHERE owner_id = $1;`, ownerID); err != nil {
		return err
	}
	const ins = `INSERT INTO traffer_platforms (owner_id, platform, position) VALUES ($1, $2, $3);`
	for i, p := range platforms {
		if _, err := tx.ExecContext(ctx, ins, ownerID, string(p), i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) InsertReport(ctx context.Context, r metrics.DailyReport) (metrics.DailyReport, error) {
	const q = `
WITH ins AS (
    INSERT INTO daily_reports (id, owner_id, platform, videos_uploaded, views, engagement, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
    RETURNING owner_id, created_at
)
SELECT ins.created_at, COALESCE(u.name, ''), COALESCE(u.email, '')
FROM ins LEFT JOIN users u ON u.id = ins.owner_id;
`
	if r.ID == "" {
		r.ID = s.newID()
	}
	err := s.db.QueryRowContext(ctx, q, r.ID, r.Owner.ID, string(r.Platform), r.VideosUploaded, r.Views, r.Engagement, nullTime(r.CreatedAt)).
		Scan(&r.CreatedAt, &r.Owner.Name, &r.Owner.Email)
	if err != nil {
		return metrics.DailyReport{}, err
	}
	return r, nil
}

// ListActivities 每位有選平台或回報的推廣人員一筆，依擁有者 ID 排序。
func (s *Store) ListActivities(ctx context.Context, w period.Window) ([]metrics.TrafferActivity, error) {
	return s.activities(ctx, "", w)
}

func (s *Store) activities(ctx context.Context, ownerID string, w period.Window) ([]metrics.TrafferActivity, error) {
	const platformsQ = `
SELECT p.owner_id, COALESCE(u.name, ''), COALESCE(u.email, ''), p.platform
FROM traffer_platforms p
LEFT JOIN users u ON u.id = p.owner_id
WHERE ($1::text = '' OR p.owner_id = $1)
ORDER BY p.owner_id, p.position;
`
	const reportsQ = `
SELECT r.id, r.owner_id, COALESCE(u.name, ''), COALESCE(u.email, ''),
       r.platform, r.videos_uploaded, r.views, r.engagement, r.created_at
FROM daily_reports r
LEFT JOIN users u ON u.id = r.owner_id
WHERE ($1::text = '' OR r.owner_id = $1)
  AND (NOT $2::boolean OR (r.created_at >= $3 AND r.created_at < $4))
ORDER BY r.created_at DESC;
`
	byOwner := make(map[string]*metrics.TrafferActivity)
	get := func(ref metrics.OwnerRef) *metrics.TrafferActivity {
		a := byOwner[ref.ID]
		if a == nil {
			a = &metrics.TrafferActivity{
				Owner:             ref,
				SelectedPlatforms: []metrics.Platform{},
				DailyReports:      []metrics.DailyReport{},
			}
			byOwner[ref.ID] = a
		}
		return a
	}

	rows, err := s.db.QueryContext(ctx, platformsQ, ownerID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var ref metrics.OwnerRef
		var p string
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email, &p); err != nil {
			rows.Close()
			return nil, err
		}
		a := get(ref)
		a.SelectedPlatforms = append(a.SelectedPlatforms, metrics.Platform(p))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	bounded, from, to := windowArgs(w)
	rows, err = s.db.QueryContext(ctx, reportsQ, ownerID, bounded, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r metrics.DailyReport
		var p string
		if err := rows.Scan(&r.ID, &r.Owner.ID, &r.Owner.Name, &r.Owner.Email, &p, &r.VideosUploaded, &r.Views, &r.Engagement, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Platform = metrics.Platform(p)
		a := get(r.Owner)
		a.DailyReports = append(a.DailyReports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(byOwner))
	for id := range byOwner {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]metrics.TrafferActivity, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byOwner[id])
	}
	return out, nil
}
