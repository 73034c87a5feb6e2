package interaction

import (
	"context"
	"time"

	"lenz-rewards/pkg/errutil"
)

// CreatorActivity is the per-creator aggregation over one window. It only
// lives inside a single distribution run.
type CreatorActivity struct {
	Creator           string
	TotalInteractions int64
	CountsByKind      map[Kind]int64
	LensIDs           map[string]struct{}
}

type groupedRow struct {
	LensID  string `gorm:"column:lens_id"`
	Creator string `gorm:"column:creator"`
	Kind    Kind   `gorm:"column:kind"`
	Count   int64  `gorm:"column:count"`
}

// AggregateWindow groups interactions in the half-open window
// [weekStart, weekEnd) by (lens, creator, kind) via a join against the lens
// registry, then merges the rows per creator. Creators without any lens
// interaction in the window do not appear.
func (s *Service) AggregateWindow(ctx context.Context, weekStart, weekEnd time.Time) ([]*CreatorActivity, error) {
	if !weekStart.Before(weekEnd) {
		return nil, errutil.BadRequest("week start must be before week end", nil)
	}

	var rows []groupedRow
	if err := s.db.WithContext(ctx).
		Table("lens_interactions").
		Select("lens_interactions.lens_id AS lens_id, lenses.creator AS creator, lens_interactions.kind AS kind, COUNT(*) AS count").
		Joins("INNER JOIN lenses ON lenses.id = lens_interactions.lens_id").
		Where("lens_interactions.created_at >= ? AND lens_interactions.created_at < ?", weekStart, weekEnd).
		Group("lens_interactions.lens_id, lenses.creator, lens_interactions.kind").
		Order("lenses.creator, lens_interactions.lens_id, lens_interactions.kind").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byCreator := make(map[string]*CreatorActivity)
	order := make([]string, 0)

	for _, row := range rows {
		activity, ok := byCreator[row.Creator]
		if !ok {
			activity = &CreatorActivity{
				Creator:      row.Creator,
				CountsByKind: make(map[Kind]int64),
				LensIDs:      make(map[string]struct{}),
			}
			byCreator[row.Creator] = activity
			order = append(order, row.Creator)
		}

		activity.TotalInteractions += row.Count
		activity.CountsByKind[row.Kind] += row.Count
		activity.LensIDs[row.LensID] = struct{}{}
	}

	activities := make([]*CreatorActivity, 0, len(order))
	for _, creator := range order {
		activities = append(activities, byCreator[creator])
	}

	return activities, nil
}
