package analytics

import (
	"context"

	"github.com/better-analytics/dashboard/internal/entity"
)

// CustomEventsOverview returns one row per custom event name with its
// occurrence count for the window. Pageviews are excluded; they have their
// own operations.
func (s *Service) CustomEventsOverview(ctx context.Context, siteID string, tr TimeRange) ([]entity.EventTypeRow, error) {
	tr, err := tr.Normalize()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetCustomEventsOverview(ctx, siteID, tr.Start, tr.End)
	if err != nil {
		return nil, err
	}
	if err := validateRows(entity.EventTypeRowSchema, rows); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.EventName]; dup {
			return nil, &DataIntegrityError{Entity: entity.EventTypeRowSchema.Name(), Err: errDuplicateEventName(row.EventName)}
		}
		seen[row.EventName] = struct{}{}
	}
	return rows, nil
}

type errDuplicateEventName string

func (e errDuplicateEventName) Error() string { return "duplicate event_name " + string(e) }

// TotalEventCount is the independent total used to cross-check the
// overview's per-event sums.
func (s *Service) TotalEventCount(ctx context.Context, siteID string, tr TimeRange) (uint64, error) {
	tr, err := tr.Normalize()
	if err != nil {
		return 0, err
	}
	return s.repo.GetTotalEventCount(ctx, siteID, tr.Start, tr.End)
}
