package service

import (
	"context"

	"github.com/Freeeeeet/slot_board/internal/calendar"
	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository"
)

// ActivityService чтение журнала, новые сверху
type ActivityService struct {
	activities repository.ActivityStore
}

func NewActivityService(activities repository.ActivityStore) *ActivityService {
	return &ActivityService{activities: activities}
}

func (s *ActivityService) List(ctx context.Context) ([]*model.Activity, error) {
	return s.activities.ListActivities(ctx)
}

func (s *ActivityService) ListByDate(ctx context.Context, date string) ([]*model.Activity, error) {
	if _, err := calendar.ParseDate(date); err != nil {
		return nil, model.Validationf("Invalid date %q, expected YYYY-MM-DD", date)
	}
	return s.activities.ListActivitiesByDate(ctx, date)
}

// Recent последние limit записей
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]*model.Activity, error) {
	activities, err := s.activities.ListActivities(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}
