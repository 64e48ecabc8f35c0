package postgres

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const activityColumns = `id, member_id, member_name, action, date, device_info, created_at`

type ActivityRepository struct {
	base *Repository
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{base: NewRepository(pool)}
}

// ListActivities получает журнал, новые сверху
func (r *ActivityRepository) ListActivities(ctx context.Context) ([]*model.Activity, error) {
	return r.list(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY created_at DESC`)
}

// ListActivitiesByDate получает журнал по дате
func (r *ActivityRepository) ListActivitiesByDate(ctx context.Context, date string) ([]*model.Activity, error) {
	return r.list(ctx, `SELECT `+activityColumns+` FROM activities WHERE date = $1 ORDER BY created_at DESC`, date)
}

func (r *ActivityRepository) list(ctx context.Context, query string, args ...any) ([]*model.Activity, error) {
	rows, err := r.base.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("list activities: %w", err))
	}
	defer rows.Close()

	activities := make([]*model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		err := rows.Scan(&a.ID, &a.MemberID, &a.MemberName, &a.Action, &a.Date, &a.DeviceInfo, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, &a)
	}

	return activities, rows.Err()
}

// insertActivity пишет журнал внутри транзакции брони
func insertActivity(ctx context.Context, tx pgx.Tx, a *model.Activity) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO activities (`+activityColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.MemberID, a.MemberName, a.Action, a.Date, a.DeviceInfo, a.CreatedAt,
	)
	if err != nil {
		return classify(fmt.Errorf("create activity: %w", err))
	}
	return nil
}
