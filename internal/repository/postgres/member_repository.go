package postgres

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository struct {
	base *Repository
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{base: NewRepository(pool)}
}

// ListMembers получает всех участников
func (r *MemberRepository) ListMembers(ctx context.Context) ([]*model.Member, error) {
	query := `
		SELECT id, name, initials, avatar_color, created_at
		FROM members
		ORDER BY created_at ASC, name ASC
	`

	rows, err := r.base.pool.Query(ctx, query)
	if err != nil {
		return nil, classify(fmt.Errorf("list members: %w", err))
	}
	defer rows.Close()

	members := make([]*model.Member, 0)
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Initials, &m.AvatarColor, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}

// GetMember получает участника по ID
func (r *MemberRepository) GetMember(ctx context.Context, id string) (*model.Member, error) {
	query := `
		SELECT id, name, initials, avatar_color, created_at
		FROM members
		WHERE id = $1
	`

	var m model.Member
	err := r.base.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Initials, &m.AvatarColor, &m.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, classify(fmt.Errorf("get member by id: %w", err))
	}

	return &m, nil
}

// SeedMembers заполняет таблицу, если она пуста
func (r *MemberRepository) SeedMembers(ctx context.Context, members []*model.Member) (int, error) {
	inserted := 0

	err := r.base.WithTx(ctx, func(tx pgx.Tx) error {
		// Блокируем таблицу, чтобы два процесса не заполнили её одновременно
		if _, err := tx.Exec(ctx, `LOCK TABLE members IN EXCLUSIVE MODE`); err != nil {
			return classify(fmt.Errorf("lock members: %w", err))
		}

		var count int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM members`).Scan(&count); err != nil {
			return classify(fmt.Errorf("count members: %w", err))
		}
		if count > 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, m := range members {
			batch.Queue(
				`INSERT INTO members (id, name, initials, avatar_color, created_at) VALUES ($1, $2, $3, $4, $5)`,
				m.ID, m.Name, m.Initials, m.AvatarColor, m.CreatedAt,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return classify(fmt.Errorf("insert members: %w", err))
		}

		inserted = len(members)
		return nil
	})

	return inserted, err
}
