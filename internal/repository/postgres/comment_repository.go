package postgres

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const commentColumns = `id, member_id, member_name, date, comment, created_at`

type CommentRepository struct {
	base *Repository
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{base: NewRepository(pool)}
}

// CreateComment добавляет комментарий
func (r *CommentRepository) CreateComment(ctx context.Context, c *model.Comment) error {
	_, err := r.base.pool.Exec(ctx,
		`INSERT INTO comments (`+commentColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.MemberID, c.MemberName, c.Date, c.Comment, c.CreatedAt,
	)
	if err != nil {
		return classify(fmt.Errorf("create comment: %w", err))
	}
	return nil
}

func (r *CommentRepository) ListComments(ctx context.Context) ([]*model.Comment, error) {
	return r.list(ctx, `SELECT `+commentColumns+` FROM comments ORDER BY created_at DESC`)
}

func (r *CommentRepository) ListCommentsByDate(ctx context.Context, date string) ([]*model.Comment, error) {
	return r.list(ctx, `SELECT `+commentColumns+` FROM comments WHERE date = $1 ORDER BY created_at DESC`, date)
}

func (r *CommentRepository) list(ctx context.Context, query string, args ...any) ([]*model.Comment, error) {
	rows, err := r.base.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("list comments: %w", err))
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.MemberID, &c.MemberName, &c.Date, &c.Comment, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	return comments, rows.Err()
}
