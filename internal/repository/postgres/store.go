// Package postgres хранилище на PostgreSQL через pgx.
package postgres

import (
	"context"

	"github.com/Freeeeeet/slot_board/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	*Repository
	*MemberRepository
	*BookingRepository
	*ActivityRepository
	*CommentRepository
}

var _ repository.Store = (*Store)(nil)

// NewStore собирает репозитории поверх одного пула
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Repository:         NewRepository(pool),
		MemberRepository:   NewMemberRepository(pool),
		BookingRepository:  NewBookingRepository(pool),
		ActivityRepository: NewActivityRepository(pool),
		CommentRepository:  NewCommentRepository(pool),
	}
}

func (s *Store) Name() string { return "postgres" }

func (s *Store) Ping(ctx context.Context) error {
	return classify(s.Repository.Pool().Ping(ctx))
}

// Close закрывает пул
func (s *Store) Close() error {
	s.Repository.Pool().Close()
	return nil
}
