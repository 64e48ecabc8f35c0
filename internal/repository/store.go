package repository

import (
	"context"

	"github.com/Freeeeeet/slot_board/internal/model"
)

// MemberStore участники группы, создаются только при начальном заполнении
type MemberStore interface {
	ListMembers(ctx context.Context) ([]*model.Member, error)
	GetMember(ctx context.Context, id string) (*model.Member, error) // nil, nil если не найден
	SeedMembers(ctx context.Context, members []*model.Member) (int, error)
}

// BookingStore записи на слоты.
// CreateBooking и DeleteBooking выполняют проверку и обе записи (бронь + журнал) атомарно.
type BookingStore interface {
	// CreateBooking возвращает model.ErrDuplicateBooking или model.ErrCapacityExceeded
	CreateBooking(ctx context.Context, booking *model.Booking, activity *model.Activity, capacity int) error
	// DeleteBooking возвращает удалённую бронь или model.ErrBookingNotFound
	DeleteBooking(ctx context.Context, memberID, date string, activity *model.Activity) (*model.Booking, error)
	ListBookings(ctx context.Context) ([]*model.Booking, error)
	ListBookingsByDate(ctx context.Context, date string) ([]*model.Booking, error)
	ListBookingsByMember(ctx context.Context, memberID string) ([]*model.Booking, error)
}

// ActivityStore журнал действий, только чтение: запись идёт через BookingStore
type ActivityStore interface {
	ListActivities(ctx context.Context) ([]*model.Activity, error)
	ListActivitiesByDate(ctx context.Context, date string) ([]*model.Activity, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	ListComments(ctx context.Context) ([]*model.Comment, error)
	ListCommentsByDate(ctx context.Context, date string) ([]*model.Comment, error)
}

// Store полный набор хранилищ одного бэкенда
type Store interface {
	MemberStore
	BookingStore
	ActivityStore
	CommentStore

	Name() string
	Ping(ctx context.Context) error
	Close() error
}
