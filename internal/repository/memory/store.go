// Package memory хранилище в памяти процесса, без сохранения между перезапусками.
package memory

import (
	"context"
	"sync"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository"
)

// Store одна блокировка на весь журнал: проверка вместимости и вставка идут под ней
type Store struct {
	mu         sync.RWMutex
	members    []*model.Member
	bookings   []*model.Booking
	activities []*model.Activity
	comments   []*model.Comment
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

// ListMembers возвращает участников в порядке создания
func (s *Store) ListMembers(ctx context.Context) ([]*model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Member, 0, len(s.members))
	for _, m := range s.members {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) GetMember(ctx context.Context, id string) (*model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.members {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

// SeedMembers добавляет участников только в пустое хранилище
func (s *Store) SeedMembers(ctx context.Context, members []*model.Member) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.members) > 0 {
		return 0, nil
	}
	for _, m := range members {
		cp := *m
		s.members = append(s.members, &cp)
	}
	return len(members), nil
}

// CreateBooking атомарно проверяет дубликат и вместимость, затем пишет бронь и журнал
func (s *Store) CreateBooking(ctx context.Context, booking *model.Booking, activity *model.Activity, capacity int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken := 0
	for _, b := range s.bookings {
		if b.Date != booking.Date {
			continue
		}
		if b.MemberID == booking.MemberID {
			return model.ErrDuplicateBooking
		}
		taken++
	}
	if taken >= capacity {
		return model.ErrCapacityExceeded
	}

	b := *booking
	a := *activity
	s.bookings = append(s.bookings, &b)
	s.activities = append(s.activities, &a)
	return nil
}

// DeleteBooking удаляет бронь и пишет журнал под одной блокировкой
func (s *Store) DeleteBooking(ctx context.Context, memberID, date string, activity *model.Activity) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.bookings {
		if b.MemberID == memberID && b.Date == date {
			s.bookings = append(s.bookings[:i:i], s.bookings[i+1:]...)
			a := *activity
			s.activities = append(s.activities, &a)
			return b, nil
		}
	}
	return nil, model.ErrBookingNotFound
}

func (s *Store) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	return s.filterBookings(func(*model.Booking) bool { return true }), nil
}

func (s *Store) ListBookingsByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	return s.filterBookings(func(b *model.Booking) bool { return b.Date == date }), nil
}

func (s *Store) ListBookingsByMember(ctx context.Context, memberID string) ([]*model.Booking, error) {
	return s.filterBookings(func(b *model.Booking) bool { return b.MemberID == memberID }), nil
}

func (s *Store) filterBookings(keep func(*model.Booking) bool) []*model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Booking, 0)
	for _, b := range s.bookings {
		if keep(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	repository.SortBookings(out)
	return out
}

func (s *Store) ListActivities(ctx context.Context) ([]*model.Activity, error) {
	return s.filterActivities(""), nil
}

func (s *Store) ListActivitiesByDate(ctx context.Context, date string) ([]*model.Activity, error) {
	return s.filterActivities(date), nil
}

func (s *Store) filterActivities(date string) []*model.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Activity, 0)
	for _, a := range s.activities {
		if date == "" || a.Date == date {
			cp := *a
			out = append(out, &cp)
		}
	}
	repository.SortActivities(out)
	return out
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *comment
	s.comments = append(s.comments, &c)
	return nil
}

func (s *Store) ListComments(ctx context.Context) ([]*model.Comment, error) {
	return s.filterComments(""), nil
}

func (s *Store) ListCommentsByDate(ctx context.Context, date string) ([]*model.Comment, error) {
	return s.filterComments(date), nil
}

func (s *Store) filterComments(date string) []*model.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Comment, 0)
	for _, c := range s.comments {
		if date == "" || c.Date == date {
			cp := *c
			out = append(out, &cp)
		}
	}
	repository.SortComments(out)
	return out
}
