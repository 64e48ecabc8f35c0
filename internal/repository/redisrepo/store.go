// Package redisrepo хранилище на Redis. Проверка вместимости и запись выполняются Lua скриптом.
package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sort"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	client redis.UniversalClient
	keys   keys
}

var _ repository.Store = (*Store)(nil)

// NewStore создаёт хранилище поверх клиента, все ключи начинаются с prefix
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "slotboard"
	}
	return &Store{client: client, keys: keys{prefix: prefix}}
}

func (s *Store) Name() string { return "redis" }

func (s *Store) Ping(ctx context.Context) error {
	return classify(s.client.Ping(ctx).Err())
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ListMembers возвращает участников в порядке заполнения
func (s *Store) ListMembers(ctx context.Context) ([]*model.Member, error) {
	ids, err := s.client.LRange(ctx, s.keys.memberOrder(), 0, -1).Result()
	if err != nil {
		return nil, classify(fmt.Errorf("list member ids: %w", err))
	}

	members := make([]*model.Member, 0, len(ids))
	if len(ids) == 0 {
		return members, nil
	}

	values, err := s.client.HMGet(ctx, s.keys.members(), ids...).Result()
	if err != nil {
		return nil, classify(fmt.Errorf("list members: %w", err))
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var m model.Member
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		members = append(members, &m)
	}
	return members, nil
}

func (s *Store) GetMember(ctx context.Context, id string) (*model.Member, error) {
	raw, err := s.client.HGet(ctx, s.keys.members(), id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, classify(fmt.Errorf("get member: %w", err))
	}

	var m model.Member
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("decode member: %w", err)
	}
	return &m, nil
}

// SeedMembers заполняет участников, если хэш ещё не создан
func (s *Store) SeedMembers(ctx context.Context, members []*model.Member) (int, error) {
	if len(members) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(members)*2)
	for _, m := range members {
		raw, err := json.Marshal(m)
		if err != nil {
			return 0, fmt.Errorf("encode member: %w", err)
		}
		args = append(args, m.ID, string(raw))
	}

	n, err := seedMembersScript.Run(ctx, s.client,
		[]string{s.keys.members(), s.keys.memberOrder()}, args...).Int()
	if err != nil {
		return 0, classify(fmt.Errorf("seed members: %w", err))
	}
	return n, nil
}

// CreateBooking выполняет скрипт, который проверяет дубликат и вместимость и пишет бронь с журналом
func (s *Store) CreateBooking(ctx context.Context, booking *model.Booking, activity *model.Activity, capacity int) error {
	rawBooking, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("encode booking: %w", err)
	}
	rawActivity, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}

	reply, err := createBookingScript.Run(ctx, s.client,
		[]string{s.keys.day(booking.Date), s.keys.dates(), s.keys.activities()},
		booking.MemberID, string(rawBooking), string(rawActivity), capacity, booking.Date,
	).Text()
	if err != nil {
		return classify(fmt.Errorf("create booking: %w", err))
	}

	switch reply {
	case replyOK:
		return nil
	case replyDuplicate:
		return model.ErrDuplicateBooking
	case replyFull:
		return model.ErrCapacityExceeded
	default:
		return fmt.Errorf("create booking: unexpected reply %q", reply)
	}
}

// DeleteBooking удаляет бронь и пишет журнал одним скриптом
func (s *Store) DeleteBooking(ctx context.Context, memberID, date string, activity *model.Activity) (*model.Booking, error) {
	rawActivity, err := json.Marshal(activity)
	if err != nil {
		return nil, fmt.Errorf("encode activity: %w", err)
	}

	raw, err := deleteBookingScript.Run(ctx, s.client,
		[]string{s.keys.day(date), s.keys.dates(), s.keys.activities()},
		memberID, string(rawActivity), date,
	).Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBookingNotFound
		}
		return nil, classify(fmt.Errorf("delete booking: %w", err))
	}

	var b model.Booking
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, fmt.Errorf("decode booking: %w", err)
	}
	return &b, nil
}

// ListBookings собирает брони по всем датам
func (s *Store) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	dates, err := s.client.SMembers(ctx, s.keys.dates()).Result()
	if err != nil {
		return nil, classify(fmt.Errorf("list booking dates: %w", err))
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, 0, len(dates))
	for _, date := range dates {
		cmds = append(cmds, pipe.HVals(ctx, s.keys.day(date)))
	}
	if len(cmds) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, classify(fmt.Errorf("list bookings: %w", err))
		}
	}

	bookings := make([]*model.Booking, 0)
	for _, cmd := range cmds {
		decoded, err := decodeBookings(cmd.Val())
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, decoded...)
	}

	repository.SortBookings(bookings)
	return bookings, nil
}

func (s *Store) ListBookingsByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	values, err := s.client.HVals(ctx, s.keys.day(date)).Result()
	if err != nil {
		return nil, classify(fmt.Errorf("list bookings by date: %w", err))
	}

	bookings, err := decodeBookings(values)
	if err != nil {
		return nil, err
	}
	repository.SortBookings(bookings)
	return bookings, nil
}

func (s *Store) ListBookingsByMember(ctx context.Context, memberID string) ([]*model.Booking, error) {
	dates, err := s.client.SMembers(ctx, s.keys.dates()).Result()
	if err != nil {
		return nil, classify(fmt.Errorf("list booking dates: %w", err))
	}

	sort.Strings(dates)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, 0, len(dates))
	for _, date := range dates {
		cmds = append(cmds, pipe.HGet(ctx, s.keys.day(date), memberID))
	}
	if len(cmds) > 0 {
		// redis.Nil от пустых HGET ожидаем
		if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
			return nil, classify(fmt.Errorf("list bookings by member: %w", err))
		}
	}

	values := make([]string, 0)
	for _, cmd := range cmds {
		v, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, classify(fmt.Errorf("list bookings by member: %w", err))
		}
		values = append(values, v)
	}

	bookings, err := decodeBookings(values)
	if err != nil {
		return nil, err
	}
	repository.SortBookings(bookings)
	return bookings, nil
}

func (s *Store) ListActivities(ctx context.Context) ([]*model.Activity, error) {
	return s.listActivities(ctx, "")
}

func (s *Store) ListActivitiesByDate(ctx context.Context, date string) ([]*model.Activity, error) {
	return s.listActivities(ctx, date)
}

func (s *Store) listActivities(ctx context.Context, date string) ([]*model.Activity, error) {
	values, err := s.client.LRange(ctx, s.keys.activities(), 0, -1).Result()
	if err != nil {
		return nil, classify(fmt.Errorf("list activities: %w", err))
	}

	activities := make([]*model.Activity, 0, len(values))
	for _, raw := range values {
		var a model.Activity
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		if date == "" || a.Date == date {
			activities = append(activities, &a)
		}
	}

	repository.SortActivities(activities)
	return activities, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	raw, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("encode comment: %w", err)
	}
	if err := s.client.LPush(ctx, s.keys.comments(), string(raw)).Err(); err != nil {
		return classify(fmt.Errorf("create comment: %w", err))
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context) ([]*model.Comment, error) {
	return s.listComments(ctx, "")
}

func (s *Store) ListCommentsByDate(ctx context.Context, date string) ([]*model.Comment, error) {
	return s.listComments(ctx, date)
}

func (s *Store) listComments(ctx context.Context, date string) ([]*model.Comment, error) {
	values, err := s.client.LRange(ctx, s.keys.comments(), 0, -1).Result()
	if err != nil {
		return nil, classify(fmt.Errorf("list comments: %w", err))
	}

	comments := make([]*model.Comment, 0, len(values))
	for _, raw := range values {
		var c model.Comment
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}
		if date == "" || c.Date == date {
			comments = append(comments, &c)
		}
	}

	repository.SortComments(comments)
	return comments, nil
}

func decodeBookings(values []string) ([]*model.Booking, error) {
	bookings := make([]*model.Booking, 0, len(values))
	for _, raw := range values {
		var b model.Booking
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, nil
}

// classify помечает сетевые ошибки и закрытый клиент как недоступность хранилища
func classify(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) || errors.Is(err, context.DeadlineExceeded) {
		return model.Unavailable(err)
	}
	return err
}
