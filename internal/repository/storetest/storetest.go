// Package storetest общий набор проверок для реализаций repository.Store.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory создаёт пустое хранилище для одного подтеста
type Factory func(t *testing.T) repository.Store

var base = time.Date(2025, time.August, 20, 8, 0, 0, 0, time.UTC)

func newBooking(memberID, date string, offset int) (*model.Booking, *model.Activity) {
	at := base.Add(time.Duration(offset) * time.Second)
	b := &model.Booking{
		ID:         uuid.NewString(),
		MemberID:   memberID,
		MemberName: "name-" + memberID,
		Date:       date,
		CreatedAt:  at,
	}
	a := &model.Activity{
		ID:         uuid.NewString(),
		MemberID:   memberID,
		MemberName: b.MemberName,
		Action:     model.ActivityActionBooked,
		Date:       date,
		DeviceInfo: "Test Device",
		CreatedAt:  at,
	}
	return b, a
}

func cancelActivity(memberID, date string, offset int) *model.Activity {
	return &model.Activity{
		ID:         uuid.NewString(),
		MemberID:   memberID,
		MemberName: "name-" + memberID,
		Action:     model.ActivityActionCancelled,
		Date:       date,
		DeviceInfo: "Test Device",
		CreatedAt:  base.Add(time.Duration(offset) * time.Second),
	}
}

// Run прогоняет контракт хранилища
func Run(t *testing.T, newStore Factory) {
	t.Run("SeedMembersOnce", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		members := []*model.Member{
			{ID: uuid.NewString(), Name: "Ashish", Initials: "A", AvatarColor: "green", CreatedAt: base},
			{ID: uuid.NewString(), Name: "Gagan", Initials: "G", AvatarColor: "blue", CreatedAt: base.Add(time.Second)},
		}

		n, err := s.SeedMembers(ctx, members)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = s.SeedMembers(ctx, members)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		list, err := s.ListMembers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Ashish", list[0].Name)

		got, err := s.GetMember(ctx, members[1].ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Gagan", got.Name)

		missing, err := s.GetMember(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("CreateBookingWritesActivity", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b, a := newBooking("m1", "2025-08-20", 0)
		require.NoError(t, s.CreateBooking(ctx, b, a, model.MaxSlotsPerDay))

		bookings, err := s.ListBookingsByDate(ctx, "2025-08-20")
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, b.ID, bookings[0].ID)
		assert.Equal(t, "m1", bookings[0].MemberID)

		activities, err := s.ListActivitiesByDate(ctx, "2025-08-20")
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, model.ActivityActionBooked, activities[0].Action)
	})

	t.Run("DuplicateBookingRejected", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b, a := newBooking("m1", "2025-08-20", 0)
		require.NoError(t, s.CreateBooking(ctx, b, a, model.MaxSlotsPerDay))

		b2, a2 := newBooking("m1", "2025-08-20", 1)
		err := s.CreateBooking(ctx, b2, a2, model.MaxSlotsPerDay)
		assert.ErrorIs(t, err, model.ErrDuplicateBooking)

		activities, err := s.ListActivities(ctx)
		require.NoError(t, err)
		assert.Len(t, activities, 1)
	})

	t.Run("CapacityEnforced", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i := 0; i < model.MaxSlotsPerDay; i++ {
			b, a := newBooking(fmt.Sprintf("m%d", i), "2025-08-21", i)
			require.NoError(t, s.CreateBooking(ctx, b, a, model.MaxSlotsPerDay))
		}

		b, a := newBooking("late", "2025-08-21", 10)
		err := s.CreateBooking(ctx, b, a, model.MaxSlotsPerDay)
		assert.ErrorIs(t, err, model.ErrCapacityExceeded)

		// другой день не затронут
		b, a = newBooking("late", "2025-08-22", 11)
		assert.NoError(t, s.CreateBooking(ctx, b, a, model.MaxSlotsPerDay))

		bookings, err := s.ListBookingsByDate(ctx, "2025-08-21")
		require.NoError(t, err)
		assert.Len(t, bookings, model.MaxSlotsPerDay)
	})

	t.Run("DuplicateCheckedBeforeCapacity", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i := 0; i < model.MaxSlotsPerDay; i++ {
			b, a := newBooking(fmt.Sprintf("m%d", i), "2025-08-21", i)
			require.NoError(t, s.CreateBooking(ctx, b, a, model.MaxSlotsPerDay))
		}

		b, a := newBooking("m0", "2025-08-21", 10)
		assert.ErrorIs(t, s.CreateBooking(ctx, b, a, model.MaxSlotsPerDay), model.ErrDuplicateBooking)
	})

	t.Run("DeleteBooking", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b, a := newBooking("m1", "2025-08-20", 0)
		require.NoError(t, s.CreateBooking(ctx, b, a, model.MaxSlotsPerDay))

		deleted, err := s.DeleteBooking(ctx, "m1", "2025-08-20", cancelActivity("m1", "2025-08-20", 5))
		require.NoError(t, err)
		require.NotNil(t, deleted)
		assert.Equal(t, b.ID, deleted.ID)
		assert.Equal(t, b.MemberName, deleted.MemberName)

		bookings, err := s.ListBookingsByDate(ctx, "2025-08-20")
		require.NoError(t, err)
		assert.Empty(t, bookings)

		activities, err := s.ListActivities(ctx)
		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, model.ActivityActionCancelled, activities[0].Action, "newest first")
	})

	t.Run("DeleteMissingWritesNothing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.DeleteBooking(ctx, "ghost", "2025-08-20", cancelActivity("ghost", "2025-08-20", 0))
		assert.ErrorIs(t, err, model.ErrBookingNotFound)

		activities, err := s.ListActivities(ctx)
		require.NoError(t, err)
		assert.Empty(t, activities)
	})

	t.Run("ListOrdering", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b1, a1 := newBooking("m1", "2025-08-22", 0)
		b2, a2 := newBooking("m2", "2025-08-20", 1)
		b3, a3 := newBooking("m1", "2025-08-20", 2)
		require.NoError(t, s.CreateBooking(ctx, b1, a1, model.MaxSlotsPerDay))
		require.NoError(t, s.CreateBooking(ctx, b2, a2, model.MaxSlotsPerDay))
		require.NoError(t, s.CreateBooking(ctx, b3, a3, model.MaxSlotsPerDay))

		all, err := s.ListBookings(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{b2.ID, b3.ID, b1.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

		again, err := s.ListBookings(ctx)
		require.NoError(t, err)
		assert.Equal(t, all, again)

		mine, err := s.ListBookingsByMember(ctx, "m1")
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, "2025-08-20", mine[0].Date)

		activities, err := s.ListActivities(ctx)
		require.NoError(t, err)
		require.Len(t, activities, 3)
		assert.Equal(t, a3.ID, activities[0].ID)
		assert.Equal(t, a1.ID, activities[2].ID)
	})

	t.Run("Comments", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i, date := range []string{"2025-08-20", "2025-08-20", "2025-08-21"} {
			c := &model.Comment{
				ID:         uuid.NewString(),
				MemberID:   "m1",
				MemberName: "Ashish",
				Date:       date,
				Comment:    fmt.Sprintf("note %d", i),
				CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			}
			require.NoError(t, s.CreateComment(ctx, c))
		}

		all, err := s.ListComments(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "note 2", all[0].Comment)

		byDate, err := s.ListCommentsByDate(ctx, "2025-08-20")
		require.NoError(t, err)
		require.Len(t, byDate, 2)
		assert.Equal(t, "note 1", byDate[0].Comment)
	})

	t.Run("ConcurrentBookingsRespectCapacity", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const workers = 20
		var wg sync.WaitGroup
		errs := make(chan error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				b, a := newBooking(fmt.Sprintf("m%d", i), "2025-08-25", i)
				errs <- s.CreateBooking(ctx, b, a, model.MaxSlotsPerDay)
			}(i)
		}
		wg.Wait()
		close(errs)

		ok := 0
		for err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, model.ErrCapacityExceeded)
		}
		assert.Equal(t, model.MaxSlotsPerDay, ok)

		bookings, err := s.ListBookingsByDate(ctx, "2025-08-25")
		require.NoError(t, err)
		assert.Len(t, bookings, model.MaxSlotsPerDay)

		activities, err := s.ListActivitiesByDate(ctx, "2025-08-25")
		require.NoError(t, err)
		assert.Len(t, activities, model.MaxSlotsPerDay)
	})

	t.Run("ConcurrentDuplicateBookings", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const workers = 10
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				b, a := newBooking("same", "2025-08-26", i)
				_ = s.CreateBooking(ctx, b, a, model.MaxSlotsPerDay)
			}(i)
		}
		wg.Wait()

		bookings, err := s.ListBookingsByDate(ctx, "2025-08-26")
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})
}
