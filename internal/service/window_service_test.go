package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWindowOverview(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	booking := NewBookingService(store, store, nil, zap.NewNop())
	comments := NewCommentService(store, store, zap.NewNop())

	for i := 0; i < model.MaxSlotsPerDay; i++ {
		_, err := booking.BookSlot(ctx, BookRequest{MemberID: string(rune('a' + i)), MemberName: "x", Date: "2025-08-19"})
		require.NoError(t, err)
	}
	_, err := booking.BookSlot(ctx, BookRequest{MemberID: "a", MemberName: "Ashish", Date: "2025-08-26"})
	require.NoError(t, err)
	// вне окна
	_, err = booking.BookSlot(ctx, BookRequest{MemberID: "a", MemberName: "Ashish", Date: "2025-09-01"})
	require.NoError(t, err)

	_, err = comments.Add(ctx, AddCommentRequest{MemberID: "a", MemberName: "Ashish", Date: "2025-08-20", Comment: "late"})
	require.NoError(t, err)

	now := time.Date(2025, time.August, 20, 9, 0, 0, 0, time.UTC)
	overview, err := NewWindowService(store, store).Overview(ctx, now)
	require.NoError(t, err)

	require.Len(t, overview.Week1, 5)
	require.Len(t, overview.Week2, 5)
	assert.Equal(t, model.SlotTime, overview.SlotTime)
	assert.Equal(t, model.MaxSlotsPerDay, overview.Capacity)

	mon, tue, wed := overview.Week1[0], overview.Week1[1], overview.Week1[2]
	assert.Equal(t, "2025-08-18", mon.Date)
	assert.Equal(t, "Mon", mon.Weekday)
	assert.True(t, mon.IsPast)
	assert.NotNil(t, mon.Bookings)

	assert.True(t, tue.IsFull)
	assert.Equal(t, 0, tue.Free)
	assert.Equal(t, model.MaxSlotsPerDay, tue.Booked)

	assert.True(t, wed.IsToday)
	assert.False(t, wed.IsPast)
	assert.Equal(t, 1, wed.Comments)
	assert.Equal(t, model.MaxSlotsPerDay, wed.Free)

	nextTue := overview.Week2[1]
	assert.Equal(t, "2025-08-26", nextTue.Date)
	assert.Equal(t, 1, nextTue.Booked)
	assert.Equal(t, "Ashish", nextTue.Bookings[0].MemberName)

	days := overview.Days()
	require.Len(t, days, 10)
	assert.Equal(t, "2025-08-29", days[9].Date)
}
