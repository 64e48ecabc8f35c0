package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func bookingsFor(memberID string, dates ...string) []*model.Booking {
	out := make([]*model.Booking, 0, len(dates))
	for _, d := range dates {
		out = append(out, &model.Booking{ID: memberID + d, MemberID: memberID, Date: d})
	}
	return out
}

func names(stats []*model.MemberStats) []string {
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.Member.Name)
	}
	return out
}

func TestComputeParticipationSevenOfTwentyOne(t *testing.T) {
	members := []*model.Member{{ID: "a", Name: "Ashish"}}
	// август 2025: 21 будний день
	bookings := bookingsFor("a",
		"2025-08-01", "2025-08-04", "2025-08-05", "2025-08-06",
		"2025-08-07", "2025-08-08", "2025-08-11",
		"2025-07-31", "2025-09-01",
	)

	stats := ComputeParticipation(2025, time.August, bookings, members, SortByParticipationRate, SortDesc)
	require.Len(t, stats, 1)
	assert.Equal(t, 7, stats[0].TotalBookings)
	assert.Equal(t, 33, stats[0].ParticipationRate)
	assert.Equal(t, model.MemberStatusMedium, stats[0].Status)
}

func TestParticipationRate(t *testing.T) {
	assert.Equal(t, 0, ParticipationRate(0, 21))
	assert.Equal(t, 33, ParticipationRate(7, 21))
	assert.Equal(t, 13, ParticipationRate(1, 8), "12.5 rounds half up")
	assert.Equal(t, 100, ParticipationRate(21, 21))
	assert.Equal(t, 0, ParticipationRate(3, 0))
}

func TestStatusForRate(t *testing.T) {
	assert.Equal(t, model.MemberStatusHigh, StatusForRate(100))
	assert.Equal(t, model.MemberStatusHigh, StatusForRate(50))
	assert.Equal(t, model.MemberStatusMedium, StatusForRate(49))
	assert.Equal(t, model.MemberStatusMedium, StatusForRate(25))
	assert.Equal(t, model.MemberStatusLow, StatusForRate(24))
	assert.Equal(t, model.MemberStatusLow, StatusForRate(0))
}

func TestComputeParticipationSorting(t *testing.T) {
	members := []*model.Member{
		{ID: "1", Name: "bravo"},
		{ID: "2", Name: "Alpha"},
		{ID: "3", Name: "charlie"},
		{ID: "4", Name: "Delta"},
	}
	var bookings []*model.Booking
	bookings = append(bookings, bookingsFor("1", "2025-08-01", "2025-08-04")...)
	bookings = append(bookings, bookingsFor("3", "2025-08-01")...)
	bookings = append(bookings, bookingsFor("4", "2025-08-01", "2025-08-04")...)

	byRate := ComputeParticipation(2025, time.August, bookings, members, SortByParticipationRate, SortDesc)
	assert.Equal(t, []string{"bravo", "Delta", "charlie", "Alpha"}, names(byRate), "ties keep input order")

	byRateAsc := ComputeParticipation(2025, time.August, bookings, members, SortByParticipationRate, SortAsc)
	assert.Equal(t, []string{"Alpha", "charlie", "bravo", "Delta"}, names(byRateAsc))

	byName := ComputeParticipation(2025, time.August, bookings, members, SortByName, SortAsc)
	assert.Equal(t, []string{"Alpha", "bravo", "charlie", "Delta"}, names(byName))

	byNameDesc := ComputeParticipation(2025, time.August, bookings, members, SortByName, SortDesc)
	assert.Equal(t, []string{"Delta", "charlie", "bravo", "Alpha"}, names(byNameDesc))

	byTotal := ComputeParticipation(2025, time.August, bookings, members, SortByTotalBookings, SortDesc)
	assert.Equal(t, []string{"bravo", "Delta", "charlie", "Alpha"}, names(byTotal))
}

func TestComputeParticipationEmpty(t *testing.T) {
	stats := ComputeParticipation(2025, time.August, nil, nil, SortByName, SortAsc)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestParseSort(t *testing.T) {
	field, err := ParseSortField("")
	require.NoError(t, err)
	assert.Equal(t, SortByParticipationRate, field)

	field, err = ParseSortField("totalBookings")
	require.NoError(t, err)
	assert.Equal(t, SortByTotalBookings, field)

	_, err = ParseSortField("age")
	assert.ErrorIs(t, err, model.ErrValidation)

	order, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, order)

	order, err = ParseSortOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, order)

	_, err = ParseSortOrder("sideways")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestParticipationServiceMonthly(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, NewMemberService(store, zap.NewNop()).Seed(ctx, DefaultMembers[:3]))

	members, err := store.ListMembers(ctx)
	require.NoError(t, err)

	booking := NewBookingService(store, store, nil, zap.NewNop())
	for i, date := range []string{"2025-08-01", "2025-08-04", "2025-08-05"} {
		_, err := booking.BookSlot(ctx, BookRequest{MemberID: members[1].ID, MemberName: members[1].Name, Date: date})
		require.NoError(t, err, fmt.Sprint(i))
	}

	svc := NewParticipationService(store, store)
	stats, err := svc.Monthly(ctx, 2025, time.August, SortByParticipationRate, SortDesc)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, members[1].Name, stats[0].Member.Name)
	assert.Equal(t, 3, stats[0].TotalBookings)
	assert.Equal(t, 14, stats[0].ParticipationRate)
	assert.Equal(t, model.MemberStatusLow, stats[0].Status)

	_, err = svc.Monthly(ctx, 2025, 13, SortByName, SortAsc)
	assert.ErrorIs(t, err, model.ErrValidation)
}
