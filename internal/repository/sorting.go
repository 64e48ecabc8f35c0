package repository

import (
	"sort"

	"github.com/Freeeeeet/slot_board/internal/model"
)

// SortBookings сортирует по дате, затем по времени создания
func SortBookings(bookings []*model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if bookings[i].Date != bookings[j].Date {
			return bookings[i].Date < bookings[j].Date
		}
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
}

// SortActivities новые сверху
func SortActivities(activities []*model.Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
}

// SortComments новые сверху
func SortComments(comments []*model.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}
