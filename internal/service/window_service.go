package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_board/internal/calendar"
	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository"
)

// DayOverview состояние одного дня окна
type DayOverview struct {
	Date     string           `json:"date"`
	Weekday  string           `json:"weekday"`
	Label    string           `json:"label"`
	Bookings []*model.Booking `json:"bookings"`
	Booked   int              `json:"booked"`
	Free     int              `json:"free"`
	IsFull   bool             `json:"isFull"`
	IsToday  bool             `json:"isToday"`
	IsPast   bool             `json:"isPast"` // запись закрыта на уровне интерфейса, отмена разрешена
	Comments int              `json:"comments"`
}

// WindowOverview две недели окна записи
type WindowOverview struct {
	Week1    []*DayOverview `json:"week1"`
	Week2    []*DayOverview `json:"week2"`
	SlotTime string         `json:"slotTime"`
	Capacity int            `json:"capacity"`
}

// Days все дни окна по порядку
func (o *WindowOverview) Days() []*DayOverview {
	days := make([]*DayOverview, 0, len(o.Week1)+len(o.Week2))
	days = append(days, o.Week1...)
	return append(days, o.Week2...)
}

type WindowService struct {
	bookings repository.BookingStore
	comments repository.CommentStore
}

func NewWindowService(bookings repository.BookingStore, comments repository.CommentStore) *WindowService {
	return &WindowService{
		bookings: bookings,
		comments: comments,
	}
}

// Overview собирает окно для момента now: брони, свободные места и число комментариев по дням
func (s *WindowService) Overview(ctx context.Context, now time.Time) (*WindowOverview, error) {
	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListComments(ctx)
	if err != nil {
		return nil, err
	}

	return BuildOverview(now, bookings, comments), nil
}

// BuildOverview раскладывает брони и комментарии по дням окна
func BuildOverview(now time.Time, bookings []*model.Booking, comments []*model.Comment) *WindowOverview {
	byDate := make(map[string][]*model.Booking)
	for _, b := range bookings {
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	commentCount := make(map[string]int)
	for _, c := range comments {
		commentCount[c.Date]++
	}

	today := calendar.FormatDate(now)
	window := calendar.NewWindow(now)

	build := func(dates []time.Time) []*DayOverview {
		days := make([]*DayOverview, 0, len(dates))
		for _, d := range dates {
			date := calendar.FormatDate(d)
			dayBookings := byDate[date]
			if dayBookings == nil {
				dayBookings = []*model.Booking{}
			}
			booked := len(dayBookings)

			days = append(days, &DayOverview{
				Date:     date,
				Weekday:  calendar.WeekdayShort(d),
				Label:    calendar.FormatDayLabel(d),
				Bookings: dayBookings,
				Booked:   booked,
				Free:     max(model.MaxSlotsPerDay-booked, 0),
				IsFull:   booked >= model.MaxSlotsPerDay,
				IsToday:  date == today,
				IsPast:   date < today,
				Comments: commentCount[date],
			})
		}
		return days
	}

	return &WindowOverview{
		Week1:    build(window.Week1),
		Week2:    build(window.Week2),
		SlotTime: model.SlotTime,
		Capacity: model.MaxSlotsPerDay,
	}
}
