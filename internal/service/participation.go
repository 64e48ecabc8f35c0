package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/slot_board/internal/calendar"
	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository"
)

// SortField поле сортировки статистики
type SortField string

const (
	SortByName              SortField = "name"
	SortByParticipationRate SortField = "participationRate"
	SortByTotalBookings     SortField = "totalBookings"
)

// SortOrder направление сортировки
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Пороги уровней участия, нижняя граница включительно
const (
	HighParticipationRate   = 50
	MediumParticipationRate = 25
)

// ParseSortField пустая строка даёт сортировку по проценту участия
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case "":
		return SortByParticipationRate, nil
	case SortByName, SortByParticipationRate, SortByTotalBookings:
		return SortField(s), nil
	default:
		return "", model.Validationf("Unknown sort field %q", s)
	}
}

// ParseSortOrder пустая строка даёт убывание
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case "":
		return SortDesc, nil
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	default:
		return "", model.Validationf("Unknown sort order %q", s)
	}
}

// ParticipationRate процент будних дней месяца с записью, округление половины вверх
func ParticipationRate(totalBookings, weekdays int) int {
	if weekdays <= 0 {
		return 0
	}
	return (totalBookings*200 + weekdays) / (weekdays * 2)
}

// StatusForRate уровень участия по проценту
func StatusForRate(rate int) model.MemberStatus {
	switch {
	case rate >= HighParticipationRate:
		return model.MemberStatusHigh
	case rate >= MediumParticipationRate:
		return model.MemberStatusMedium
	default:
		return model.MemberStatusLow
	}
}

// ComputeParticipation считает статистику участников за месяц.
// Порядок при равенстве ключа совпадает с порядком members.
func ComputeParticipation(
	year int,
	month time.Month,
	bookings []*model.Booking,
	members []*model.Member,
	field SortField,
	order SortOrder,
) []*model.MemberStats {
	weekdays := calendar.WeekdaysInMonth(year, month)

	counts := make(map[string]int, len(members))
	for _, b := range bookings {
		if calendar.InMonth(b.Date, year, month) {
			counts[b.MemberID]++
		}
	}

	stats := make([]*model.MemberStats, 0, len(members))
	for _, m := range members {
		total := counts[m.ID]
		rate := ParticipationRate(total, weekdays)
		stats = append(stats, &model.MemberStats{
			Member:            m,
			TotalBookings:     total,
			ParticipationRate: rate,
			Status:            StatusForRate(rate),
		})
	}

	sortStats(stats, field, order)
	return stats
}

func sortStats(stats []*model.MemberStats, field SortField, order SortOrder) {
	compare := func(a, b *model.MemberStats) int {
		switch field {
		case SortByName:
			return strings.Compare(strings.ToLower(a.Member.Name), strings.ToLower(b.Member.Name))
		case SortByTotalBookings:
			return a.TotalBookings - b.TotalBookings
		default:
			return a.ParticipationRate - b.ParticipationRate
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		c := compare(stats[i], stats[j])
		if order == SortAsc {
			return c < 0
		}
		return c > 0
	})
}

// ParticipationService статистика участия, без кеширования
type ParticipationService struct {
	members  repository.MemberStore
	bookings repository.BookingStore
}

func NewParticipationService(members repository.MemberStore, bookings repository.BookingStore) *ParticipationService {
	return &ParticipationService{
		members:  members,
		bookings: bookings,
	}
}

// Monthly загружает участников и брони и считает статистику за месяц
func (s *ParticipationService) Monthly(ctx context.Context, year int, month time.Month, field SortField, order SortOrder) ([]*model.MemberStats, error) {
	if month < time.January || month > time.December {
		return nil, model.Validationf("Month must be between 1 and 12")
	}

	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	return ComputeParticipation(year, month, bookings, members, field, order), nil
}
