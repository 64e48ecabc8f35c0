// Package calendar считает даты окна записи и рабочие дни месяца.
package calendar

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/slot_board/internal/model"
)

const DateLayout = "2006-01-02"

// DaysPerWeek количество рабочих дней в неделе окна
const DaysPerWeek = 5

// Window окно записи: текущая неделя и следующая, только будни
type Window struct {
	Week1 []time.Time
	Week2 []time.Time
}

// NewWindow строит окно от понедельника недели, в которую попадает now.
// Прошедшие дни текущей недели тоже входят в окно.
func NewWindow(now time.Time) Window {
	monday := StartOfWeek(now)

	days := make([]time.Time, 0, DaysPerWeek*model.BookingWindowWeeks)
	for i := 0; i < 7*model.BookingWindowWeeks; i++ {
		day := monday.AddDate(0, 0, i)
		if IsWeekday(day) {
			days = append(days, day)
		}
	}

	return Window{
		Week1: days[:DaysPerWeek],
		Week2: days[DaysPerWeek:],
	}
}

// Dates возвращает все 10 дат окна по порядку
func (w Window) Dates() []time.Time {
	out := make([]time.Time, 0, len(w.Week1)+len(w.Week2))
	out = append(out, w.Week1...)
	return append(out, w.Week2...)
}

// Weeks возвращает недели окна
func (w Window) Weeks() [][]time.Time {
	return [][]time.Time{w.Week1, w.Week2}
}

// Contains проверяет, входит ли дата YYYY-MM-DD в окно
func (w Window) Contains(date string) bool {
	for _, d := range w.Dates() {
		if FormatDate(d) == date {
			return true
		}
	}
	return false
}

// StartOfDay нормализует время к началу дня
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek возвращает понедельник недели (Пн-Вс)
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)

	daysSinceMonday := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	return day.AddDate(0, 0, -daysSinceMonday)
}

// IsWeekday true для понедельника-пятницы
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// ParseDate разбирает строгий формат YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format: %q", s)
	}
	return t, nil
}

// FormatDate форматирует дату в YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthBounds возвращает первый и последний день месяца
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// WeekdaysInMonth считает будни месяца включительно
func WeekdaysInMonth(year int, month time.Month) int {
	start, end := MonthBounds(year, month)

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWeekday(d) {
			count++
		}
	}
	return count
}

// InMonth проверяет, что дата YYYY-MM-DD попадает в месяц
func InMonth(date string, year int, month time.Month) bool {
	t, err := ParseDate(date)
	if err != nil {
		return false
	}
	return t.Year() == year && t.Month() == month
}

// FormatDayLabel форматирует дату как "Mon, Aug 18"
func FormatDayLabel(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// WeekdayShort короткое название дня недели
func WeekdayShort(t time.Time) string {
	return t.Format("Mon")
}
