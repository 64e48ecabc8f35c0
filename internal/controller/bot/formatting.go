package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/slot_board/internal/calendar"
	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/service"
)

// FormatActivity текст уведомления: "Ashish booked a slot for Mon, Aug 18"
func FormatActivity(activity *model.Activity) string {
	return fmt.Sprintf("%s %s %s", activity.MemberName, activity.Action, dayLabel(activity.Date))
}

// FormatWindow текстовая занятость обеих недель окна
func FormatWindow(overview *service.WindowOverview) string {
	var sb strings.Builder
	sb.WriteString("📅 Booking window, " + overview.SlotTime + "\n")

	for i, week := range [][]*service.DayOverview{overview.Week1, overview.Week2} {
		sb.WriteString(fmt.Sprintf("\nWeek %d\n", i+1))
		for _, day := range week {
			sb.WriteString(formatDay(day, overview.Capacity))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func formatDay(day *service.DayOverview, capacity int) string {
	marker := "🟢"
	switch {
	case day.IsFull:
		marker = "🔴"
	case day.IsPast:
		marker = "⚪"
	}

	line := fmt.Sprintf("%s %s: %d/%d", marker, day.Label, day.Booked, capacity)
	if day.IsToday {
		line += " (today)"
	}

	if len(day.Bookings) > 0 {
		names := make([]string, 0, len(day.Bookings))
		for _, b := range day.Bookings {
			names = append(names, b.MemberName)
		}
		line += " - " + strings.Join(names, ", ")
	}

	if day.Comments > 0 {
		line += fmt.Sprintf(" 💬%d", day.Comments)
	}
	return line
}

// FormatStats таблица участия за месяц
func FormatStats(year int, month time.Month, stats []*model.MemberStats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Participation, %s %d\n", month, year))
	sb.WriteString(fmt.Sprintf("Weekdays: %d\n\n", calendar.WeekdaysInMonth(year, month)))

	if len(stats) == 0 {
		sb.WriteString("No members yet.")
		return sb.String()
	}

	for i, st := range stats {
		sb.WriteString(fmt.Sprintf("%d. %s: %d%% (%s) %s\n",
			i+1,
			st.Member.Name,
			st.ParticipationRate,
			pluralBookings(st.TotalBookings),
			st.Status,
		))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatActivities последние записи ленты, время в часовом поясе loc
func FormatActivities(activities []*model.Activity, loc *time.Location) string {
	if len(activities) == 0 {
		return "📝 No activity yet."
	}

	var sb strings.Builder
	sb.WriteString("📝 Recent activity\n\n")
	for _, a := range activities {
		icon := "✅"
		if a.Action == model.ActivityActionCancelled {
			icon = "❌"
		}
		sb.WriteString(fmt.Sprintf("%s %s · %s\n", icon, FormatActivity(a), a.CreatedAt.In(loc).Format("Jan 2 15:04")))
		if a.DeviceInfo != "" {
			sb.WriteString("    " + a.DeviceInfo + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func dayLabel(date string) string {
	t, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	return calendar.FormatDayLabel(t)
}

func pluralBookings(n int) string {
	if n == 1 {
		return "1 booking"
	}
	return fmt.Sprintf("%d bookings", n)
}
