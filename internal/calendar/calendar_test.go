package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dates(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, FormatDate(d))
	}
	return out
}

func TestNewWindowMidWeek(t *testing.T) {
	now := time.Date(2025, time.August, 20, 15, 4, 0, 0, time.UTC) // среда

	w := NewWindow(now)

	assert.Equal(t, []string{"2025-08-18", "2025-08-19", "2025-08-20", "2025-08-21", "2025-08-22"}, dates(w.Week1))
	assert.Equal(t, []string{"2025-08-25", "2025-08-26", "2025-08-27", "2025-08-28", "2025-08-29"}, dates(w.Week2))
	assert.Len(t, w.Dates(), 10)
}

func TestNewWindowAnchors(t *testing.T) {
	cases := []struct {
		name  string
		now   time.Time
		first string
		last  string
	}{
		{"monday", time.Date(2025, time.August, 18, 0, 0, 0, 0, time.UTC), "2025-08-18", "2025-08-29"},
		{"friday late", time.Date(2025, time.August, 22, 23, 59, 0, 0, time.UTC), "2025-08-18", "2025-08-29"},
		{"saturday", time.Date(2025, time.August, 23, 9, 0, 0, 0, time.UTC), "2025-08-18", "2025-08-29"},
		{"sunday belongs to previous week", time.Date(2025, time.August, 24, 9, 0, 0, 0, time.UTC), "2025-08-18", "2025-08-29"},
		{"month boundary", time.Date(2025, time.December, 31, 9, 0, 0, 0, time.UTC), "2025-12-29", "2026-01-09"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			all := dates(NewWindow(tc.now).Dates())
			require.Len(t, all, 10)
			assert.Equal(t, tc.first, all[0])
			assert.Equal(t, tc.last, all[9])
			for _, d := range NewWindow(tc.now).Dates() {
				assert.True(t, IsWeekday(d), d)
			}
		})
	}
}

func TestNewWindowIsPure(t *testing.T) {
	now := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, dates(NewWindow(now).Dates()), dates(NewWindow(now).Dates()))
}

func TestWindowContains(t *testing.T) {
	w := NewWindow(time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC))

	assert.True(t, w.Contains("2025-08-18"))
	assert.True(t, w.Contains("2025-08-29"))
	assert.False(t, w.Contains("2025-08-23"))
	assert.False(t, w.Contains("2025-09-01"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-08-20")
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, d.Weekday())

	for _, bad := range []string{"", "2025-8-20", "20-08-2025", "2025-02-30", "2025-08-20T00:00:00Z"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestWeekdaysInMonth(t *testing.T) {
	assert.Equal(t, 21, WeekdaysInMonth(2025, time.August))
	assert.Equal(t, 20, WeekdaysInMonth(2025, time.February))
	assert.Equal(t, 23, WeekdaysInMonth(2025, time.October))
	assert.Equal(t, 21, WeekdaysInMonth(2024, time.February)) // високосный год
}

func TestInMonth(t *testing.T) {
	assert.True(t, InMonth("2025-08-01", 2025, time.August))
	assert.True(t, InMonth("2025-08-31", 2025, time.August))
	assert.False(t, InMonth("2025-09-01", 2025, time.August))
	assert.False(t, InMonth("2024-08-15", 2025, time.August))
	assert.False(t, InMonth("garbage", 2025, time.August))
}

func TestFormatDayLabel(t *testing.T) {
	assert.Equal(t, "Mon, Aug 18", FormatDayLabel(time.Date(2025, time.August, 18, 0, 0, 0, 0, time.UTC)))
}
