package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowImage(t *testing.T) {
	now := time.Date(2025, time.August, 20, 9, 0, 0, 0, time.UTC)
	bookings := []*model.Booking{
		{ID: "1", MemberID: "a", MemberName: "Ashish", Date: "2025-08-20"},
		{ID: "2", MemberID: "g", MemberName: "Gagan", Date: "2025-08-20"},
	}
	for i := 0; i < model.MaxSlotsPerDay; i++ {
		bookings = append(bookings, &model.Booking{ID: string(rune('x' + i)), MemberID: string(rune('x' + i)), MemberName: "Member", Date: "2025-08-26"})
	}
	comments := []*model.Comment{{ID: "c", Date: "2025-08-20", Comment: "hi"}}

	overview := service.BuildOverview(now, bookings, comments)

	data, err := WindowImage(overview, now)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestWindowImageNilOverview(t *testing.T) {
	_, err := WindowImage(nil, time.Now())
	assert.Error(t, err)
}

func TestWindowImageEmptyWeeks(t *testing.T) {
	data, err := WindowImage(&service.WindowOverview{SlotTime: model.SlotTime, Capacity: model.MaxSlotsPerDay}, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
