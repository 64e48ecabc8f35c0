package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/slot_board/internal/calendar"
	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/render"
	"github.com/Freeeeeet/slot_board/internal/service"
)

func main() {
	output := "window.png"
	if len(os.Args) > 1 {
		output = os.Args[1]
	}

	now := time.Now()
	window := calendar.NewWindow(now)
	dates := window.Dates()

	// Тестовые брони: первый день заполнен, дальше по убыванию
	var bookings []*model.Booking
	for i, d := range dates {
		count := model.MaxSlotsPerDay - i
		for j := 0; j < count && j < len(service.DefaultMembers); j++ {
			bookings = append(bookings, &model.Booking{
				ID:         fmt.Sprintf("demo-%d-%d", i, j),
				MemberID:   fmt.Sprintf("member-%d", j),
				MemberName: service.DefaultMembers[j].Name,
				Date:       calendar.FormatDate(d),
				CreatedAt:  now,
			})
		}
	}

	comments := []*model.Comment{
		{ID: "demo-comment", MemberName: service.DefaultMembers[0].Name, Date: calendar.FormatDate(dates[len(dates)-1]), Comment: "Working from home", CreatedAt: now},
	}

	overview := service.BuildOverview(now, bookings, comments)

	imageData, err := render.WindowImage(overview, now)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(output, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение сохранено в %s (%d байт)\n", output, len(imageData))
}
