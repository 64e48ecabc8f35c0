// Package render рисует окно записи в PNG.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/slot_board/internal/calendar"
	"github.com/Freeeeeet/slot_board/internal/service"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleRegular FontStyle = ""
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth    = 1400
	imageHeight   = 900
	headerHeight  = 110
	weekLabelW    = 90
	cardPadding   = 12
	cardRadius    = 10.0
	shadowOffset  = 3.0
	barHeight     = 10.0
	nameRowHeight = 26.0
)

// Константы шрифтов
const (
	titleFontSize    = 30.0
	subtitleFontSize = 18.0
	dayFontSize      = 22.0
	countFontSize    = 20.0
	nameFontSize     = 17.0
	weekFontSize     = 18.0
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 230}
	mutedTextColor = color.RGBA{130, 135, 140, 220}
	cardColor      = color.RGBA{255, 255, 255, 255}
	pastCardColor  = color.RGBA{235, 236, 238, 255}
	todayCardColor = color.NRGBA{255, 99, 71, 60}
	fullCardColor  = color.RGBA{255, 228, 230, 255}
	shadowColor    = color.RGBA{0, 0, 0, 20}
	borderColor    = color.RGBA{210, 212, 216, 255}
	todayBorder    = color.RGBA{255, 99, 71, 255}

	barBgColor   = color.RGBA{225, 228, 232, 255}
	barFreeColor = color.RGBA{133, 193, 85, 230}
	barFullColor = color.RGBA{220, 80, 90, 230}
	nameColor    = color.RGBA{20, 24, 28, 230}
)

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont ставит шрифт Go нужного стиля или basicfont как fallback
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsMu.Lock()
	parsed, ok := cachedFonts[style]
	if !ok {
		data := goregular.TTF
		if style == FontStyleBold {
			data = gobold.TTF
		}

		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			parsed = nil
		}
		cachedFonts[style] = parsed
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// WindowImage рисует две недели окна сеткой 2x5 и возвращает PNG
func WindowImage(overview *service.WindowOverview, now time.Time) ([]byte, error) {
	if overview == nil {
		return nil, fmt.Errorf("render window: nil overview")
	}

	dc := createCanvas()
	drawHeader(dc, overview, now)

	weeks := [][]*service.DayOverview{overview.Week1, overview.Week2}
	rowHeight := float64(imageHeight-headerHeight) / float64(len(weeks))
	cardWidth := float64(imageWidth-weekLabelW) / float64(calendar.DaysPerWeek)

	for row, days := range weeks {
		y := float64(headerHeight) + float64(row)*rowHeight
		drawWeekLabel(dc, row, y, rowHeight)

		for col, day := range days {
			x := float64(weekLabelW) + float64(col)*cardWidth
			drawDayCard(dc, day, overview.Capacity, x, y, cardWidth, rowHeight)
		}
	}

	return encodeImage(dc)
}

func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader заголовок с диапазоном дат и временем слота
func drawHeader(dc *gg.Context, overview *service.WindowOverview, now time.Time) {
	days := overview.Days()

	title := "Slot board"
	if len(days) > 0 {
		first, _ := calendar.ParseDate(days[0].Date)
		last, _ := calendar.ParseDate(days[len(days)-1].Date)
		title = fmt.Sprintf("%s - %s", first.Format("Jan 2"), last.Format("Jan 2, 2006"))
	}

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, imageWidth/2, float64(headerHeight)/3, 0.5, 0.5)

	loadFont(dc, subtitleFontSize, FontStyleRegular)
	dc.SetColor(mutedTextColor)
	subtitle := fmt.Sprintf("%s  ·  %d slots per day  ·  updated %s",
		overview.SlotTime, overview.Capacity, now.Format("Mon 15:04"))
	dc.DrawStringAnchored(subtitle, imageWidth/2, float64(headerHeight)*2/3, 0.5, 0.5)
}

func drawWeekLabel(dc *gg.Context, row int, y, rowHeight float64) {
	loadFont(dc, weekFontSize, FontStyleBold)
	dc.SetColor(mutedTextColor)
	dc.DrawStringAnchored(fmt.Sprintf("Week %d", row+1), float64(weekLabelW)/2, y+rowHeight/2, 0.5, 0.5)
}

// drawDayCard карточка дня: дата, занятость, полоса заполнения и имена
func drawDayCard(dc *gg.Context, day *service.DayOverview, capacity int, x, y, w, h float64) {
	cx := x + cardPadding
	cy := y + cardPadding
	cw := w - 2*cardPadding
	ch := h - 2*cardPadding

	dc.SetColor(shadowColor)
	dc.DrawRoundedRectangle(cx+shadowOffset, cy+shadowOffset, cw, ch, cardRadius)
	dc.Fill()

	dc.SetColor(cardFill(day))
	dc.DrawRoundedRectangle(cx, cy, cw, ch, cardRadius)
	dc.Fill()

	if day.IsToday {
		dc.SetColor(todayBorder)
		dc.SetLineWidth(3)
	} else {
		dc.SetColor(borderColor)
		dc.SetLineWidth(1)
	}
	dc.DrawRoundedRectangle(cx, cy, cw, ch, cardRadius)
	dc.Stroke()

	textX := cx + 14
	lineY := cy + 30

	date, _ := calendar.ParseDate(day.Date)
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(calendar.FormatDayLabel(date), textX, lineY, 0, 0)

	loadFont(dc, countFontSize, FontStyleRegular)
	dc.DrawStringAnchored(fmt.Sprintf("%d/%d", day.Booked, capacity), cx+cw-14, lineY, 1, 0)

	lineY += 16
	drawOccupancyBar(dc, day, capacity, textX, lineY, cw-28)

	lineY += barHeight + 28
	loadFont(dc, nameFontSize, FontStyleRegular)
	dc.SetColor(nameColor)
	for _, b := range day.Bookings {
		if lineY > cy+ch-nameRowHeight {
			break
		}
		dc.DrawStringAnchored("• "+b.MemberName, textX, lineY, 0, 0)
		lineY += nameRowHeight
	}

	if day.Comments > 0 {
		dc.SetColor(mutedTextColor)
		dc.DrawStringAnchored(fmt.Sprintf("%d comment(s)", day.Comments), textX, cy+ch-12, 0, 0)
	}
}

func drawOccupancyBar(dc *gg.Context, day *service.DayOverview, capacity int, x, y, w float64) {
	dc.SetColor(barBgColor)
	dc.DrawRoundedRectangle(x, y, w, barHeight, barHeight/2)
	dc.Fill()

	if capacity <= 0 || day.Booked == 0 {
		return
	}

	filled := w * float64(min(day.Booked, capacity)) / float64(capacity)
	if day.IsFull {
		dc.SetColor(barFullColor)
	} else {
		dc.SetColor(barFreeColor)
	}
	dc.DrawRoundedRectangle(x, y, filled, barHeight, barHeight/2)
	dc.Fill()
}

func cardFill(day *service.DayOverview) color.Color {
	switch {
	case day.IsToday:
		return todayCardColor
	case day.IsFull:
		return fullCardColor
	case day.IsPast:
		return pastCardColor
	default:
		return cardColor
	}
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
