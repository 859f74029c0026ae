package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/clock"
	"github.com/Freeeeeet/practice_calendar/internal/formatting"
	"github.com/Freeeeeet/practice_calendar/internal/model"
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
	FontStyleDefault FontStyle = ""
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов. Высота сетки совпадает с calendar.DayHeight,
// поэтому координата y блока равна calendar.TimeToPixel.
const (
	HeaderHeight     = 70
	LeftLabelsWidth  = 60
	DayWidth         = 160
	legendWidth      = 150
	totalDaysInWeek  = 7
	dayPaddingX      = 6
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 2.0

	ImageWidth  = LeftLabelsWidth + totalDaysInWeek*DayWidth + legendWidth
	ImageHeight = HeaderHeight + int(calendar.DayHeight)
)

// Константы шрифтов
const (
	titleFontSize      = 22.0
	dayFontSize        = 18.0
	hourLabelFontSize  = 13.0
	slotTimeFontSize   = 13.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 255}
	hourLabelColor   = color.RGBA{110, 115, 120, 255}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	halfHourColor    = color.NRGBA{200, 200, 200, 255}
	todayBgColor     = color.NRGBA{255, 228, 220, 255}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{228, 228, 228, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	scheduledColor   = color.RGBA{147, 197, 253, 255}
	completedColor   = color.RGBA{167, 220, 160, 255}
	cancelledColor   = color.RGBA{190, 190, 190, 255}
	availableColor   = color.RGBA{220, 245, 220, 255}
	paidColor        = color.RGBA{253, 224, 130, 255}
	defaultSlotColor = color.RGBA{220, 220, 220, 255}
	slotTextColor    = color.RGBA{20, 24, 28, 255}
	slotShadowColor  = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 255}
)

// Цвета предпросмотра: создание - индиго, перенос - синий, растягивание - зелёный
var previewColors = map[string]color.NRGBA{
	"indigo": {99, 102, 241, 110},
	"blue":   {59, 130, 246, 110},
	"green":  {34, 197, 94, 110},
}

// now подменяется в тестах
var now = time.Now

var (
	fontsOnce   sync.Once
	parsedFonts map[FontStyle]*opentype.Font
)

func parseFonts() {
	parsedFonts = make(map[FontStyle]*opentype.Font)
	for style, data := range map[FontStyle][]byte{
		FontStyleDefault: goregular.TTF,
		FontStyleBold:    gobold.TTF,
	} {
		if f, err := opentype.Parse(data); err == nil {
			parsedFonts[style] = f
		}
	}
}

// loadFont выставляет шрифт указанного стиля или basicfont как fallback
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsOnce.Do(parseFonts)

	if f, ok := parsedFonts[style]; ok {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
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

// WeekLayout - раскладка колонок, совпадающая с картинкой GenerateWeekImage.
// Координата y указателя считается от верха сетки (без заголовка).
func WeekLayout(weekStart time.Time) *calendar.ColumnLayout {
	return calendar.NewWeekLayout(formatting.WeekStart(weekStart), LeftLabelsWidth, DayWidth)
}

// GenerateWeekImage рисует неделю с сессиями и прямоугольником предпросмотра жеста
func GenerateWeekImage(weekStart time.Time, sessions []model.Session, preview *calendar.PreviewRect) ([]byte, error) {
	start := formatting.WeekStart(weekStart)
	today := normalizeToDay(now().In(start.Location()))
	byDay := groupSessionsByDay(sessions)

	dc := createCanvas()
	drawHeader(dc, start)
	drawHourLabels(dc)

	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		date := start.AddDate(0, 0, dayIndex)
		x := float64(LeftLabelsWidth + dayIndex*DayWidth)
		isToday := date.Equal(today)

		drawDayBackground(dc, x, dayIndex, isToday)
		drawDayHeader(dc, date, x)
		drawHourLines(dc, x)
		for _, s := range byDay[date.Format("2006-01-02")] {
			drawSession(dc, s, x)
		}
		if isToday {
			drawCurrentTimeLine(dc, x)
		}
	}

	if preview != nil {
		drawPreview(dc, start, preview)
	}
	drawLegend(dc)

	return encodeImage(dc)
}

func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// groupSessionsByDay группирует сессии по дате
func groupSessionsByDay(sessions []model.Session) map[string][]model.Session {
	byDay := make(map[string][]model.Session)
	for _, s := range sessions {
		byDay[s.Date] = append(byDay[s.Date], s)
	}
	return byDay
}

func createCanvas() *gg.Context {
	dc := gg.NewContext(ImageWidth, ImageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует диапазон недели
func drawHeader(dc *gg.Context, weekStart time.Time) {
	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(formatting.FormatWeekRange(weekStart), 12, 22, 0, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context) {
	loadFont(dc, hourLabelFontSize, FontStyleDefault)
	dc.SetColor(hourLabelColor)

	for h := 0; h < 24; h++ {
		y := float64(HeaderHeight) + float64(h)*calendar.PixelsPerHour
		label := clock.Format(h * 60)
		dc.DrawStringAnchored(label, float64(LeftLabelsWidth)-8, y, 1, 1)
	}
}

func drawDayBackground(dc *gg.Context, x float64, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, HeaderHeight, DayWidth, calendar.DayHeight)
	dc.Fill()
}

// drawDayHeader рисует день недели и дату над колонкой
func drawDayHeader(dc *gg.Context, date time.Time, x float64) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(formatting.FormatDayHeader(date), x+DayWidth/2, HeaderHeight-14, 0.5, 0)
}

// drawHourLines рисует линии часов и получасов
func drawHourLines(dc *gg.Context, x float64) {
	for h := 0; h <= 24; h++ {
		y := float64(HeaderHeight) + float64(h)*calendar.PixelsPerHour
		dc.SetLineWidth(0.5)
		dc.SetColor(hourLineColor)
		dc.DrawLine(x, y, x+DayWidth, y)
		dc.Stroke()

		if h < 24 {
			dc.SetLineWidth(0.3)
			dc.SetColor(halfHourColor)
			dc.DrawLine(x, y+calendar.PixelsPerHour/2, x+DayWidth, y+calendar.PixelsPerHour/2)
			dc.Stroke()
		}
	}
}

// blockRect возвращает вертикальные границы блока сессии в координатах картинки
func blockRect(s model.Session) (top, height float64) {
	startMin, err := clock.Parse(s.StartTime)
	if err != nil {
		startMin = 0
	}
	endMin := calendar.DisplayEndMinutes(s.StartTime, s.EndTime)

	top = float64(HeaderHeight) + float64(startMin)*calendar.PixelsPerMinute
	height = float64(endMin-startMin) * calendar.PixelsPerMinute
	if height < minSlotHeight {
		height = minSlotHeight
	}
	return top, height
}

// drawSession рисует блок одной сессии
func drawSession(dc *gg.Context, s model.Session, x float64) {
	top, height := blockRect(s)
	fill := statusColor(s.Status)
	width := float64(DayWidth - dayPaddingX*2)
	left := x + dayPaddingX

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(left+shadowOffset, top+1+shadowOffset, width, height-2, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(left, top+1, width, height-2, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.75))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(left, top+1, width, height-2, slotBorderRadius)
	dc.Stroke()

	if height < 16 {
		return
	}

	loadFont(dc, slotTimeFontSize, FontStyleBold)
	dc.SetColor(slotTextColor)
	txtX := left + 6
	dc.DrawStringAnchored(formatting.FormatTimeRange(s.StartTime, s.EndTime), txtX, top+4, 0, 1)

	if height > 32 {
		loadFont(dc, slotTimeFontSize-1, FontStyleDefault)
		dc.DrawStringAnchored(truncate(formatting.SessionTitle(s), 20), txtX, top+20, 0, 1)
	}
}

// drawPreview накладывает полупрозрачный прямоугольник активного жеста
func drawPreview(dc *gg.Context, weekStart time.Time, p *calendar.PreviewRect) {
	column, ok := WeekLayout(weekStart).ColumnX(p.Date)
	if !ok {
		return
	}

	clr, ok := previewColors[p.Kind.ColorName()]
	if !ok {
		return
	}

	x := column + dayPaddingX
	y := float64(HeaderHeight) + p.Top
	w := float64(DayWidth - dayPaddingX*2)

	dc.SetColor(clr)
	dc.DrawRoundedRectangle(x, y, w, p.Height, slotBorderRadius)
	dc.Fill()

	border := clr
	border.A = 255
	dc.SetColor(border)
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle(x, y, w, p.Height, slotBorderRadius)
	dc.Stroke()
}

// statusColor возвращает цвет блока по статусу сессии
func statusColor(status model.SessionStatus) color.RGBA {
	switch status {
	case model.SessionStatusScheduled:
		return scheduledColor
	case model.SessionStatusCompleted:
		return completedColor
	case model.SessionStatusCancelled:
		return cancelledColor
	case model.SessionStatusAvailable:
		return availableColor
	case model.SessionStatusPaid:
		return paidColor
	default:
		return defaultSlotColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени в колонке сегодняшнего дня
func drawCurrentTimeLine(dc *gg.Context, x float64) {
	t := now()
	y := float64(HeaderHeight) + float64(t.Hour()*60+t.Minute())*calendar.PixelsPerMinute
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(x, y, x+DayWidth, y)
	dc.Stroke()
}

// drawLegend рисует легенду статусов справа
func drawLegend(dc *gg.Context) {
	liX := float64(LeftLabelsWidth+totalDaysInWeek*DayWidth) + 12
	liY := float64(HeaderHeight) + 10
	boxW, boxH := 20.0, 14.0

	for _, status := range []model.SessionStatus{
		model.SessionStatusScheduled,
		model.SessionStatusCompleted,
		model.SessionStatusPaid,
		model.SessionStatusCancelled,
		model.SessionStatusAvailable,
	} {
		dc.SetColor(statusColor(status))
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize, FontStyleDefault)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(formatting.GetStatusDisplay(status).Text, liX+boxW+8, liY+boxH/2, 0, 0.35)
		liY += boxH + 14
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
