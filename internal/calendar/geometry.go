package calendar

import (
	"fmt"
	"math"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/clock"
)

// Масштаб сетки: 48 пикселей на час
const (
	PixelsPerHour      = 48
	PixelsPerMinute    = float64(PixelsPerHour) / 60
	SnapMinutes        = 15
	MinDurationMinutes = 15
	MinutesPerDay      = clock.MinutesPerDay
	DayHeight          = float64(24 * PixelsPerHour)

	// lastSnapMinutes - последнее начало, после которого ещё помещается минимальная сессия
	lastSnapMinutes = MinutesPerDay - SnapMinutes
)

const dateLayout = "2006-01-02"

// PixelToTime переводит вертикальное смещение в колонке дня во время,
// округляя вниз до 15 минут
func PixelToTime(y float64) string {
	totalMinutes := int(math.Floor(y / PixelsPerHour * 60))
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	hours := totalMinutes / 60
	minutes := (totalMinutes % 60) / SnapMinutes * SnapMinutes
	return clock.Format(hours*60 + minutes)
}

// TimeToPixel переводит время в вертикальное смещение. Невалидное время даёт 0.
func TimeToPixel(at string) float64 {
	minutes, err := clock.Parse(at)
	if err != nil {
		return 0
	}
	return float64(minutes) / 60 * PixelsPerHour
}

// MinutesBetween возвращает разницу end-start в минутах без перехода через полночь.
// Невалидное время даёт 0.
func MinutesBetween(start, end string) int {
	s, err := clock.Parse(start)
	if err != nil {
		return 0
	}
	e, err := clock.Parse(end)
	if err != nil {
		return 0
	}
	return e - s
}

// DurationMinutes возвращает длительность в минутах; если конец раньше начала,
// считается что сессия переходит через полночь. Невалидное время даёт 0.
func DurationMinutes(start, end string) int {
	s, err := clock.Parse(start)
	if err != nil {
		return 0
	}
	e, err := clock.Parse(end)
	if err != nil {
		return 0
	}
	return clock.SpanMinutes(s, e)
}

// DurationHours - то же в часах
func DurationHours(start, end string) float64 {
	return float64(DurationMinutes(start, end)) / 60
}

// DisplayEndMinutes возвращает конец блока для отрисовки: сессия с концом раньше
// начала рисуется до 24:00
func DisplayEndMinutes(start, end string) int {
	s, _ := clock.Parse(start)
	e, err := clock.Parse(end)
	if err != nil || e < s {
		return MinutesPerDay
	}
	return e
}

// AbsoluteTime склеивает дату "YYYY-MM-DD" и время "HH:MM" в момент времени
func AbsoluteTime(date, at string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	minutes, err := clock.Parse(at)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

// ValidDate проверяет формат "YYYY-MM-DD"
func ValidDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

func clampY(y float64) float64 {
	if y < 0 {
		return 0
	}
	if y > DayHeight {
		return DayHeight
	}
	return y
}
