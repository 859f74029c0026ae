// Package clock работает со временем суток в формате "HH:MM"
package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

var ErrInvalid = errors.New("invalid time of day, expected HH:MM")

// Parse переводит "HH:MM" в минуты от полуночи.
// "24:00" допустимо как конец дня.
func Parse(value string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, value)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, value)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, value)
	}
	return hours*60 + minutes, nil
}

// Format форматирует минуты от полуночи как "HH:MM"
func Format(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Add сдвигает время на delta минут в пределах 00:00..24:00.
// Невалидное время возвращается как есть.
func Add(value string, delta int) string {
	m, err := Parse(value)
	if err != nil {
		return value
	}
	m += delta
	if m < 0 {
		m = 0
	}
	if m > MinutesPerDay {
		m = MinutesPerDay
	}
	return Format(m)
}

// SpanMinutes возвращает длительность от start до end в минутах;
// конец раньше начала значит переход через полночь
func SpanMinutes(start, end int) int {
	diff := end - start
	if diff < 0 {
		diff += MinutesPerDay
	}
	return diff
}
