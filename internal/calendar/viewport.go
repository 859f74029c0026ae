package calendar

import (
	"math"
	"time"
)

// ViewportGeometry даёт машине жестов доступ к раскладке сетки
type ViewportGeometry interface {
	// ColumnAt возвращает дату колонки под координатой x
	ColumnAt(x float64) (string, bool)
	// ScrollOffset возвращает вертикальную прокрутку сетки в пикселях
	ScrollOffset() float64
}

// ColumnLayout - колонки одинаковой ширины, идущие слева направо
type ColumnLayout struct {
	Left        float64
	ColumnWidth float64
	Dates       []string
	Scroll      float64
}

// NewWeekLayout создаёт раскладку из 7 колонок начиная с weekStart
func NewWeekLayout(weekStart time.Time, left, columnWidth float64) *ColumnLayout {
	dates := make([]string, 0, 7)
	for d := 0; d < 7; d++ {
		dates = append(dates, weekStart.AddDate(0, 0, d).Format(dateLayout))
	}
	return &ColumnLayout{Left: left, ColumnWidth: columnWidth, Dates: dates}
}

func (l *ColumnLayout) ColumnAt(x float64) (string, bool) {
	if l.ColumnWidth <= 0 || x < l.Left {
		return "", false
	}
	idx := int(math.Floor((x - l.Left) / l.ColumnWidth))
	if idx < 0 || idx >= len(l.Dates) {
		return "", false
	}
	return l.Dates[idx], true
}

func (l *ColumnLayout) ScrollOffset() float64 {
	return l.Scroll
}

// ColumnX возвращает левую границу колонки с датой date
func (l *ColumnLayout) ColumnX(date string) (float64, bool) {
	for i, d := range l.Dates {
		if d == date {
			return l.Left + float64(i)*l.ColumnWidth, true
		}
	}
	return 0, false
}
