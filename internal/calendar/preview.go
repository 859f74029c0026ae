package calendar

import (
	"math"

	"github.com/Freeeeeet/practice_calendar/internal/clock"
)

type PreviewKind string

const (
	PreviewCreating PreviewKind = "creating"
	PreviewDragging PreviewKind = "dragging"
	PreviewResizing PreviewKind = "resizing"
)

// ColorName - цвет прямоугольника предпросмотра для каждого режима
func (k PreviewKind) ColorName() string {
	switch k {
	case PreviewCreating:
		return "indigo"
	case PreviewDragging:
		return "blue"
	case PreviewResizing:
		return "green"
	}
	return ""
}

// PreviewRect - прямоугольник предпросмотра в координатах колонки дня.
// Не участвует в определении цели нажатия.
type PreviewRect struct {
	Kind   PreviewKind
	Date   string
	Top    float64
	Height float64
}

// Preview возвращает прямоугольник для активного жеста или nil в режиме Idle
func (i Interaction) Preview() *PreviewRect {
	switch i.Mode() {
	case ModeCreating:
		c := i.creating
		return &PreviewRect{
			Kind:   PreviewCreating,
			Date:   c.Date,
			Top:    math.Min(c.AnchorY, c.CurrentY),
			Height: math.Abs(c.CurrentY - c.AnchorY),
		}

	case ModeDragging:
		d := i.dragging
		date, r := d.OriginalDate, d.Original
		if d.Preview != nil {
			date, r = d.Preview.Date, d.Preview.Range
		}
		return rangeRect(PreviewDragging, date, r)

	case ModeResizing:
		rs := i.resizing
		r := rs.Original
		if rs.Temp != nil {
			r = *rs.Temp
		}
		return rangeRect(PreviewResizing, rs.Date, r)
	}
	return nil
}

func rangeRect(kind PreviewKind, date string, r TimeRange) *PreviewRect {
	top := TimeToPixel(r.Start)
	bottom := TimeToPixel(r.End)
	if _, err := clock.Parse(r.End); err != nil || bottom < top {
		bottom = DayHeight
	}
	return &PreviewRect{Kind: kind, Date: date, Top: top, Height: bottom - top}
}
