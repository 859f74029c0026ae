package calendar

import (
	"github.com/Freeeeeet/practice_calendar/internal/clock"
	"github.com/Freeeeeet/practice_calendar/internal/model"
)

// Mode - текущий режим взаимодействия с сеткой
type Mode int

const (
	ModeIdle Mode = iota
	ModeCreating
	ModeDragging
	ModeResizing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeDragging:
		return "dragging"
	case ModeResizing:
		return "resizing"
	default:
		return "idle"
	}
}

type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// TimeRange - пара "HH:MM" начала и конца
type TimeRange struct {
	Start string
	End   string
}

// Minutes возвращает длительность диапазона в минутах
func (r TimeRange) Minutes() int {
	return MinutesBetween(r.Start, r.End)
}

// CreatingState - выделение пустого места для новой сессии
type CreatingState struct {
	Date     string
	AnchorY  float64
	CurrentY float64
}

// DragPreview - куда будет перенесена сессия при отпускании
type DragPreview struct {
	Date  string
	Range TimeRange
}

// DraggingState - перенос существующей сессии
type DraggingState struct {
	SessionID    string
	AnchorY      float64
	OriginalDate string
	Original     TimeRange
	Preview      *DragPreview
}

// ResizingState - изменение длительности за верхний или нижний край
type ResizingState struct {
	SessionID string
	Edge      Edge
	Date      string
	Original  TimeRange
	Temp      *TimeRange // nil пока не было ни одного допустимого движения
}

// TargetKind - что находится под указателем в момент нажатия
type TargetKind int

const (
	TargetBackground TargetKind = iota
	TargetBlock
	TargetResizeHandle
	TargetControl // кнопка внутри блока, жесты не начинает
)

// Target описывает элемент под указателем при нажатии
type Target struct {
	Kind    TargetKind
	Date    string
	Session *model.Session
	Edge    Edge
}

// Pointer - координаты указателя; Y отсчитывается от верха видимой области сетки
type Pointer struct {
	X float64
	Y float64
}

// Draft - предзаполнение формы создания сессии
type Draft struct {
	Date      string
	StartTime string
	EndTime   string
}

// MoveCommit - результат переноса
type MoveCommit struct {
	SessionID string
	Date      string
	Range     TimeRange
}

// ResizeCommit - результат растягивания
type ResizeCommit struct {
	SessionID string
	Range     TimeRange
}

// Outcome - что нужно сделать после отпускания указателя. Заполнено не больше одного поля.
type Outcome struct {
	Draft  *Draft
	Move   *MoveCommit
	Resize *ResizeCommit
}

// Interaction хранит не более одного активного состояния жеста.
// Значение неизменяемо: переходы возвращают новое значение.
type Interaction struct {
	creating *CreatingState
	dragging *DraggingState
	resizing *ResizingState
}

// Mode возвращает текущий режим
func (i Interaction) Mode() Mode {
	switch {
	case i.creating != nil:
		return ModeCreating
	case i.dragging != nil:
		return ModeDragging
	case i.resizing != nil:
		return ModeResizing
	default:
		return ModeIdle
	}
}

// ActiveStates возвращает количество ненулевых состояний (0 или 1)
func (i Interaction) ActiveStates() int {
	n := 0
	if i.creating != nil {
		n++
	}
	if i.dragging != nil {
		n++
	}
	if i.resizing != nil {
		n++
	}
	return n
}

func (i Interaction) Creating() (CreatingState, bool) {
	if i.creating == nil {
		return CreatingState{}, false
	}
	return *i.creating, true
}

func (i Interaction) Dragging() (DraggingState, bool) {
	if i.dragging == nil {
		return DraggingState{}, false
	}
	return *i.dragging, true
}

func (i Interaction) Resizing() (ResizingState, bool) {
	if i.resizing == nil {
		return ResizingState{}, false
	}
	return *i.resizing, true
}

// Down обрабатывает нажатие. Вне режима Idle нажатие игнорируется.
func (i Interaction) Down(target Target, vp ViewportGeometry, p Pointer) (Interaction, error) {
	if i.Mode() != ModeIdle {
		return i, nil
	}
	y := contentY(vp, p)

	switch target.Kind {
	case TargetBackground:
		date := target.Date
		if date == "" && vp != nil {
			date, _ = vp.ColumnAt(p.X)
		}
		if date == "" {
			return i, nil
		}
		return Interaction{creating: &CreatingState{Date: date, AnchorY: y, CurrentY: y}}, nil

	case TargetBlock:
		if target.Session == nil {
			return i, ErrSessionNotFound
		}
		if !target.Session.IsDraggable() {
			return i, ErrNotDraggable
		}
		s := target.Session
		return Interaction{dragging: &DraggingState{
			SessionID:    s.ID,
			AnchorY:      y,
			OriginalDate: s.Date,
			Original:     TimeRange{Start: s.StartTime, End: s.EndTime},
		}}, nil

	case TargetResizeHandle:
		if target.Session == nil {
			return i, ErrSessionNotFound
		}
		if !target.Session.IsDraggable() {
			return i, ErrNotDraggable
		}
		edge := target.Edge
		if edge != EdgeTop {
			edge = EdgeBottom
		}
		s := target.Session
		return Interaction{resizing: &ResizingState{
			SessionID: s.ID,
			Edge:      edge,
			Date:      s.Date,
			Original:  TimeRange{Start: s.StartTime, End: s.EndTime},
		}}, nil
	}

	return i, nil
}

// Move обрабатывает движение указателя с зажатой кнопкой
func (i Interaction) Move(vp ViewportGeometry, p Pointer) Interaction {
	y := contentY(vp, p)

	switch i.Mode() {
	case ModeCreating:
		next := *i.creating
		next.CurrentY = y
		return Interaction{creating: &next}

	case ModeDragging:
		next := *i.dragging
		date := ""
		if vp != nil {
			date, _ = vp.ColumnAt(p.X)
		}
		if date == "" {
			date = next.OriginalDate
		}
		next.Preview = &DragPreview{Date: date, Range: dragRange(next.Original, y)}
		return Interaction{dragging: &next}

	case ModeResizing:
		next := *i.resizing
		if r, ok := resizeCandidate(next.Original, next.Edge, PixelToTime(y)); ok {
			next.Temp = &r
		}
		return Interaction{resizing: &next}
	}

	return i
}

// Up завершает жест и возвращает Idle вместе с действием для коммита
func (i Interaction) Up(vp ViewportGeometry, p Pointer) (Interaction, Outcome) {
	var out Outcome

	switch i.Mode() {
	case ModeCreating:
		c := *i.creating
		c.CurrentY = contentY(vp, p)
		r := createRange(c.AnchorY, c.CurrentY)
		out.Draft = &Draft{Date: c.Date, StartTime: r.Start, EndTime: r.End}

	case ModeDragging:
		if pv := i.dragging.Preview; pv != nil {
			out.Move = &MoveCommit{SessionID: i.dragging.SessionID, Date: pv.Date, Range: pv.Range}
		}

	case ModeResizing:
		if t := i.resizing.Temp; t != nil && t.Minutes() >= MinDurationMinutes {
			out.Resize = &ResizeCommit{SessionID: i.resizing.SessionID, Range: *t}
		}
	}

	return Interaction{}, out
}

func contentY(vp ViewportGeometry, p Pointer) float64 {
	y := p.Y
	if vp != nil {
		y += vp.ScrollOffset()
	}
	return clampY(y)
}

// createRange строит диапазон между якорем и текущей точкой; слишком короткий
// диапазон растягивается до 15 минут
func createRange(anchorY, currentY float64) TimeRange {
	top, bottom := anchorY, currentY
	if bottom < top {
		top, bottom = bottom, top
	}

	startMin, _ := clock.Parse(PixelToTime(top))
	if startMin > lastSnapMinutes {
		startMin = lastSnapMinutes
	}
	start := clock.Format(startMin)
	end := PixelToTime(bottom)
	if MinutesBetween(start, end) < MinDurationMinutes {
		end = clock.Add(start, MinDurationMinutes)
	}
	return TimeRange{Start: start, End: end}
}

// dragRange сохраняет исходную длительность; начало сдвигается вверх,
// если сессия не помещается до конца дня
func dragRange(original TimeRange, y float64) TimeRange {
	duration := original.Minutes()
	if duration < MinDurationMinutes {
		duration = DurationMinutes(original.Start, original.End)
	}
	if duration < MinDurationMinutes {
		duration = MinDurationMinutes
	}
	if duration > MinutesPerDay {
		duration = MinutesPerDay
	}

	startMin, _ := clock.Parse(PixelToTime(y))
	if startMin+duration > MinutesPerDay {
		startMin = (MinutesPerDay - duration) / SnapMinutes * SnapMinutes
	}
	if startMin < 0 {
		startMin = 0
	}
	return TimeRange{Start: clock.Format(startMin), End: clock.Format(startMin + duration)}
}

// resizeCandidate двигает один край; результат короче 15 минут отбрасывается
func resizeCandidate(original TimeRange, edge Edge, at string) (TimeRange, bool) {
	r := original
	if edge == EdgeTop {
		r.Start = at
	} else {
		r.End = at
	}
	if r.Minutes() < MinDurationMinutes {
		return TimeRange{}, false
	}
	return r, true
}
