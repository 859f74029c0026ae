package calendar

import (
	"testing"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout() *ColumnLayout {
	return NewWeekLayout(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), 60, 100)
}

func scheduled(id, date, start, end string) *model.Session {
	return &model.Session{ID: id, Date: date, StartTime: start, EndTime: end, Status: model.SessionStatusScheduled}
}

func TestColumnLayout(t *testing.T) {
	vp := testLayout()

	date, ok := vp.ColumnAt(60)
	require.True(t, ok)
	assert.Equal(t, "2024-06-03", date)

	date, ok = vp.ColumnAt(259)
	require.True(t, ok)
	assert.Equal(t, "2024-06-04", date)

	_, ok = vp.ColumnAt(10)
	assert.False(t, ok)
	_, ok = vp.ColumnAt(60 + 7*100)
	assert.False(t, ok)

	x, ok := vp.ColumnX("2024-06-09")
	require.True(t, ok)
	assert.Equal(t, 660.0, x)
}

func TestCreateShortSpanIsClamped(t *testing.T) {
	vp := testLayout()
	var i Interaction

	i, err := i.Down(Target{Kind: TargetBackground}, vp, Pointer{X: 70, Y: 576})
	require.NoError(t, err)
	assert.Equal(t, ModeCreating, i.Mode())

	i, out := i.Up(vp, Pointer{X: 70, Y: 580})
	assert.Equal(t, ModeIdle, i.Mode())
	require.NotNil(t, out.Draft)
	assert.Equal(t, Draft{Date: "2024-06-03", StartTime: "12:00", EndTime: "12:15"}, *out.Draft)
}

func TestCreateUpwardDrag(t *testing.T) {
	vp := testLayout()
	var i Interaction

	i, _ = i.Down(Target{Kind: TargetBackground, Date: "2024-06-05"}, vp, Pointer{X: 0, Y: 480})
	i = i.Move(vp, Pointer{Y: 400})

	c, ok := i.Creating()
	require.True(t, ok)
	assert.Equal(t, 400.0, c.CurrentY)

	pv := i.Preview()
	require.NotNil(t, pv)
	assert.Equal(t, PreviewCreating, pv.Kind)
	assert.Equal(t, "indigo", pv.Kind.ColorName())
	assert.Equal(t, 400.0, pv.Top)
	assert.Equal(t, 80.0, pv.Height)

	_, out := i.Up(vp, Pointer{Y: 384})
	require.NotNil(t, out.Draft)
	assert.Equal(t, "08:00", out.Draft.StartTime)
	assert.Equal(t, "10:00", out.Draft.EndTime)
}

func TestCreateNearMidnightStaysInDay(t *testing.T) {
	var i Interaction
	i, _ = i.Down(Target{Kind: TargetBackground, Date: "2024-06-03"}, nil, Pointer{Y: 1150})
	_, out := i.Up(nil, Pointer{Y: 2000})
	require.NotNil(t, out.Draft)
	assert.Equal(t, "23:45", out.Draft.StartTime)
	assert.Equal(t, "24:00", out.Draft.EndTime)
}

func TestScrollOffsetIsApplied(t *testing.T) {
	vp := testLayout()
	vp.Scroll = 384
	var i Interaction

	i, _ = i.Down(Target{Kind: TargetBackground}, vp, Pointer{X: 70, Y: 0})
	_, out := i.Up(vp, Pointer{X: 70, Y: 48})
	require.NotNil(t, out.Draft)
	assert.Equal(t, "08:00", out.Draft.StartTime)
	assert.Equal(t, "09:00", out.Draft.EndTime)
}

func TestDragPreservesDurationAndFollowsColumn(t *testing.T) {
	vp := testLayout()
	s := scheduled("s1", "2024-06-03", "09:00", "10:00")
	var i Interaction

	i, err := i.Down(Target{Kind: TargetBlock, Session: s}, vp, Pointer{X: 70, Y: 432})
	require.NoError(t, err)
	assert.Equal(t, ModeDragging, i.Mode())

	i = i.Move(vp, Pointer{X: 170, Y: 672})
	d, ok := i.Dragging()
	require.True(t, ok)
	require.NotNil(t, d.Preview)
	assert.Equal(t, "2024-06-04", d.Preview.Date)
	assert.Equal(t, TimeRange{Start: "14:00", End: "15:00"}, d.Preview.Range)

	pv := i.Preview()
	require.NotNil(t, pv)
	assert.Equal(t, "blue", pv.Kind.ColorName())
	assert.Equal(t, 672.0, pv.Top)
	assert.Equal(t, 48.0, pv.Height)

	// вне колонок остаётся исходный день
	i = i.Move(vp, Pointer{X: 5, Y: 1150})
	d, _ = i.Dragging()
	assert.Equal(t, "2024-06-03", d.Preview.Date)
	assert.Equal(t, TimeRange{Start: "23:00", End: "24:00"}, d.Preview.Range)

	i, out := i.Up(vp, Pointer{X: 5, Y: 1150})
	assert.Equal(t, ModeIdle, i.Mode())
	require.NotNil(t, out.Move)
	assert.Equal(t, MoveCommit{SessionID: "s1", Date: "2024-06-03", Range: TimeRange{Start: "23:00", End: "24:00"}}, *out.Move)
}

func TestDragWithoutMoveCommitsNothing(t *testing.T) {
	var i Interaction
	i, _ = i.Down(Target{Kind: TargetBlock, Session: scheduled("s1", "2024-06-03", "09:00", "10:00")}, nil, Pointer{Y: 432})
	i, out := i.Up(nil, Pointer{Y: 432})
	assert.Equal(t, ModeIdle, i.Mode())
	assert.Nil(t, out.Move)
	assert.Nil(t, i.Preview())
}

func TestOnlyScheduledSessionsAreDraggable(t *testing.T) {
	var i Interaction
	for _, status := range []model.SessionStatus{
		model.SessionStatusAvailable,
		model.SessionStatusCompleted,
		model.SessionStatusCancelled,
		model.SessionStatusPaid,
	} {
		s := &model.Session{ID: "x", Date: "2024-06-03", StartTime: "09:00", EndTime: "10:00", Status: status}

		next, err := i.Down(Target{Kind: TargetBlock, Session: s}, nil, Pointer{Y: 440})
		assert.ErrorIs(t, err, ErrNotDraggable)
		assert.Equal(t, ModeIdle, next.Mode())

		next, err = i.Down(Target{Kind: TargetResizeHandle, Edge: EdgeBottom, Session: s}, nil, Pointer{Y: 480})
		assert.ErrorIs(t, err, ErrNotDraggable)
		assert.Equal(t, ModeIdle, next.Mode())
	}

	next, err := i.Down(Target{Kind: TargetBlock}, nil, Pointer{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, ModeIdle, next.Mode())
}

func TestControlTargetStartsNothing(t *testing.T) {
	var i Interaction
	next, err := i.Down(Target{Kind: TargetControl, Session: scheduled("s1", "2024-06-03", "09:00", "10:00")}, nil, Pointer{Y: 440})
	require.NoError(t, err)
	assert.Equal(t, ModeIdle, next.Mode())
}

func TestResizeBelowMinimumIsRejected(t *testing.T) {
	s := scheduled("s1", "2024-06-03", "09:00", "10:00")
	var i Interaction

	i, err := i.Down(Target{Kind: TargetResizeHandle, Edge: EdgeTop, Session: s}, nil, Pointer{Y: 432})
	require.NoError(t, err)
	assert.Equal(t, ModeResizing, i.Mode())

	_, ok := resizeCandidate(TimeRange{Start: "09:00", End: "10:00"}, EdgeTop, "09:50")
	assert.False(t, ok)

	// 09:45 -> 15 минут, ещё допустимо
	i = i.Move(nil, Pointer{Y: 468})
	r, _ := i.Resizing()
	require.NotNil(t, r.Temp)
	assert.Equal(t, TimeRange{Start: "09:45", End: "10:00"}, *r.Temp)

	// 10:00 даёт нулевую длительность, предыдущее значение остаётся
	i = i.Move(nil, Pointer{Y: 480})
	r, _ = i.Resizing()
	assert.Equal(t, TimeRange{Start: "09:45", End: "10:00"}, *r.Temp)

	pv := i.Preview()
	require.NotNil(t, pv)
	assert.Equal(t, "green", pv.Kind.ColorName())
	assert.Equal(t, 468.0, pv.Top)
	assert.Equal(t, 12.0, pv.Height)
}

func TestResizeWithoutValidMoveCommitsNothing(t *testing.T) {
	s := scheduled("s1", "2024-06-03", "09:00", "10:00")
	var i Interaction

	i, _ = i.Down(Target{Kind: TargetResizeHandle, Edge: EdgeTop, Session: s}, nil, Pointer{Y: 432})
	i = i.Move(nil, Pointer{Y: 472}) // 09:50
	r, _ := i.Resizing()
	assert.Nil(t, r.Temp)

	i, out := i.Up(nil, Pointer{Y: 472})
	assert.Equal(t, ModeIdle, i.Mode())
	assert.Nil(t, out.Resize)
}

func TestResizeBottomEdge(t *testing.T) {
	s := scheduled("s1", "2024-06-03", "09:00", "10:00")
	var i Interaction

	i, _ = i.Down(Target{Kind: TargetResizeHandle, Edge: EdgeBottom, Session: s}, nil, Pointer{Y: 480})
	i = i.Move(nil, Pointer{Y: 540})
	_, out := i.Up(nil, Pointer{Y: 540})
	require.NotNil(t, out.Resize)
	assert.Equal(t, ResizeCommit{SessionID: "s1", Range: TimeRange{Start: "09:00", End: "11:15"}}, *out.Resize)
}

func TestAtMostOneStateIsActive(t *testing.T) {
	vp := testLayout()
	s := scheduled("s1", "2024-06-03", "09:00", "10:00")
	var i Interaction
	assert.Equal(t, 0, i.ActiveStates())

	i, _ = i.Down(Target{Kind: TargetBackground}, vp, Pointer{X: 70, Y: 100})
	assert.Equal(t, 1, i.ActiveStates())

	// повторные нажатия во время жеста игнорируются
	i, _ = i.Down(Target{Kind: TargetBlock, Session: s}, vp, Pointer{X: 70, Y: 440})
	i, _ = i.Down(Target{Kind: TargetResizeHandle, Edge: EdgeTop, Session: s}, vp, Pointer{X: 70, Y: 440})
	assert.Equal(t, 1, i.ActiveStates())
	assert.Equal(t, ModeCreating, i.Mode())

	i = i.Move(vp, Pointer{X: 70, Y: 200})
	assert.Equal(t, 1, i.ActiveStates())

	i, _ = i.Up(vp, Pointer{X: 70, Y: 200})
	assert.Equal(t, 0, i.ActiveStates())
	assert.Nil(t, i.Preview())
}
