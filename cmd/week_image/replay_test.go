package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/client"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/Freeeeeet/practice_calendar/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func newReplayCalendar(t *testing.T, sessions []model.Session) *calendar.WeekCalendar {
	t.Helper()
	store := newMemStore(sessions, []model.Relationship{
		{ID: "r1", PatientID: "p1", PatientName: "Анна", DefaultPrice: 3000, PercentPsych: 70, Active: true},
	})
	week := calendar.New(calendar.Options{
		Store:     store,
		Directory: store,
		User:      client.StaticUser("psy-1"),
		Viewport:  render.WeekLayout(monday),
		Location:  time.UTC,
		Logger:    zap.NewNop(),
	})
	require.NoError(t, week.Load(context.Background(), "2024-06-03", "2024-06-09"))
	return week
}

// x внутри колонки дня с индексом day
func columnX(day int) float64 {
	return float64(render.LeftLabelsWidth + day*render.DayWidth + 20)
}

func TestReplayCreateGesture(t *testing.T) {
	week := newReplayCalendar(t, nil)

	result, err := replay(context.Background(), week, []Event{
		{Type: "down", X: columnX(2), Y: 576},
		{Type: "move", X: columnX(2), Y: 578},
		{Type: "up", X: columnX(2), Y: 580, PatientID: "p1"},
	}, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, result.Drafts, 1)
	assert.Equal(t, calendar.Draft{Date: "2024-06-05", StartTime: "12:00", EndTime: "12:15"}, result.Drafts[0])

	require.Len(t, result.Created, 1)
	created := result.Created[0]
	assert.Equal(t, "Анна", created.PatientName)
	assert.Equal(t, 3000.0, created.Price)

	sessions := week.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, created.ID, sessions[0].ID)
}

func TestReplayDragMovesSession(t *testing.T) {
	week := newReplayCalendar(t, []model.Session{
		{ID: "s1", PatientID: "p1", Date: "2024-06-03", StartTime: "09:00", EndTime: "10:00", Status: model.SessionStatusScheduled},
	})

	_, err := replay(context.Background(), week, []Event{
		{Type: "down", X: columnX(0), Y: 440, Target: "block", SessionID: "s1"},
		{Type: "move", X: columnX(1), Y: 528},
		{Type: "up", X: columnX(1), Y: 528},
	}, zap.NewNop())
	require.NoError(t, err)

	s, ok := week.Session("s1")
	require.True(t, ok)
	assert.Equal(t, "2024-06-04", s.Date)
	assert.Equal(t, "11:00", s.StartTime)
	assert.Equal(t, "12:00", s.EndTime)

	require.NoError(t, week.Reload(context.Background()))
	s, _ = week.Session("s1")
	assert.Equal(t, "2024-06-04", s.Date)
}

func TestReplayUnfinishedGestureKeepsPreview(t *testing.T) {
	week := newReplayCalendar(t, []model.Session{
		{ID: "s1", PatientID: "p1", Date: "2024-06-03", StartTime: "09:00", EndTime: "10:00", Status: model.SessionStatusScheduled},
	})

	_, err := replay(context.Background(), week, []Event{
		{Type: "down", X: columnX(0), Y: 480, Target: "resize", SessionID: "s1", Edge: "bottom"},
		{Type: "move", X: columnX(0), Y: 528},
	}, zap.NewNop())
	require.NoError(t, err)

	preview := week.Preview()
	require.NotNil(t, preview)
	assert.Equal(t, calendar.PreviewResizing, preview.Kind)
	assert.Equal(t, calendar.TimeToPixel("09:00"), preview.Top)
	assert.Equal(t, 2*float64(calendar.PixelsPerHour), preview.Height)

	out := filepath.Join(t.TempDir(), "week.png")
	require.NoError(t, writeImage(out, monday, week, zap.NewNop()))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestReplayScrollShiftsGesture(t *testing.T) {
	week := newReplayCalendar(t, nil)

	result, err := replay(context.Background(), week, []Event{
		{Type: "scroll", Y: 96},
		{Type: "down", X: columnX(0), Y: 480},
		{Type: "up", X: columnX(0), Y: 480},
	}, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, result.Drafts, 1)
	assert.Equal(t, calendar.Draft{Date: "2024-06-03", StartTime: "12:00", EndTime: "12:15"}, result.Drafts[0])
}

func TestReplayRejectsUnknownInput(t *testing.T) {
	week := newReplayCalendar(t, nil)

	_, err := replay(context.Background(), week, []Event{{Type: "tap"}}, zap.NewNop())
	assert.Error(t, err)

	_, err = replay(context.Background(), week, []Event{{Type: "down", Target: "block", SessionID: "missing"}}, zap.NewNop())
	assert.ErrorIs(t, err, calendar.ErrSessionNotFound)
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"weekStart": "2024-06-05",
		"events": [{"type": "down", "x": 400, "y": 576}, {"type": "up", "x": 400, "y": 580}]
	}`), 0o644))

	script, err := loadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-05", script.WeekStart)
	require.Len(t, script.Events, 2)
	assert.Equal(t, 580.0, script.Events[1].Y)

	start, err := weekStart(script.WeekStart, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, monday, start)
}
