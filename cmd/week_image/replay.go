package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/Freeeeeet/practice_calendar/internal/render"
	"go.uber.org/zap"
)

// Script - сценарий жестов: неделя, начальные данные и события указателя.
// Координаты событий заданы в системе картинки недели без заголовка.
type Script struct {
	WeekStart     string               `json:"weekStart"`
	Sessions      []model.Session      `json:"sessions"`
	Relationships []model.Relationship `json:"relationships"`
	Events        []Event              `json:"events"`
}

type Event struct {
	Type      string  `json:"type"` // down, move, up, scroll
	X         float64 `json:"x"`
	Y         float64 `json:"y"` // для scroll - новая прокрутка сетки
	Target    string  `json:"target,omitempty"` // background, block, resize, control
	SessionID string  `json:"sessionId,omitempty"`
	Edge      string  `json:"edge,omitempty"`
	// PatientID для up, завершающего выделение: по черновику сразу создаётся сессия
	PatientID string `json:"patientId,omitempty"`
}

// ReplayResult - что получилось после проигрывания
type ReplayResult struct {
	Drafts  []calendar.Draft
	Created []model.Session
}

func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &s, nil
}

// replay прогоняет события через календарь. Незавершённый жест остаётся активным,
// и его предпросмотр попадает на картинку.
func replay(ctx context.Context, week *calendar.WeekCalendar, events []Event, logger *zap.Logger) (ReplayResult, error) {
	var result ReplayResult

	for i, ev := range events {
		p := calendar.Pointer{X: ev.X, Y: ev.Y}

		switch ev.Type {
		case "down":
			target, err := resolveTarget(week, ev)
			if err != nil {
				return result, fmt.Errorf("event %d: %w", i, err)
			}
			if err := week.PointerDown(target, p); err != nil {
				logger.Warn("Gesture not started", zap.Int("event", i), zap.Error(err))
			}

		case "move":
			week.PointerMove(p)

		case "scroll":
			layout, err := scrolledLayout(week, ev.Y)
			if err != nil {
				return result, fmt.Errorf("event %d: %w", i, err)
			}
			week.SetViewport(layout)

		case "up":
			out := week.PointerUp(ctx, p)
			week.Wait()
			if out.Draft == nil {
				continue
			}
			result.Drafts = append(result.Drafts, *out.Draft)
			if ev.PatientID == "" {
				continue
			}
			form := calendar.FormFromDraft(*out.Draft)
			form.PatientID = ev.PatientID
			created, err := week.CreateSession(ctx, form)
			if err != nil {
				logger.Warn("Session not created", zap.Int("event", i), zap.Error(err))
				continue
			}
			result.Created = append(result.Created, *created)

		default:
			return result, fmt.Errorf("event %d: unknown type %q", i, ev.Type)
		}

		logger.Debug("Event replayed",
			zap.Int("event", i),
			zap.String("type", ev.Type),
			zap.Stringer("mode", week.Interaction().Mode()),
		)
	}
	return result, nil
}

// scrolledLayout - раскладка видимой недели с вертикальной прокруткой offset
func scrolledLayout(week *calendar.WeekCalendar, offset float64) (*calendar.ColumnLayout, error) {
	from, _ := week.Range()
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("parse week start: %w", err)
	}
	layout := render.WeekLayout(start)
	layout.Scroll = offset
	return layout, nil
}

// resolveTarget находит элемент под указателем по описанию события
func resolveTarget(week *calendar.WeekCalendar, ev Event) (calendar.Target, error) {
	switch ev.Target {
	case "", "background":
		return calendar.Target{Kind: calendar.TargetBackground}, nil
	case "control":
		return calendar.Target{Kind: calendar.TargetControl}, nil
	case "block", "resize":
		s, ok := week.Session(ev.SessionID)
		if !ok {
			return calendar.Target{}, fmt.Errorf("%w: %s", calendar.ErrSessionNotFound, ev.SessionID)
		}
		if ev.Target == "block" {
			return calendar.Target{Kind: calendar.TargetBlock, Date: s.Date, Session: &s}, nil
		}
		return calendar.Target{Kind: calendar.TargetResizeHandle, Date: s.Date, Session: &s, Edge: calendar.Edge(ev.Edge)}, nil
	}
	return calendar.Target{}, fmt.Errorf("unknown target %q", ev.Target)
}
