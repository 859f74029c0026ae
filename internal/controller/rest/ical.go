package rest

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/formatting"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/emersion/go-ical"
	"github.com/gin-gonic/gin"
)

const (
	feedPastDays   = 30
	feedFutureDays = 90
)

// CalendarFeed handles GET /calendar.ics: сессии психолога в формате iCalendar.
// Свободные слоты и отменённые сессии в фид не попадают.
func (h *Handler) CalendarFeed(c *gin.Context) {
	now := time.Now().In(h.loc)
	startDate := c.DefaultQuery("startDate", now.AddDate(0, 0, -feedPastDays).Format("2006-01-02"))
	endDate := c.DefaultQuery("endDate", now.AddDate(0, 0, feedFutureDays).Format("2006-01-02"))

	sessions, err := h.sessions.List(c.Request.Context(), actor(c), c.Query("psychologistId"), startDate, endDate)
	if err != nil {
		h.fail(c, "CalendarFeed", err)
		return
	}

	var buf bytes.Buffer
	if err := encodeFeed(&buf, sessions, h.loc, now); err != nil {
		h.fail(c, "CalendarFeed", err)
		return
	}
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func encodeFeed(buf *bytes.Buffer, sessions []model.Session, loc *time.Location, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//practice_calendar//RU")

	for _, s := range sessions {
		if s.IsSlot() || s.Status == model.SessionStatusCancelled {
			continue
		}
		event, err := toEvent(s, loc, stamp)
		if err != nil {
			continue
		}
		cal.Children = append(cal.Children, event)
	}

	if err := ical.NewEncoder(buf).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toEvent(s model.Session, loc *time.Location, stamp time.Time) (*ical.Component, error) {
	start, err := calendar.AbsoluteTime(s.Date, s.StartTime, loc)
	if err != nil {
		return nil, err
	}
	minutes := calendar.DurationMinutes(s.StartTime, s.EndTime)
	end := start.Add(time.Duration(minutes) * time.Minute)

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, s.ID+"@practice_calendar")
	ve.Props.SetText(ical.PropSummary, formatting.SessionTitle(s))
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, end)

	description := formatting.GetStatusDisplay(s.Status).Text + ", " + formatting.FormatDuration(minutes)
	if name := formatting.GetTypeName(s.Type); name != "" {
		description += ", " + name
	}
	if s.Notes != "" {
		description += "\n" + s.Notes
	}
	ve.Props.SetText(ical.PropDescription, description)
	if s.MeetLink != "" {
		ve.Props.SetText(ical.PropLocation, s.MeetLink)
	}
	return ve, nil
}
