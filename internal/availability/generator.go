package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/clock"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var (
	ErrNoSlots        = errors.New("no availability slots generated")
	ErrInvalidRequest = errors.New("invalid availability request")
)

// Request - параметры генерации свободных слотов.
// DaysOfWeek: 0 = воскресенье .. 6 = суббота.
type Request struct {
	StartDate       string            `json:"startDate"`
	EndDate         string            `json:"endDate"`
	DaysOfWeek      []int             `json:"daysOfWeek"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	DurationMinutes int               `json:"duration"`
	PsychologistID  string            `json:"psychologistId"`
	Type            model.SessionType `json:"type,omitempty"`
}

// Generate нарезает окна фиксированной длины для выбранных дней недели.
// Неполный хвост окна отбрасывается. Пустой результат возвращает ErrNoSlots.
func Generate(req Request) ([]model.Session, error) {
	from, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q", ErrInvalidRequest, req.StartDate)
	}
	to, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end date %q", ErrInvalidRequest, req.EndDate)
	}
	windowStart, err := parseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	windowEnd, err := parseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidRequest)
	}

	days := make(map[time.Weekday]bool, len(req.DaysOfWeek))
	for _, d := range req.DaysOfWeek {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: weekday %d", ErrInvalidRequest, d)
		}
		days[time.Weekday(d)] = true
	}

	var slots []model.Session
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if !days[date.Weekday()] {
			continue
		}
		day := date.Format(dateLayout)
		for start := windowStart; start+req.DurationMinutes <= windowEnd; start += req.DurationMinutes {
			slots = append(slots, model.Session{
				ID:             uuid.NewString(),
				PsychologistID: req.PsychologistID,
				Date:           day,
				StartTime:      clock.Format(start),
				EndTime:        clock.Format(start + req.DurationMinutes),
				Status:         model.SessionStatusAvailable,
				Type:           req.Type,
			})
		}
	}

	if len(slots) == 0 {
		return nil, ErrNoSlots
	}
	return slots, nil
}

func parseClock(value string) (int, error) {
	m, err := clock.Parse(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return m, nil
}
