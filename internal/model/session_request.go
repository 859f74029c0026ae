package model

import "time"

// SessionCreate - тело POST /sessions
type SessionCreate struct {
	Session
	DeleteDispoID string `json:"deleteDispoId,omitempty"` // Слот, который заменяется этой сессией
}

// SessionPatch - частичное обновление сессии; nil-поля не меняются
type SessionPatch struct {
	Date         *string        `json:"date,omitempty"`
	StartTime    *string        `json:"startTime,omitempty"`
	EndTime      *string        `json:"endTime,omitempty"`
	StartsAt     *time.Time     `json:"startsAt,omitempty"`
	EndsAt       *time.Time     `json:"endsAt,omitempty"`
	Status       *SessionStatus `json:"status,omitempty"`
	Price        *float64       `json:"price,omitempty"`
	PercentPsych *float64       `json:"percent_psych,omitempty"`
	Paid         *bool          `json:"paid,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
}

// TouchesTime сообщает, что патч меняет дату или время
func (p SessionPatch) TouchesTime() bool {
	return p.Date != nil || p.StartTime != nil || p.EndTime != nil
}

// Apply применяет патч к копии сессии
func (p SessionPatch) Apply(s Session) Session {
	s = s.Clone()
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	if p.StartsAt != nil {
		t := *p.StartsAt
		s.StartsAt = &t
	}
	if p.EndsAt != nil {
		t := *p.EndsAt
		s.EndsAt = &t
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.PercentPsych != nil {
		s.PercentPsych = *p.PercentPsych
	}
	if p.Paid != nil {
		s.Paid = *p.Paid
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	return s
}

// AvailabilityBatch - тело POST /sessions/availability
type AvailabilityBatch struct {
	Slots          []Session `json:"slots"`
	PsychologistID string    `json:"psychologistId"`
}

// AvailabilityResult - ответ на POST /sessions/availability
type AvailabilityResult struct {
	Count int `json:"count"`
}
