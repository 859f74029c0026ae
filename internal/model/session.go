package model

import "time"

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
	SessionStatusAvailable SessionStatus = "available" // Свободный слот без пациента
	SessionStatusPaid      SessionStatus = "paid"
)

// Valid проверяет что статус входит в допустимый набор
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusScheduled, SessionStatusCompleted, SessionStatusCancelled,
		SessionStatusAvailable, SessionStatusPaid:
		return true
	}
	return false
}

type SessionType string

const (
	SessionTypeInPerson  SessionType = "in-person"
	SessionTypeOnline    SessionType = "online"
	SessionTypeHomeVisit SessionType = "home-visit"
)

// Valid проверяет тип сессии (пустой тип допустим для слотов)
func (t SessionType) Valid() bool {
	switch t {
	case "", SessionTypeInPerson, SessionTypeOnline, SessionTypeHomeVisit:
		return true
	}
	return false
}

// Session - приём у психолога или свободный слот в календаре
type Session struct {
	ID             string        `json:"id"`
	PsychologistID string        `json:"psychologistId,omitempty"`
	PatientID      string        `json:"patientId"`
	PatientName    string        `json:"patientName"`
	Date           string        `json:"date"`      // YYYY-MM-DD
	StartTime      string        `json:"startTime"` // HH:MM
	EndTime        string        `json:"endTime"`   // HH:MM
	Status         SessionStatus `json:"status"`
	Type           SessionType   `json:"type,omitempty"`
	Price          float64       `json:"price"`
	PercentPsych   float64       `json:"percent_psych"`
	Paid           bool          `json:"paid"`
	Notes          string        `json:"notes,omitempty"`
	MeetLink       string        `json:"meetLink,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	StartsAt       *time.Time    `json:"startsAt,omitempty"` // Вычисляется из date + startTime
	EndsAt         *time.Time    `json:"endsAt,omitempty"`   // Вычисляется из date + endTime
	CreatedAt      *time.Time    `json:"createdAt,omitempty"`
}

// IsSlot сообщает, что запись - свободный слот (без пациента)
func (s *Session) IsSlot() bool {
	return s.Status == SessionStatusAvailable
}

// IsDraggable - перетаскивать и растягивать можно только запланированные сессии
func (s *Session) IsDraggable() bool {
	return s.Status == SessionStatusScheduled
}

// Clone возвращает копию сессии без общих срезов и указателей
func (s Session) Clone() Session {
	if s.Tags != nil {
		tags := make([]string, len(s.Tags))
		copy(tags, s.Tags)
		s.Tags = tags
	}
	if s.StartsAt != nil {
		t := *s.StartsAt
		s.StartsAt = &t
	}
	if s.EndsAt != nil {
		t := *s.EndsAt
		s.EndsAt = &t
	}
	if s.CreatedAt != nil {
		t := *s.CreatedAt
		s.CreatedAt = &t
	}
	return s
}
