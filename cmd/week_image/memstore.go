package main

import (
	"context"
	"sort"
	"sync"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/google/uuid"
)

// memStore - хранилище в памяти для проигрывания сценариев без сервера
type memStore struct {
	mu            sync.Mutex
	sessions      map[string]model.Session
	relationships []model.Relationship
}

var (
	_ calendar.SessionStore = (*memStore)(nil)
	_ calendar.Directory    = (*memStore)(nil)
)

func newMemStore(sessions []model.Session, relationships []model.Relationship) *memStore {
	m := &memStore{sessions: make(map[string]model.Session), relationships: relationships}
	for _, s := range sessions {
		m.sessions[s.ID] = s.Clone()
	}
	return m
}

func (m *memStore) ListSessions(_ context.Context, _, _, startDate, endDate string) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if s.Date >= startDate && s.Date <= endDate {
			out = append(out, s.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date+out[i].StartTime < out[j].Date+out[j].StartTime
	})
	return out, nil
}

func (m *memStore) CreateSession(_ context.Context, _ string, req model.SessionCreate) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.DeleteDispoID != "" {
		delete(m.sessions, req.DeleteDispoID)
	}
	s := req.Session.Clone()
	s.ID = uuid.NewString()
	m.sessions[s.ID] = s
	return &s, nil
}

func (m *memStore) PatchSession(_ context.Context, _, id string, patch model.SessionPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return calendar.ErrSessionNotFound
	}
	m.sessions[id] = patch.Apply(s)
	return nil
}

func (m *memStore) ReplaceSession(_ context.Context, _ string, s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.ID]; !ok {
		return calendar.ErrSessionNotFound
	}
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *memStore) DeleteSession(_ context.Context, _, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *memStore) CreateAvailability(_ context.Context, _ string, batch model.AvailabilityBatch) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range batch.Slots {
		m.sessions[s.ID] = s.Clone()
	}
	return len(batch.Slots), nil
}

func (m *memStore) ListRelationships(context.Context, string, string) ([]model.Relationship, error) {
	return m.relationships, nil
}
