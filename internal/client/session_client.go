package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/model"
)

var (
	_ calendar.SessionStore = (*SessionClient)(nil)
	_ calendar.Directory    = (*DirectoryClient)(nil)
	_ calendar.CurrentUser  = StaticUser("")
)

// SessionClient - REST-клиент хранилища сессий
type SessionClient struct {
	base
}

func NewSessionClient(cfg Config) *SessionClient {
	return &SessionClient{base: newBase(cfg)}
}

func (c *SessionClient) ListSessions(ctx context.Context, actorID, psychologistID, startDate, endDate string) ([]model.Session, error) {
	q := url.Values{}
	q.Set("psychologistId", psychologistID)
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)

	var sessions []model.Session
	if err := c.do(ctx, http.MethodGet, "/sessions", q, actorID, nil, &sessions); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// CreateSession отправляет сессию; пустой ответ сервера возвращает nil без ошибки
func (c *SessionClient) CreateSession(ctx context.Context, actorID string, req model.SessionCreate) (*model.Session, error) {
	var created *model.Session
	if err := c.do(ctx, http.MethodPost, "/sessions", nil, actorID, req, &created); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return created, nil
}

func (c *SessionClient) PatchSession(ctx context.Context, actorID, id string, patch model.SessionPatch) error {
	if err := c.do(ctx, http.MethodPatch, "/sessions/"+url.PathEscape(id), nil, actorID, patch, nil); err != nil {
		return fmt.Errorf("patch session: %w", err)
	}
	return nil
}

func (c *SessionClient) ReplaceSession(ctx context.Context, actorID string, s model.Session) error {
	if err := c.do(ctx, http.MethodPut, "/sessions/"+url.PathEscape(s.ID), nil, actorID, s, nil); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

func (c *SessionClient) DeleteSession(ctx context.Context, actorID, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(id), nil, actorID, nil, nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (c *SessionClient) CreateAvailability(ctx context.Context, actorID string, batch model.AvailabilityBatch) (int, error) {
	var res model.AvailabilityResult
	if err := c.do(ctx, http.MethodPost, "/sessions/availability", nil, actorID, batch, &res); err != nil {
		return 0, fmt.Errorf("create availability: %w", err)
	}
	return res.Count, nil
}

// DirectoryClient читает связи психолог-пациент
type DirectoryClient struct {
	base
}

func NewDirectoryClient(cfg Config) *DirectoryClient {
	return &DirectoryClient{base: newBase(cfg)}
}

func (c *DirectoryClient) ListRelationships(ctx context.Context, actorID, psychologistID string) ([]model.Relationship, error) {
	q := url.Values{}
	q.Set("psychologistId", psychologistID)

	var rels []model.Relationship
	if err := c.do(ctx, http.MethodGet, "/relationships", q, actorID, nil, &rels); err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	return rels, nil
}
