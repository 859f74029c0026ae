package calendar

import (
	"context"

	"github.com/Freeeeeet/practice_calendar/internal/model"
	"go.uber.org/zap"
)

// SessionStore - хранилище сессий. actorID уходит в заголовок авторизации.
type SessionStore interface {
	ListSessions(ctx context.Context, actorID, psychologistID, startDate, endDate string) ([]model.Session, error)
	CreateSession(ctx context.Context, actorID string, req model.SessionCreate) (*model.Session, error)
	PatchSession(ctx context.Context, actorID, id string, patch model.SessionPatch) error
	ReplaceSession(ctx context.Context, actorID string, s model.Session) error
	DeleteSession(ctx context.Context, actorID, id string) error
	CreateAvailability(ctx context.Context, actorID string, batch model.AvailabilityBatch) (int, error)
}

// Directory - справочник связей психолог-пациент (только чтение)
type Directory interface {
	ListRelationships(ctx context.Context, actorID, psychologistID string) ([]model.Relationship, error)
}

// CurrentUser возвращает id действующего пользователя или ErrUnauthenticated
type CurrentUser interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Reporter показывает ошибку пользователю
type Reporter interface {
	ReportError(ctx context.Context, message string)
}

// FormOpener открывает форму создания сессии, предзаполненную черновиком
type FormOpener interface {
	OpenCreateForm(draft Draft)
}

// LogReporter пишет ошибки для пользователя в лог
type LogReporter struct {
	Logger *zap.Logger
}

func (r LogReporter) ReportError(_ context.Context, message string) {
	if r.Logger == nil {
		return
	}
	r.Logger.Warn("User-facing error", zap.String("message", message))
}
