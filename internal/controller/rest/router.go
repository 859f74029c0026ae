package rest

import (
	"context"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionService - операции хранилища, которые обслуживает HTTP API
type SessionService interface {
	List(ctx context.Context, actorID, psychologistID, startDate, endDate string) ([]model.Session, error)
	Create(ctx context.Context, actorID string, req model.SessionCreate) (*model.Session, error)
	Patch(ctx context.Context, actorID, id string, patch model.SessionPatch) (*model.Session, error)
	Replace(ctx context.Context, actorID, id string, s model.Session) (*model.Session, error)
	Delete(ctx context.Context, actorID, id string) error
	CreateAvailability(ctx context.Context, actorID string, batch model.AvailabilityBatch) (int, error)
	ListRelationships(ctx context.Context, actorID, psychologistID string) ([]model.Relationship, error)
}

type Handler struct {
	sessions SessionService
	loc      *time.Location
	logger   *zap.Logger
}

func NewHandler(sessions SessionService, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{sessions: sessions, loc: loc, logger: logger}
}

// NewRouter собирает gin-роутер хранилища сессий
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	r.GET("/health", h.Health)

	api := r.Group("")
	api.Use(RequireUser())
	{
		api.GET("/sessions", h.ListSessions)
		api.POST("/sessions", h.CreateSession)
		api.POST("/sessions/availability", h.CreateAvailability)
		api.PATCH("/sessions/:id", h.PatchSession)
		api.PUT("/sessions/:id", h.ReplaceSession)
		api.DELETE("/sessions/:id", h.DeleteSession)
		api.GET("/relationships", h.ListRelationships)
		api.GET("/calendar.ics", h.CalendarFeed)
	}

	return r
}
