package rest

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/Freeeeeet/practice_calendar/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListSessions handles GET /sessions?psychologistId=&startDate=&endDate=
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.List(c.Request.Context(), actor(c),
		c.Query("psychologistId"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		h.fail(c, "ListSessions", err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var req model.SessionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.sessions.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.fail(c, "CreateSession", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PatchSession handles PATCH /sessions/:id
func (h *Handler) PatchSession(c *gin.Context) {
	var patch model.SessionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.sessions.Patch(c.Request.Context(), actor(c), c.Param("id"), patch)
	if err != nil {
		h.fail(c, "PatchSession", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ReplaceSession handles PUT /sessions/:id
func (h *Handler) ReplaceSession(c *gin.Context) {
	var s model.Session
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.sessions.Replace(c.Request.Context(), actor(c), c.Param("id"), s)
	if err != nil {
		h.fail(c, "ReplaceSession", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteSession handles DELETE /sessions/:id
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		h.fail(c, "DeleteSession", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateAvailability handles POST /sessions/availability
func (h *Handler) CreateAvailability(c *gin.Context) {
	var batch model.AvailabilityBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	count, err := h.sessions.CreateAvailability(c.Request.Context(), actor(c), batch)
	if err != nil {
		h.fail(c, "CreateAvailability", err)
		return
	}
	c.JSON(http.StatusCreated, model.AvailabilityResult{Count: count})
}

// ListRelationships handles GET /relationships?psychologistId=
func (h *Handler) ListRelationships(c *gin.Context) {
	rels, err := h.sessions.ListRelationships(c.Request.Context(), actor(c), c.Query("psychologistId"))
	if err != nil {
		h.fail(c, "ListRelationships", err)
		return
	}
	c.JSON(http.StatusOK, rels)
}

// fail переводит ошибку сервиса в HTTP-статус и тело {error}
func (h *Handler) fail(c *gin.Context, op string, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(op+": request failed", zap.Error(err))
	} else {
		h.logger.Debug(op+": request rejected", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": message})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, calendar.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, calendar.ErrSessionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrSlotTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, calendar.ErrValidation):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
