package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/clock"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/Freeeeeet/practice_calendar/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrForbidden = errors.New("session belongs to another psychologist")
	ErrSlotTaken = fmt.Errorf("%w: slot is no longer available", calendar.ErrValidation)
)

// SessionRepository - хранилище сессий
type SessionRepository interface {
	List(ctx context.Context, psychologistID, startDate, endDate string) ([]model.Session, error)
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Create(ctx context.Context, s *model.Session) error
	CreateReplacingSlot(ctx context.Context, s *model.Session, slotID string) error
	Update(ctx context.Context, s *model.Session) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	CreateBatch(ctx context.Context, slots []model.Session) (int, error)
}

// RelationshipRepository - связи психолог-пациент
type RelationshipRepository interface {
	ListByPsychologist(ctx context.Context, psychologistID string) ([]model.Relationship, error)
	GetActive(ctx context.Context, psychologistID, patientID string) (*model.Relationship, error)
}

type SessionService struct {
	sessionRepo      SessionRepository
	relationshipRepo RelationshipRepository
	loc              *time.Location
	logger           *zap.Logger
}

func NewSessionService(
	sessionRepo SessionRepository,
	relationshipRepo RelationshipRepository,
	loc *time.Location,
	logger *zap.Logger,
) *SessionService {
	if loc == nil {
		loc = time.Local
	}
	return &SessionService{
		sessionRepo:      sessionRepo,
		relationshipRepo: relationshipRepo,
		loc:              loc,
		logger:           logger,
	}
}

// List возвращает сессии психолога за диапазон дат
func (s *SessionService) List(ctx context.Context, actorID, psychologistID, startDate, endDate string) ([]model.Session, error) {
	owner, err := s.owner(actorID, psychologistID)
	if err != nil {
		return nil, err
	}
	if !calendar.ValidDate(startDate) || !calendar.ValidDate(endDate) {
		return nil, calendar.ErrInvalidTime
	}

	sessions, err := s.sessionRepo.List(ctx, owner, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Create создаёт сессию. С DeleteDispoID свободный слот удаляется в той же транзакции.
func (s *SessionService) Create(ctx context.Context, actorID string, req model.SessionCreate) (*model.Session, error) {
	owner, err := s.owner(actorID, req.PsychologistID)
	if err != nil {
		return nil, err
	}

	session := req.Session.Clone()
	session.ID = uuid.NewString()
	session.PsychologistID = owner
	if session.Status == "" {
		session.Status = model.SessionStatusScheduled
	}
	if err := validate(session); err != nil {
		return nil, err
	}
	if !session.IsSlot() {
		if err := s.checkRelationship(ctx, owner, &session); err != nil {
			return nil, err
		}
	}
	s.deriveTimestamps(&session)

	if req.DeleteDispoID != "" {
		err = s.sessionRepo.CreateReplacingSlot(ctx, &session, req.DeleteDispoID)
		if errors.Is(err, repository.ErrSlotNotAvailable) {
			return nil, ErrSlotTaken
		}
	} else {
		err = s.sessionRepo.Create(ctx, &session)
	}
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("Session created",
		zap.String("session_id", session.ID),
		zap.String("psychologist_id", owner),
		zap.String("replaced_slot", req.DeleteDispoID),
	)
	return &session, nil
}

// Patch применяет частичное обновление
func (s *SessionService) Patch(ctx context.Context, actorID, id string, patch model.SessionPatch) (*model.Session, error) {
	existing, err := s.get(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*existing)
	check := validate
	if !patch.TouchesTime() {
		check = validateStatus
	}
	if err := check(updated); err != nil {
		return nil, err
	}
	s.deriveTimestamps(&updated)

	return s.update(ctx, &updated)
}

// Replace перезаписывает сессию целиком; владелец и дата создания не меняются
func (s *SessionService) Replace(ctx context.Context, actorID, id string, next model.Session) (*model.Session, error) {
	existing, err := s.get(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	updated := next.Clone()
	updated.ID = existing.ID
	updated.PsychologistID = existing.PsychologistID
	updated.CreatedAt = existing.CreatedAt
	if err := validate(updated); err != nil {
		return nil, err
	}
	s.deriveTimestamps(&updated)

	return s.update(ctx, &updated)
}

// Delete удаляет сессию или слот
func (s *SessionService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.get(ctx, actorID, id); err != nil {
		return err
	}

	deleted, err := s.sessionRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if !deleted {
		return calendar.ErrSessionNotFound
	}

	s.logger.Info("Session deleted", zap.String("session_id", id))
	return nil
}

// CreateAvailability сохраняет пачку свободных слотов
func (s *SessionService) CreateAvailability(ctx context.Context, actorID string, batch model.AvailabilityBatch) (int, error) {
	owner, err := s.owner(actorID, batch.PsychologistID)
	if err != nil {
		return 0, err
	}
	if len(batch.Slots) == 0 {
		return 0, calendar.ErrNoSlotsGenerated
	}

	slots := make([]model.Session, 0, len(batch.Slots))
	for _, in := range batch.Slots {
		slot := in.Clone()
		slot.ID = uuid.NewString()
		slot.PsychologistID = owner
		slot.Status = model.SessionStatusAvailable
		slot.PatientID, slot.PatientName = "", ""
		slot.Price, slot.PercentPsych, slot.Paid = 0, 0, false
		if err := validate(slot); err != nil {
			return 0, err
		}
		s.deriveTimestamps(&slot)
		slots = append(slots, slot)
	}

	count, err := s.sessionRepo.CreateBatch(ctx, slots)
	if err != nil {
		return 0, fmt.Errorf("create availability: %w", err)
	}

	s.logger.Info("Availability created", zap.String("psychologist_id", owner), zap.Int("count", count))
	return count, nil
}

// ListRelationships возвращает связи психолога
func (s *SessionService) ListRelationships(ctx context.Context, actorID, psychologistID string) ([]model.Relationship, error) {
	owner, err := s.owner(actorID, psychologistID)
	if err != nil {
		return nil, err
	}

	rels, err := s.relationshipRepo.ListByPsychologist(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	return rels, nil
}

func (s *SessionService) get(ctx context.Context, actorID, id string) (*model.Session, error) {
	if actorID == "" {
		return nil, calendar.ErrUnauthenticated
	}

	existing, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if existing == nil {
		return nil, calendar.ErrSessionNotFound
	}
	if existing.PsychologistID != actorID {
		return nil, ErrForbidden
	}
	return existing, nil
}

func (s *SessionService) update(ctx context.Context, session *model.Session) (*model.Session, error) {
	updated, err := s.sessionRepo.Update(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	if !updated {
		return nil, calendar.ErrSessionNotFound
	}

	s.logger.Info("Session updated",
		zap.String("session_id", session.ID),
		zap.String("date", session.Date),
		zap.String("start_time", session.StartTime),
		zap.String("end_time", session.EndTime),
		zap.String("status", string(session.Status)),
	)
	return session, nil
}

// owner - психолог, от имени которого действует пользователь; чужой календарь запрещён
func (s *SessionService) owner(actorID, psychologistID string) (string, error) {
	if actorID == "" {
		return "", calendar.ErrUnauthenticated
	}
	if psychologistID != "" && psychologistID != actorID {
		return "", ErrForbidden
	}
	return actorID, nil
}

func (s *SessionService) checkRelationship(ctx context.Context, owner string, session *model.Session) error {
	rel, err := s.relationshipRepo.GetActive(ctx, owner, session.PatientID)
	if err != nil {
		return fmt.Errorf("get relationship: %w", err)
	}
	if rel == nil {
		return calendar.ErrNoActiveRelationship
	}
	if session.PatientName == "" {
		session.PatientName = rel.PatientName
	}
	return nil
}

func (s *SessionService) deriveTimestamps(session *model.Session) {
	if start, err := calendar.AbsoluteTime(session.Date, session.StartTime, s.loc); err == nil {
		session.StartsAt = &start
	}
	if end, err := calendar.AbsoluteTime(session.Date, session.EndTime, s.loc); err == nil {
		session.EndsAt = &end
	}
}

// validate проверяет формат даты и времени, длительность, статус и тип
func validate(session model.Session) error {
	if !calendar.ValidDate(session.Date) {
		return fmt.Errorf("%w: date %q", calendar.ErrInvalidTime, session.Date)
	}
	if _, err := clock.Parse(session.StartTime); err != nil {
		return fmt.Errorf("%w: %w", calendar.ErrInvalidTime, err)
	}
	if _, err := clock.Parse(session.EndTime); err != nil {
		return fmt.Errorf("%w: %w", calendar.ErrInvalidTime, err)
	}
	if calendar.MinutesBetween(session.StartTime, session.EndTime) < calendar.MinDurationMinutes {
		return calendar.ErrTooShort
	}
	return validateStatus(session)
}

// validateStatus проверяет поля, не связанные со временем
func validateStatus(session model.Session) error {
	if !session.Status.Valid() {
		return calendar.ErrInvalidStatus
	}
	if !session.Type.Valid() {
		return fmt.Errorf("%w: session type %q", calendar.ErrValidation, session.Type)
	}
	if !session.IsSlot() && session.PatientID == "" {
		return calendar.ErrPatientRequired
	}
	return nil
}
