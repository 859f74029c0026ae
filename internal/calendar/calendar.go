package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/availability"
	"github.com/Freeeeeet/practice_calendar/internal/clock"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options - зависимости WeekCalendar
type Options struct {
	Store     SessionStore
	Directory Directory
	User      CurrentUser
	Viewport  ViewportGeometry
	Reporter  Reporter
	Forms     FormOpener
	Location  *time.Location
	Logger    *zap.Logger

	// PsychologistID - чей календарь открыт; пустое значение означает текущего пользователя
	PsychologistID string
}

// WeekCalendar владеет списком сессий видимого диапазона и состоянием жеста.
// Список меняется только целиком, под мьютексом.
type WeekCalendar struct {
	store     SessionStore
	directory Directory
	user      CurrentUser
	reporter  Reporter
	forms     FormOpener
	loc       *time.Location
	logger    *zap.Logger

	mu             sync.Mutex
	viewport       ViewportGeometry
	sessions       []model.Session
	interaction    Interaction
	psychologistID string
	startDate      string
	endDate        string

	pending sync.WaitGroup
}

// New создаёт календарь
func New(opts Options) *WeekCalendar {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = LogReporter{Logger: logger}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &WeekCalendar{
		store:          opts.Store,
		directory:      opts.Directory,
		user:           opts.User,
		reporter:       reporter,
		forms:          opts.Forms,
		loc:            loc,
		logger:         logger,
		viewport:       opts.Viewport,
		psychologistID: opts.PsychologistID,
	}
}

// SessionForm - данные формы создания сессии
type SessionForm struct {
	Date         string
	StartTime    string
	EndTime      string
	PatientID    string
	Type         model.SessionType
	Notes        string
	MeetLink     string
	Price        *float64 // nil - цена по умолчанию из связи с пациентом
	PercentPsych *float64
}

// FormFromDraft заполняет форму из черновика жеста создания
func FormFromDraft(d Draft) SessionForm {
	return SessionForm{Date: d.Date, StartTime: d.StartTime, EndTime: d.EndTime}
}

// Load загружает сессии диапазона [startDate, endDate]. Смена диапазона сбрасывает список.
func (c *WeekCalendar) Load(ctx context.Context, startDate, endDate string) error {
	c.mu.Lock()
	if c.startDate != startDate || c.endDate != endDate {
		c.sessions = nil
	}
	c.startDate, c.endDate = startDate, endDate
	c.mu.Unlock()

	return c.Reload(ctx)
}

// Reload заново читает весь список из хранилища
func (c *WeekCalendar) Reload(ctx context.Context) error {
	actor, err := c.actor(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	startDate, endDate := c.startDate, c.endDate
	c.mu.Unlock()

	sessions, err := c.store.ListSessions(ctx, actor, c.owner(actor), startDate, endDate)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	c.mu.Lock()
	c.sessions = sessions
	c.mu.Unlock()

	c.logger.Debug("Sessions loaded",
		zap.String("start_date", startDate),
		zap.String("end_date", endDate),
		zap.Int("count", len(sessions)),
	)
	return nil
}

// Sessions возвращает копию текущего списка
func (c *WeekCalendar) Sessions() []model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Session, len(c.sessions))
	for i, s := range c.sessions {
		out[i] = s.Clone()
	}
	return out
}

// Session возвращает сессию по id
func (c *WeekCalendar) Session(id string) (model.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := indexOf(c.sessions, id); i >= 0 {
		return c.sessions[i].Clone(), true
	}
	return model.Session{}, false
}

// Range возвращает видимый диапазон дат
func (c *WeekCalendar) Range() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startDate, c.endDate
}

// SetViewport заменяет раскладку сетки (например, после прокрутки)
func (c *WeekCalendar) SetViewport(vp ViewportGeometry) {
	c.mu.Lock()
	c.viewport = vp
	c.mu.Unlock()
}

func (c *WeekCalendar) Interaction() Interaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interaction
}

func (c *WeekCalendar) Preview() *PreviewRect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interaction.Preview()
}

// PointerDown начинает жест
func (c *WeekCalendar) PointerDown(target Target, p Pointer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.interaction.Down(target, c.viewport, p)
	if err != nil {
		return err
	}
	c.interaction = next
	return nil
}

func (c *WeekCalendar) PointerMove(p Pointer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interaction = c.interaction.Move(c.viewport, p)
}

// PointerUp завершает жест. Локальная запись делается сразу,
// сохранение переноса и растягивания идёт в фоне (см. Wait).
func (c *WeekCalendar) PointerUp(ctx context.Context, p Pointer) Outcome {
	c.mu.Lock()
	next, out := c.interaction.Up(c.viewport, p)
	c.interaction = next
	c.mu.Unlock()

	switch {
	case out.Draft != nil:
		if c.forms != nil {
			c.forms.OpenCreateForm(*out.Draft)
		}

	case out.Move != nil:
		m := *out.Move
		prev, s, ok := c.apply(m.SessionID, func(s *model.Session) {
			s.Date = m.Date
			s.StartTime = m.Range.Start
			s.EndTime = m.Range.End
		})
		if ok {
			c.background(ctx, func(ctx context.Context) {
				_ = c.persistPatch(ctx, prev, c.timePatch(s))
			})
		}

	case out.Resize != nil:
		r := *out.Resize
		prev, s, ok := c.apply(r.SessionID, func(s *model.Session) {
			s.StartTime = r.Range.Start
			s.EndTime = r.Range.End
		})
		if ok {
			c.background(ctx, func(ctx context.Context) {
				_ = c.persistReplace(ctx, prev, s)
			})
		}
	}

	return out
}

// Wait дожидается фоновых сохранений
func (c *WeekCalendar) Wait() {
	c.pending.Wait()
}

// UpdateSessionTime меняет время сессии: локально сразу, затем PUT полной записи.
// Отсутствующая сессия - не ошибка.
func (c *WeekCalendar) UpdateSessionTime(ctx context.Context, id, start, end string) error {
	if _, err := clock.Parse(start); err != nil {
		return c.reject(ctx, fmt.Errorf("%w: %w", ErrInvalidTime, err))
	}
	if _, err := clock.Parse(end); err != nil {
		return c.reject(ctx, fmt.Errorf("%w: %w", ErrInvalidTime, err))
	}
	if MinutesBetween(start, end) < MinDurationMinutes {
		return c.reject(ctx, ErrTooShort)
	}

	prev, s, ok := c.apply(id, func(s *model.Session) {
		s.StartTime = start
		s.EndTime = end
	})
	if !ok {
		return nil
	}
	return c.persistReplace(ctx, prev, s)
}

// MoveSession переносит сессию на другую дату и время через PATCH
func (c *WeekCalendar) MoveSession(ctx context.Context, id, date, start, end string) error {
	if !ValidDate(date) {
		return c.reject(ctx, ErrInvalidTime)
	}
	if _, err := clock.Parse(start); err != nil {
		return c.reject(ctx, fmt.Errorf("%w: %w", ErrInvalidTime, err))
	}
	if MinutesBetween(start, end) < MinDurationMinutes {
		return c.reject(ctx, ErrTooShort)
	}

	prev, s, ok := c.apply(id, func(s *model.Session) {
		s.Date = date
		s.StartTime = start
		s.EndTime = end
	})
	if !ok {
		return nil
	}
	return c.persistPatch(ctx, prev, c.timePatch(s))
}

// ChangeStatus меняет статус сессии по той же схеме, что и перенос
func (c *WeekCalendar) ChangeStatus(ctx context.Context, id string, status model.SessionStatus) error {
	if !status.Valid() {
		return c.reject(ctx, ErrInvalidStatus)
	}

	prev, _, ok := c.apply(id, func(s *model.Session) { s.Status = status })
	if !ok {
		return nil
	}
	return c.persistPatch(ctx, prev, model.SessionPatch{Status: &status})
}

// CreateSession создаёт сессию из формы. Строка с временным id появляется сразу
// и заменяется записью сервера после успешного POST.
func (c *WeekCalendar) CreateSession(ctx context.Context, form SessionForm) (*model.Session, error) {
	if err := validateForm(form); err != nil {
		return nil, c.reject(ctx, err)
	}

	actor, err := c.actor(ctx)
	if err != nil {
		return nil, c.rollback(ctx, err, nil)
	}
	rel, err := c.activeRelationship(ctx, actor, form.PatientID)
	if err != nil {
		return nil, err
	}

	s := model.Session{
		ID:             uuid.NewString(),
		PsychologistID: c.owner(actor),
		PatientID:      rel.PatientID,
		PatientName:    rel.PatientName,
		Date:           form.Date,
		StartTime:      form.StartTime,
		EndTime:        form.EndTime,
		Status:         model.SessionStatusScheduled,
		Type:           form.Type,
		Price:          rel.DefaultPrice,
		PercentPsych:   rel.PercentPsych,
		Notes:          form.Notes,
		MeetLink:       form.MeetLink,
	}
	if form.Price != nil {
		s.Price = *form.Price
	}
	if form.PercentPsych != nil {
		s.PercentPsych = *form.PercentPsych
	}
	s = c.withTimestamps(s)

	c.insert(s)
	return c.persistCreate(ctx, actor, model.SessionCreate{Session: s}, func() { c.remove(s.ID) })
}

// AssignSlot превращает свободный слот в запланированную сессию пациента.
// Слот удаляется на сервере в той же операции (deleteDispoId).
func (c *WeekCalendar) AssignSlot(ctx context.Context, slotID, patientID string) (*model.Session, error) {
	slot, ok := c.Session(slotID)
	if !ok {
		return nil, c.reject(ctx, ErrSessionNotFound)
	}
	if !slot.IsSlot() {
		return nil, c.reject(ctx, ErrNotAvailableSlot)
	}
	if patientID == "" {
		return nil, c.reject(ctx, ErrPatientRequired)
	}

	actor, err := c.actor(ctx)
	if err != nil {
		return nil, c.rollback(ctx, err, nil)
	}
	rel, err := c.activeRelationship(ctx, actor, patientID)
	if err != nil {
		return nil, err
	}

	s := slot.Clone()
	s.ID = uuid.NewString()
	s.PsychologistID = c.owner(actor)
	s.PatientID = rel.PatientID
	s.PatientName = rel.PatientName
	s.Status = model.SessionStatusScheduled
	s.Price = rel.DefaultPrice
	s.PercentPsych = rel.PercentPsych
	s.Paid = false
	s = c.withTimestamps(s)

	c.replace(slotID, s)
	return c.persistCreate(ctx, actor, model.SessionCreate{Session: s, DeleteDispoID: slotID}, func() { c.replace(s.ID, slot) })
}

// DeleteSession удаляет сессию или слот
func (c *WeekCalendar) DeleteSession(ctx context.Context, id string) error {
	prev, ok := c.remove(id)
	if !ok {
		return nil
	}
	undo := func() { c.insert(prev) }

	actor, err := c.actor(ctx)
	if err != nil {
		return c.rollback(ctx, err, undo)
	}
	if err := c.store.DeleteSession(ctx, actor, id); err != nil {
		return c.rollback(ctx, fmt.Errorf("delete session %s: %w", id, err), undo)
	}
	return nil
}

// GenerateAvailability создаёт свободные слоты и перечитывает список
func (c *WeekCalendar) GenerateAvailability(ctx context.Context, req availability.Request) (int, error) {
	slots, err := availability.Generate(req)
	switch {
	case errors.Is(err, availability.ErrNoSlots):
		return 0, c.reject(ctx, ErrNoSlotsGenerated)
	case err != nil:
		return 0, c.reject(ctx, fmt.Errorf("%w: %w", ErrValidation, err))
	}

	actor, err := c.actor(ctx)
	if err != nil {
		return 0, c.rollback(ctx, err, nil)
	}
	owner := req.PsychologistID
	if owner == "" {
		owner = c.owner(actor)
	}
	for i := range slots {
		slots[i].PsychologistID = owner
		slots[i] = c.withTimestamps(slots[i])
	}

	count, err := c.store.CreateAvailability(ctx, actor, model.AvailabilityBatch{Slots: slots, PsychologistID: owner})
	if err != nil {
		return 0, c.rollback(ctx, fmt.Errorf("create availability: %w", err), nil)
	}

	c.logger.Info("Availability generated", zap.Int("count", count), zap.String("psychologist_id", owner))

	if err := c.Reload(ctx); err != nil {
		c.logger.Error("Failed to reload sessions", zap.Error(err))
	}
	return count, nil
}

// ActivePatients возвращает пациентов с активной связью
func (c *WeekCalendar) ActivePatients(ctx context.Context) ([]model.Relationship, error) {
	actor, err := c.actor(ctx)
	if err != nil {
		return nil, err
	}
	rels, err := c.directory.ListRelationships(ctx, actor, c.owner(actor))
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}

	active := make([]model.Relationship, 0, len(rels))
	for _, r := range rels {
		if r.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

// persistPatch отправляет PATCH; prev - значение сессии до локального изменения
func (c *WeekCalendar) persistPatch(ctx context.Context, prev model.Session, patch model.SessionPatch) error {
	undo := func() { c.replace(prev.ID, prev) }

	actor, err := c.actor(ctx)
	if err != nil {
		return c.rollback(ctx, err, undo)
	}
	if err := c.store.PatchSession(ctx, actor, prev.ID, patch); err != nil {
		return c.rollback(ctx, fmt.Errorf("patch session %s: %w", prev.ID, err), undo)
	}
	return nil
}

func (c *WeekCalendar) persistReplace(ctx context.Context, prev, s model.Session) error {
	undo := func() { c.replace(prev.ID, prev) }

	actor, err := c.actor(ctx)
	if err != nil {
		return c.rollback(ctx, err, undo)
	}
	if err := c.store.ReplaceSession(ctx, actor, c.withTimestamps(s)); err != nil {
		return c.rollback(ctx, fmt.Errorf("replace session %s: %w", s.ID, err), undo)
	}
	return nil
}

func (c *WeekCalendar) persistCreate(ctx context.Context, actor string, req model.SessionCreate, undo func()) (*model.Session, error) {
	created, err := c.store.CreateSession(ctx, actor, req)
	if err != nil {
		return nil, c.rollback(ctx, fmt.Errorf("create session: %w", err), undo)
	}
	if created == nil {
		s := req.Session.Clone()
		return &s, nil
	}
	c.replace(req.ID, *created)
	return created, nil
}

// rollback откатывает оптимистичную запись перечитыванием списка.
// Если перечитать не удалось (например, нет пользователя), undo
// возвращает локальное значение, которое было до изменения.
func (c *WeekCalendar) rollback(ctx context.Context, cause error, undo func()) error {
	c.logger.Error("Session mutation failed, reloading", zap.Error(cause))
	c.reporter.ReportError(ctx, ErrorMessage(cause))

	if err := c.Reload(ctx); err != nil {
		c.logger.Error("Failed to reload sessions", zap.Error(err))
		if undo != nil {
			undo()
		}
	}
	return cause
}

// reject сообщает об ошибке проверки; состояние не менялось
func (c *WeekCalendar) reject(ctx context.Context, err error) error {
	c.logger.Debug("Mutation rejected", zap.Error(err))
	c.reporter.ReportError(ctx, ErrorMessage(err))
	return err
}

func (c *WeekCalendar) background(ctx context.Context, fn func(ctx context.Context)) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		fn(ctx)
	}()
}

func (c *WeekCalendar) actor(ctx context.Context) (string, error) {
	if c.user == nil {
		return "", ErrUnauthenticated
	}
	id, err := c.user.CurrentUserID(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if id == "" {
		return "", ErrUnauthenticated
	}
	return id, nil
}

func (c *WeekCalendar) owner(actor string) string {
	if c.psychologistID != "" {
		return c.psychologistID
	}
	return actor
}

func (c *WeekCalendar) activeRelationship(ctx context.Context, actor, patientID string) (model.Relationship, error) {
	rels, err := c.directory.ListRelationships(ctx, actor, c.owner(actor))
	if err != nil {
		return model.Relationship{}, c.rollback(ctx, fmt.Errorf("list relationships: %w", err), nil)
	}
	for _, r := range rels {
		if r.PatientID == patientID && r.Active {
			return r, nil
		}
	}
	return model.Relationship{}, c.reject(ctx, ErrNoActiveRelationship)
}

func (c *WeekCalendar) timePatch(s model.Session) model.SessionPatch {
	s = c.withTimestamps(s)
	return model.SessionPatch{
		Date:         &s.Date,
		StartTime:    &s.StartTime,
		EndTime:      &s.EndTime,
		StartsAt:     s.StartsAt,
		EndsAt:       s.EndsAt,
		Price:        &s.Price,
		Paid:         &s.Paid,
		PercentPsych: &s.PercentPsych,
	}
}

// withTimestamps выставляет startsAt/endsAt из даты и времени
func (c *WeekCalendar) withTimestamps(s model.Session) model.Session {
	if start, err := AbsoluteTime(s.Date, s.StartTime, c.loc); err == nil {
		s.StartsAt = &start
	}
	if end, err := AbsoluteTime(s.Date, s.EndTime, c.loc); err == nil {
		s.EndsAt = &end
	}
	return s
}

// apply заменяет сессию id изменённой копией; остальные элементы не трогаются.
// Возвращает прежнее и новое значение.
func (c *WeekCalendar) apply(id string, mutate func(s *model.Session)) (model.Session, model.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := indexOf(c.sessions, id)
	if i < 0 {
		return model.Session{}, model.Session{}, false
	}
	prev := c.sessions[i].Clone()

	next := make([]model.Session, len(c.sessions))
	copy(next, c.sessions)
	updated := next[i].Clone()
	mutate(&updated)
	next[i] = updated
	c.sessions = next

	return prev, updated.Clone(), true
}

func (c *WeekCalendar) insert(s model.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]model.Session, 0, len(c.sessions)+1)
	next = append(next, c.sessions...)
	c.sessions = append(next, s)
}

func (c *WeekCalendar) replace(id string, s model.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := indexOf(c.sessions, id)
	if i < 0 {
		return
	}
	next := make([]model.Session, len(c.sessions))
	copy(next, c.sessions)
	next[i] = s
	c.sessions = next
}

func (c *WeekCalendar) remove(id string) (model.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := indexOf(c.sessions, id)
	if i < 0 {
		return model.Session{}, false
	}
	removed := c.sessions[i]
	next := make([]model.Session, 0, len(c.sessions)-1)
	next = append(next, c.sessions[:i]...)
	c.sessions = append(next, c.sessions[i+1:]...)
	return removed, true
}

func indexOf(sessions []model.Session, id string) int {
	for i := range sessions {
		if sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func validateForm(f SessionForm) error {
	if !ValidDate(f.Date) {
		return ErrInvalidTime
	}
	if _, err := clock.Parse(f.StartTime); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}
	if _, err := clock.Parse(f.EndTime); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}
	if f.PatientID == "" {
		return ErrPatientRequired
	}
	if !f.Type.Valid() {
		return fmt.Errorf("%w: session type %q", ErrValidation, f.Type)
	}
	if MinutesBetween(f.StartTime, f.EndTime) < MinDurationMinutes {
		return ErrTooShort
	}
	return nil
}
