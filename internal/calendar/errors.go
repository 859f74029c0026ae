package calendar

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/practice_calendar/internal/availability"
)

// Ошибки календаря
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("current user is not available")
	ErrSessionNotFound = errors.New("session not found")
	ErrNotDraggable    = errors.New("only scheduled sessions can be moved or resized")

	ErrTooShort             = fmt.Errorf("%w: session must last at least %d minutes", ErrValidation, MinDurationMinutes)
	ErrInvalidTime          = fmt.Errorf("%w: invalid date or time", ErrValidation)
	ErrPatientRequired      = fmt.Errorf("%w: patient is required", ErrValidation)
	ErrNoActiveRelationship = fmt.Errorf("%w: patient has no active relationship", ErrValidation)
	ErrNotAvailableSlot     = fmt.Errorf("%w: session is not an available slot", ErrValidation)
	ErrInvalidStatus        = fmt.Errorf("%w: unknown session status", ErrValidation)
	ErrNoSlotsGenerated     = fmt.Errorf("%w: %w", ErrValidation, availability.ErrNoSlots)
)

// serverMessage реализуют ошибки хранилища, несущие текст от сервера
type serverMessage interface {
	ServerMessage() string
}

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var sm serverMessage
	switch {
	case err == nil:
		return ""
	case errors.As(err, &sm):
		if msg := sm.ServerMessage(); msg != "" {
			return "❌ " + msg
		}
		return "❌ Не удалось сохранить изменения"
	case errors.Is(err, ErrUnauthenticated):
		return "❌ Не удалось определить пользователя. Войдите снова"
	case errors.Is(err, ErrTooShort):
		return fmt.Sprintf("❌ Сессия должна длиться не меньше %d минут", MinDurationMinutes)
	case errors.Is(err, ErrInvalidTime):
		return "❌ Неверная дата или время"
	case errors.Is(err, ErrPatientRequired):
		return "❌ Выберите пациента"
	case errors.Is(err, ErrNoActiveRelationship):
		return "❌ У пациента нет активной связи с вами"
	case errors.Is(err, ErrNotAvailableSlot):
		return "❌ Этот слот уже занят"
	case errors.Is(err, ErrInvalidStatus):
		return "❌ Неизвестный статус"
	case errors.Is(err, availability.ErrNoSlots):
		return "❌ По выбранным параметрам не получилось ни одного слота"
	case errors.Is(err, availability.ErrInvalidRequest):
		return "❌ Проверьте параметры доступности"
	case errors.Is(err, ErrSessionNotFound):
		return "❌ Сессия не найдена"
	case errors.Is(err, ErrNotDraggable):
		return "❌ Переносить можно только запланированные сессии"
	default:
		return "❌ Произошла ошибка"
	}
}
