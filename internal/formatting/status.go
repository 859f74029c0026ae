package formatting

import "github.com/Freeeeeet/practice_calendar/internal/model"

// StatusDisplay представляет отображение статуса сессии
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetStatusDisplay возвращает emoji и текст для статуса сессии
func GetStatusDisplay(status model.SessionStatus) StatusDisplay {
	displays := map[model.SessionStatus]StatusDisplay{
		model.SessionStatusScheduled: {"🗓", "Запланирована"},
		model.SessionStatusCompleted: {"✔️", "Проведена"},
		model.SessionStatusCancelled: {"❌", "Отменена"},
		model.SessionStatusAvailable: {"🟢", "Свободный слот"},
		model.SessionStatusPaid:      {"💰", "Оплачена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// SessionTitle - короткая подпись сессии для сетки и календарных фидов
func SessionTitle(s model.Session) string {
	if s.IsSlot() {
		return "Свободно"
	}
	if s.PatientName != "" {
		return s.PatientName
	}
	return "Сессия"
}

// GetTypeName возвращает название формата сессии
func GetTypeName(t model.SessionType) string {
	switch t {
	case model.SessionTypeInPerson:
		return "Очно"
	case model.SessionTypeOnline:
		return "Онлайн"
	case model.SessionTypeHomeVisit:
		return "На дому"
	}
	return ""
}
