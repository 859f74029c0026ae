package notify

import (
	"context"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MessageSender - часть *bot.Bot, нужная для отправки текста
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramReporter показывает ошибки календаря сообщением в чат
type TelegramReporter struct {
	sender MessageSender
	chatID int64
	logger *zap.Logger
}

var _ calendar.Reporter = (*TelegramReporter)(nil)

func NewTelegramReporter(sender MessageSender, chatID int64, logger *zap.Logger) *TelegramReporter {
	return &TelegramReporter{sender: sender, chatID: chatID, logger: logger}
}

// ReportError отправляет сообщение; без чата или бота ошибка только пишется в лог
func (r *TelegramReporter) ReportError(ctx context.Context, message string) {
	r.logger.Warn("User-facing error", zap.String("message", message), zap.Int64("chat_id", r.chatID))

	if r.sender == nil || r.chatID == 0 {
		return
	}

	_, err := r.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: r.chatID,
		Text:   message,
	})
	if err != nil {
		r.logger.Error("Failed to send error message",
			zap.Int64("chat_id", r.chatID),
			zap.String("text", message),
			zap.Error(err),
		)
	}
}
