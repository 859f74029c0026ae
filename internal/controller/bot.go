package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/controller/state"
	"github.com/Freeeeeet/practice_calendar/internal/formatting"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/Freeeeeet/practice_calendar/internal/render"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	callbackPrefix = "week:"
	callbackPrev   = callbackPrefix + "prev"
	callbackNext   = callbackPrefix + "next"
	callbackToday  = callbackPrefix + "today"
)

// Sender - методы *bot.Bot, которыми пользуется контроллер
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// WeekSource - календарь, из которого берутся сессии недели
type WeekSource interface {
	Load(ctx context.Context, startDate, endDate string) error
	Sessions() []model.Session
}

type BotController struct {
	bot    *bot.Bot
	sender Sender
	week   WeekSource
	states *state.Manager
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger

	// Load и Sessions одного календаря должны идти парой
	weekMu sync.Mutex
}

func NewBotController(
	botInstance *bot.Bot,
	week WeekSource,
	loc *time.Location,
	logger *zap.Logger,
) *BotController {
	if loc == nil {
		loc = time.Local
	}
	return &BotController{
		bot:    botInstance,
		sender: botInstance,
		week:   week,
		states: state.NewManager(),
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/next", bot.MatchTypeExact, c.HandleNext)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/prev", bot.MatchTypeExact, c.HandlePrev)

	// Обработчик нажатий на кнопки навигации по неделям
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, callbackPrefix, bot.MatchTypePrefix, c.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "week", Description: "🗓 Текущая неделя"},
		{Command: "next", Description: "➡️ Следующая неделя"},
		{Command: "prev", Description: "⬅️ Предыдущая неделя"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

// HandleHelp отправляет список команд
func (c *BotController) HandleHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := "👋 <b>Календарь практики</b>\n\n" +
		"/week - текущая неделя\n" +
		"/next - следующая неделя\n" +
		"/prev - предыдущая неделя"
	c.sendText(ctx, update.Message.Chat.ID, text)
}

// HandleWeek показывает текущую неделю
func (c *BotController) HandleWeek(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	c.states.Reset(chatID)
	c.sendWeek(ctx, chatID, 0)
}

// HandleNext листает на неделю вперёд
func (c *BotController) HandleNext(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	c.sendWeek(ctx, chatID, c.states.Shift(chatID, 1))
}

// HandlePrev листает на неделю назад
func (c *BotController) HandlePrev(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	c.sendWeek(ctx, chatID, c.states.Shift(chatID, -1))
}

// HandleCallbackQuery обрабатывает кнопки под картинкой недели
func (c *BotController) HandleCallbackQuery(ctx context.Context, _ *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}
	c.answerCallback(ctx, callback.ID)

	msg := callback.Message.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	var offset int
	switch callback.Data {
	case callbackPrev:
		offset = c.states.Shift(chatID, -1)
	case callbackNext:
		offset = c.states.Shift(chatID, 1)
	case callbackToday:
		c.states.Reset(chatID)
	default:
		c.logger.Warn("Unknown callback", zap.String("data", callback.Data))
		return
	}
	c.sendWeek(ctx, chatID, offset)
}

// sendWeek рисует неделю со смещением offset и отправляет картинку в чат
func (c *BotController) sendWeek(ctx context.Context, chatID int64, offset int) {
	image, caption, err := c.weekScreen(ctx, offset)
	if err != nil {
		c.logger.Error("Failed to build week screen",
			zap.Int64("chat_id", chatID),
			zap.Int("offset", offset),
			zap.Error(err),
		)
		c.sendText(ctx, chatID, calendar.ErrorMessage(err))
		return
	}

	_, err = c.sender.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(image)},
		Caption:     caption,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: weekKeyboard(),
	})
	if err != nil {
		c.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// weekScreen загружает неделю и возвращает картинку с подписью
func (c *BotController) weekScreen(ctx context.Context, offset int) ([]byte, string, error) {
	start := formatting.WeekStart(c.now().In(c.loc)).AddDate(0, 0, 7*offset)
	end := start.AddDate(0, 0, 6)

	c.weekMu.Lock()
	err := c.week.Load(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"))
	sessions := c.week.Sessions()
	c.weekMu.Unlock()
	if err != nil {
		return nil, "", fmt.Errorf("load week: %w", err)
	}

	image, err := render.GenerateWeekImage(start, sessions, nil)
	if err != nil {
		return nil, "", fmt.Errorf("render week: %w", err)
	}
	return image, weekCaption(start, sessions), nil
}

// weekCaption - подпись к картинке: диапазон, количество сессий и слотов, доход
func weekCaption(start time.Time, sessions []model.Session) string {
	var booked, slots int
	var income float64
	for _, s := range sessions {
		switch s.Status {
		case model.SessionStatusAvailable:
			slots++
		case model.SessionStatusCancelled:
		default:
			booked++
			income += formatting.PsychologistShare(s.Price, s.PercentPsych)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 <b>%s</b>\n\n", formatting.FormatWeekRange(start))
	if booked == 0 && slots == 0 {
		sb.WriteString("На этой неделе ничего не запланировано")
		return sb.String()
	}
	fmt.Fprintf(&sb, "📋 %d %s", booked, formatting.PluralizeSessions(booked))
	if slots > 0 {
		fmt.Fprintf(&sb, ", свободно %d %s", slots, formatting.PluralizeSlots(slots))
	}
	if income > 0 {
		fmt.Fprintf(&sb, "\n💰 Доход: %s", formatting.FormatPrice(income))
	}
	return sb.String()
}

func weekKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "⬅️ Назад", CallbackData: callbackPrev},
				{Text: "🗓 Сегодня", CallbackData: callbackToday},
				{Text: "Вперёд ➡️", CallbackData: callbackNext},
			},
		},
	}
}

func (c *BotController) answerCallback(ctx context.Context, callbackID string) {
	_, err := c.sender.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	})
	if err != nil {
		c.logger.Warn("Failed to answer callback", zap.Error(err))
	}
}

// sendText отправляет сообщение и логирует если не удалось
func (c *BotController) sendText(ctx context.Context, chatID int64, text string) {
	_, err := c.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		c.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}
