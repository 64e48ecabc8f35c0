// Package bot телеграм бот группы: команды просмотра окна, статистики и ленты,
// уведомления о записях и периодический дайджест.
package bot

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_board/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const recentActivityLimit = 10

// Sender часть *bot.Bot, которой пользуются уведомления и дайджест
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
}

// Services сервисы, которые читает бот
type Services struct {
	Window        *service.WindowService
	Participation *service.ParticipationService
	Activities    *service.ActivityService
}

type Controller struct {
	bot      *bot.Bot
	sender   Sender
	services Services
	chatID   int64
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewController создаёт контроллер. chatID чат группы для уведомлений и дайджеста.
func NewController(b *bot.Bot, services Services, chatID int64, loc *time.Location, logger *zap.Logger) *Controller {
	if loc == nil {
		loc = time.Local
	}
	c := &Controller{
		bot:      b,
		services: services,
		chatID:   chatID,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
	if b != nil {
		c.sender = b
	}
	return c
}

// RegisterHandlers регистрирует все обработчики команд
func (c *Controller) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/window", bot.MatchTypeExact, c.handleWindow)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, c.handleStats)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/activity", bot.MatchTypeExact, c.handleActivity)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *Controller) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Start"},
		{Command: "help", Description: "❓ Commands"},
		{Command: "window", Description: "📅 Booking window for two weeks"},
		{Command: "stats", Description: "📊 Participation this month"},
		{Command: "activity", Description: "📝 Recent activity"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает long polling, блокирует до отмены ctx
func (c *Controller) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

func (c *Controller) today() time.Time {
	return c.now().In(c.loc)
}
