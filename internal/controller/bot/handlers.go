package bot

import (
	"bytes"
	"context"

	"github.com/Freeeeeet/slot_board/internal/render"
	"github.com/Freeeeeet/slot_board/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Commands:\n\n" +
	"/window - Booking window for this and next week\n" +
	"/stats - Participation for the current month\n" +
	"/activity - Last bookings and cancellations\n" +
	"/help - Show this help\n\n" +
	"Bookings are made on the web board, one slot per member per weekday."

func (c *Controller) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "there"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	c.sendText(ctx, b, update.Message.Chat.ID, "👋 Hi, "+name+"!\n\n"+helpText)
}

func (c *Controller) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.sendText(ctx, b, update.Message.Chat.ID, helpText)
}

func (c *Controller) handleWindow(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	if err := c.sendWindow(ctx, b, update.Message.Chat.ID); err != nil {
		c.logger.Error("Failed to send window", zap.Error(err))
		c.sendText(ctx, b, update.Message.Chat.ID, "❌ Failed to load the booking window. Try again later.")
	}
}

func (c *Controller) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text, err := c.statsText(ctx)
	if err != nil {
		c.logger.Error("Failed to compute participation", zap.Error(err))
		text = "❌ Failed to compute participation. Try again later."
	}
	c.sendText(ctx, b, update.Message.Chat.ID, text)
}

func (c *Controller) handleActivity(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text, err := c.activityText(ctx)
	if err != nil {
		c.logger.Error("Failed to fetch activities", zap.Error(err))
		text = "❌ Failed to load activity. Try again later."
	}
	c.sendText(ctx, b, update.Message.Chat.ID, text)
}

// sendWindow отправляет текст окна и картинку в чат
func (c *Controller) sendWindow(ctx context.Context, s Sender, chatID int64) error {
	now := c.today()

	overview, err := c.services.Window.Overview(ctx, now)
	if err != nil {
		return err
	}

	if _, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   FormatWindow(overview),
	}); err != nil {
		return err
	}

	imageData, err := render.WindowImage(overview, now)
	if err != nil {
		// текст уже ушёл, картинка не обязательна
		c.logger.Warn("Failed to render window image", zap.Error(err))
		return nil
	}

	_, err = s.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo:  &models.InputFileUpload{Filename: "window.png", Data: bytes.NewReader(imageData)},
	})
	return err
}

func (c *Controller) statsText(ctx context.Context) (string, error) {
	now := c.today()

	stats, err := c.services.Participation.Monthly(ctx, now.Year(), now.Month(), service.SortByParticipationRate, service.SortDesc)
	if err != nil {
		return "", err
	}
	return FormatStats(now.Year(), now.Month(), stats), nil
}

func (c *Controller) activityText(ctx context.Context) (string, error) {
	activities, err := c.services.Activities.Recent(ctx, recentActivityLimit)
	if err != nil {
		return "", err
	}
	return FormatActivities(activities, c.loc), nil
}

func (c *Controller) sendText(ctx context.Context, s Sender, chatID int64, text string) {
	if _, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		c.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
