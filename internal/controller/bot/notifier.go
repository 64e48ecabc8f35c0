package bot

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// OnActivity пишет в чат группы о записи или отмене
func (c *Controller) OnActivity(ctx context.Context, activity *model.Activity) error {
	if c.sender == nil || c.chatID == 0 {
		return nil
	}

	_, err := c.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: c.chatID,
		Text:   FormatActivity(activity),
	})
	if err != nil {
		return fmt.Errorf("send activity to chat %d: %w", c.chatID, err)
	}
	return nil
}

// SendDigest отправляет в чат группы обзор окна записи
func (c *Controller) SendDigest(ctx context.Context) error {
	if c.sender == nil || c.chatID == 0 {
		return nil
	}

	if err := c.sendWindow(ctx, c.sender, c.chatID); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	c.logger.Info("Digest sent", zap.Int64("chat_id", c.chatID))
	return nil
}
