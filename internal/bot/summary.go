package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RefreshSummary rewrites the published summary from the current
// reservations. It does nothing until a summary has been started; failures
// are logged and dropped.
func (bot *Bot) RefreshSummary(ctx context.Context) {
	cfg, err := bot.store.Display(ctx)
	if err != nil {
		bot.log.Warn("refresh summary: read display config", zap.Error(err))
		return
	}
	if !cfg.Ready() {
		return
	}
	log := bot.log.With(
		zap.String("channel_id", cfg.ChannelID),
		zap.String("message_id", cfg.MessageID),
	)

	text, err := bot.renderSummary(ctx)
	if err != nil {
		log.Warn("refresh summary", zap.Error(err))
		return
	}
	if _, err := bot.tr.Fetch(ctx, cfg.ChannelID, cfg.MessageID); err != nil {
		log.Warn("refresh summary: fetch message", zap.Error(err))
		return
	}
	if err := bot.tr.Edit(ctx, cfg.ChannelID, cfg.MessageID, text); err != nil {
		log.Warn("refresh summary: edit message", zap.Error(err))
	}
}

func (bot *Bot) renderSummary(ctx context.Context) (string, error) {
	res, err := bot.store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list reservations: %w", err)
	}
	return bot.renderer.Render(res), nil
}
