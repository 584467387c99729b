package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const msgStillProcessing = "Ainda estou preparando a resposta anterior, só um momento."

// Start botni ishga tushirish
func (h *BotHandler) Start(ctx context.Context) error {
	h.startedAt = time.Now()
	h.workerPool.start(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	h.log.Info().Str("bot", h.username).Msg("Telegram bot started")

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			h.stop()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				h.stop()
				return nil
			}
			if update.Message == nil {
				continue
			}
			h.handleMessage(ctx, update.Message)
		}
	}
}

// stop navbatdagi xabarlarni tugatib, ish vaqtini log qiladi
func (h *BotHandler) stop() {
	h.workerPool.shutdown()
	h.log.Info().Dur("uptime", time.Since(h.startedAt)).Msg("Telegram bot stopped")
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}
	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	userID := message.From.ID
	if !h.startProcessing(userID) {
		h.sendMessage(message.Chat.ID, msgStillProcessing)
		return
	}

	h.log.Debug().Int64("user", userID).Str("text", truncateForLog(text, 80)).Msg("incoming message")

	h.workerPool.submit(&messageRequest{
		ctx:      ctx,
		userID:   userID,
		username: displayName(message.From),
		text:     text,
		chatID:   message.Chat.ID,
	})
}
