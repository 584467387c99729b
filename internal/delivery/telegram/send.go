package telegram

import (
	"strings"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramMessageLimit bitta xabardagi max belgilar
const telegramMessageLimit = 4096

// sendMessage oddiy xabar yuborish, uzun matn bo'laklarga bo'linadi
func (h *BotHandler) sendMessage(chatID int64, text string) {
	if h.bot == nil {
		h.log.Debug().Int64("chat", chatID).Str("text", truncateForLog(text, 120)).Msg("sendMessage skipped (bot is nil)")
		return
	}

	// Bo'sh xabar tekshirish
	if strings.TrimSpace(text) == "" {
		h.log.Warn().Int64("chat", chatID).Msg("Bo'sh xabar yuborilmoqchi bo'ldi")
		text = constants.SafetyFallback
	}

	for _, chunk := range splitIntoChunks(text, telegramMessageLimit) {
		if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			h.log.Error().Err(err).Int64("chat", chatID).Msg("Xabar yuborishda xatolik")
			return
		}
	}
}

func (h *BotHandler) sendTyping(chatID int64) {
	if h.bot == nil {
		return
	}
	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		h.log.Debug().Err(err).Msg("typing action failed")
	}
}

// splitIntoChunks matnni Telegram limitiga mos bo'laklarga bo'ladi
func splitIntoChunks(s string, limit int) []string {
	if limit <= 0 {
		return []string{s}
	}
	var chunks []string
	var current strings.Builder

	for _, r := range s {
		current.WriteRune(r)
		if current.Len() >= limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
