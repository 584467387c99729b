package telegram

import (
	"context"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	helpMessage = "Sou o AVI, assistente virtual da Agrofel.\n\n" +
		"Você pode:\n" +
		"- pedir uma cotação, por exemplo: \"20 unidades de 09 25 15 C/MICRO\"\n" +
		"- perguntar por produtos para uma cultura, por exemplo: \"o que vocês têm para soja?\"\n\n" +
		"/reset - começar uma nova conversa"
	resetMessage   = "Conversa reiniciada. Como posso ajudar?"
	unknownCommand = "Comando desconhecido. Use /help para ajuda."
)

// handleCommand /start, /help va /reset komandalari
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		h.sendMessage(chatID, constants.WelcomeMessage)
	case "help":
		h.sendMessage(chatID, helpMessage)
	case "reset", "clear":
		if err := h.chatUseCase.ClearHistory(ctx, conversationID(chatID)); err != nil {
			h.log.Error().Err(err).Int64("chat", chatID).Msg("history clear failed")
		}
		h.sendMessage(chatID, resetMessage)
	default:
		h.sendMessage(chatID, unknownCommand)
	}
}
