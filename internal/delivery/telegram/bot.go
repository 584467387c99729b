package telegram

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/agrofel/sales-agent/internal/usecase"
	"github.com/agrofel/sales-agent/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// botAPI is the part of *tgbotapi.BotAPI the handler uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot         botAPI
	username    string
	chatUseCase usecase.ChatUseCase
	log         zerolog.Logger

	processingMu sync.RWMutex
	processing   map[int64]bool

	workerPool *workerPool
	startedAt  time.Time
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(token string, chatUseCase usecase.ChatUseCase) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h := newBotHandler(bot, chatUseCase, defaultWorkerCount)
	h.username = bot.Self.UserName
	return h, nil
}

func newBotHandler(bot botAPI, chatUseCase usecase.ChatUseCase, workers int) *BotHandler {
	h := &BotHandler{
		bot:         bot,
		chatUseCase: chatUseCase,
		log:         logger.Component("telegram"),
		processing:  make(map[int64]bool),
	}
	h.workerPool = newWorkerPool(h, workers)
	return h
}

// GetBotUsername returns the bot's username from Telegram API state.
func (h *BotHandler) GetBotUsername() string {
	return h.username
}

// conversationID Telegram chatini suhbat identifikatoriga aylantiradi
func conversationID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
