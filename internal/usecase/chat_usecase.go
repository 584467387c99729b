package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/domain/repository"
	"github.com/agrofel/sales-agent/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ChatUseCase chat bilan bog'liq business logic
type ChatUseCase interface {
	ProcessMessage(ctx context.Context, conversationID, username, text string) (*entity.Reply, error)
	ClearHistory(ctx context.Context, conversationID string) error
	GetHistory(ctx context.Context, conversationID string) ([]entity.Message, error)
}

type chatUseCase struct {
	aiRepo   repository.AIRepository
	chatRepo repository.ChatRepository
	builder  *ContextBuilder
	log      zerolog.Logger
}

// NewChatUseCase yangi ChatUseCase yaratish
func NewChatUseCase(
	aiRepo repository.AIRepository,
	chatRepo repository.ChatRepository,
	catalogRepo repository.CatalogRepository,
) ChatUseCase {
	return &chatUseCase{
		aiRepo:   aiRepo,
		chatRepo: chatRepo,
		builder:  NewContextBuilder(catalogRepo),
		log:      logger.Component("chat"),
	}
}

// ProcessMessage xabar uchun kontekst yig'adi, LLMga yuboradi va tarixga yozadi.
// LLM xatosi foydalanuvchiga uzr matni sifatida qaytadi, error emas.
func (u *chatUseCase) ProcessMessage(ctx context.Context, conversationID, username, text string) (*entity.Reply, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("conversation id is empty")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message is empty")
	}

	reply := u.builder.Build(ctx, text)

	u.log.Debug().
		Str("conversation", conversationID).
		Str("route", string(reply.Route)).
		Msg("Kontekst tanlandi")

	resp, err := u.aiRepo.SendMessage(ctx, conversationID, text, reply.Context)
	if err != nil {
		u.log.Error().Err(err).Str("conversation", conversationID).Msg("AI javob bermadi")
		resp = fmt.Sprintf(constants.AIErrorTemplate, err)
	}
	reply.Text = resp

	message := entity.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Username:       username,
		Text:           text,
		Response:       resp,
		Route:          reply.Route,
		Timestamp:      time.Now(),
	}
	if err := u.chatRepo.SaveMessage(ctx, message); err != nil {
		u.log.Warn().Err(err).Msg("failed to save message")
	}

	return reply, nil
}

// ClearHistory tarix va LLM sessiyasini tozalash
func (u *chatUseCase) ClearHistory(ctx context.Context, conversationID string) error {
	u.aiRepo.Reset(conversationID)
	if err := u.chatRepo.ClearHistory(ctx, conversationID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// GetHistory oxirgi xabarlar
func (u *chatUseCase) GetHistory(ctx context.Context, conversationID string) ([]entity.Message, error) {
	history, err := u.chatRepo.GetHistory(ctx, conversationID, constants.DefaultMaxHistoryMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return history, nil
}
