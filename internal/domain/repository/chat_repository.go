package repository

import (
	"context"

	"github.com/agrofel/sales-agent/internal/domain/entity"
)

// ChatRepository suhbat tarixini saqlash uchun interface
type ChatRepository interface {
	SaveMessage(ctx context.Context, message entity.Message) error
	GetHistory(ctx context.Context, conversationID string, limit int) ([]entity.Message, error)
	ClearHistory(ctx context.Context, conversationID string) error
}
