package repository

import (
	"context"
)

// AIRepository LLM bilan ishlash uchun interface
type AIRepository interface {
	// SendMessage persona va kontekstni qo'shib, suhbat sessiyasiga xabar yuboradi
	SendMessage(ctx context.Context, conversationID, message, contextText string) (string, error)

	// Reset suhbat sessiyasini o'chiradi
	Reset(conversationID string)
}
