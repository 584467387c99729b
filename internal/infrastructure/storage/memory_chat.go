package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/domain/repository"
)

type memoryChatRepository struct {
	mu       sync.RWMutex
	contexts map[string]*entity.ChatContext
	maxSize  int
}

// NewMemoryChatRepository in-memory chat repository yaratish
func NewMemoryChatRepository(maxContextSize int) repository.ChatRepository {
	return &memoryChatRepository{
		contexts: make(map[string]*entity.ChatContext),
		maxSize:  maxContextSize,
	}
}

// SaveMessage xabarni suhbat tarixiga qo'shish
func (m *memoryChatRepository) SaveMessage(ctx context.Context, message entity.Message) error {
	if message.ConversationID == "" {
		return fmt.Errorf("message without conversation id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	chatCtx, exists := m.contexts[message.ConversationID]
	if !exists {
		chatCtx = &entity.ChatContext{
			ConversationID: message.ConversationID,
			Messages:       []entity.Message{},
		}
		m.contexts[message.ConversationID] = chatCtx
	}

	chatCtx.Messages = append(chatCtx.Messages, message)
	chatCtx.LastUsed = time.Now()

	// Maksimal hajmni nazorat qilish
	if m.maxSize > 0 && len(chatCtx.Messages) > m.maxSize {
		chatCtx.Messages = append([]entity.Message(nil), chatCtx.Messages[len(chatCtx.Messages)-m.maxSize:]...)
	}

	return nil
}

// GetHistory suhbat tarixini olish (oxirgi limit ta xabar)
func (m *memoryChatRepository) GetHistory(ctx context.Context, conversationID string, limit int) ([]entity.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chatCtx, exists := m.contexts[conversationID]
	if !exists {
		return []entity.Message{}, nil
	}

	messages := chatCtx.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	out := make([]entity.Message, len(messages))
	copy(out, messages)
	return out, nil
}

// ClearHistory suhbat tarixini tozalash
func (m *memoryChatRepository) ClearHistory(ctx context.Context, conversationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.contexts, conversationID)
	return nil
}
