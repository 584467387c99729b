package entity

import "time"

// Message bitta foydalanuvchi xabari va unga berilgan javob
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Username       string    `json:"username,omitempty"`
	Text           string    `json:"text"`
	Response       string    `json:"response"`
	Route          Route     `json:"route"`
	Timestamp      time.Time `json:"timestamp"`
}

// ChatContext holds the recent history of one conversation.
type ChatContext struct {
	ConversationID string
	Messages       []Message
	LastUsed       time.Time
}
