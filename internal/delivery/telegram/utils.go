package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// displayName username bo'lmasa ismni qaytaradi
func displayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	if strings.TrimSpace(user.UserName) != "" {
		return user.UserName
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

func truncateForLog(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
