package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func sendMessage(bot MessageSender, msg tgbotapi.Chattable, logger *zap.Logger) {
	if _, err := bot.Send(msg); err != nil {
		logger.Warn("failed to send message", zap.Error(err))
	}
}

func chatKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func isGroup(chat *tgbotapi.Chat) bool {
	return chat.IsGroup() || chat.IsSuperGroup()
}

// present reports whether a member status means the bot is in the chat
func present(status string) bool {
	switch status {
	case "creator", "administrator", "member", "restricted":
		return true
	}
	return false
}

func displayName(u *tgbotapi.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	return name
}
