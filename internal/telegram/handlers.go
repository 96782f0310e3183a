package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aaronzipp/spyfall-bot/internal/models"
)

// MessageSender is the part of the Bot API the handler calls
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Interpreter turns chat events into directives
type Interpreter interface {
	HandleCommand(ctx context.Context, ev models.CommandEvent) []models.Directive
	HandleLifecycle(ev models.LifecycleEvent) []models.Directive
}

// Handler translates Telegram updates into interpreter events and back
type Handler struct {
	Bot         MessageSender
	Interpreter Interpreter
	UserName    string // the bot's own username, without @
	Logger      *zap.Logger
}

// NewHandler wires a sender and interpreter; userName is the bot's own username
func NewHandler(bot MessageSender, interp Interpreter, userName string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Bot:         bot,
		Interpreter: interp,
		UserName:    userName,
		Logger:      logger,
	}
}

// HandleUpdate processes one update
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.MyChatMember != nil:
		h.handleMembership(update.MyChatMember)
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	}
}

// handleMembership reports the bot being added to or removed from a group
func (h *Handler) handleMembership(change *tgbotapi.ChatMemberUpdated) {
	if !isGroup(&change.Chat) {
		return
	}
	ev := models.LifecycleEvent{SessionID: chatKey(change.Chat.ID)}
	was, is := present(change.OldChatMember.Status), present(change.NewChatMember.Status)
	switch {
	case !was && is:
		ev.Kind = models.BotJoined
	case was && !is:
		ev.Kind = models.BotLeft
	default:
		return
	}
	h.dispatch(h.Interpreter.HandleLifecycle(ev), 0)
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return
	}
	text, ok := h.commandText(msg)
	if !ok {
		return
	}

	ev := models.CommandEvent{
		SenderID:   chatKey(msg.From.ID),
		SenderName: displayName(msg.From),
		Text:       text,
	}
	switch {
	case msg.Chat.IsPrivate():
		ev.Scope = models.ScopeDirect
		ev.SessionID = chatKey(msg.From.ID)
	case isGroup(msg.Chat):
		ev.Scope = models.ScopeGroup
		ev.SessionID = chatKey(msg.Chat.ID)
	default:
		return
	}
	h.dispatch(h.Interpreter.HandleCommand(ctx, ev), msg.MessageID)
}

// commandText strips the slash and @botname from "/command@botname args".
// Commands addressed to another bot are dropped
func (h *Handler) commandText(msg *tgbotapi.Message) (string, bool) {
	if !msg.IsCommand() {
		return msg.Text, true
	}
	withAt := msg.CommandWithAt()
	if _, target, found := strings.Cut(withAt, "@"); found && !strings.EqualFold(target, h.UserName) {
		return "", false
	}
	text := msg.Command()
	if args := msg.CommandArguments(); args != "" {
		text += " " + args
	}
	return text, true
}

// dispatch carries out directives; replies quote replyTo when set
func (h *Handler) dispatch(directives []models.Directive, replyTo int) {
	for _, d := range directives {
		switch d.Kind {
		case models.DirectiveReply:
			chatID, ok := h.parseID(d.SessionID)
			if !ok {
				continue
			}
			msg := tgbotapi.NewMessage(chatID, d.Text)
			msg.ReplyToMessageID = replyTo
			sendMessage(h.Bot, msg, h.Logger)
		case models.DirectivePrivate:
			userID, ok := h.parseID(d.UserID)
			if !ok {
				continue
			}
			sendMessage(h.Bot, tgbotapi.NewMessage(userID, d.Text), h.Logger)
		case models.DirectiveLeave:
			chatID, ok := h.parseID(d.SessionID)
			if !ok {
				continue
			}
			if _, err := h.Bot.Request(tgbotapi.LeaveChatConfig{ChatID: chatID}); err != nil {
				h.Logger.Warn("leave chat failed", zap.Int64("chat", chatID), zap.Error(err))
			}
		}
	}
}

func (h *Handler) parseID(key string) (int64, bool) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		h.Logger.Error("directive with non-telegram id", zap.String("id", key), zap.Error(err))
		return 0, false
	}
	return id, true
}
