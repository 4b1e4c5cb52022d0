package bot

import (
	"context"

	"github.com/futig/assistant-backend/internal/telegram/handlers"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type updateKind string

const (
	kindCommand  updateKind = "command"
	kindText     updateKind = "text"
	kindCallback updateKind = "callback"
)

// toMessage normalizes an update. It returns a nil message for updates the bot ignores.
func toMessage(update tgbotapi.Update) (updateKind, *handlers.Message) {
	if q := update.CallbackQuery; q != nil {
		if q.Message == nil {
			return "", nil
		}
		msg := &handlers.Message{
			ChatID:       q.Message.Chat.ID,
			MessageID:    q.Message.MessageID,
			CallbackData: q.Data,
			CallbackID:   q.ID,
		}
		if q.From != nil {
			msg.UserID = q.From.ID
			msg.Username = q.From.UserName
		}
		return kindCallback, msg
	}

	m := update.Message
	if m == nil || m.Chat == nil {
		return "", nil
	}

	msg := &handlers.Message{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	if m.From != nil {
		msg.UserID = m.From.ID
		msg.Username = m.From.UserName
	}

	if m.IsCommand() {
		msg.Command = m.Command()
		msg.CommandArgs = m.CommandArguments()
		return kindCommand, msg
	}
	return kindText, msg
}

func dispatch(ctx context.Context, h UpdateHandler, kind updateKind, msg *handlers.Message) error {
	switch kind {
	case kindCommand:
		return h.HandleCommand(ctx, msg)
	case kindCallback:
		return h.HandleCallback(ctx, msg)
	default:
		return h.HandleText(ctx, msg)
	}
}
