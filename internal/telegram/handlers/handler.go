package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/pkg/logger"
	"github.com/futig/assistant-backend/internal/telegram/keyboard"
	"github.com/futig/assistant-backend/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const historyLimit = 20

// Message represents a normalized Telegram message or button press
type Message struct {
	ChatID       int64
	UserID       int64
	Username     string
	MessageID    int
	Text         string
	Command      string
	CommandArgs  string
	CallbackData string
	CallbackID   string
}

// Handler turns chat messages into queries against the conversation services
type Handler struct {
	queryUC   QueryUsecase
	sessionUC SessionUsecase
	sessions  ChatSessions
	validator Validator
	bot       Sender
	sender    *MessageSender
	keyboard  *keyboard.Builder
	logger    *zap.Logger
}

func NewHandler(
	bot Sender,
	queryUC QueryUsecase,
	sessionUC SessionUsecase,
	sessions ChatSessions,
	validator Validator,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		queryUC:   queryUC,
		sessionUC: sessionUC,
		sessions:  sessions,
		validator: validator,
		bot:       bot,
		sender:    NewMessageSender(bot, logger),
		keyboard:  keyboard.NewBuilder(),
		logger:    logger,
	}
}

// HandleCommand dispatches /start, /new, /history and /export
func (h *Handler) HandleCommand(ctx context.Context, msg *Message) error {
	ctx = logger.WithAction(ctx, "command_"+msg.Command)

	switch msg.Command {
	case "start", "help":
		return h.sender.Send(msg.ChatID, render.MsgWelcome, h.keyboard.StartKeyboard())
	case "new":
		return h.newSession(ctx, msg)
	case "history":
		return h.history(ctx, msg)
	case "export":
		return h.export(ctx, msg, strings.TrimSpace(msg.CommandArgs))
	default:
		return h.sender.Send(msg.ChatID, render.ErrUnknownCommand, nil)
	}
}

// HandleText answers a free-text question inside the chat's current session
func (h *Handler) HandleText(ctx context.Context, msg *Message) error {
	ctx = logger.WithAction(ctx, "telegram_query")

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return h.sender.Send(msg.ChatID, render.MsgEmptyQuery, nil)
	}

	req := &entity.QueryRequest{Query: text}
	if sessionID, ok := h.sessions.Get(msg.ChatID); ok {
		req.SessionID = &sessionID
		ctx = logger.WithSession(ctx, sessionID)
	}

	if err := h.validator.ValidateQuery(req); err != nil {
		return h.sender.Send(msg.ChatID, render.ClassifyError(err), nil)
	}

	typing := NewTypingNotifier(h.bot, msg.ChatID, h.logger)
	typing.Start(ctx)
	result, err := h.queryUC.Query(ctx, req)
	if errors.Is(err, entity.ErrSessionNotFound) {
		// The session was deleted elsewhere; continue in a fresh one.
		ctxzap.Info(ctx, "chat session vanished, starting a new one",
			zap.Int64("chat_id", msg.ChatID),
		)
		h.sessions.Delete(msg.ChatID)
		req.SessionID = nil
		result, err = h.queryUC.Query(ctx, req)
	}
	typing.Stop()

	if err != nil {
		ctxzap.Error(ctx, "telegram query failed",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
		return h.sender.Send(msg.ChatID, render.ClassifyError(err), nil)
	}

	h.sessions.Set(msg.ChatID, result.SessionID)
	return h.sender.Send(msg.ChatID, render.Answer(result), h.keyboard.AnswerKeyboard())
}

// HandleCallback processes inline keyboard buttons
func (h *Handler) HandleCallback(ctx context.Context, msg *Message) error {
	cb, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		h.sender.AnswerCallback(msg.CallbackID, "❌")
		return fmt.Errorf("parse callback: %w", err)
	}
	h.sender.AnswerCallback(msg.CallbackID, "")

	ctx = logger.WithAction(ctx, "callback_"+cb.Action)

	switch cb.Action {
	case keyboard.ActionNew:
		return h.newSession(ctx, msg)
	case keyboard.ActionHistory:
		return h.history(ctx, msg)
	case keyboard.ActionExport:
		return h.export(ctx, msg, cb.Value)
	default:
		return fmt.Errorf("unknown callback action %q", cb.Action)
	}
}

func (h *Handler) newSession(ctx context.Context, msg *Message) error {
	metadata := map[string]any{
		"channel": "telegram",
		"chat_id": msg.ChatID,
	}
	if msg.Username != "" {
		metadata["username"] = msg.Username
	}

	sessionID, err := h.sessionUC.CreateSession(ctx, "", metadata)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	h.sessions.Set(msg.ChatID, sessionID)
	ctxzap.Info(ctx, "telegram session started",
		zap.Int64("chat_id", msg.ChatID),
		zap.String("session_id", sessionID),
	)

	return h.sender.Send(msg.ChatID, render.MsgNewSession, nil)
}

func (h *Handler) history(ctx context.Context, msg *Message) error {
	sessionID, ok := h.sessions.Get(msg.ChatID)
	if !ok {
		return h.sender.Send(msg.ChatID, render.MsgNoSession, nil)
	}

	messages, err := h.sessionUC.GetHistory(ctx, sessionID, historyLimit)
	if err != nil {
		return fmt.Errorf("get history: %w", err)
	}

	return h.sender.Send(msg.ChatID, render.History(messages), nil)
}

func (h *Handler) export(ctx context.Context, msg *Message, format string) error {
	sessionID, ok := h.sessions.Get(msg.ChatID)
	if !ok {
		return h.sender.Send(msg.ChatID, render.MsgNoSession, nil)
	}

	f := entity.ResultFormat(format)
	if format == "" {
		f = entity.FormatMarkdown
	}

	data, _, ext, err := h.sessionUC.ExportTranscript(ctx, sessionID, f)
	if errors.Is(err, entity.ErrInvalidFormat) {
		return h.sender.Send(msg.ChatID, fmt.Sprintf(render.ErrInvalidRequest, "formats : markdown, pdf, docx"), nil)
	}
	if err != nil {
		return fmt.Errorf("export transcript: %w", err)
	}

	return h.sender.SendDocument(msg.ChatID, "conversation-"+sessionID+ext, data)
}
