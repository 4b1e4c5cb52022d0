package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/futig/assistant-backend/internal/entity"
)

// Telegram rejects messages longer than this many characters
const MaxMessageLength = 4096

const (
	MsgWelcome = `👋 Bonjour ! Je suis votre assistant boutique.

Posez-moi vos questions sur nos produits, la livraison, les retours ou le paiement.

/new pour démarrer une nouvelle conversation
/history pour revoir l'historique`

	MsgNewSession  = "🆕 Nouvelle conversation démarrée. Quelle est votre question ?"
	MsgNoSession   = "Aucune conversation en cours. Posez une question pour commencer."
	MsgEmptyQuery  = "✍️ Envoyez votre question sous forme de texte."
	MsgEmptyAnswer = "Je n'ai pas trouvé de réponse à votre question."
	MsgNoHistory   = "L'historique de cette conversation est vide."

	ErrGeneric         = "❌ Une erreur est survenue. Réessayez ou tapez /new"
	ErrUnknownCommand  = "❌ Commande inconnue. Tapez /start"
	ErrTimeout         = "⏱ Le délai de réponse est dépassé. Réessayez dans un instant."
	ErrNetworkIssue    = "🌐 Problème de connexion. Réessayez dans un instant."
	ErrGeneration      = "🤖 Le service de réponse est indisponible pour le moment."
	ErrSessionNotFound = "❓ Cette conversation n'existe plus. Tapez /new"
	ErrInvalidRequest  = "⚠️ Question invalide : %s"
)

const historyPreviewLength = 300

// Answer formats a query result with its source list
func Answer(result *entity.QueryResult) string {
	var sb strings.Builder

	answer := strings.TrimSpace(result.Answer)
	if answer == "" {
		answer = MsgEmptyAnswer
	}
	sb.WriteString(answer)

	if len(result.Sources) > 0 {
		sb.WriteString("\n\n📚 Sources :")
		seen := make(map[string]struct{}, len(result.Sources))
		for _, src := range result.Sources {
			if _, ok := seen[src.Source]; ok {
				continue
			}
			seen[src.Source] = struct{}{}
			sb.WriteString("\n• ")
			sb.WriteString(src.Source)
		}
	}

	return Truncate(sb.String(), MaxMessageLength)
}

// History formats a session history, oldest first
func History(messages []entity.Message) string {
	if len(messages) == 0 {
		return MsgNoHistory
	}

	var sb strings.Builder
	sb.WriteString("🕘 Historique :\n")
	for _, m := range messages {
		icon := "👤"
		if m.Role == entity.RoleAssistant {
			icon = "🤖"
		}
		fmt.Fprintf(&sb, "\n%s %s %s\n", icon, m.Timestamp.Format("15:04"), Truncate(m.Content, historyPreviewLength))
	}

	return Truncate(sb.String(), MaxMessageLength)
}

// Truncate cuts text to at most limit runes, ending with an ellipsis when cut
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	if limit <= 1 {
		return string([]rune(text)[:limit])
	}
	return string([]rune(text)[:limit-1]) + "…"
}

// ClassifyError maps an error to a user-facing message
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}

	if errors.Is(err, entity.ErrSessionNotFound) {
		return ErrSessionNotFound
	}

	if errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) {
		return fmt.Sprintf(ErrInvalidRequest, err.Error())
	}

	var genErr *entity.GenerationError
	var retErr *entity.RetrievalError
	if errors.As(err, &genErr) || errors.As(err, &retErr) {
		return ErrGeneration
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	return ErrGeneric
}
