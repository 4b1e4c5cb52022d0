package session

import (
	"strings"
	"unicode/utf8"

	"github.com/futig/assistant-backend/internal/entity"
)

const (
	userLabel      = "Utilisateur"
	assistantLabel = "Assistant"

	// Assistant turns above this many characters are structured layouts, not prose
	longAnswerThreshold = 500
	longAnswerMarker    = "[Réponse JSON générée]"
)

func renderContext(messages []entity.Message) string {
	if len(messages) == 0 {
		return ""
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case entity.RoleUser:
			lines = append(lines, userLabel+": "+msg.Content)
		case entity.RoleAssistant:
			content := msg.Content
			if utf8.RuneCountInString(content) > longAnswerThreshold {
				content = longAnswerMarker
			}
			lines = append(lines, assistantLabel+": "+content)
		}
	}

	return strings.Join(lines, "\n")
}
