package session

import (
	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/pkg/formatter"
)

const transcriptTimeLayout = "2006-01-02 15:04:05"

// transcriptDocument converts a session history to an exportable document
func transcriptDocument(session *entity.Session, messages []entity.Message) formatter.Document {
	sections := make([]formatter.Section, 0, len(messages))
	for _, msg := range messages {
		label := userLabel
		if msg.Role == entity.RoleAssistant {
			label = assistantLabel
		}
		sections = append(sections, formatter.Section{
			Heading: label + " (" + msg.Timestamp.Format(transcriptTimeLayout) + ")",
			Body:    msg.Content,
		})
	}

	return formatter.Document{
		Title:    session.Title,
		Sections: sections,
	}
}
