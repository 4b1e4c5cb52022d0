package session

import "github.com/futig/assistant-backend/internal/entity"

func toListResponse(sessions []entity.SessionSummary) *entity.SessionListResponse {
	if sessions == nil {
		sessions = []entity.SessionSummary{}
	}
	return &entity.SessionListResponse{
		Sessions: sessions,
		Total:    len(sessions),
	}
}

func toHistoryResponse(sessionID string, messages []entity.Message) *entity.HistoryResponse {
	if messages == nil {
		messages = []entity.Message{}
	}
	return &entity.HistoryResponse{
		SessionID: sessionID,
		Messages:  messages,
	}
}
