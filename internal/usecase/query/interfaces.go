package query

import (
	"context"

	"github.com/futig/assistant-backend/internal/entity"
)

type SessionStore interface {
	CreateSession(ctx context.Context, title string, metadata map[string]any) (string, error)
	SessionExists(ctx context.Context, sessionID string) bool
	AddMessage(ctx context.Context, sessionID string, role entity.Role, content string, metadata map[string]any) (int64, error)
	BuildContext(ctx context.Context, sessionID string, maxMessages int) string
}

type Retriever interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]entity.Chunk, error)
	LabelSearch(ctx context.Context, label string, limit int) ([]entity.Chunk, error)
}

type Generator interface {
	Generate(ctx context.Context, instruction string) (string, error)
}

type Classifier interface {
	Classify(query string, chunks []entity.Chunk) entity.Scenario
}

type Composer interface {
	Compose(scenario entity.Scenario, memory, retrievedContext, question string) string
	ComposeRetrieval(memory, retrievedContext, question string) string
}

type Detector interface {
	Detect(text string) bool
}

// Intents gates label retrieval on the question text
type Intents struct {
	Product        Detector
	Recommendation Detector
}
