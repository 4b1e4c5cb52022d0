package system

import (
	"context"

	"github.com/futig/assistant-backend/internal/entity"
)

type Index interface {
	Count(ctx context.Context) (int, error)
}

type Reloader interface {
	Reload(ctx context.Context) (*entity.ReloadResult, error)
}

type ModelInfo interface {
	ChatModel() string
	EmbeddingModel() string
}
