package query

import (
	"context"

	"github.com/futig/assistant-backend/internal/entity"
)

type QueryUsecase interface {
	Query(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResult, error)
}
