package query

import (
	"context"
	"fmt"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/futig/assistant-backend/internal/usecase/query"

// QueryUsecase answers a question against the knowledge base within a session
type QueryUsecase struct {
	sessions   SessionStore
	retriever  Retriever
	generator  Generator
	classifier Classifier
	composer   Composer
	intents    Intents
	opts       Options
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewUsecase creates a new query use case
func NewUsecase(
	sessions SessionStore,
	retriever Retriever,
	generator Generator,
	classifier Classifier,
	composer Composer,
	intents Intents,
	opts Options,
	logger *zap.Logger,
) *QueryUsecase {
	return &QueryUsecase{
		sessions:   sessions,
		retriever:  retriever,
		generator:  generator,
		classifier: classifier,
		composer:   composer,
		intents:    intents,
		opts:       opts,
		tracer:     otel.Tracer(tracerName),
		logger:     logger,
	}
}

// outcome is the answer and the retrieval path that produced it
type outcome struct {
	answer   string
	chunks   []entity.Chunk
	method   entity.SearchMethod
	scenario entity.Scenario
	tagUsed  string
}

// Query runs the retrieval and generation pipeline. The user message stays recorded
// when a later step fails; no assistant message is written in that case.
func (uc *QueryUsecase) Query(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResult, error) {
	ctx, span := uc.tracer.Start(ctx, "query.Query")
	defer span.End()

	ctx = logger.WithAction(ctx, "query")

	result, err := uc.query(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ctxzap.Error(ctx, "query failed", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("query.session_id", result.SessionID),
		attribute.String("query.search_method", string(result.Metadata.SearchMethod)),
		attribute.String("query.scenario", string(result.Metadata.Scenario)),
		attribute.Int("query.total_sources", result.Metadata.TotalSources),
	)
	return result, nil
}

func (uc *QueryUsecase) query(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResult, error) {
	question := req.Query

	sessionID, err := uc.resolveSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithSession(ctx, sessionID)

	if _, err := uc.sessions.AddMessage(ctx, sessionID, entity.RoleUser, question, nil); err != nil {
		return nil, fmt.Errorf("record question: %w", err)
	}

	memory := uc.sessions.BuildContext(ctx, sessionID, uc.opts.MemoryMessages)

	out, err := uc.answer(ctx, question, memory)
	if err != nil {
		return nil, err
	}

	if _, err := uc.sessions.AddMessage(ctx, sessionID, entity.RoleAssistant, out.answer, messageMetadata(out)); err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}

	ctxzap.Info(ctx, "query answered",
		zap.String("search_method", string(out.method)),
		zap.String("scenario", string(out.scenario)),
		zap.Int("sources", len(out.chunks)),
	)

	return buildResult(sessionID, question, out, uc.maxResults(req.MaxResults)), nil
}

func (uc *QueryUsecase) resolveSession(ctx context.Context, sessionID *string) (string, error) {
	if sessionID != nil && *sessionID != "" {
		if !uc.sessions.SessionExists(ctx, *sessionID) {
			return "", fmt.Errorf("%w: %s", entity.ErrSessionNotFound, *sessionID)
		}
		return *sessionID, nil
	}

	id, err := uc.sessions.CreateSession(ctx, "", nil)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	ctxzap.Info(ctx, "session created for query", zap.String("session_id", id))
	return id, nil
}

func (uc *QueryUsecase) answer(ctx context.Context, question, memory string) (*outcome, error) {
	if uc.intents.Product.Detect(question) {
		out, err := uc.answerFromProducts(ctx, question, memory)
		if err != nil || out != nil {
			return out, err
		}
		ctxzap.Debug(ctx, "no product chunks, falling back to similarity")
	}

	if uc.opts.RegenerateAfterClassify {
		return uc.answerGenerateThenRedo(ctx, question, memory)
	}
	return uc.answerTwoPhase(ctx, question, memory)
}

// answerFromProducts returns nil when no chunk carries the product label
func (uc *QueryUsecase) answerFromProducts(ctx context.Context, question, memory string) (*outcome, error) {
	chunks, err := uc.retriever.LabelSearch(ctx, entity.LabelProduct, uc.opts.ProductLabelLimit)
	if err != nil {
		return nil, &entity.GenerationError{Err: err}
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	out := &outcome{
		chunks:  chunks,
		method:  entity.SearchMethodTagBased,
		tagUsed: entity.LabelProduct,
	}
	if err := uc.classifyAndCompose(ctx, question, memory, out); err != nil {
		return nil, err
	}
	return out, nil
}

// answerTwoPhase settles retrieval and scenario before the single generation call
func (uc *QueryUsecase) answerTwoPhase(ctx context.Context, question, memory string) (*outcome, error) {
	out, err := uc.similarity(ctx, question, memory)
	if err != nil {
		return nil, err
	}

	if _, err := uc.applyFallback(ctx, question, out); err != nil {
		return nil, err
	}

	if err := uc.classifyAndCompose(ctx, question, memory, out); err != nil {
		return nil, err
	}
	return out, nil
}

// answerGenerateThenRedo keeps the plain retrieval answer unless the scenario needs a layout
// template or the fallback path takes over, in which case it regenerates
func (uc *QueryUsecase) answerGenerateThenRedo(ctx context.Context, question, memory string) (*outcome, error) {
	out, err := uc.similarity(ctx, question, memory)
	if err != nil {
		return nil, err
	}

	out.answer, err = uc.generate(ctx, "", uc.composer.ComposeRetrieval(memory, joinChunks(out.chunks), question))
	if err != nil {
		return nil, err
	}

	out.scenario = uc.classifier.Classify(question, out.chunks)
	if needsTemplate(out.scenario) {
		ctxzap.Debug(ctx, "regenerating for scenario", zap.String("scenario", string(out.scenario)))
		out.answer, err = uc.generate(ctx, out.scenario,
			uc.composer.Compose(out.scenario, memory, joinChunks(out.chunks), question))
		if err != nil {
			return nil, err
		}
	}

	promoted, err := uc.applyFallback(ctx, question, out)
	if err != nil {
		return nil, err
	}
	if promoted {
		if err := uc.classifyAndCompose(ctx, question, memory, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (uc *QueryUsecase) similarity(ctx context.Context, question, memory string) (*outcome, error) {
	retrievalQuery := question
	if uc.opts.InjectMemoryIntoRetrieval && memory != "" {
		retrievalQuery = fmt.Sprintf("Historique de la conversation:\n%s\n\nQuestion actuelle: %s", memory, question)
	}

	chunks, err := uc.retriever.SimilaritySearch(ctx, retrievalQuery, uc.opts.SimilarityTopK)
	if err != nil {
		return nil, &entity.GenerationError{Err: err}
	}

	return &outcome{chunks: chunks, method: entity.SearchMethodSimilarity}, nil
}

// applyFallback swaps in product chunks when similarity found too little for a
// recommendation-seeking question and the product scan found strictly more
func (uc *QueryUsecase) applyFallback(ctx context.Context, question string, out *outcome) (bool, error) {
	if len(out.chunks) >= uc.opts.FallbackMinSources || !uc.intents.Recommendation.Detect(question) {
		return false, nil
	}

	products, err := uc.retriever.LabelSearch(ctx, entity.LabelProduct, uc.opts.FallbackLabelLimit)
	if err != nil {
		return false, &entity.GenerationError{Err: err}
	}
	if len(products) <= len(out.chunks) {
		return false, nil
	}

	ctxzap.Info(ctx, "fallback to product chunks",
		zap.Int("similarity_sources", len(out.chunks)),
		zap.Int("product_sources", len(products)),
	)

	out.chunks = products
	out.method = entity.SearchMethodFallbackProducts
	out.tagUsed = entity.LabelProduct
	return true, nil
}

func (uc *QueryUsecase) classifyAndCompose(ctx context.Context, question, memory string, out *outcome) error {
	out.scenario = uc.classifier.Classify(question, out.chunks)

	answer, err := uc.generate(ctx, out.scenario,
		uc.composer.Compose(out.scenario, memory, joinChunks(out.chunks), question))
	if err != nil {
		return err
	}
	out.answer = answer
	return nil
}

func (uc *QueryUsecase) generate(ctx context.Context, scenario entity.Scenario, instruction string) (string, error) {
	answer, err := uc.generator.Generate(ctx, instruction)
	if err != nil {
		return "", &entity.GenerationError{Scenario: scenario, Err: err}
	}
	return answer, nil
}

func (uc *QueryUsecase) maxResults(requested int) int {
	if requested > 0 {
		return requested
	}
	return uc.opts.DefaultMaxResults
}
