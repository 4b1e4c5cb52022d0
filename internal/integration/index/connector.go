package index

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/futig/assistant-backend/internal/config"
	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/integration/common"
	pkghttp "github.com/futig/assistant-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const upsertBatchSize = 100

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Connector is the Chroma-backed document index.
//
// LabelSearch scans the whole collection page by page because Chroma cannot filter on
// a member of the comma-joined tags string. Cost is O(total chunks) per uncached call.
type Connector struct {
	config     config.IndexConfig
	connector  *pkghttp.Connector
	embedder   Embedder
	labelCache *cache.Cache
	logger     *zap.Logger

	mu           sync.Mutex
	collectionID string
}

func NewConnector(
	cfg config.IndexConfig,
	embedder Embedder,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		config:     cfg,
		connector:  common.NewBaseConnector(cfg.HTTPClientConfig, &cfg.Retry, logger),
		embedder:   embedder,
		labelCache: cache.New(cfg.LabelCacheTTL, 2*cfg.LabelCacheTTL),
		logger:     logger,
	}
}

// SimilaritySearch returns the k chunks closest to query, best match first
func (c *Connector) SimilaritySearch(ctx context.Context, query string, k int) ([]entity.Chunk, error) {
	vector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &entity.RetrievalError{Method: entity.SearchMethodSimilarity, Err: fmt.Errorf("embed query: %w", err)}
	}

	var resp queryResponse
	err = c.withCollection(ctx, func(id string) error {
		resp = queryResponse{}
		return c.connector.DoRequest(ctx, http.MethodPost, collectionPath(id, "query"), queryRequest{
			QueryEmbeddings: [][]float32{vector},
			NResults:        k,
			Include:         []string{includeDocuments, includeMetadatas, includeDistances},
		}, &resp)
	})
	if err != nil {
		ctxzap.Error(ctx, "similarity search failed", zap.Error(err))
		return nil, &entity.RetrievalError{Method: entity.SearchMethodSimilarity, Err: err}
	}

	if len(resp.IDs) == 0 {
		return []entity.Chunk{}, nil
	}

	chunks := make([]entity.Chunk, 0, len(resp.IDs[0]))
	for i, chunkID := range resp.IDs[0] {
		chunks = append(chunks, toChunk(chunkID, at(resp.Documents, i), atMeta(resp.Metadatas, i)))
	}

	ctxzap.Debug(ctx, "similarity search done", zap.Int("k", k), zap.Int("found", len(chunks)))
	return chunks, nil
}

// LabelSearch returns the first limit chunks, in storage order, whose labels contain label
func (c *Connector) LabelSearch(ctx context.Context, label string, limit int) ([]entity.Chunk, error) {
	key := fmt.Sprintf("%s:%d", label, limit)
	if c.cacheEnabled() {
		if cached, ok := c.labelCache.Get(key); ok {
			return cloneChunks(cached.([]entity.Chunk)), nil
		}
	}

	var (
		chunks  []entity.Chunk
		scanned int
	)
	err := c.withCollection(ctx, func(id string) error {
		var err error
		chunks, scanned, err = c.scanLabel(ctx, id, label, limit)
		return err
	})
	if err != nil {
		ctxzap.Error(ctx, "label scan failed", zap.String("label", label), zap.Error(err))
		return nil, &entity.RetrievalError{Method: entity.SearchMethodTagBased, Err: err}
	}

	ctxzap.Debug(ctx, "label scan done",
		zap.String("label", label),
		zap.Int("scanned", scanned),
		zap.Int("found", len(chunks)),
	)

	if c.cacheEnabled() {
		c.labelCache.SetDefault(key, cloneChunks(chunks))
	}
	return chunks, nil
}

func (c *Connector) scanLabel(ctx context.Context, id, label string, limit int) ([]entity.Chunk, int, error) {
	chunks := make([]entity.Chunk, 0, limit)
	scanned := 0
	for offset := 0; len(chunks) < limit; offset += c.config.ScanPageSize {
		var page getResponse
		err := c.connector.DoRequest(ctx, http.MethodPost, collectionPath(id, "get"), getRequest{
			Limit:   c.config.ScanPageSize,
			Offset:  offset,
			Include: []string{includeDocuments, includeMetadatas},
		}, &page)
		if err != nil {
			return nil, scanned, err
		}

		for i, chunkID := range page.IDs {
			chunk := toChunk(chunkID, atFlat(page.Documents, i), atFlatMeta(page.Metadatas, i))
			if !chunk.Labels.Has(label) {
				continue
			}
			chunks = append(chunks, chunk)
			if len(chunks) >= limit {
				break
			}
		}

		scanned += len(page.IDs)
		if len(page.IDs) < c.config.ScanPageSize {
			break
		}
	}
	return chunks, scanned, nil
}

// Upsert writes chunks with their embeddings, in batches
func (c *Connector) Upsert(ctx context.Context, chunks []entity.IndexedChunk) error {
	for start := 0; start < len(chunks); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(chunks))
		batch := chunks[start:end]

		req := upsertRequest{
			IDs:        make([]string, 0, len(batch)),
			Embeddings: make([][]float32, 0, len(batch)),
			Documents:  make([]string, 0, len(batch)),
			Metadatas:  make([]map[string]any, 0, len(batch)),
		}
		for _, ch := range batch {
			req.IDs = append(req.IDs, ch.ID)
			req.Embeddings = append(req.Embeddings, ch.Embedding)
			req.Documents = append(req.Documents, ch.Content)
			req.Metadatas = append(req.Metadatas, toMetadata(ch.Chunk))
		}

		err := c.withCollection(ctx, func(id string) error {
			return c.connector.DoRequest(ctx, http.MethodPost, collectionPath(id, "upsert"), req, nil)
		})
		if err != nil {
			return fmt.Errorf("upsert batch %d-%d: %w", start, end, err)
		}
	}

	c.FlushLabelCache()
	ctxzap.Info(ctx, "chunks upserted", zap.Int("count", len(chunks)))
	return nil
}

// Reset drops the collection; it is recreated on next use
func (c *Connector) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.connector.DoRequest(ctx, http.MethodDelete,
		"/api/v1/collections/"+url.PathEscape(c.config.Collection), nil, nil, pkghttp.WithoutRetry())
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete collection: %w", err)
	}

	c.collectionID = ""
	c.labelCache.Flush()
	return nil
}

func (c *Connector) Count(ctx context.Context) (int, error) {
	var count int
	err := c.withCollection(ctx, func(id string) error {
		return c.connector.DoRequest(ctx, http.MethodGet, collectionPath(id, "count"), nil, &count)
	})
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

func (c *Connector) FlushLabelCache() {
	c.labelCache.Flush()
}

func (c *Connector) cacheEnabled() bool {
	return c.config.LabelCacheTTL > 0
}

// withCollection runs fn against the current collection id. Another process may have
// reset the collection, which gives it a new id; fn is retried once after re-resolving.
func (c *Connector) withCollection(ctx context.Context, fn func(id string) error) error {
	id, err := c.collection(ctx)
	if err != nil {
		return err
	}

	err = fn(id)
	if !isStaleCollection(err) {
		return err
	}

	ctxzap.Warn(ctx, "collection id is stale, resolving again",
		zap.String("collection", c.config.Collection),
		zap.String("stale_id", id),
	)
	c.forgetCollection(id)

	if id, err = c.collection(ctx); err != nil {
		return err
	}
	return fn(id)
}

func (c *Connector) forgetCollection(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.collectionID == id {
		c.collectionID = ""
		c.labelCache.Flush()
	}
}

// collection resolves the collection id, creating the collection when missing
func (c *Connector) collection(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.collectionID != "" {
		return c.collectionID, nil
	}

	var resp collectionResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, "/api/v1/collections", collectionRequest{
		Name:        c.config.Collection,
		GetOrCreate: true,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("resolve collection %q: %w", c.config.Collection, err)
	}

	c.collectionID = resp.ID
	return c.collectionID, nil
}
