package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/futig/assistant-backend/internal/config"
	"github.com/futig/assistant-backend/internal/entity"
	"github.com/futig/assistant-backend/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrPartialReload means the index was cleared but could not be fully repopulated.
// Queries see an empty or partial knowledge base until the next successful reload.
var ErrPartialReload = errors.New("index reset but not repopulated")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Index interface {
	Upsert(ctx context.Context, chunks []entity.IndexedChunk) error
	Reset(ctx context.Context) error
	FlushLabelCache()
}

// Loader rebuilds the document index from the knowledge directory
type Loader struct {
	cfg      config.KnowledgeConfig
	splitter *Splitter
	embedder Embedder
	index    Index
}

func NewLoader(cfg config.KnowledgeConfig, embedder Embedder, index Index) *Loader {
	return &Loader{
		cfg:      cfg,
		splitter: NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder: embedder,
		index:    index,
	}
}

// Reload reads, chunks, labels and embeds every knowledge file, then replaces the index content.
// The index is left untouched when the directory is missing or when reading or embedding fails.
// A failure after the reset returns ErrPartialReload.
func (l *Loader) Reload(ctx context.Context) (*entity.ReloadResult, error) {
	if _, err := os.Stat(l.cfg.Path); errors.Is(err, fs.ErrNotExist) {
		ctxzap.Warn(ctx, "knowledge directory not found", zap.String("path", l.cfg.Path))
		return &entity.ReloadResult{}, nil
	}

	files, err := l.readFiles(ctx)
	if err != nil {
		return nil, err
	}

	chunks := make([]entity.IndexedChunk, 0, len(files))
	for _, f := range files {
		for i, text := range l.splitter.Split(string(f.Content)) {
			vector, err := l.embedder.Embed(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("embed %s chunk %d: %w", f.Filename, i, err)
			}

			chunks = append(chunks, entity.IndexedChunk{
				Chunk: entity.Chunk{
					ID:       chunkID(f.Filename, i),
					Content:  text,
					Source:   f.Filename,
					Labels:   labelChunk(f.Filename, text),
					Metadata: map[string]any{"chunk_index": strconv.Itoa(i)},
				},
				Embedding: vector,
			})
		}
	}

	if err := l.index.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset index: %w", err)
	}
	if len(chunks) > 0 {
		if err := l.index.Upsert(ctx, chunks); err != nil {
			l.index.FlushLabelCache()
			ctxzap.Error(ctx, "knowledge base left incomplete", zap.Int("chunks", len(chunks)), zap.Error(err))
			return nil, fmt.Errorf("%w: upsert chunks: %w", ErrPartialReload, err)
		}
	}
	l.index.FlushLabelCache()

	ctxzap.Info(ctx, "knowledge base reloaded",
		zap.Int("files", len(files)),
		zap.Int("chunks", len(chunks)),
	)

	return &entity.ReloadResult{Files: len(files), Chunks: len(chunks)}, nil
}

func (l *Loader) readFiles(ctx context.Context) ([]entity.FileData, error) {
	root := l.cfg.Path
	var files []entity.FileData
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !validator.IsKnowledgeFile(path) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = d.Name()
		}

		files = append(files, entity.FileData{
			Filename: filepath.ToSlash(rel),
			Content:  content,
		})

		ctxzap.Debug(ctx, "knowledge file loaded",
			zap.String("filename", rel),
			zap.Int("size", len(content)),
		)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk knowledge directory: %w", err)
	}

	return files, nil
}

// chunkID is stable across reloads so upserts overwrite in place
func chunkID(source string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source+"#"+strconv.Itoa(index))).String()
}
