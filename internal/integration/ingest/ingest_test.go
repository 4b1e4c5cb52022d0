package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futig/assistant-backend/internal/config"
	"github.com/futig/assistant-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text))}, nil
}

type fakeIndex struct {
	calls     []string
	chunks    []entity.IndexedChunk
	upsertErr error
}

func (f *fakeIndex) Upsert(_ context.Context, chunks []entity.IndexedChunk) error {
	f.calls = append(f.calls, "upsert")
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeIndex) Reset(_ context.Context) error {
	f.calls = append(f.calls, "reset")
	f.chunks = nil
	return nil
}

func (f *fakeIndex) FlushLabelCache() {
	f.calls = append(f.calls, "flush")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSplitter_ShortText(t *testing.T) {
	s := NewSplitter(1000, 200)
	assert.Equal(t, []string{"Bonjour le monde"}, s.Split("  Bonjour le monde \n"))
	assert.Empty(t, s.Split("   "))
}

func TestSplitter_ParagraphBoundaries(t *testing.T) {
	s := NewSplitter(1000, 200)
	para := strings.Repeat("a", 600)
	chunks := s.Split(para + "\n\n" + para + "\n\n" + para)

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.Equal(t, para, c)
	}
}

func TestSplitter_WordOverlap(t *testing.T) {
	words := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		words = append(words, "mot"+string(rune('A'+i/10))+string(rune('0'+i%10)))
	}
	s := NewSplitter(20, 6)
	chunks := s.Split(strings.Join(words, " "))

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, runeLen(c), 20)
		if i == 0 {
			continue
		}
		prev := strings.Fields(chunks[i-1])
		assert.True(t, strings.HasPrefix(c, prev[len(prev)-1]), "chunk %d should start with the overlap word", i)
	}
}

func TestSplitter_LongWordIsCut(t *testing.T) {
	s := NewSplitter(10, 2)
	chunks := s.Split(strings.Repeat("é", 25))

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, runeLen(c), 10)
	}
}

func TestLabelChunk(t *testing.T) {
	tests := []struct {
		source  string
		content string
		want    []string
	}{
		{"products.md", "iPhone 15 à 999 €", []string{"catalog", "electronics", "pricing", "product"}},
		{"notes.txt", "Bonjour", []string{"general"}},
		{"faq.md", "Délai de livraison", []string{"faq", "shipping", "support"}},
		{"customer.md", "Garantie 2 ans", []string{"customer_service", "support", "warranty"}},
		{"ecommerce.md", "Paiement par carte", []string{"ecommerce", "general", "payment"}},
		{"notes.txt", "Je voudrais savoir", []string{"general"}},
	}

	for _, tt := range tests {
		t.Run(tt.source+"/"+tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, labelChunk(tt.source, tt.content).Slice())
		})
	}
}

func TestLoader_Reload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "products.md", "iPhone 15 Pro. Prix : 1229 €.")
	writeFile(t, dir, "faq.txt", "Livraison en 3 jours.")
	writeFile(t, dir, "sub/extra.json", `{"info": "horaires"}`)
	writeFile(t, dir, "image.png", "binary")

	index := &fakeIndex{}
	loader := NewLoader(config.KnowledgeConfig{Path: dir, ChunkSize: 1000, ChunkOverlap: 200}, &fakeEmbedder{}, index)

	res, err := loader.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, []string{"reset", "upsert", "flush"}, index.calls)

	bySource := map[string]entity.IndexedChunk{}
	for _, c := range index.chunks {
		bySource[c.Source] = c
	}
	require.Contains(t, bySource, "products.md")
	require.Contains(t, bySource, "sub/extra.json")
	assert.True(t, bySource["products.md"].Labels.Has(entity.LabelProduct))
	assert.NotEmpty(t, bySource["products.md"].Embedding)

	again, err := loader.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Chunks, again.Chunks)
	assert.Equal(t, bySource["products.md"].ID, chunkID("products.md", 0))
}

func TestLoader_EmbedFailureKeepsIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "faq.md", "Garantie 2 ans")

	index := &fakeIndex{}
	loader := NewLoader(config.KnowledgeConfig{Path: dir, ChunkSize: 1000, ChunkOverlap: 200},
		&fakeEmbedder{err: errors.New("quota")}, index)

	_, err := loader.Reload(context.Background())
	require.Error(t, err)
	assert.Empty(t, index.calls)
}

func TestLoader_UpsertFailureReportsPartialReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "faq.md", "Garantie 2 ans")

	index := &fakeIndex{upsertErr: errors.New("chroma down")}
	loader := NewLoader(config.KnowledgeConfig{Path: dir, ChunkSize: 1000, ChunkOverlap: 200},
		&fakeEmbedder{}, index)

	_, err := loader.Reload(context.Background())
	require.ErrorIs(t, err, ErrPartialReload)
	assert.ErrorContains(t, err, "chroma down")
	assert.Equal(t, []string{"reset", "upsert", "flush"}, index.calls)
}

func TestLoader_MissingDirectory(t *testing.T) {
	index := &fakeIndex{}
	loader := NewLoader(config.KnowledgeConfig{Path: filepath.Join(t.TempDir(), "absent"), ChunkSize: 1000, ChunkOverlap: 200},
		&fakeEmbedder{}, index)

	res, err := loader.Reload(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Chunks)
	assert.Empty(t, index.calls)
}
