package index

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is an in-memory index seeded with a small catalogue.
// Similarity is word overlap, ties keep insertion order.
type MockConnector struct {
	mu     sync.RWMutex
	chunks []entity.Chunk
}

func NewMockConnector() *MockConnector {
	return &MockConnector{chunks: seedCatalogue()}
}

func (m *MockConnector) SimilaritySearch(ctx context.Context, query string, k int) ([]entity.Chunk, error) {
	ctxzap.Info(ctx, "[MOCK] similarity search", zap.String("query", query), zap.Int("k", k))

	m.mu.RLock()
	defer m.mu.RUnlock()

	terms := tokenize(query)
	type scored struct {
		idx   int
		score int
	}
	ranked := make([]scored, 0, len(m.chunks))
	for i, ch := range m.chunks {
		ranked = append(ranked, scored{idx: i, score: overlap(terms, tokenize(ch.Content))})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]entity.Chunk, 0, min(k, len(ranked)))
	for _, r := range ranked[:min(k, len(ranked))] {
		out = append(out, m.chunks[r.idx])
	}
	return out, nil
}

func (m *MockConnector) LabelSearch(ctx context.Context, label string, limit int) ([]entity.Chunk, error) {
	ctxzap.Info(ctx, "[MOCK] label search", zap.String("label", label), zap.Int("limit", limit))

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.Chunk, 0, limit)
	for _, ch := range m.chunks {
		if len(out) >= limit {
			break
		}
		if ch.Labels.Has(label) {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (m *MockConnector) Upsert(ctx context.Context, chunks []entity.IndexedChunk) error {
	ctxzap.Info(ctx, "[MOCK] upsert", zap.Int("count", len(chunks)))

	m.mu.Lock()
	defer m.mu.Unlock()

	positions := make(map[string]int, len(m.chunks))
	for i, ch := range m.chunks {
		positions[ch.ID] = i
	}
	for _, ch := range chunks {
		if i, ok := positions[ch.ID]; ok {
			m.chunks[i] = ch.Chunk
			continue
		}
		positions[ch.ID] = len(m.chunks)
		m.chunks = append(m.chunks, ch.Chunk)
	}
	return nil
}

func (m *MockConnector) Reset(ctx context.Context) error {
	ctxzap.Info(ctx, "[MOCK] reset")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = nil
	return nil
}

func (m *MockConnector) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks), nil
}

func (m *MockConnector) FlushLabelCache() {}

func tokenize(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len(w) > 2 {
			out[w] = struct{}{}
		}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}

func seedCatalogue() []entity.Chunk {
	chunk := func(id, source, content string, labels ...string) entity.Chunk {
		set := entity.NewLabelSet(labels...)
		return entity.Chunk{
			ID:      id,
			Content: content,
			Source:  source,
			Labels:  set,
			Metadata: map[string]any{
				metaTags:   set.Encode(),
				metaSource: source,
			},
		}
	}

	return []entity.Chunk{
		chunk("mock-1", "products.md",
			"iPhone 15 Pro, 128 Go, écran 6,1 pouces, puce A17 Pro. Prix : 1229 €.",
			entity.LabelProduct, "catalog", "electronics", "pricing"),
		chunk("mock-2", "products.md",
			"Samsung Galaxy S24, 256 Go, écran 6,2 pouces, appareil photo 50 Mpx. Prix : 899 €.",
			entity.LabelProduct, "catalog", "electronics", "pricing"),
		chunk("mock-3", "products.md",
			"MacBook Air 13 pouces, puce M3, 8 Go de RAM, 256 Go SSD. Prix : 1299 €.",
			entity.LabelProduct, "catalog", "electronics", "pricing"),
		chunk("mock-4", "products.md",
			"AirPods Pro 2, réduction de bruit active, boîtier MagSafe. Prix : 279 €.",
			entity.LabelProduct, "catalog", "electronics", "pricing"),
		chunk("mock-5", "ecommerce.md",
			"Livraison standard en 3 à 5 jours ouvrés, gratuite dès 50 € d'achat. Livraison express en 24 h.",
			entity.LabelEcommerce, entity.LabelGeneral, "shipping"),
		chunk("mock-6", "faq.md",
			"Garantie constructeur de 2 ans sur tous les produits. Retours acceptés sous 30 jours.",
			entity.LabelFAQ, entity.LabelSupport, "warranty"),
		chunk("mock-7", "faq.md",
			"Paiement par carte bancaire, PayPal ou en 3 fois sans frais dès 150 €.",
			entity.LabelFAQ, entity.LabelSupport, "payment"),
	}
}
