package llm

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"math"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	mockEmbeddingDim = 32
	questionMarker   = "Question actuelle: "
)

// MockConnector answers without network access: a fixed layout echoing the question,
// and bag-of-words hash embeddings.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

type mockComponent struct {
	Type  string         `json:"type"`
	Props map[string]any `json:"props"`
}

type mockLayout struct {
	Template      string          `json:"template"`
	Components    []mockComponent `json:"components"`
	TemplateProps map[string]any  `json:"templateProps"`
}

func (m *MockConnector) Generate(ctx context.Context, instruction string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating completion", zap.Int("instruction_length", len(instruction)))

	layout := mockLayout{
		Template: "centered",
		Components: []mockComponent{
			{Type: "Heading", Props: map[string]any{"level": 1, "text": "Réponse de démonstration"}},
			{Type: "Text", Props: map[string]any{"text": extractQuestion(instruction)}},
		},
		TemplateProps: map[string]any{"mock": true},
	}

	out, err := json.Marshal(layout)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (m *MockConnector) Embed(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Debug(ctx, "[MOCK] embedding text", zap.Int("length", len(text)))

	vector := make([]float32, mockEmbeddingDim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vector[h.Sum32()%mockEmbeddingDim]++
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v * v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}

	return vector, nil
}

func (m *MockConnector) ChatModel() string {
	return "mock"
}

func (m *MockConnector) EmbeddingModel() string {
	return "mock"
}

func extractQuestion(instruction string) string {
	idx := strings.LastIndex(instruction, questionMarker)
	if idx < 0 {
		return ""
	}
	rest := instruction[idx+len(questionMarker):]
	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
