package index

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/futig/assistant-backend/internal/entity"
	pkghttp "github.com/futig/assistant-backend/pkg/http"
)

func collectionPath(id, action string) string {
	return "/api/v1/collections/" + url.PathEscape(id) + "/" + action
}

func toChunk(id, document string, metadata map[string]any) entity.Chunk {
	if metadata == nil {
		metadata = map[string]any{}
	}

	tags, _ := metadata[metaTags].(string)
	source, _ := metadata[metaSource].(string)

	return entity.Chunk{
		ID:       id,
		Content:  document,
		Source:   source,
		Labels:   entity.ParseLabels(tags),
		Metadata: metadata,
	}
}

func toMetadata(chunk entity.Chunk) map[string]any {
	metadata := make(map[string]any, len(chunk.Metadata)+3)
	for k, v := range chunk.Metadata {
		metadata[k] = v
	}

	metadata[metaTags] = chunk.Labels.Encode()
	metadata[metaSource] = chunk.Source
	contentType := entity.LabelGeneral
	if chunk.Labels.Has(entity.LabelProduct) {
		contentType = entity.LabelProduct
	}
	metadata[metaContentType] = contentType

	return metadata
}

func at(values [][]string, i int) string {
	if len(values) == 0 || i >= len(values[0]) {
		return ""
	}
	return values[0][i]
}

func atMeta(values [][]map[string]any, i int) map[string]any {
	if len(values) == 0 || i >= len(values[0]) {
		return nil
	}
	return values[0][i]
}

func atFlat(values []string, i int) string {
	if i >= len(values) {
		return ""
	}
	return values[i]
}

func atFlatMeta(values []map[string]any, i int) map[string]any {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

// cloneChunks copies the slice so cached results cannot be mutated by callers
func cloneChunks(chunks []entity.Chunk) []entity.Chunk {
	out := make([]entity.Chunk, len(chunks))
	copy(out, chunks)
	return out
}

func isNotFound(err error) bool {
	var httpErr *pkghttp.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

// isStaleCollection reports whether Chroma rejected a collection id it no longer knows.
// Depending on the server version that is a 404 or a 500 naming the collection.
func isStaleCollection(err error) bool {
	var httpErr *pkghttp.HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	if httpErr.StatusCode == http.StatusNotFound {
		return true
	}
	msg := strings.ToLower(httpErr.Message)
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "invalidcollection")
}
