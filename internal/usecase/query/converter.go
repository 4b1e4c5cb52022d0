package query

import "github.com/futig/assistant-backend/internal/entity"

func messageMetadata(out *outcome) map[string]any {
	metadata := map[string]any{
		entity.MetaSearchMethod: string(out.method),
		entity.MetaScenario:     string(out.scenario),
		entity.MetaSourcesCount: len(out.chunks),
	}
	if out.tagUsed != "" {
		metadata[entity.MetaTagUsed] = out.tagUsed
	}
	return metadata
}

func toSource(chunk entity.Chunk) entity.Source {
	source := chunk.Source
	if source == "" {
		source = unknownSource
	}

	metadata := chunk.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return entity.Source{
		Content:  preview(chunk.Content),
		Metadata: metadata,
		Source:   source,
	}
}

func buildResult(sessionID, question string, out *outcome, maxResults int) *entity.QueryResult {
	shown := out.chunks
	if maxResults > 0 && len(shown) > maxResults {
		shown = shown[:maxResults]
	}

	sources := make([]entity.Source, 0, len(shown))
	for _, c := range shown {
		sources = append(sources, toSource(c))
	}

	meta := entity.QueryMetadata{
		TotalSources: len(out.chunks),
		Query:        question,
		SearchMethod: out.method,
		Scenario:     out.scenario,
	}
	if out.tagUsed != "" {
		tag := out.tagUsed
		meta.TagUsed = &tag
	}

	return &entity.QueryResult{
		Answer:    out.answer,
		Sources:   sources,
		SessionID: sessionID,
		Metadata:  meta,
	}
}
