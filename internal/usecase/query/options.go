package query

import "github.com/futig/assistant-backend/internal/config"

// Options holds the retrieval limits and pipeline switches of the orchestrator
type Options struct {
	MemoryMessages     int
	SimilarityTopK     int
	ProductLabelLimit  int
	FallbackLabelLimit int
	FallbackMinSources int
	DefaultMaxResults  int

	// InjectMemoryIntoRetrieval prepends conversation memory to the similarity query
	InjectMemoryIntoRetrieval bool
	// RegenerateAfterClassify answers with the plain retrieval prompt first and regenerates
	// for scenarios that need a layout template, then again on fallback promotion
	RegenerateAfterClassify bool
}

// DefaultOptions returns the limits used when no configuration is supplied
func DefaultOptions() Options {
	return Options{
		MemoryMessages:     5,
		SimilarityTopK:     10,
		ProductLabelLimit:  15,
		FallbackLabelLimit: 10,
		FallbackMinSources: 3,
		DefaultMaxResults:  5,
	}
}

// OptionsFromConfig maps the QUERY_* settings onto Options
func OptionsFromConfig(cfg config.QueryConfig) Options {
	return Options{
		MemoryMessages:            cfg.MemoryMessages,
		SimilarityTopK:            cfg.SimilarityTopK,
		ProductLabelLimit:         cfg.ProductLabelLimit,
		FallbackLabelLimit:        cfg.FallbackLabelLimit,
		FallbackMinSources:        cfg.FallbackMinSources,
		DefaultMaxResults:         cfg.DefaultMaxResults,
		InjectMemoryIntoRetrieval: cfg.InjectMemoryIntoRetrieval,
		RegenerateAfterClassify:   cfg.RegenerateAfterClassify,
	}
}
