package query

import (
	"testing"

	"github.com/futig/assistant-backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.QueryConfig{
		MemoryMessages:          3,
		SimilarityTopK:          7,
		ProductLabelLimit:       15,
		FallbackLabelLimit:      10,
		FallbackMinSources:      3,
		DefaultMaxResults:       4,
		RegenerateAfterClassify: true,
	})

	assert.Equal(t, 3, opts.MemoryMessages)
	assert.Equal(t, 7, opts.SimilarityTopK)
	assert.Equal(t, 4, opts.DefaultMaxResults)
	assert.True(t, opts.RegenerateAfterClassify)
	assert.False(t, opts.InjectMemoryIntoRetrieval)
	assert.Equal(t, DefaultOptions().ProductLabelLimit, opts.ProductLabelLimit)
}
