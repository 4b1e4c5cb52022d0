package query

import (
	"strings"

	"github.com/futig/assistant-backend/internal/entity"
)

const (
	previewLength = 200
	unknownSource = "Unknown"
)

// Scenarios whose plain retrieval answer is replaced by a templated one
var templateScenarios = map[entity.Scenario]bool{
	entity.ScenarioRestaurantMenu:    true,
	entity.ScenarioCustomerSupport:   true,
	entity.ScenarioLandingPage:       true,
	entity.ScenarioProductComparison: true,
}

func needsTemplate(s entity.Scenario) bool {
	return templateScenarios[s]
}

func joinChunks(chunks []entity.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.Content)
	}
	return strings.Join(parts, "\n\n")
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
