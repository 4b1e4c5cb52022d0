package prompt

import (
	"strings"

	"github.com/futig/assistant-backend/internal/entity"
)

// Composer builds the full instruction handed to the generator
type Composer struct {
	templates map[entity.Scenario]string
	retrieval string
}

func NewComposer() *Composer {
	templates := make(map[entity.Scenario]string, len(guidance))
	for scenario, text := range guidance {
		templates[scenario] = assemble(text)
	}

	return &Composer{
		templates: templates,
		retrieval: assemble(retrievalGuidance),
	}
}

func assemble(scenarioGuidance string) string {
	return strings.Join([]string{outputContract, scenarioGuidance, fidelityRules, closing}, "\n\n")
}

// Compose renders the scenario template. Unknown scenarios use the informative template.
func (c *Composer) Compose(scenario entity.Scenario, memory, retrievedContext, question string) string {
	tmpl, ok := c.templates[scenario]
	if !ok {
		tmpl = c.templates[entity.ScenarioInformative]
	}
	return fill(tmpl, memory, retrievedContext, question)
}

// ComposeRetrieval renders the generic prompt used for the plain similarity answer
func (c *Composer) ComposeRetrieval(memory, retrievedContext, question string) string {
	return fill(c.retrieval, memory, retrievedContext, question)
}

// fill substitutes all placeholders in one pass, so placeholders inside user text stay literal
func fill(tmpl, memory, retrievedContext, question string) string {
	if strings.TrimSpace(memory) == "" {
		memory = emptyMemoryMarker
	}

	return strings.NewReplacer(
		memoryPlaceholder, memory,
		contextPlaceholder, retrievedContext,
		questionPlaceholder, question,
	).Replace(tmpl)
}
