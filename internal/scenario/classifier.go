package scenario

import (
	"strings"
	"unicode/utf8"

	"github.com/futig/assistant-backend/internal/entity"
)

// shortQueryRunes is the length under which an unmatched query is treated as orientation
const shortQueryRunes = 20

// Classifier picks the layout scenario for a question and the chunks retrieved for it.
// Rules are evaluated in order and the first match wins.
type Classifier struct {
	singleItem Detector
	ecommerce  Detector
	restaurant Detector
	support    Detector
	comparison Detector
	greeting   Detector
}

// NewClassifier builds one keyword detector per vocabulary list
func NewClassifier(vocab Vocabulary) *Classifier {
	return &Classifier{
		singleItem: NewKeywordDetector(vocab.SingleItem),
		ecommerce:  NewKeywordDetector(vocab.Ecommerce),
		restaurant: NewKeywordDetector(vocab.Restaurant),
		support:    NewKeywordDetector(vocab.Support),
		comparison: NewKeywordDetector(vocab.Comparison),
		greeting:   NewKeywordDetector(vocab.Greeting),
	}
}

// Classify is total and deterministic: it always returns one of the known scenarios
func (c *Classifier) Classify(query string, chunks []entity.Chunk) entity.Scenario {
	labels := entity.CollectLabels(chunks)
	catalog := labels.HasAny(entity.LabelProduct, entity.LabelEcommerce)

	switch {
	case catalog && (c.singleItem.Detect(query) || len(chunks) == 1):
		return entity.ScenarioSingleProduct
	case catalog && c.ecommerce.Detect(query):
		return entity.ScenarioEcommerceProducts
	case labels.HasAny(entity.LabelRestaurant, entity.LabelMenu) || c.restaurant.Detect(query):
		return entity.ScenarioRestaurantMenu
	case labels.HasAny(entity.LabelSupport, entity.LabelFAQ) || c.support.Detect(query):
		return entity.ScenarioCustomerSupport
	case c.comparison.Detect(query) && len(chunks) > 1 && labels.Has(entity.LabelProduct):
		return entity.ScenarioProductComparison
	case c.greeting.Detect(query) || utf8.RuneCountInString(strings.TrimSpace(query)) < shortQueryRunes:
		return entity.ScenarioLandingPage
	default:
		return entity.ScenarioInformative
	}
}
