package scenario

import "strings"

// Detector answers a yes/no intent question about a piece of text
type Detector interface {
	Detect(text string) bool
}

var _ Detector = KeywordDetector{}

// KeywordDetector matches when any keyword occurs in the lowercased text
type KeywordDetector struct {
	keywords []string
}

func NewKeywordDetector(keywords []string) KeywordDetector {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(k); k != "" {
			lowered = append(lowered, k)
		}
	}
	return KeywordDetector{keywords: lowered}
}

func (d KeywordDetector) Detect(text string) bool {
	text = strings.ToLower(text)
	for _, k := range d.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Intents bundles the detectors the orchestrator gates retrieval on
type Intents struct {
	Product        Detector
	Recommendation Detector
}

func NewIntents(vocab Vocabulary) Intents {
	return Intents{
		Product:        NewKeywordDetector(vocab.ProductIntent),
		Recommendation: NewKeywordDetector(vocab.Recommendation),
	}
}
