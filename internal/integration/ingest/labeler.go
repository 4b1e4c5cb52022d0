package ingest

import (
	"path/filepath"
	"strings"

	"github.com/futig/assistant-backend/internal/entity"
)

type labelRule struct {
	keywords []string
	labels   []string
}

var filenameRules = []labelRule{
	{keywords: []string{"product", "catalog"}, labels: []string{entity.LabelProduct, "catalog"}},
	{keywords: []string{"ecommerce"}, labels: []string{entity.LabelEcommerce, entity.LabelGeneral}},
	{keywords: []string{"faq"}, labels: []string{entity.LabelFAQ, entity.LabelSupport}},
	{keywords: []string{"customer"}, labels: []string{"customer_service", entity.LabelSupport}},
}

// "sav" is left out: as a substring it fires on "savoir"
var contentRules = []labelRule{
	{keywords: []string{"prix", "price", "€", "euro"}, labels: []string{"pricing"}},
	{keywords: []string{"iphone", "samsung", "macbook", "dell", "airpods"}, labels: []string{entity.LabelProduct, "electronics"}},
	{keywords: []string{"livraison", "delivery", "shipping"}, labels: []string{"shipping"}},
	{keywords: []string{"garantie", "warranty"}, labels: []string{"warranty"}},
	{keywords: []string{"paiement", "payment", "carte"}, labels: []string{"payment"}},
}

// labelChunk derives labels from the source file name and the chunk text
func labelChunk(source, content string) entity.LabelSet {
	name := strings.ToLower(filepath.Base(source))
	text := strings.ToLower(content)

	labels := entity.LabelSet{}
	apply(labels, filenameRules, name)
	apply(labels, contentRules, text)

	if len(labels) == 0 {
		labels[entity.LabelGeneral] = struct{}{}
	}
	return labels
}

func apply(labels entity.LabelSet, rules []labelRule, text string) {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				for _, l := range rule.labels {
					labels[l] = struct{}{}
				}
				break
			}
		}
	}
}
