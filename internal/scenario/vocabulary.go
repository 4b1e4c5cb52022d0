package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds every keyword list used for intent detection and scenario classification.
// Matching is a case-insensitive substring test.
type Vocabulary struct {
	ProductIntent  []string `yaml:"product_intent"`
	Recommendation []string `yaml:"recommendation"`
	SingleItem     []string `yaml:"single_item"`
	Ecommerce      []string `yaml:"ecommerce"`
	Restaurant     []string `yaml:"restaurant"`
	Support        []string `yaml:"support"`
	Comparison     []string `yaml:"comparison"`
	Greeting       []string `yaml:"greeting"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		ProductIntent: []string{
			"produit", "product", "liste", "catalog", "catalogue", "disponible", "prix",
			"smartphone", "ordinateur", "iphone", "samsung", "macbook", "airpods", "dell",
			"acheter", "achat", "buy", "purchase", "commander", "order",
			"cadeau", "cadeaux", "gift", "offrir", "offer",
			"proposer", "propose", "recommander", "recommend", "suggérer", "suggest",
			"cherche", "search", "trouve", "find", "besoin", "need", "veux", "want",
			"boutique", "magasin", "shop", "store", "vendre", "sell", "vente", "sale",
			"choisir", "choose", "sélectionner", "select", "comparer", "compare",
			"que me", "qu'avez", "avez-vous", "do you have", "what do you",
			"me conseillez", "me proposez", "me recommandez",
		},
		Recommendation: []string{
			"recommand", "conseil", "suggest", "propose", "que faire", "quoi", "help", "aide",
		},
		SingleItem: []string{
			"ce produit", "cet article", "détail", "details", "spécification", "specification",
			"caractéristique", "fiche", "this product", "en savoir plus",
		},
		Ecommerce: []string{
			"produits", "products", "catalogue", "catalog", "acheter", "buy", "prix", "price",
			"montrez", "show", "liste", "électronique", "boutique", "shop", "disponible",
		},
		Restaurant: []string{
			"menu", "restaurant", "plats", "dish", "réserv", "cuisine", "boisson",
		},
		Support: []string{
			"problème", "problem", "retour", "rembourse", "refund", "livraison", "delivery",
			"garantie", "warranty", "réclamation", "support", "annuler", "service après-vente",
		},
		Comparison: []string{
			"compar", "versus", " vs", "différence", "difference", "meilleur entre",
		},
		Greeting: []string{
			"bonjour", "salut", "hello", "bonsoir", "hey", "coucou", "bienvenue",
			"aide", "help", "que pouvez-vous", "qui êtes-vous", "accueil",
		},
	}
}

// LoadVocabulary overlays the lists found in a YAML file on top of the defaults.
// Lists absent from the file keep their default value.
func LoadVocabulary(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()

	raw, err := os.ReadFile(path)
	if err != nil {
		return vocab, fmt.Errorf("read vocabulary file: %w", err)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return vocab, fmt.Errorf("parse vocabulary file: %w", err)
	}

	overlay(&vocab.ProductIntent, override.ProductIntent)
	overlay(&vocab.Recommendation, override.Recommendation)
	overlay(&vocab.SingleItem, override.SingleItem)
	overlay(&vocab.Ecommerce, override.Ecommerce)
	overlay(&vocab.Restaurant, override.Restaurant)
	overlay(&vocab.Support, override.Support)
	overlay(&vocab.Comparison, override.Comparison)
	overlay(&vocab.Greeting, override.Greeting)

	return vocab, nil
}

func overlay(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}
