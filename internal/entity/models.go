package entity

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidParameter, string(r))
	}
}

// Scenario is the layout intent chosen for an answer
type Scenario string

const (
	ScenarioSingleProduct     Scenario = "single_product"
	ScenarioEcommerceProducts Scenario = "ecommerce_products"
	ScenarioRestaurantMenu    Scenario = "restaurant_menu"
	ScenarioCustomerSupport   Scenario = "customer_support"
	ScenarioProductComparison Scenario = "product_comparison"
	ScenarioLandingPage       Scenario = "landing_page"
	ScenarioInformative       Scenario = "informative"
)

func AllScenarios() []Scenario {
	return []Scenario{
		ScenarioSingleProduct,
		ScenarioEcommerceProducts,
		ScenarioRestaurantMenu,
		ScenarioCustomerSupport,
		ScenarioProductComparison,
		ScenarioLandingPage,
		ScenarioInformative,
	}
}

func (s Scenario) IsValid() bool {
	for _, known := range AllScenarios() {
		if s == known {
			return true
		}
	}
	return false
}

// SearchMethod tells which retrieval path produced an answer
type SearchMethod string

const (
	SearchMethodTagBased         SearchMethod = "tag_based"
	SearchMethodSimilarity       SearchMethod = "similarity"
	SearchMethodFallbackProducts SearchMethod = "fallback_products"
)

// Message metadata keys written by the orchestrator
const (
	MetaSearchMethod = "search_method"
	MetaScenario     = "scenario"
	MetaSourcesCount = "sources_count"
	MetaTagUsed      = "tag_used"
)

// Session is a conversation thread
type Session struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Metadata  map[string]any `json:"metadata"`
}

// SessionSummary is a session with its computed message count
type SessionSummary struct {
	Session
	MessageCount int `json:"message_count"`
}

// Message is an immutable entry of a session history
type Message struct {
	ID        int64          `json:"id"`
	SessionID string         `json:"session_id"`
	Timestamp time.Time      `json:"timestamp"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
}

// Chunk is a labeled fragment of the knowledge base
type Chunk struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Source   string         `json:"source"`
	Labels   LabelSet       `json:"labels"`
	Metadata map[string]any `json:"metadata"`
}
