package entity

type QueryRequest struct {
	Query      string  `json:"query"`
	SessionID  *string `json:"session_id,omitempty"`
	MaxResults int     `json:"max_results,omitempty"`
}

// Source is a preview of a chunk that contributed to an answer
type Source struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Source   string         `json:"source"`
}

type QueryMetadata struct {
	TotalSources int          `json:"total_sources"`
	Query        string       `json:"query"`
	SearchMethod SearchMethod `json:"search_method"`
	Scenario     Scenario     `json:"scenario"`
	TagUsed      *string      `json:"tag_used,omitempty"`
}

type QueryResult struct {
	Answer    string        `json:"answer"`
	Sources   []Source      `json:"sources"`
	SessionID string        `json:"session_id"`
	Metadata  QueryMetadata `json:"metadata"`
}
