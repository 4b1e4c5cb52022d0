package validator

import (
	"path/filepath"
	"strings"
)

// KnowledgeExtensions lists the file types ingested into the knowledge base
var KnowledgeExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".json": true,
}

const (
	MaxQueryLength = 4000
	MaxResultsCap  = 50
	MaxTitleLength = 200
)

// Validator validates transport requests before they reach the use cases
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// IsKnowledgeFile reports whether path has an ingestible extension
func IsKnowledgeFile(path string) bool {
	return KnowledgeExtensions[strings.ToLower(filepath.Ext(path))]
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
		"\"", "",
		"/", "_",
	)
	return replacer.Replace(filename)
}
