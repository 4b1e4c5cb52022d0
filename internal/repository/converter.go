package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

// sqliteTimeLayout is fixed width so lexical order matches chronological order
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func encodeMetadata(metadata map[string]any) (string, error) {
	if metadata == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(raw), nil
}

func decodeMetadata(raw []byte) map[string]any {
	metadata := map[string]any{}
	if len(raw) == 0 {
		return metadata
	}
	// Corrupt metadata is not fatal for reads
	_ = json.Unmarshal(raw, &metadata)
	return metadata
}
