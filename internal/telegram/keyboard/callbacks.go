package keyboard

import (
	"fmt"
	"strings"
)

// Callback actions
const (
	ActionNew     = "new"
	ActionHistory = "history"
	ActionExport  = "export"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses "action" or "action:value" callback data
func ParseCallback(data string) (*CallbackData, error) {
	action, value, _ := strings.Cut(data, ":")
	if action == "" {
		return nil, fmt.Errorf("invalid callback format: %q", data)
	}

	return &CallbackData{Action: action, Value: value}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	if value == "" {
		return action
	}
	return action + ":" + value
}
