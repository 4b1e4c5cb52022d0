package state

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// ChatSessions maps a Telegram chat to the conversation thread it is currently writing to.
// Entries expire after the configured TTL so an idle chat starts over with a fresh session.
type ChatSessions struct {
	items *cache.Cache
}

func NewChatSessions(ttl time.Duration) *ChatSessions {
	cleanup := ttl * 2
	if ttl <= 0 {
		ttl = cache.NoExpiration
		cleanup = 0
	}
	return &ChatSessions{items: cache.New(ttl, cleanup)}
}

// Get returns the active session id of a chat and refreshes its TTL
func (s *ChatSessions) Get(chatID int64) (string, bool) {
	v, ok := s.items.Get(key(chatID))
	if !ok {
		return "", false
	}
	sessionID := v.(string)
	s.items.SetDefault(key(chatID), sessionID)
	return sessionID, true
}

func (s *ChatSessions) Set(chatID int64, sessionID string) {
	s.items.SetDefault(key(chatID), sessionID)
}

func (s *ChatSessions) Delete(chatID int64) {
	s.items.Delete(key(chatID))
}

func (s *ChatSessions) Len() int {
	return s.items.ItemCount()
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
