package connectors

import (
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ConversationTracker keeps per-chat history so follow-up messages carry
// context. A conversation expires after idle time; expired histories are
// dropped lazily on the next access.
type ConversationTracker struct {
	mu        sync.Mutex
	history   map[int64][]openai.ChatCompletionMessage
	lastSeen  map[int64]time.Time
	maxIdle   time.Duration
	maxLength int
}

func NewConversationTracker(maxIdle time.Duration, maxLength int) *ConversationTracker {
	return &ConversationTracker{
		history:   map[int64][]openai.ChatCompletionMessage{},
		lastSeen:  map[int64]time.Time{},
		maxIdle:   maxIdle,
		maxLength: maxLength,
	}
}

// Conversation returns a copy of the live history for key, empty when the
// conversation has expired.
func (c *ConversationTracker) Conversation(key int64) []openai.ChatCompletionMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expireLocked()

	out := make([]openai.ChatCompletionMessage, len(c.history[key]))
	copy(out, c.history[key])
	return out
}

// Add appends one message to key's history and refreshes its idle timer.
func (c *ConversationTracker) Add(key int64, msg openai.ChatCompletionMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := append(c.history[key], msg)
	if len(h) > c.maxLength {
		h = h[len(h)-c.maxLength:]
	}
	c.history[key] = h
	c.lastSeen[key] = time.Now()
}

func (c *ConversationTracker) expireLocked() {
	cutoff := time.Now().Add(-c.maxIdle)
	for key, seen := range c.lastSeen {
		if seen.Before(cutoff) {
			delete(c.history, key)
			delete(c.lastSeen, key)
		}
	}
}
