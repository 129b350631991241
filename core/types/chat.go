package types

import "github.com/sashabaranov/go-openai"

// ChatRequest is one interactive turn as received by the HTTP API or the
// Telegram bridge. History is the prior conversation in order; Skills is an
// optional list of skill names folded into the system prompt.
type ChatRequest struct {
	Message string                         `json:"message"`
	History []openai.ChatCompletionMessage `json:"history"`
	Skills  []string                       `json:"skills"`
}

// ChatResponse is the normalized result of one turn.
type ChatResponse struct {
	Response string  `json:"response"`
	Model    string  `json:"model"`
	Tier     string  `json:"tier"`
	Cost     float64 `json:"cost"`
}

// Usage is the token accounting every provider call produces. Providers that
// omit usage report zeroes.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Total returns the combined token count of the call.
func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}
