package providers

import (
	"context"

	"github.com/cperez90008/kiwiai/core/types"
	"github.com/sashabaranov/go-openai"
)

// Result is the normalized outcome of one provider call.
type Result struct {
	Content string
	Usage   types.Usage
}

// Adapter translates the uniform message sequence into one backend's native
// request shape and the native response back into a Result. Implementations
// do not truncate output beyond what the backend itself enforces.
type Adapter interface {
	Invoke(ctx context.Context, desc Descriptor, messages []openai.ChatCompletionMessage, credential string) (*Result, error)
}

// DefaultAdapters maps every catalogue Kind to its adapter. The three
// OpenAI-compatible backends share one implementation parameterized by base
// URL; Gemini and Anthropic each need their own wire translation.
func DefaultAdapters(maxTokens int) map[Kind]Adapter {
	return map[Kind]Adapter{
		KindGroq: &OpenAICompat{
			provider:    "Groq",
			baseURL:     "https://api.groq.com/openai/v1",
			maxTokens:   maxTokens,
			temperature: 0.7,
		},
		KindOpenAI: &OpenAICompat{
			provider:  "OpenAI",
			baseURL:   "https://api.openai.com/v1",
			maxTokens: maxTokens,
		},
		KindOpenRouter: &OpenAICompat{
			provider:  "OpenRouter",
			baseURL:   "https://openrouter.ai/api/v1",
			maxTokens: maxTokens,
			headers: map[string]string{
				"HTTP-Referer": "https://github.com/cperez90008/kiwiai",
				"X-Title":      "KiwiAI",
			},
		},
		KindGemini:    &Gemini{},
		KindAnthropic: &Anthropic{maxTokens: maxTokens},
	}
}
