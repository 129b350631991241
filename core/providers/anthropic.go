package providers

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cperez90008/kiwiai/core/types"
	"github.com/sashabaranov/go-openai"
)

// Anthropic adapts the uniform message shape to the Messages API, which takes
// the system prompt as a dedicated top-level field rather than a turn.
type Anthropic struct {
	maxTokens int
}

func (a *Anthropic) Invoke(ctx context.Context, desc Descriptor, messages []openai.ChatCompletionMessage, credential string) (*Result, error) {
	client := anthropic.NewClient(option.WithAPIKey(credential))

	system, turns := toAnthropicMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(desc.Model),
		MaxTokens: int64(a.maxTokens),
		Messages:  turns,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: "Anthropic", Status: apiErr.StatusCode, Body: apiErr.Error()}
		}
		return nil, &ProviderError{Provider: "Anthropic", Body: err.Error()}
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, &ProtocolError{Provider: "Anthropic", Reason: "no text content in response"}
	}

	return &Result{
		Content: sb.String(),
		Usage: types.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}

// toAnthropicMessages lifts the system prompt out of the turn list and maps
// the remaining turns onto Messages API params, preserving order.
func toAnthropicMessages(messages []openai.ChatCompletionMessage) (string, []anthropic.MessageParam) {
	system := ""
	turns := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case openai.ChatMessageRoleSystem:
			system = m.Content
		case openai.ChatMessageRoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return system, turns
}
