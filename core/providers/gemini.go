package providers

import (
	"context"
	"errors"

	"github.com/cperez90008/kiwiai/core/types"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Gemini adapts the uniform message shape to the Gemini API: the system
// message is lifted out of the turn list into the system instruction, and the
// assistant role is remapped to Gemini's "model" role.
type Gemini struct{}

func (g *Gemini) Invoke(ctx context.Context, desc Descriptor, messages []openai.ChatCompletionMessage, credential string) (*Result, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ProviderError{Provider: "Gemini", Body: err.Error()}
	}

	system, contents := toGeminiContents(messages)
	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := client.Models.GenerateContent(ctx, desc.Model, contents, config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: "Gemini", Status: apiErr.Code, Body: apiErr.Message}
		}
		return nil, &ProviderError{Provider: "Gemini", Body: err.Error()}
	}

	text := resp.Text()
	if text == "" {
		return nil, &ProtocolError{Provider: "Gemini", Reason: "no candidates in response"}
	}

	usage := types.Usage{}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &Result{Content: text, Usage: usage}, nil
}

// toGeminiContents splits out the system prompt and converts the remaining
// turns to Gemini contents, preserving order.
func toGeminiContents(messages []openai.ChatCompletionMessage) (string, []*genai.Content) {
	system := ""
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if m.Role == openai.ChatMessageRoleSystem {
			system = m.Content
			continue
		}
		role := genai.RoleUser
		if m.Role == openai.ChatMessageRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return system, contents
}
