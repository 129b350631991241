package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/cperez90008/kiwiai/core/types"
	"github.com/sashabaranov/go-openai"
)

// OpenAICompat speaks the OpenAI chat-completions dialect against any
// compatible endpoint. Messages pass through untouched: the dialect keeps the
// system message inline and uses the same role names as the uniform shape.
type OpenAICompat struct {
	provider    string
	baseURL     string
	headers     map[string]string
	maxTokens   int
	temperature float32
}

func (o *OpenAICompat) client(credential string) *openai.Client {
	config := openai.DefaultConfig(credential)
	config.BaseURL = o.baseURL
	if len(o.headers) > 0 {
		config.HTTPClient = &http.Client{
			Transport: &headerTransport{headers: o.headers, base: http.DefaultTransport},
		}
	}
	return openai.NewClientWithConfig(config)
}

func (o *OpenAICompat) Invoke(ctx context.Context, desc Descriptor, messages []openai.ChatCompletionMessage, credential string) (*Result, error) {
	resp, err := o.client(credential).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       desc.Model,
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: o.provider, Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, &ProviderError{Provider: o.provider, Status: reqErr.HTTPStatusCode, Body: string(reqErr.Body)}
		}
		return nil, &ProviderError{Provider: o.provider, Body: err.Error()}
	}

	if len(resp.Choices) == 0 {
		return nil, &ProtocolError{Provider: o.provider, Reason: "no choices in response"}
	}

	return &Result{
		Content: resp.Choices[0].Message.Content,
		Usage: types.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// headerTransport injects static headers into every request. OpenRouter wants
// attribution headers alongside the bearer token.
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}
