package agent

import (
	"context"
	"time"

	"github.com/cperez90008/kiwiai/core/ledger"
	"github.com/cperez90008/kiwiai/core/memory"
	"github.com/cperez90008/kiwiai/core/providers"
	"github.com/cperez90008/kiwiai/core/selector"
	"github.com/cperez90008/kiwiai/core/types"
	"github.com/cperez90008/kiwiai/pkg/keystore"
	"github.com/mudler/xlog"
	"github.com/sashabaranov/go-openai"
)

// historyWindow bounds how many prior turns are forwarded to the provider.
const historyWindow = 10

// Agent is the request pipeline: selector → adapter → ledger, with memory
// extraction on the way in. It is shared by the HTTP API, the Telegram bridge
// and the scheduler.
type Agent struct {
	keys     *keystore.Store
	selector *selector.Selector
	adapters map[providers.Kind]providers.Adapter
	costs    *ledger.Ledger
	facts    *memory.Store
	timeout  time.Duration
}

func New(keys *keystore.Store, costs *ledger.Ledger, facts *memory.Store, adapters map[providers.Kind]providers.Adapter, timeout time.Duration) *Agent {
	return &Agent{
		keys:     keys,
		selector: selector.New(keys),
		adapters: adapters,
		costs:    costs,
		facts:    facts,
		timeout:  timeout,
	}
}

// Selector exposes the routing policy for status endpoints.
func (a *Agent) Selector() *selector.Selector {
	return a.selector
}

// Ask runs one interactive turn through the pipeline. The provider is
// re-selected on every call against live credentials; cost is recorded only
// when the provider call succeeded.
func (a *Agent) Ask(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	a.facts.Extract(req.Message)
	return a.ask(ctx, req)
}

// Execute runs a scheduled task body: one user message, no skills, no
// history. Task bodies are not mined for personal facts.
func (a *Agent) Execute(ctx context.Context, prompt string) (*types.ChatResponse, error) {
	return a.ask(ctx, types.ChatRequest{Message: prompt})
}

func (a *Agent) ask(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {

	desc := a.selector.Select(req.Message)
	if desc == nil {
		return nil, providers.ErrNoProvider
	}

	adapter, ok := a.adapters[desc.Kind]
	if !ok {
		return nil, &providers.ProtocolError{Provider: string(desc.Kind), Reason: "no adapter registered"}
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(a.facts, req.Skills)},
	}
	history := req.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	messages = append(messages, history...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	xlog.Info("Dispatching request", "model", desc.Name, "tier", desc.Tier)
	result, err := adapter.Invoke(callCtx, *desc, messages, a.keys.Get(desc.CredentialKey))
	if err != nil {
		xlog.Error("Provider call failed", "model", desc.Name, "error", err)
		return nil, err
	}

	cost := a.costs.Record(*desc, result.Usage)

	return &types.ChatResponse{
		Response: result.Content,
		Model:    desc.Name,
		Tier:     string(desc.Tier),
		Cost:     cost,
	}, nil
}
