package connectors

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cperez90008/kiwiai/core/agent"
	"github.com/cperez90008/kiwiai/core/ledger"
	"github.com/cperez90008/kiwiai/core/scheduler"
	"github.com/cperez90008/kiwiai/core/types"
	"github.com/cperez90008/kiwiai/pkg/keystore"
	"github.com/cperez90008/kiwiai/pkg/xstrings"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mudler/xlog"
	"github.com/sashabaranov/go-openai"
)

const (
	tokenKey  = "TELEGRAM_BOT_TOKEN"
	chatIDKey = "TELEGRAM_CHAT_ID"

	// Telegram caps messages at 4096 characters; stay under it.
	messageChunk = 4000
)

// TelegramNotifier delivers task outcomes to the configured chat. It re-reads
// the keystore on every send so a token added at runtime starts working
// without a restart; unconfigured it is a silent no-op.
type TelegramNotifier struct {
	keys *keystore.Store
}

func NewTelegramNotifier(keys *keystore.Store) *TelegramNotifier {
	return &TelegramNotifier{keys: keys}
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) {
	token := n.keys.Get(tokenKey)
	chatID := n.keys.Get(chatIDKey)
	if token == "" || chatID == "" {
		return
	}

	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		xlog.Error("Failed to build telegram client", "error", err)
		return
	}
	sendChunked(ctx, b, chatID, text)
}

func sendChunked(ctx context.Context, b *bot.Bot, chatID any, text string) {
	for _, chunk := range xstrings.Chunk(text, messageChunk) {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      chunk,
			ParseMode: models.ParseModeMarkdown,
		})
		if err != nil {
			xlog.Error("Failed to send telegram message", "error", err)
		}
	}
}

// TelegramBridge long-polls the bot API and relays free text into the chat
// pipeline. A configured chat ID restricts who may interact; /start, /status,
// /tasks and /costs are answered locally.
type TelegramBridge struct {
	keys    *keystore.Store
	agent   *agent.Agent
	tasks   scheduler.TaskStore
	costs   *ledger.Ledger
	tracker *ConversationTracker
}

func NewTelegramBridge(keys *keystore.Store, a *agent.Agent, tasks scheduler.TaskStore, costs *ledger.Ledger) *TelegramBridge {
	return &TelegramBridge{
		keys:    keys,
		agent:   a,
		tasks:   tasks,
		costs:   costs,
		tracker: NewConversationTracker(5*time.Minute, 20),
	}
}

// Run blocks polling for updates until ctx is cancelled. When no token is
// configured yet it waits quietly and retries, so the bridge can be enabled
// from the panel at runtime.
func (t *TelegramBridge) Run(ctx context.Context) {
	var token string
	for {
		token = t.keys.Get(tokenKey)
		if token != "" {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(15 * time.Second):
		}
	}

	b, err := bot.New(token, bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		t.handleUpdate(ctx, b, update)
	}))
	if err != nil {
		xlog.Error("Telegram bridge failed to start", "error", err)
		return
	}

	xlog.Info("Telegram bridge started")
	b.Start(ctx)
}

func (t *TelegramBridge) handleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	text := update.Message.Text

	if allowed := t.keys.Get(chatIDKey); allowed != "" {
		if id, err := strconv.ParseInt(allowed, 10, 64); err != nil || id != chatID {
			sendChunked(ctx, b, chatID, "⛔ Unauthorized access.")
			return
		}
	}

	xlog.Info("Telegram message", "chat", chatID, "text", xstrings.Truncate(text, 80))

	switch text {
	case "/start":
		sendChunked(ctx, b, chatID, "🥝 *KiwiAI is online!*\n\nYour 24/7 autonomous AI agent is ready.\n\n"+
			"Just send me any message and I'll get to work.\n\n"+
			"Commands:\n/status — check agent status\n/tasks — view scheduled tasks\n/costs — today's API costs")
	case "/status":
		t.replyStatus(ctx, b, chatID)
	case "/tasks":
		t.replyTasks(ctx, b, chatID)
	case "/costs":
		t.replyCosts(ctx, b, chatID)
	default:
		t.relay(ctx, b, chatID, text)
	}
}

func (t *TelegramBridge) replyStatus(ctx context.Context, b *bot.Bot, chatID int64) {
	configured := "⚠️ No API keys"
	if t.agent.Selector().Select("") != nil {
		configured = "✅ Configured"
	}
	sendChunked(ctx, b, chatID, fmt.Sprintf(
		"🥝 *KiwiAI Status*\n\nAgent: ✅ Online\nModels: %s\nTelegram: ✅ Connected\n\nSend any message to get started!",
		configured))
}

func (t *TelegramBridge) replyTasks(ctx context.Context, b *bot.Bot, chatID int64) {
	tasks, err := t.tasks.GetAll()
	if err != nil || len(tasks) == 0 {
		sendChunked(ctx, b, chatID, "📋 No scheduled tasks yet.\n\nAdd them at your KiwiAI panel.")
		return
	}
	out := "📋 *Scheduled Tasks*\n\n"
	for _, task := range tasks {
		state := "✅"
		if !task.Active {
			state = "⏸"
		}
		out += fmt.Sprintf("• *%s* — %s %s\n", task.Name, task.When, state)
	}
	sendChunked(ctx, b, chatID, out)
}

func (t *TelegramBridge) replyCosts(ctx context.Context, b *bot.Bot, chatID int64) {
	snap := t.costs.Snapshot()
	sendChunked(ctx, b, chatID, fmt.Sprintf(
		"💰 *Cost Report*\n\nTotal all time: $%.4f\nMessages: %d", snap.Total, len(snap.Entries)))
}

func (t *TelegramBridge) relay(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	b.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	})

	history := t.tracker.Conversation(chatID)
	t.tracker.Add(chatID, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	resp, err := t.agent.Ask(ctx, types.ChatRequest{Message: text, History: history})
	if err != nil {
		sendChunked(ctx, b, chatID, "⚠️ "+err.Error())
		return
	}

	t.tracker.Add(chatID, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: resp.Response,
	})
	sendChunked(ctx, b, chatID, resp.Response)
}
