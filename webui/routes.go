package webui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/cperez90008/kiwiai/core/providers"
	"github.com/cperez90008/kiwiai/core/scheduler"
	"github.com/cperez90008/kiwiai/core/types"
	"github.com/cperez90008/kiwiai/pkg/keystore"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/mudler/xlog"
)

// maskedKeys is the fixed set of settings exposed (masked) over the API.
var maskedKeys = []string{
	"GROQ_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
	"OPENROUTER_API_KEY", "TOGETHER_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	"USER_NAME", "USER_ROLE",
}

func (a *App) registerRoutes(webapp *fiber.App) {
	webapp.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	webapp.Get("/api/status", a.Status())
	webapp.Post("/api/chat", a.Chat())

	webapp.Get("/api/keys", a.GetKeys())
	webapp.Post("/api/keys", a.SetKeys())
	webapp.Get("/api/models", a.Models())
	webapp.Get("/api/costs", a.Costs())

	webapp.Get("/api/memory", a.GetMemory())
	webapp.Delete("/api/memory", a.DeleteMemory())

	webapp.Get("/api/tasks", a.ListTasks())
	webapp.Post("/api/tasks", a.CreateTask())
	webapp.Delete("/api/tasks/:id", a.DeleteTask())
	webapp.Post("/api/tasks/:id/toggle", a.ToggleTask())

	webapp.Post("/api/telegram/test", a.TelegramTest())
	webapp.Post("/api/telegram/send", a.TelegramSend())

	webapp.Get("/api/logs", a.Logs())

	if a.config.StaticDir != "" {
		webapp.Static("/", a.config.StaticDir)
	}
}

func (a *App) Status() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		activeModel := "None configured"
		activeTier := "none"
		if d := a.config.Agent.Selector().Select(""); d != nil {
			activeModel = d.Name
			activeTier = string(d.Tier)
		}

		version := a.config.Keys.Get("KIWI_VERSION")
		if version == "" {
			version = a.config.Version
		}

		return c.JSON(fiber.Map{
			"status":      "running",
			"version":     version,
			"activeModel": activeModel,
			"activeTier":  activeTier,
			"totalCost":   a.config.Costs.Total(),
			"uptime":      time.Since(a.started).Seconds(),
		})
	}
}

func (a *App) Chat() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		payload := types.ChatRequest{}
		if err := c.BodyParser(&payload); err != nil {
			// lenient body handling: an unreadable body is an empty turn
			xlog.Debug("Ignoring malformed chat body", "error", err)
		}

		payload.Message = strings.TrimSpace(payload.Message)
		if payload.Message == "" {
			return errorJSONMessage(c, fiber.StatusBadRequest, "No message")
		}

		resp, err := a.config.Agent.Ask(c.Context(), payload)
		if errors.Is(err, providers.ErrNoProvider) {
			return errorJSONMessage(c, fiber.StatusServiceUnavailable, "No API keys configured. Go to Setup to add a key.")
		}
		if err != nil {
			return errorJSONMessage(c, fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(fiber.Map{
			"response": resp.Response,
			"model":    fiber.Map{"name": resp.Model, "tier": resp.Tier},
			"cost":     resp.Cost,
		})
	}
}

func (a *App) GetKeys() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		masked := map[string]string{}
		for _, k := range maskedKeys {
			masked[k] = keystore.Mask(a.config.Keys.Get(k))
		}
		return c.JSON(masked)
	}
}

func (a *App) SetKeys() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		updates := map[string]string{}
		if err := c.BodyParser(&updates); err != nil {
			xlog.Debug("Ignoring malformed keys body", "error", err)
		}
		if err := a.config.Keys.Set(updates); err != nil {
			return errorJSONMessage(c, fiber.StatusInternalServerError, err.Error())
		}
		return statusJSONMessage(c)
	}
}

func (a *App) Models() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		type modelStatus struct {
			providers.Descriptor
			Available bool `json:"available"`
		}
		out := []modelStatus{}
		for _, d := range providers.Catalogue() {
			out = append(out, modelStatus{
				Descriptor: d,
				Available:  a.config.Keys.Usable(d.CredentialKey),
			})
		}
		return c.JSON(out)
	}
}

func (a *App) Costs() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.JSON(a.config.Costs.Snapshot())
	}
}

func (a *App) GetMemory() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.JSON(a.config.Facts.All())
	}
}

func (a *App) DeleteMemory() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		payload := struct {
			Key string `json:"key"`
		}{}
		if err := c.BodyParser(&payload); err != nil {
			xlog.Debug("Ignoring malformed memory body", "error", err)
		}

		if payload.Key != "" {
			a.config.Facts.Delete(payload.Key)
		} else {
			a.config.Facts.Clear()
		}
		return statusJSONMessage(c)
	}
}

func (a *App) ListTasks() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		tasks, err := a.config.Tasks.GetAll()
		if err != nil {
			return errorJSONMessage(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(tasks)
	}
}

func (a *App) CreateTask() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		task := scheduler.Task{}
		if err := c.BodyParser(&task); err != nil {
			xlog.Debug("Ignoring malformed task body", "error", err)
		}

		if err := a.config.Tasks.Create(&task); err != nil {
			return errorJSONMessage(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"ok": true, "id": task.ID})
	}
}

func (a *App) DeleteTask() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return errorJSONMessage(c, fiber.StatusBadRequest, "invalid task id")
		}
		if err := a.config.Tasks.Delete(id); err != nil {
			return errorJSONMessage(c, fiber.StatusNotFound, err.Error())
		}
		return statusJSONMessage(c)
	}
}

func (a *App) ToggleTask() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return errorJSONMessage(c, fiber.StatusBadRequest, "invalid task id")
		}
		task, err := a.config.Tasks.Toggle(id)
		if err != nil {
			return errorJSONMessage(c, fiber.StatusNotFound, err.Error())
		}
		return c.JSON(task)
	}
}

func (a *App) TelegramTest() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if a.config.Keys.Get("TELEGRAM_BOT_TOKEN") == "" || a.config.Keys.Get("TELEGRAM_CHAT_ID") == "" {
			return errorJSONMessage(c, fiber.StatusBadRequest, "Telegram not configured")
		}
		a.config.Notifier.Notify(c.Context(), "🥝 *KiwiAI Test Message*\n\nYour agent is online and ready! 24/7 autonomous AI is active.")
		return statusJSONMessage(c)
	}
}

func (a *App) TelegramSend() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		payload := struct {
			Text string `json:"text"`
		}{}
		if err := c.BodyParser(&payload); err != nil {
			xlog.Debug("Ignoring malformed send body", "error", err)
		}
		a.config.Notifier.Notify(c.Context(), payload.Text)
		return statusJSONMessage(c)
	}
}

func (a *App) Logs() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.JSON(a.config.Runs.Tail(50))
	}
}
