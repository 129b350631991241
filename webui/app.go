package webui

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type App struct {
	config  *Config
	started time.Time
	*fiber.App
}

func NewApp(opts ...Option) *App {
	config := NewConfig(opts...)

	webapp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webapp.Use(cors.New(cors.Config{
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))

	a := &App{
		config:  config,
		started: time.Now(),
		App:     webapp,
	}
	a.registerRoutes(webapp)

	return a
}

func errorJSONMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(struct {
		Error string `json:"error"`
	}{Error: message})
}

func statusJSONMessage(c *fiber.Ctx) error {
	return c.JSON(struct {
		OK bool `json:"ok"`
	}{OK: true})
}
