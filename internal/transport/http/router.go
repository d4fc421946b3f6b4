package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/tasktrail/backend/internal/config"
	"github.com/tasktrail/backend/internal/core/services"
	"github.com/tasktrail/backend/internal/infrastructure/db"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"github.com/tasktrail/backend/internal/transport/http/handlers"
	httpmw "github.com/tasktrail/backend/internal/transport/http/middleware"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Config *config.Config
}

func SetupRoutes(app *fiber.App, cfg RouterConfig) {
	// Initialize repositories
	userRepo := db.NewUserRepository(cfg.DB, cfg.Logger)
	taskRepo := db.NewTaskRepository(cfg.DB, cfg.Logger)
	historyRepo := db.NewHistoryRepository(cfg.DB, cfg.Logger)

	// Initialize services
	authService := services.NewAuthService(services.AuthServiceConfig{
		Users:         userRepo,
		Logger:        cfg.Logger,
		JWTSecret:     cfg.Config.Auth.JWTSecret,
		JWTIssuer:     cfg.Config.Auth.JWTIssuer,
		TokenLifetime: cfg.Config.Auth.AccessTokenLifetime,
	})

	streamService := services.NewStreamService(services.StreamServiceConfig{
		Tasks:   taskRepo,
		History: historyRepo,
		Logger:  cfg.Logger,
	})

	taskService := services.NewTaskService(services.TaskServiceConfig{
		Tasks:   taskRepo,
		History: historyRepo,
		Streams: streamService,
		Logger:  cfg.Logger,
	})

	// The handler parses the date query in the same zone the service
	// groups by.
	loc := time.Local
	if tz := cfg.Config.Features.HistoryTimezone; tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		} else {
			cfg.Logger.Warnf("invalid history_timezone %q, falling back to local: %v", tz, err)
		}
	}

	historyService := services.NewHistoryService(services.HistoryServiceConfig{
		History:  historyRepo,
		Streams:  streamService,
		Logger:   cfg.Logger,
		Location: loc,
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.Logger)
	taskHandler := handlers.NewTaskHandler(taskService, cfg.Logger)
	historyHandler := handlers.NewHistoryHandler(historyService, loc, cfg.Logger)
	streamHandler := handlers.NewStreamHandler(authService, streamService, cfg.Logger)

	// Live snapshot streams
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws/stream/:kind", websocket.New(streamHandler.Handle))

	// API v1 routes
	api := app.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	requireSession := httpmw.RequireSession(authService)

	api.Get("/me", requireSession, authHandler.Me)

	// Task routes
	tasks := api.Group("/tasks", requireSession)
	tasks.Post("/", taskHandler.CreateTask)
	tasks.Get("/", taskHandler.GetTasks)
	tasks.Post("/reset", taskHandler.ResetAll)
	tasks.Post("/clear", taskHandler.ClearAll)
	tasks.Patch("/:id/toggle", taskHandler.ToggleComplete)
	tasks.Patch("/:id/progress", taskHandler.UpdateProgress)
	tasks.Patch("/:id/text", taskHandler.EditText)
	tasks.Delete("/:id", taskHandler.DeleteTask)

	// History routes
	history := api.Group("/history", requireSession)
	history.Get("/", historyHandler.GetEvents)
	history.Delete("/:id", historyHandler.DeleteEvent)
	history.Delete("/", historyHandler.ClearAll)
}
