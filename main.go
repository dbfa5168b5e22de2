package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/citizenhero/raindrop/config"
	"github.com/citizenhero/raindrop/database"
	"github.com/citizenhero/raindrop/database/repositories"
	"github.com/citizenhero/raindrop/handlers"
	"github.com/citizenhero/raindrop/logger"
	"github.com/citizenhero/raindrop/middleware"
	"github.com/citizenhero/raindrop/models"
	"github.com/citizenhero/raindrop/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Initialize logger first
	customHandler := logger.NewHandler("Raindrop")
	slog.SetDefault(slog.New(customHandler))

	logger.LogSystem("Starting Citizen Hero quest backend",
		slog.String("version", version),
		slog.String("commit", commit))

	// Secrets may live in a .env file during development
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment from .env")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect storage. The service stays up without it: reads degrade to
	// empty results and generated quests are returned unpersisted.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbConfig := database.DBConfig{
		Driver:       cfg.DB.Driver,
		URL:          cfg.DB.URL,
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Database:     cfg.DB.Database,
		PoolSize:     cfg.DB.PoolSize,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxLifetime:  cfg.DB.MaxLifetime,
		Path:         cfg.DB.Path,
	}
	db, err := database.New(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database, continuing without persistence",
			slog.String("error", err.Error()))
		db = nil
	} else if err := db.InitSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema, continuing without persistence",
			slog.String("error", err.Error()))
		db.Close()
		db = nil
	}

	var questRepo repositories.QuestRepository
	if db != nil {
		questRepo = repositories.NewQuestRepository(db.BunDB())
	} else {
		questRepo = repositories.NewQuestRepository(nil)
	}
	repos := models.NewRepositories(questRepo)

	// Services
	inference := services.NewSmartInferenceClient(cfg.Raindrop)
	if inference.Configured() {
		logger.LogSystem("SmartInference delegation enabled")
	} else {
		logger.LogSystem("SmartInference not configured, quests are generated locally")
	}

	generator := services.NewQuestGenerator(inference)
	questService := services.NewQuestService(repos, generator)
	sessionService := services.NewSessionService(cfg)

	app := fiber.New(fiber.Config{
		AppName:      "Citizen Hero Quest API",
		ServerHeader: "Raindrop",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:8080",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Cookie",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp := &handlers.WebApp{
		Config:         cfg,
		DB:             db,
		QuestService:   questService,
		SessionService: sessionService,
		Version:        version,
		Commit:         commit,
	}

	handlers.RegisterRoutes(app, webApp)

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	logger.LogSystem("Starting server", slog.String("address", address))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-c
	logger.LogSystem("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	if db != nil {
		db.Close()
	}

	logger.LogSystem("Server shutdown complete")
}
