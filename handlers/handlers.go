package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/citizenhero/raindrop/config"
	"github.com/citizenhero/raindrop/database"
	"github.com/citizenhero/raindrop/middleware"
	"github.com/citizenhero/raindrop/models"
	"github.com/citizenhero/raindrop/services"
	"github.com/citizenhero/raindrop/utils"
)

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config         *config.Config
	DB             *database.DB // nil when running without persistence
	QuestService   *services.QuestService
	SessionService *services.SessionService
	Version        string
	Commit         string
}

// RegisterRoutes wires every endpoint onto the app.
func RegisterRoutes(app *fiber.App, webApp *WebApp) {
	app.Get("/healthz", HealthCheck(webApp))

	app.Post("/generate-quest", middleware.GenerateRateLimit(), GenerateQuest(webApp))
	app.Post("/clarify-mission", ClarifyMission(webApp))

	app.Get("/quests", ListQuests(webApp))
	app.Get("/quests/:id", QuestDetail(webApp))
	app.Delete("/quests/:id", QuestDelete(webApp))
	app.Delete("/quests", QuestsDeleteAll(webApp))

	app.Use(func(c *fiber.Ctx) error {
		return utils.SendNotFound(c, "The requested endpoint does not exist")
	})
}

// HealthCheck is the liveness probe. It always answers 200; the database
// component entry is informational.
func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := models.NewHealthCheck(webApp.Version, webApp.Commit)

		if webApp.DB == nil {
			health.AddComponent("database", "disabled", "running without persistence")
		} else {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()

			if err := webApp.DB.Ping(ctx); err != nil {
				health.AddComponent("database", "unreachable", err.Error())
			} else {
				health.AddComponent("database", "ok", "")
			}
		}

		return utils.SendJSON(c, fiber.StatusOK, health)
	}
}
