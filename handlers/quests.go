package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/citizenhero/raindrop/models"
	"github.com/citizenhero/raindrop/utils"
)

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// GenerateQuest turns a mission idea into a structured quest and persists it
// under the caller's session. The response is the quest record itself,
// augmented with id and created_at.
func GenerateQuest(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		var req models.GenerateQuestRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", map[string]string{
				"error": err.Error(),
			})
		}

		sessionID := webApp.SessionService.Resolve(c, req.ClientID)
		quest := webApp.QuestService.CreateQuest(ctx, sessionID, &req)

		slog.Info("Quest generated",
			slog.Int64("quest_id", quest.ID),
			slog.String("quest_name", quest.QuestName),
			slog.String("help_mode", string(quest.HelpMode)))

		return c.JSON(quest)
	}
}

// ClarifyMission returns clarifying questions for a mission idea without
// persisting anything.
func ClarifyMission(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ClarifyMissionRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", map[string]string{
				"error": err.Error(),
			})
		}

		questions := webApp.QuestService.ClarifyMission(&req)
		return c.JSON(models.ClarifyMissionResult{Questions: questions})
	}
}

// ListQuests returns the session's quests, newest first.
func ListQuests(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		sessionID := webApp.SessionService.Resolve(c, "")
		limit := c.QueryInt("limit", 20)
		if limit < 1 || limit > 100 {
			limit = 20
		}

		quests := webApp.QuestService.ListQuests(ctx, sessionID, limit)
		return c.JSON(quests)
	}
}

// QuestDetail returns one quest by id.
func QuestDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		questID, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendError(c, 400, "INVALID_QUEST_ID", "Invalid quest ID", map[string]string{
				"quest_id": c.Params("id"),
			})
		}

		quest := webApp.QuestService.GetQuest(ctx, questID)
		if quest == nil {
			return utils.SendNotFound(c, "Quest not found")
		}

		return c.JSON(quest)
	}
}

// QuestDelete removes one quest when it belongs to the caller's session.
func QuestDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		questID, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendError(c, 400, "INVALID_QUEST_ID", "Invalid quest ID", map[string]string{
				"quest_id": c.Params("id"),
			})
		}

		sessionID := webApp.SessionService.Resolve(c, "")

		deleted, err := webApp.QuestService.DeleteQuest(ctx, sessionID, questID)
		if err != nil {
			slog.Error("Failed to delete quest",
				slog.Int64("quest_id", questID),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to delete quest")
		}
		if !deleted {
			return utils.SendNotFound(c, "Quest not found")
		}

		slog.Info("Quest deleted", slog.Int64("quest_id", questID))
		return utils.SendNoContent(c)
	}
}

// QuestsDeleteAll removes every quest owned by the caller's session and
// reports how many went away.
func QuestsDeleteAll(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		sessionID := webApp.SessionService.Resolve(c, "")

		count, err := webApp.QuestService.DeleteAllQuests(ctx, sessionID)
		if err != nil {
			slog.Error("Failed to delete quests",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to delete quests")
		}

		slog.Info("Session quests deleted",
			slog.String("session_id", sessionID),
			slog.Int64("count", count))

		return c.JSON(models.DeleteAllResult{Deleted: count})
	}
}
