package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/citizenhero/raindrop/config"
	"github.com/citizenhero/raindrop/database"
	"github.com/citizenhero/raindrop/database/repositories"
	"github.com/citizenhero/raindrop/middleware"
	"github.com/citizenhero/raindrop/models"
	"github.com/citizenhero/raindrop/services"
)

// newTestApp wires a full application against a private in-memory database.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Default()

	db, err := database.New(context.Background(), database.DBConfig{
		Driver: "sqlite",
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.InitSchema(context.Background()))

	return newAppWith(cfg, db)
}

// newStorageLessApp wires an application with no database at all.
func newStorageLessApp(t *testing.T) *fiber.App {
	t.Helper()
	return newAppWith(config.Default(), nil)
}

func newAppWith(cfg *config.Config, db *database.DB) *fiber.App {
	var questRepo repositories.QuestRepository
	if db != nil {
		questRepo = repositories.NewQuestRepository(db.BunDB())
	} else {
		questRepo = repositories.NewQuestRepository(nil)
	}
	repos := models.NewRepositories(questRepo)

	inference := services.NewSmartInferenceClient(cfg.Raindrop)
	generator := services.NewQuestGenerator(inference)

	webApp := &WebApp{
		Config:         cfg,
		DB:             db,
		QuestService:   services.NewQuestService(repos, generator),
		SessionService: services.NewSessionService(cfg),
		Version:        "test",
		Commit:         "abc1234",
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.CustomErrorHandler,
	})
	RegisterRoutes(app, webApp)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	return resp, raw
}

func generateQuest(t *testing.T, app *fiber.App, clientID, missionIdea, helpMode string) *models.Quest {
	t.Helper()

	resp, raw := doJSON(t, app, http.MethodPost, "/generate-quest", models.GenerateQuestRequest{
		MissionIdea: missionIdea,
		HelpMode:    helpMode,
		ClientID:    clientID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var quest models.Quest
	require.NoError(t, json.Unmarshal(raw, &quest))
	return &quest
}

func TestGenerateQuestEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/generate-quest", models.GenerateQuestRequest{
		MissionIdea: "help the dogs at the shelter",
		HelpMode:    "supplies",
		ClientID:    "session-a",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var quest models.Quest
	require.NoError(t, json.Unmarshal(raw, &quest))
	require.Equal(t, "OPERATION BRAVE PAWS", quest.QuestName)
	require.Equal(t, models.HelpModeSupplies, quest.HelpMode)
	require.Len(t, quest.Steps, 5)
	require.NotZero(t, quest.ID, "persisted quest should carry its row id")
	require.Equal(t, "session-a", quest.SessionID)
	require.False(t, quest.CreatedAt.IsZero())

	// The resolved session is echoed back as a cookie.
	cookies := resp.Header.Values("Set-Cookie")
	require.NotEmpty(t, cookies)
	require.Contains(t, cookies[0], "ch_session=session-a")
}

func TestGenerateQuestInvalidBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/generate-quest", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope models.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	require.Equal(t, "BAD_REQUEST", envelope.Error.Code)
}

func TestGenerateQuestWithoutStorage(t *testing.T) {
	app := newStorageLessApp(t)

	quest := generateQuest(t, app, "session-a", "help the cats", "supplies")
	require.Equal(t, "OPERATION COMFY PAWS", quest.QuestName)
	require.Zero(t, quest.ID, "storage-less quests carry the placeholder id")
	require.Len(t, quest.Steps, 5)

	// Reads degrade to empty rather than failing.
	resp, raw := doJSON(t, app, http.MethodGet, "/quests?client_id=session-a", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var quests []*models.Quest
	require.NoError(t, json.Unmarshal(raw, &quests))
	require.Empty(t, quests)
}

func TestListQuestsNewestFirst(t *testing.T) {
	app := newTestApp(t)

	first := generateQuest(t, app, "session-a", "help the dogs", "supplies")
	second := generateQuest(t, app, "session-a", "clean up litter in the park", "helpers")
	generateQuest(t, app, "session-b", "help the cats", "supplies")

	resp, raw := doJSON(t, app, http.MethodGet, "/quests?client_id=session-a", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var quests []*models.Quest
	require.NoError(t, json.Unmarshal(raw, &quests))
	require.Len(t, quests, 2, "other sessions' quests must not leak")
	require.Equal(t, second.ID, quests[0].ID)
	require.Equal(t, first.ID, quests[1].ID)
	require.Equal(t, "OPERATION CLEAN SWEEP", quests[0].QuestName)
}

func TestListQuestsLimit(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 3; i++ {
		generateQuest(t, app, "session-a", "help the dogs", "supplies")
	}

	_, raw := doJSON(t, app, http.MethodGet, "/quests?client_id=session-a&limit=2", nil)
	var quests []*models.Quest
	require.NoError(t, json.Unmarshal(raw, &quests))
	require.Len(t, quests, 2)

	// Out-of-range limits fall back to the default.
	_, raw = doJSON(t, app, http.MethodGet, "/quests?client_id=session-a&limit=0", nil)
	require.NoError(t, json.Unmarshal(raw, &quests))
	require.Len(t, quests, 3)
}

func TestQuestDetail(t *testing.T) {
	app := newTestApp(t)

	created := generateQuest(t, app, "session-a", "help the dogs at the shelter", "supplies")

	resp, raw := doJSON(t, app, http.MethodGet, fmt.Sprintf("/quests/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var quest models.Quest
	require.NoError(t, json.Unmarshal(raw, &quest))
	require.Equal(t, created.ID, quest.ID)
	require.Equal(t, created.QuestName, quest.QuestName)
	require.Len(t, quest.Steps, 5)
}

func TestQuestDetailNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/quests/424242", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope models.APIResponse
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestQuestDetailInvalidID(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/quests/not-a-number", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope models.APIResponse
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Equal(t, "INVALID_QUEST_ID", envelope.Error.Code)
}

func TestQuestDeleteScopedToSession(t *testing.T) {
	app := newTestApp(t)

	created := generateQuest(t, app, "session-a", "help the dogs", "supplies")

	// Another session cannot delete it.
	resp, _ := doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/quests/%d?client_id=session-b", created.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The owner can.
	resp, _ = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/quests/%d?client_id=session-a", created.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// And the row is gone.
	resp, _ = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/quests/%d?client_id=session-a", created.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQuestsDeleteAll(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 3; i++ {
		generateQuest(t, app, "session-a", "help the dogs", "supplies")
	}
	generateQuest(t, app, "session-b", "help the cats", "supplies")

	resp, raw := doJSON(t, app, http.MethodDelete, "/quests?client_id=session-a", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.DeleteAllResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.EqualValues(t, 3, result.Deleted)

	_, raw = doJSON(t, app, http.MethodGet, "/quests?client_id=session-a", nil)
	var quests []*models.Quest
	require.NoError(t, json.Unmarshal(raw, &quests))
	require.Empty(t, quests)

	_, raw = doJSON(t, app, http.MethodGet, "/quests?client_id=session-b", nil)
	require.NoError(t, json.Unmarshal(raw, &quests))
	require.Len(t, quests, 1)
}

func TestClarifyMissionEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/clarify-mission", models.ClarifyMissionRequest{
		MissionIdea: "help the dogs",
		HelpMode:    "supplies",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.ClarifyMissionResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Len(t, result.Questions, 4)
	require.Equal(t, "Who is the specific beneficiary of this mission?", result.Questions[0])
}

func TestHealthCheckWithDatabase(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health models.HealthCheck
	require.NoError(t, json.Unmarshal(raw, &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
	require.Equal(t, "abc1234", health.Commit)
	require.Equal(t, "ok", health.Components["database"].Status)
}

func TestHealthCheckWithoutDatabase(t *testing.T) {
	app := newStorageLessApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "liveness stays green without persistence")

	var health models.HealthCheck
	require.NoError(t, json.Unmarshal(raw, &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "disabled", health.Components["database"].Status)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope models.APIResponse
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.False(t, envelope.Success)
	require.Equal(t, "NOT_FOUND", envelope.Error.Code)
}
