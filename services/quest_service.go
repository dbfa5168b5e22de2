package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	dbmodels "github.com/citizenhero/raindrop/database/models"
	"github.com/citizenhero/raindrop/logger"
	"github.com/citizenhero/raindrop/models"
)

// QuestService generates quests and keeps them in the session's store. All
// storage failures on the generation and read paths degrade instead of
// failing the request: a quest is always returned, lists simply come back
// empty.
type QuestService struct {
	repos     *models.Repositories
	generator *QuestGenerator
}

func NewQuestService(repos *models.Repositories, generator *QuestGenerator) *QuestService {
	return &QuestService{
		repos:     repos,
		generator: generator,
	}
}

// CreateQuest generates a quest for the request and persists it under the
// session. When the store is unavailable the quest is still returned,
// stamped with the placeholder id 0.
func (s *QuestService) CreateQuest(ctx context.Context, sessionID string, req *models.GenerateQuestRequest) *models.Quest {
	quest := s.generator.Generate(ctx, req)
	quest.SessionID = sessionID

	body, err := json.Marshal(quest)
	if err != nil {
		// A generated quest always marshals; treat anything else like
		// a storage failure.
		logger.LogError("Failed to serialize quest", err)
		quest.ID = 0
		quest.CreatedAt = time.Now().UTC()
		return quest
	}

	record := &dbmodels.QuestRecord{
		SessionID: sessionID,
		QuestJSON: string(body),
	}
	if err := s.repos.Quest.Insert(ctx, record); err != nil {
		logger.LogError("Failed to persist quest, returning placeholder", err,
			slog.String("session_id", sessionID))
		quest.ID = 0
		quest.CreatedAt = time.Now().UTC()
		return quest
	}

	quest.ID = record.ID
	quest.CreatedAt = record.CreatedAt
	return quest
}

// ListQuests returns the session's quests, newest first. Storage trouble
// degrades to an empty list.
func (s *QuestService) ListQuests(ctx context.Context, sessionID string, limit int) []*models.Quest {
	records, err := s.repos.Quest.ListBySession(ctx, sessionID, limit)
	if err != nil {
		logger.LogError("Failed to list quests, returning empty", err,
			slog.String("session_id", sessionID))
		return []*models.Quest{}
	}

	quests := make([]*models.Quest, 0, len(records))
	for _, record := range records {
		quest, err := decodeRecord(record)
		if err != nil {
			logger.LogError("Skipping undecodable quest record", err,
				slog.Int64("quest_id", record.ID))
			continue
		}
		quests = append(quests, quest)
	}
	return quests
}

// GetQuest looks a quest up by id alone. The lookup is deliberately not
// session-scoped: any client holding a quest id may fetch it, matching how
// delete and list are the only session-scoped operations. Returns nil when
// the quest does not exist or storage is unavailable.
func (s *QuestService) GetQuest(ctx context.Context, id int64) *models.Quest {
	record, err := s.repos.Quest.GetByID(ctx, id)
	if err != nil {
		logger.LogError("Failed to get quest, treating as absent", err,
			slog.Int64("quest_id", id))
		return nil
	}
	if record == nil {
		return nil
	}

	quest, err := decodeRecord(record)
	if err != nil {
		logger.LogError("Failed to decode quest record", err,
			slog.Int64("quest_id", id))
		return nil
	}
	return quest
}

// DeleteQuest removes the quest only when it belongs to the session.
// Storage errors are surfaced: a failed delete must not be reported as a
// successful one.
func (s *QuestService) DeleteQuest(ctx context.Context, sessionID string, id int64) (bool, error) {
	return s.repos.Quest.Delete(ctx, sessionID, id)
}

// DeleteAllQuests removes every quest owned by the session and returns how
// many went away.
func (s *QuestService) DeleteAllQuests(ctx context.Context, sessionID string) (int64, error) {
	return s.repos.Quest.DeleteAll(ctx, sessionID)
}

// ClarifyMission returns clarifying questions for a mission idea.
func (s *QuestService) ClarifyMission(req *models.ClarifyMissionRequest) []string {
	return s.generator.ClarifyingQuestions(req)
}

// decodeRecord rebuilds a Quest from a stored row: the serialized body plus
// the ownership columns, which always win over whatever the body carries.
func decodeRecord(record *dbmodels.QuestRecord) (*models.Quest, error) {
	var quest models.Quest
	if err := json.Unmarshal([]byte(record.QuestJSON), &quest); err != nil {
		return nil, err
	}

	quest.ID = record.ID
	quest.SessionID = record.SessionID
	quest.CreatedAt = record.CreatedAt
	return &quest, nil
}
