package models

import (
	"time"

	"github.com/uptrace/bun"
)

// QuestRecord is one persisted quest: ownership columns plus the generated
// body serialized as a JSON document, mirroring the quests table layout
// (serial id, session partition key, creation timestamp, jsonb body).
type QuestRecord struct {
	bun.BaseModel `bun:"table:quests,alias:q"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SessionID string    `bun:"session_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	QuestJSON string    `bun:"quest_json,type:jsonb"`
}
