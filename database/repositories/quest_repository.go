package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/citizenhero/raindrop/database/models"
	"github.com/citizenhero/raindrop/logger"
)

// ErrStorageUnavailable is returned by every operation when the service runs
// without a configured database. Callers are expected to degrade, not fail.
var ErrStorageUnavailable = errors.New("quest storage unavailable")

// DefaultListLimit caps ListBySession when the caller does not say otherwise.
const DefaultListLimit = 20

type QuestRepository interface {
	// Insert persists a new record and fills in ID and CreatedAt.
	Insert(ctx context.Context, record *models.QuestRecord) error
	// ListBySession returns the session's quests, newest first.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.QuestRecord, error)
	// GetByID looks a quest up by primary key alone. Returns (nil, nil)
	// when no such row exists.
	GetByID(ctx context.Context, id int64) (*models.QuestRecord, error)
	// Delete removes the quest only when it belongs to the session and
	// reports whether a row went away.
	Delete(ctx context.Context, sessionID string, id int64) (bool, error)
	// DeleteAll removes every quest owned by the session and returns the
	// number of rows removed.
	DeleteAll(ctx context.Context, sessionID string) (int64, error)
}

type questRepository struct {
	db *bun.DB
}

// NewQuestRepository returns a bun-backed repository, or a disabled one when
// db is nil so that "no storage configured" stays an injected value rather
// than a hidden global.
func NewQuestRepository(db *bun.DB) QuestRepository {
	if db == nil {
		return disabledQuestRepository{}
	}
	return &questRepository{db: db}
}

func (r *questRepository) Insert(ctx context.Context, record *models.QuestRecord) error {
	record.CreatedAt = time.Now().UTC()

	start := time.Now()
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	logger.LogQuery("insert quest", time.Since(start), err)
	return err
}

func (r *questRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.QuestRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var records []*models.QuestRecord
	start := time.Now()
	err := r.db.NewSelect().
		Model(&records).
		Where("session_id = ?", sessionID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	logger.LogQuery("list quests", time.Since(start), err)

	return records, err
}

func (r *questRepository) GetByID(ctx context.Context, id int64) (*models.QuestRecord, error) {
	record := new(models.QuestRecord)
	start := time.Now()
	err := r.db.NewSelect().
		Model(record).
		Where("id = ?", id).
		Scan(ctx)
	logger.LogQuery("get quest", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return record, nil
}

func (r *questRepository) Delete(ctx context.Context, sessionID string, id int64) (bool, error) {
	start := time.Now()
	res, err := r.db.NewDelete().
		Model((*models.QuestRecord)(nil)).
		Where("id = ?", id).
		Where("session_id = ?", sessionID).
		Exec(ctx)
	logger.LogQuery("delete quest", time.Since(start), err)

	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *questRepository) DeleteAll(ctx context.Context, sessionID string) (int64, error) {
	start := time.Now()
	res, err := r.db.NewDelete().
		Model((*models.QuestRecord)(nil)).
		Where("session_id = ?", sessionID).
		Exec(ctx)
	logger.LogQuery("delete all quests", time.Since(start), err)

	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// disabledQuestRepository is the storage-less state of the service.
type disabledQuestRepository struct{}

func (disabledQuestRepository) Insert(context.Context, *models.QuestRecord) error {
	return ErrStorageUnavailable
}

func (disabledQuestRepository) ListBySession(context.Context, string, int) ([]*models.QuestRecord, error) {
	return nil, ErrStorageUnavailable
}

func (disabledQuestRepository) GetByID(context.Context, int64) (*models.QuestRecord, error) {
	return nil, ErrStorageUnavailable
}

func (disabledQuestRepository) Delete(context.Context, string, int64) (bool, error) {
	return false, ErrStorageUnavailable
}

func (disabledQuestRepository) DeleteAll(context.Context, string) (int64, error) {
	return 0, ErrStorageUnavailable
}
