package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	dbtx "streambingo/db/tx"
	"streambingo/models"
)

type PostgresChatTriggersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for chat_keyword_triggers table
var chatTriggersColumns = []string{
	"id",
	"episode_id",
	"event_id",
	"keyword",
	"match_type",
	"case_sensitive",
	"cooldown_seconds",
	"last_triggered_at",
	"is_active",
	"created_at",
	"updated_at",
}

func NewPostgresChatTriggersRepository(db *sqlx.DB, schema string) *PostgresChatTriggersRepository {
	return &PostgresChatTriggersRepository{db: db, schema: schema}
}

func (r *PostgresChatTriggersRepository) CreateChatTrigger(
	ctx context.Context,
	trigger *models.ChatKeywordTrigger,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(chatTriggersColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.chat_keyword_triggers
			(id, episode_id, event_id, keyword, match_type, case_sensitive, cooldown_seconds, last_triggered_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, $8, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr)

	var returned models.ChatKeywordTrigger
	err := db.QueryRowxContext(ctx, query,
		trigger.ID, trigger.EpisodeID, trigger.EventID, trigger.Keyword, trigger.MatchType,
		trigger.CaseSensitive, trigger.CooldownSeconds, trigger.IsActive).
		StructScan(&returned)
	if err != nil {
		return fmt.Errorf("failed to create chat trigger: %w", err)
	}

	*trigger = returned
	return nil
}

func (r *PostgresChatTriggersRepository) GetChatTriggerByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.ChatKeywordTrigger], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(chatTriggersColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.chat_keyword_triggers
		WHERE id = $1`, columnsStr, r.schema)

	var trigger models.ChatKeywordTrigger
	err := db.GetContext(ctx, &trigger, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.ChatKeywordTrigger](), nil
		}
		return mo.None[*models.ChatKeywordTrigger](), fmt.Errorf("failed to get chat trigger: %w", err)
	}

	return mo.Some(&trigger), nil
}

func (r *PostgresChatTriggersRepository) GetActiveChatTriggersByEpisodeID(
	ctx context.Context,
	episodeID string,
) ([]*models.ChatKeywordTrigger, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(chatTriggersColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.chat_keyword_triggers
		WHERE episode_id = $1 AND is_active = true
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var triggers []*models.ChatKeywordTrigger
	err := db.SelectContext(ctx, &triggers, query, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active chat triggers: %w", err)
	}

	return triggers, nil
}

// StampLastTriggered records when a trigger last fired so the cooldown gate
// can be evaluated on the next message.
func (r *PostgresChatTriggersRepository) StampLastTriggered(
	ctx context.Context,
	id string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.chat_keyword_triggers
		SET last_triggered_at = NOW(), updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to stamp last triggered: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresChatTriggersRepository) SetChatTriggerActive(
	ctx context.Context,
	id string,
	isActive bool,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.chat_keyword_triggers
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id, isActive)
	if err != nil {
		return false, fmt.Errorf("failed to set chat trigger active: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresChatTriggersRepository) DeleteChatTrigger(
	ctx context.Context,
	id string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		DELETE FROM %s.chat_keyword_triggers
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete chat trigger: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
