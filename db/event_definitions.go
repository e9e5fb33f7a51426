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

type PostgresEventDefinitionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for event_definitions table
var eventDefinitionsColumns = []string{
	"id",
	"episode_id",
	"name",
	"icon",
	"trigger_type",
	"webhook_category",
	"fired_count",
	"fired_at",
	"created_at",
	"updated_at",
}

func NewPostgresEventDefinitionsRepository(db *sqlx.DB, schema string) *PostgresEventDefinitionsRepository {
	return &PostgresEventDefinitionsRepository{db: db, schema: schema}
}

func (r *PostgresEventDefinitionsRepository) CreateEventDefinition(
	ctx context.Context,
	event *models.EventDefinition,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(eventDefinitionsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.event_definitions
			(id, episode_id, name, icon, trigger_type, webhook_category, fired_count, fired_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, NULL, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr)

	var returned models.EventDefinition
	err := db.QueryRowxContext(ctx, query,
		event.ID, event.EpisodeID, event.Name, event.Icon, event.TriggerType, event.WebhookCategory).
		StructScan(&returned)
	if err != nil {
		return fmt.Errorf("failed to create event definition: %w", err)
	}

	*event = returned
	return nil
}

func (r *PostgresEventDefinitionsRepository) GetEventDefinitionByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.EventDefinition], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(eventDefinitionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.event_definitions
		WHERE id = $1`, columnsStr, r.schema)

	var event models.EventDefinition
	err := db.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.EventDefinition](), nil
		}
		return mo.None[*models.EventDefinition](), fmt.Errorf("failed to get event definition: %w", err)
	}

	return mo.Some(&event), nil
}

func (r *PostgresEventDefinitionsRepository) GetEventDefinitionsByEpisodeID(
	ctx context.Context,
	episodeID string,
) ([]*models.EventDefinition, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(eventDefinitionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.event_definitions
		WHERE episode_id = $1
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var events []*models.EventDefinition
	err := db.SelectContext(ctx, &events, query, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event definitions: %w", err)
	}

	return events, nil
}

func (r *PostgresEventDefinitionsRepository) GetWebhookEventDefinitions(
	ctx context.Context,
	episodeID, webhookCategory string,
) ([]*models.EventDefinition, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(eventDefinitionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.event_definitions
		WHERE episode_id = $1 AND trigger_type = 'twitch_webhook' AND webhook_category = $2
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var events []*models.EventDefinition
	err := db.SelectContext(ctx, &events, query, episodeID, webhookCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook event definitions: %w", err)
	}

	return events, nil
}

// RecordFiring bumps fired_count and stamps fired_at for one invocation.
// The increment happens in SQL so concurrent firings never lose an update.
func (r *PostgresEventDefinitionsRepository) RecordFiring(
	ctx context.Context,
	id string,
) (mo.Option[*models.EventDefinition], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(eventDefinitionsColumns, ", ")
	query := fmt.Sprintf(`
		UPDATE %s.event_definitions
		SET fired_count = fired_count + 1, fired_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, r.schema, columnsStr)

	var event models.EventDefinition
	err := db.QueryRowxContext(ctx, query, id).StructScan(&event)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.EventDefinition](), nil
		}
		return mo.None[*models.EventDefinition](), fmt.Errorf("failed to record firing: %w", err)
	}

	return mo.Some(&event), nil
}

func (r *PostgresEventDefinitionsRepository) DeleteEventDefinition(
	ctx context.Context,
	id string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		DELETE FROM %s.event_definitions
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete event definition: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
