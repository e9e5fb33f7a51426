package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	dbtx "streambingo/db/tx"
	"streambingo/models"
)

type PostgresFiredEventsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for fired_events table
var firedEventsColumns = []string{
	"id",
	"episode_id",
	"event_id",
	"source",
	"cards_affected",
	"trigger_data",
	"created_at",
}

func NewPostgresFiredEventsRepository(db *sqlx.DB, schema string) *PostgresFiredEventsRepository {
	return &PostgresFiredEventsRepository{db: db, schema: schema}
}

// CreateFiredEvent appends one audit record. The table is append-only; there
// is no update or delete path.
func (r *PostgresFiredEventsRepository) CreateFiredEvent(ctx context.Context, firedEvent *models.FiredEvent) error {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(firedEventsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.fired_events (id, episode_id, event_id, source, cards_affected, trigger_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING %s`, r.schema, columnsStr)

	var returned models.FiredEvent
	err := db.QueryRowxContext(ctx, query,
		firedEvent.ID, firedEvent.EpisodeID, firedEvent.EventID, firedEvent.Source,
		firedEvent.CardsAffected, firedEvent.TriggerData).
		StructScan(&returned)
	if err != nil {
		return fmt.Errorf("failed to create fired event: %w", err)
	}

	*firedEvent = returned
	return nil
}

func (r *PostgresFiredEventsRepository) GetFiredEventsByEpisodeID(
	ctx context.Context,
	episodeID string,
	limit int,
) ([]*models.FiredEvent, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(firedEventsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.fired_events
		WHERE episode_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, columnsStr, r.schema)

	var firedEvents []*models.FiredEvent
	err := db.SelectContext(ctx, &firedEvents, query, episodeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get fired events: %w", err)
	}

	return firedEvents, nil
}
