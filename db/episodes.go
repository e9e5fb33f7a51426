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

type PostgresEpisodesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for episodes table
var episodesColumns = []string{
	"id",
	"streamer_id",
	"title",
	"status",
	"grid_size",
	"chat_secret",
	"created_at",
	"updated_at",
}

func NewPostgresEpisodesRepository(db *sqlx.DB, schema string) *PostgresEpisodesRepository {
	return &PostgresEpisodesRepository{db: db, schema: schema}
}

func (r *PostgresEpisodesRepository) CreateEpisode(ctx context.Context, episode *models.Episode) error {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(episodesColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.episodes (id, streamer_id, title, status, grid_size, chat_secret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr)

	var returned models.Episode
	err := db.QueryRowxContext(ctx, query,
		episode.ID, episode.StreamerID, episode.Title, episode.Status, episode.GridSize, episode.ChatSecret).
		StructScan(&returned)
	if err != nil {
		return fmt.Errorf("failed to create episode: %w", err)
	}

	*episode = returned
	return nil
}

func (r *PostgresEpisodesRepository) GetEpisodeByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Episode], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(episodesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.episodes
		WHERE id = $1`, columnsStr, r.schema)

	var episode models.Episode
	err := db.GetContext(ctx, &episode, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Episode](), nil
		}
		return mo.None[*models.Episode](), fmt.Errorf("failed to get episode: %w", err)
	}

	return mo.Some(&episode), nil
}

func (r *PostgresEpisodesRepository) GetEpisodesByStreamerID(
	ctx context.Context,
	streamerID string,
) ([]*models.Episode, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(episodesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.episodes
		WHERE streamer_id = $1
		ORDER BY created_at DESC`, columnsStr, r.schema)

	var episodes []*models.Episode
	err := db.SelectContext(ctx, &episodes, query, streamerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get episodes by streamer: %w", err)
	}

	return episodes, nil
}

func (r *PostgresEpisodesRepository) GetLiveEpisodeByStreamerID(
	ctx context.Context,
	streamerID string,
) (mo.Option[*models.Episode], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(episodesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.episodes
		WHERE streamer_id = $1 AND status = 'live'
		ORDER BY created_at DESC
		LIMIT 1`, columnsStr, r.schema)

	var episode models.Episode
	err := db.GetContext(ctx, &episode, query, streamerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Episode](), nil
		}
		return mo.None[*models.Episode](), fmt.Errorf("failed to get live episode: %w", err)
	}

	return mo.Some(&episode), nil
}

func (r *PostgresEpisodesRepository) UpdateEpisodeStatus(
	ctx context.Context,
	id string,
	status models.EpisodeStatus,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.episodes
		SET status = $2, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id, status)
	if err != nil {
		return false, fmt.Errorf("failed to update episode status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
