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

type PostgresCardsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for cards table
var cardsColumns = []string{
	"id",
	"episode_id",
	"holder_id",
	"grid",
	"marked_squares",
	"patterns",
	"status",
	"created_at",
	"updated_at",
}

func NewPostgresCardsRepository(db *sqlx.DB, schema string) *PostgresCardsRepository {
	return &PostgresCardsRepository{db: db, schema: schema}
}

func (r *PostgresCardsRepository) CreateCard(ctx context.Context, card *models.Card) error {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(cardsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.cards
			(id, episode_id, holder_id, grid, marked_squares, patterns, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr)

	var returned models.Card
	err := db.QueryRowxContext(ctx, query,
		card.ID, card.EpisodeID, card.HolderID, card.Grid, card.MarkedSquares, card.Patterns, card.Status).
		StructScan(&returned)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	*card = returned
	return nil
}

func (r *PostgresCardsRepository) GetCardByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Card], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(cardsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.cards
		WHERE id = $1`, columnsStr, r.schema)

	var card models.Card
	err := db.GetContext(ctx, &card, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Card](), nil
		}
		return mo.None[*models.Card](), fmt.Errorf("failed to get card: %w", err)
	}

	return mo.Some(&card), nil
}

// GetActiveCardsByEpisodeID returns the mutable cards of an episode. Fruited
// and ended cards are excluded because they are frozen.
func (r *PostgresCardsRepository) GetActiveCardsByEpisodeID(
	ctx context.Context,
	episodeID string,
) ([]*models.Card, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(cardsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.cards
		WHERE episode_id = $1 AND status = 'active'
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var cards []*models.Card
	err := db.SelectContext(ctx, &cards, query, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active cards: %w", err)
	}

	return cards, nil
}

func (r *PostgresCardsRepository) GetCardByEpisodeAndHolder(
	ctx context.Context,
	episodeID, holderID string,
) (mo.Option[*models.Card], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(cardsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.cards
		WHERE episode_id = $1 AND holder_id = $2`, columnsStr, r.schema)

	var card models.Card
	err := db.GetContext(ctx, &card, query, episodeID, holderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Card](), nil
		}
		return mo.None[*models.Card](), fmt.Errorf("failed to get card by holder: %w", err)
	}

	return mo.Some(&card), nil
}

// UpdateCardState persists grid, marked-square count and pattern cache in a
// single per-record update. Only active cards are touched.
func (r *PostgresCardsRepository) UpdateCardState(
	ctx context.Context,
	id string,
	grid models.Grid,
	markedSquares int,
	patterns models.PatternList,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.cards
		SET grid = $2, marked_squares = $3, patterns = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'active'`, r.schema)

	result, err := db.ExecContext(ctx, query, id, grid, markedSquares, patterns)
	if err != nil {
		return false, fmt.Errorf("failed to update card state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresCardsRepository) UpdateCardStatus(
	ctx context.Context,
	id string,
	status models.CardStatus,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.cards
		SET status = $2, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id, status)
	if err != nil {
		return false, fmt.Errorf("failed to update card status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
