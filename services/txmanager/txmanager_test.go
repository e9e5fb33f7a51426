package txmanager

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streambingo/core"
	"streambingo/db"
	dbtx "streambingo/db/tx"
	"streambingo/models"
	"streambingo/services"
	"streambingo/testutils"
)

func setupTransactionTest(
	t *testing.T,
) (services.TransactionManager, *db.PostgresEpisodesRepository, *models.User, func()) {
	cfg, err := testutils.LoadTestConfig()
	require.NoError(t, err)

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err, "Failed to create database connection")

	txManager := NewTransactionManager(dbConn)

	episodesRepo := db.NewPostgresEpisodesRepository(dbConn, cfg.DatabaseSchema)
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)

	testUser := testutils.CreateTestUser(t, usersRepo)

	cleanup := func() {
		dbConn.Close()
	}

	return txManager, episodesRepo, testUser, cleanup
}

func testEpisode(streamerID string) *models.Episode {
	return &models.Episode{
		ID:         core.NewID("ep"),
		StreamerID: streamerID,
		Title:      "tx test episode",
		Status:     models.EpisodeStatusDraft,
		GridSize:   5,
		ChatSecret: "chat_sk_txtest",
	}
}

func TestTransactionManager_WithTransaction_Success(t *testing.T) {
	txManager, episodesRepo, testUser, cleanup := setupTransactionTest(t)
	defer cleanup()

	ctx := context.Background()

	var createdEpisode *models.Episode

	err := txManager.WithTransaction(ctx, func(ctx context.Context) error {
		episode := testEpisode(testUser.ID)
		if err := episodesRepo.CreateEpisode(ctx, episode); err != nil {
			return err
		}
		createdEpisode = episode
		return nil
	})

	require.NoError(t, err)
	require.NotNil(t, createdEpisode)

	// Episode should exist in database after transaction commit
	maybeEpisode, err := episodesRepo.GetEpisodeByID(ctx, createdEpisode.ID)
	require.NoError(t, err)
	assert.Equal(t, createdEpisode.ID, maybeEpisode.OrEmpty().ID)
	assert.Equal(t, createdEpisode.Title, maybeEpisode.OrEmpty().Title)
}

func TestTransactionManager_WithTransaction_Rollback_OnError(t *testing.T) {
	txManager, episodesRepo, testUser, cleanup := setupTransactionTest(t)
	defer cleanup()

	ctx := context.Background()

	var episodeID string

	err := txManager.WithTransaction(ctx, func(ctx context.Context) error {
		episode := testEpisode(testUser.ID)
		if err := episodesRepo.CreateEpisode(ctx, episode); err != nil {
			return err
		}
		episodeID = episode.ID

		// Return an error to trigger rollback
		return errors.New("intentional error to trigger rollback")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "intentional error to trigger rollback")

	// Episode should NOT exist in database after rollback
	maybeEpisode, err := episodesRepo.GetEpisodeByID(ctx, episodeID)
	require.NoError(t, err)
	require.True(t, maybeEpisode.IsAbsent(), "Episode should not exist after rollback")
}

func TestTransactionManager_WithTransaction_Rollback_OnPanic(t *testing.T) {
	txManager, episodesRepo, testUser, cleanup := setupTransactionTest(t)
	defer cleanup()

	ctx := context.Background()

	var episodeID string

	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "Expected panic")
			assert.Equal(t, "intentional panic to test rollback", r)
		}()

		txManager.WithTransaction(ctx, func(ctx context.Context) error {
			episode := testEpisode(testUser.ID)
			if err := episodesRepo.CreateEpisode(ctx, episode); err != nil {
				return err
			}
			episodeID = episode.ID

			panic("intentional panic to test rollback")
		})
	}()

	// Episode should NOT exist in database after panic rollback
	maybeEpisode, err := episodesRepo.GetEpisodeByID(ctx, episodeID)
	require.NoError(t, err)
	require.True(t, maybeEpisode.IsAbsent(), "Episode should not exist after rollback")
}

func TestTransactionManager_WithTransaction_MultipleOperations_Rollback(t *testing.T) {
	txManager, episodesRepo, testUser, cleanup := setupTransactionTest(t)
	defer cleanup()

	ctx := context.Background()

	var episode1ID, episode2ID string

	err := txManager.WithTransaction(ctx, func(ctx context.Context) error {
		episode1 := testEpisode(testUser.ID)
		if err := episodesRepo.CreateEpisode(ctx, episode1); err != nil {
			return err
		}
		episode1ID = episode1.ID

		episode2 := testEpisode(testUser.ID)
		if err := episodesRepo.CreateEpisode(ctx, episode2); err != nil {
			return err
		}
		episode2ID = episode2.ID

		// Fail after both operations
		return errors.New("rollback both operations")
	})

	require.Error(t, err)

	// Neither episode should exist after rollback
	maybeEpisode1, err := episodesRepo.GetEpisodeByID(ctx, episode1ID)
	require.NoError(t, err)
	require.True(t, maybeEpisode1.IsAbsent(), "Episode1 should not exist after rollback")

	maybeEpisode2, err := episodesRepo.GetEpisodeByID(ctx, episode2ID)
	require.NoError(t, err)
	require.True(t, maybeEpisode2.IsAbsent(), "Episode2 should not exist after rollback")
}

func TestTransactionManager_NestedTransactions(t *testing.T) {
	txManager, episodesRepo, testUser, cleanup := setupTransactionTest(t)
	defer cleanup()

	ctx := context.Background()

	var episodeID string

	err := txManager.WithTransaction(ctx, func(ctx context.Context) error {
		episode := testEpisode(testUser.ID)
		if err := episodesRepo.CreateEpisode(ctx, episode); err != nil {
			return err
		}
		episodeID = episode.ID

		// Nested transaction (should reuse existing transaction)
		return txManager.WithTransaction(ctx, func(nestedCtx context.Context) error {
			maybeEpisode, err := episodesRepo.GetEpisodeByID(nestedCtx, episodeID)
			if err != nil {
				return fmt.Errorf("episode should exist in nested transaction: %w", err)
			}
			if maybeEpisode.IsAbsent() {
				return errors.New("episode not visible in nested transaction")
			}

			updated, err := episodesRepo.UpdateEpisodeStatus(nestedCtx, episodeID, models.EpisodeStatusLive)
			if err != nil {
				return err
			}
			if !updated {
				return errors.New("episode status update affected no rows")
			}
			return nil
		})
	})

	require.NoError(t, err)

	// Episode should exist with the nested update applied after commit
	maybeEpisode, err := episodesRepo.GetEpisodeByID(ctx, episodeID)
	require.NoError(t, err)
	assert.Equal(t, models.EpisodeStatusLive, maybeEpisode.OrEmpty().Status)
}

func TestTransactionManager_ManualTransaction_Success(t *testing.T) {
	txManager, episodesRepo, testUser, cleanup := setupTransactionTest(t)
	defer cleanup()

	ctx := context.Background()

	txCtx, err := txManager.BeginTransaction(ctx)
	require.NoError(t, err)

	episode := testEpisode(testUser.ID)
	err = episodesRepo.CreateEpisode(txCtx, episode)
	require.NoError(t, err)

	err = txManager.CommitTransaction(txCtx)
	require.NoError(t, err)

	// Episode should exist after commit
	maybeEpisode, err := episodesRepo.GetEpisodeByID(ctx, episode.ID)
	require.NoError(t, err)
	assert.Equal(t, episode.Title, maybeEpisode.OrEmpty().Title)
}

func TestTransactionManager_ManualTransaction_Rollback(t *testing.T) {
	txManager, episodesRepo, testUser, cleanup := setupTransactionTest(t)
	defer cleanup()

	ctx := context.Background()

	txCtx, err := txManager.BeginTransaction(ctx)
	require.NoError(t, err)

	episode := testEpisode(testUser.ID)
	err = episodesRepo.CreateEpisode(txCtx, episode)
	require.NoError(t, err)

	err = txManager.RollbackTransaction(txCtx)
	require.NoError(t, err)

	// Episode should NOT exist after rollback
	maybeEpisode, err := episodesRepo.GetEpisodeByID(ctx, episode.ID)
	require.NoError(t, err)
	require.True(t, maybeEpisode.IsAbsent(), "Episode should not exist after rollback")
}

func TestTransactionFromContext(t *testing.T) {
	ctx := context.Background()

	tx, ok := dbtx.TransactionFromContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, tx)
}

func TestGetTransactional_ReturnsTransaction_WhenInTransactionContext(t *testing.T) {
	cfg, err := testutils.LoadTestConfig()
	require.NoError(t, err)

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err)
	defer dbConn.Close()

	ctx := context.Background()

	// Without a transaction in context the plain connection comes back
	transactional := dbtx.GetTransactional(ctx, dbConn)
	assert.Equal(t, dbConn, transactional)

	tx, err := dbConn.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	txCtx := dbtx.WithTransaction(ctx, tx)
	transactional = dbtx.GetTransactional(txCtx, dbConn)
	assert.Equal(t, tx, transactional)
}
