package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"streambingo/config"
	"streambingo/db"
	"streambingo/models"
	"streambingo/services/episodes"
	"streambingo/services/events"
	"streambingo/services/users"
)

// LoadTestConfig loads configuration for tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test") // From services/ directory
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// CreateTestUser creates a test user with a unique provider ID to avoid
// constraint violations between runs
func CreateTestUser(t *testing.T, usersRepo *db.PostgresUsersRepository) *models.User {
	usersService := users.NewUsersService(usersRepo)
	testUser, err := usersService.GetOrCreateUser(context.Background(), "test", uuid.New().String())
	require.NoError(t, err, "Failed to create test user")
	return testUser
}

// CreateTestEpisode creates a draft episode owned by the given streamer
func CreateTestEpisode(t *testing.T, episodesRepo *db.PostgresEpisodesRepository, streamerID string) *models.Episode {
	episodesService := episodes.NewEpisodesService(episodesRepo)
	episode, err := episodesService.CreateEpisode(context.Background(), streamerID, "test episode", 5)
	require.NoError(t, err, "Failed to create test episode")
	return episode
}

// CreateTestEventDefinition creates a manual-trigger event definition in the
// given episode
func CreateTestEventDefinition(
	t *testing.T,
	eventsRepo *db.PostgresEventDefinitionsRepository,
	episodeID string,
) *models.EventDefinition {
	eventsService := events.NewEventsService(eventsRepo)
	event, err := eventsService.CreateEventDefinition(
		context.Background(),
		episodeID,
		"test event",
		"🎯",
		models.TriggerTypeManual,
		nil,
	)
	require.NoError(t, err, "Failed to create test event definition")
	return event
}
