package episodes

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"streambingo/core"
	"streambingo/db"
	"streambingo/models"
)

type EpisodesService struct {
	episodesRepo *db.PostgresEpisodesRepository
}

func NewEpisodesService(repo *db.PostgresEpisodesRepository) *EpisodesService {
	return &EpisodesService{episodesRepo: repo}
}

func (s *EpisodesService) CreateEpisode(
	ctx context.Context,
	streamerID, title string,
	gridSize int,
) (*models.Episode, error) {
	log.Printf("📋 Starting to create episode for streamer: %s, title: %s", streamerID, title)

	if !core.IsValidULID(streamerID) {
		return nil, fmt.Errorf("streamer_id must be a valid ULID")
	}
	if title == "" {
		return nil, fmt.Errorf("title cannot be empty")
	}
	if gridSize < models.MinGridSize || gridSize > models.MaxGridSize {
		return nil, fmt.Errorf("grid_size must be between %d and %d", models.MinGridSize, models.MaxGridSize)
	}

	chatSecret, err := core.NewSecretKey("chat")
	if err != nil {
		return nil, fmt.Errorf("failed to generate chat secret: %w", err)
	}

	episode := &models.Episode{
		ID:         core.NewID("ep"),
		StreamerID: streamerID,
		Title:      title,
		Status:     models.EpisodeStatusDraft,
		GridSize:   gridSize,
		ChatSecret: chatSecret,
	}

	if err := s.episodesRepo.CreateEpisode(ctx, episode); err != nil {
		return nil, fmt.Errorf("failed to create episode: %w", err)
	}

	log.Printf("📋 Completed successfully - created episode with ID: %s", episode.ID)
	return episode, nil
}

func (s *EpisodesService) GetEpisodeByID(ctx context.Context, id string) (mo.Option[*models.Episode], error) {
	log.Printf("📋 Starting to get episode by ID: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.Episode](), fmt.Errorf("episode ID must be a valid ULID")
	}

	maybeEpisode, err := s.episodesRepo.GetEpisodeByID(ctx, id)
	if err != nil {
		return mo.None[*models.Episode](), fmt.Errorf("failed to get episode: %w", err)
	}

	log.Printf("📋 Completed successfully - episode found: %v", maybeEpisode.IsPresent())
	return maybeEpisode, nil
}

func (s *EpisodesService) GetEpisodesByStreamerID(
	ctx context.Context,
	streamerID string,
) ([]*models.Episode, error) {
	log.Printf("📋 Starting to get episodes for streamer: %s", streamerID)
	if !core.IsValidULID(streamerID) {
		return nil, fmt.Errorf("streamer_id must be a valid ULID")
	}

	episodes, err := s.episodesRepo.GetEpisodesByStreamerID(ctx, streamerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get episodes: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d episodes", len(episodes))
	return episodes, nil
}

func (s *EpisodesService) GetLiveEpisodeByStreamerID(
	ctx context.Context,
	streamerID string,
) (mo.Option[*models.Episode], error) {
	log.Printf("📋 Starting to get live episode for streamer: %s", streamerID)
	if !core.IsValidULID(streamerID) {
		return mo.None[*models.Episode](), fmt.Errorf("streamer_id must be a valid ULID")
	}

	maybeEpisode, err := s.episodesRepo.GetLiveEpisodeByStreamerID(ctx, streamerID)
	if err != nil {
		return mo.None[*models.Episode](), fmt.Errorf("failed to get live episode: %w", err)
	}

	log.Printf("📋 Completed successfully - live episode found: %v", maybeEpisode.IsPresent())
	return maybeEpisode, nil
}

func (s *EpisodesService) UpdateEpisodeStatus(
	ctx context.Context,
	id string,
	status models.EpisodeStatus,
) error {
	log.Printf("📋 Starting to update episode %s status to %s", id, status)
	if !core.IsValidULID(id) {
		return fmt.Errorf("episode ID must be a valid ULID")
	}

	updated, err := s.episodesRepo.UpdateEpisodeStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("failed to update episode status: %w", err)
	}
	if !updated {
		return fmt.Errorf("episode %s: %w", id, core.ErrNotFound)
	}

	log.Printf("📋 Completed successfully - episode %s is now %s", id, status)
	return nil
}
