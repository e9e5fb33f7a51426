package firedevents

import (
	"context"
	"fmt"
	"log"

	"streambingo/core"
	"streambingo/db"
	"streambingo/models"
)

type FiredEventsService struct {
	firedEventsRepo *db.PostgresFiredEventsRepository
}

func NewFiredEventsService(repo *db.PostgresFiredEventsRepository) *FiredEventsService {
	return &FiredEventsService{firedEventsRepo: repo}
}

// RecordFiredEvent appends one audit record for one firing invocation.
func (s *FiredEventsService) RecordFiredEvent(
	ctx context.Context,
	episodeID, eventID string,
	source models.FiringSource,
	cardsAffected int,
	triggerData models.TriggerData,
) (*models.FiredEvent, error) {
	log.Printf("📋 Starting to record fired event for event %s (source: %s)", eventID, source)

	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}
	if !core.IsValidULID(eventID) {
		return nil, fmt.Errorf("event_id must be a valid ULID")
	}
	if cardsAffected < 0 {
		return nil, fmt.Errorf("cards_affected cannot be negative")
	}

	firedEvent := &models.FiredEvent{
		ID:            core.NewID("fe"),
		EpisodeID:     episodeID,
		EventID:       eventID,
		Source:        source,
		CardsAffected: cardsAffected,
		TriggerData:   triggerData,
	}

	if err := s.firedEventsRepo.CreateFiredEvent(ctx, firedEvent); err != nil {
		return nil, fmt.Errorf("failed to record fired event: %w", err)
	}

	log.Printf("📋 Completed successfully - recorded fired event with ID: %s", firedEvent.ID)
	return firedEvent, nil
}

func (s *FiredEventsService) GetFiredEventsByEpisodeID(
	ctx context.Context,
	episodeID string,
	limit int,
) ([]*models.FiredEvent, error) {
	log.Printf("📋 Starting to get fired events for episode: %s", episodeID)
	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}
	if limit <= 0 {
		limit = 50
	}

	firedEvents, err := s.firedEventsRepo.GetFiredEventsByEpisodeID(ctx, episodeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get fired events: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d fired events", len(firedEvents))
	return firedEvents, nil
}
