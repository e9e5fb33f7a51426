package events

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"streambingo/core"
	"streambingo/db"
	"streambingo/models"
)

var validWebhookCategories = map[string]bool{
	models.WebhookCategoryFollow:       true,
	models.WebhookCategorySubscription: true,
	models.WebhookCategoryGift:         true,
	models.WebhookCategoryCheer:        true,
	models.WebhookCategoryRaid:         true,
	models.WebhookCategoryRedemption:   true,
}

type EventsService struct {
	eventsRepo *db.PostgresEventDefinitionsRepository
}

func NewEventsService(repo *db.PostgresEventDefinitionsRepository) *EventsService {
	return &EventsService{eventsRepo: repo}
}

func (s *EventsService) CreateEventDefinition(
	ctx context.Context,
	episodeID, name, icon string,
	triggerType models.TriggerType,
	webhookCategory *string,
) (*models.EventDefinition, error) {
	log.Printf("📋 Starting to create event definition %q for episode: %s", name, episodeID)

	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	switch triggerType {
	case models.TriggerTypeManual, models.TriggerTypeChatKeyword:
		if webhookCategory != nil {
			return nil, fmt.Errorf("webhook_category is only valid for twitch_webhook triggers")
		}
	case models.TriggerTypeTwitchWebhook:
		if webhookCategory == nil || !validWebhookCategories[*webhookCategory] {
			return nil, fmt.Errorf("twitch_webhook triggers require a valid webhook_category")
		}
	default:
		return nil, fmt.Errorf("unsupported trigger type: %s", triggerType)
	}

	event := &models.EventDefinition{
		ID:              core.NewID("ev"),
		EpisodeID:       episodeID,
		Name:            name,
		Icon:            icon,
		TriggerType:     triggerType,
		WebhookCategory: webhookCategory,
	}

	if err := s.eventsRepo.CreateEventDefinition(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event definition: %w", err)
	}

	log.Printf("📋 Completed successfully - created event definition with ID: %s", event.ID)
	return event, nil
}

func (s *EventsService) GetEventDefinitionByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.EventDefinition], error) {
	log.Printf("📋 Starting to get event definition by ID: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.EventDefinition](), fmt.Errorf("event ID must be a valid ULID")
	}

	maybeEvent, err := s.eventsRepo.GetEventDefinitionByID(ctx, id)
	if err != nil {
		return mo.None[*models.EventDefinition](), fmt.Errorf("failed to get event definition: %w", err)
	}

	log.Printf("📋 Completed successfully - event definition found: %v", maybeEvent.IsPresent())
	return maybeEvent, nil
}

func (s *EventsService) GetEventDefinitionsByEpisodeID(
	ctx context.Context,
	episodeID string,
) ([]*models.EventDefinition, error) {
	log.Printf("📋 Starting to get event definitions for episode: %s", episodeID)
	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}

	events, err := s.eventsRepo.GetEventDefinitionsByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event definitions: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d event definitions", len(events))
	return events, nil
}

func (s *EventsService) GetWebhookEventDefinitions(
	ctx context.Context,
	episodeID, webhookCategory string,
) ([]*models.EventDefinition, error) {
	log.Printf("📋 Starting to get webhook event definitions for episode: %s, category: %s", episodeID, webhookCategory)
	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}

	events, err := s.eventsRepo.GetWebhookEventDefinitions(ctx, episodeID, webhookCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook event definitions: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d webhook event definitions", len(events))
	return events, nil
}

// RecordFiring bumps fired_count and stamps fired_at exactly once. It is
// called once per inbound stimulus, never per card, so fired_count tracks
// invocations.
func (s *EventsService) RecordFiring(ctx context.Context, id string) (*models.EventDefinition, error) {
	log.Printf("📋 Starting to record firing for event: %s", id)
	if !core.IsValidULID(id) {
		return nil, fmt.Errorf("event ID must be a valid ULID")
	}

	maybeEvent, err := s.eventsRepo.RecordFiring(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to record firing: %w", err)
	}
	if !maybeEvent.IsPresent() {
		return nil, fmt.Errorf("event definition %s: %w", id, core.ErrNotFound)
	}

	event := maybeEvent.MustGet()
	log.Printf("📋 Completed successfully - event %s fired_count is now %d", id, event.FiredCount)
	return event, nil
}
