package triggers

import (
	"context"
	"fmt"
	"log"
	"time"

	"streambingo/core"
	"streambingo/db"
	"streambingo/models"
)

type ChatTriggersService struct {
	triggersRepo *db.PostgresChatTriggersRepository
}

func NewChatTriggersService(repo *db.PostgresChatTriggersRepository) *ChatTriggersService {
	return &ChatTriggersService{triggersRepo: repo}
}

func (s *ChatTriggersService) CreateChatTrigger(
	ctx context.Context,
	episodeID, eventID, keyword string,
	matchType models.MatchType,
	caseSensitive bool,
	cooldownSeconds int,
) (*models.ChatKeywordTrigger, error) {
	log.Printf("📋 Starting to create chat trigger %q for event: %s", keyword, eventID)

	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}
	if !core.IsValidULID(eventID) {
		return nil, fmt.Errorf("event_id must be a valid ULID")
	}
	if keyword == "" {
		return nil, fmt.Errorf("keyword cannot be empty")
	}
	if cooldownSeconds < 0 {
		return nil, fmt.Errorf("cooldown_seconds cannot be negative")
	}

	trigger := &models.ChatKeywordTrigger{
		ID:              core.NewID("ct"),
		EpisodeID:       episodeID,
		EventID:         eventID,
		Keyword:         keyword,
		MatchType:       matchType,
		CaseSensitive:   caseSensitive,
		CooldownSeconds: cooldownSeconds,
		IsActive:        true,
	}

	if err := s.triggersRepo.CreateChatTrigger(ctx, trigger); err != nil {
		return nil, fmt.Errorf("failed to create chat trigger: %w", err)
	}

	log.Printf("📋 Completed successfully - created chat trigger with ID: %s", trigger.ID)
	return trigger, nil
}

func (s *ChatTriggersService) GetActiveChatTriggersByEpisodeID(
	ctx context.Context,
	episodeID string,
) ([]*models.ChatKeywordTrigger, error) {
	log.Printf("📋 Starting to get active chat triggers for episode: %s", episodeID)
	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}

	triggers, err := s.triggersRepo.GetActiveChatTriggersByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active chat triggers: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d active chat triggers", len(triggers))
	return triggers, nil
}

// MatchMessage evaluates a chat message against every active trigger of the
// episode. Cooled-down triggers are skipped silently; a matched trigger gets
// last_triggered_at stamped before it is returned. Malformed trigger
// configuration degrades to no-match so one bad trigger never blocks the
// rest.
func (s *ChatTriggersService) MatchMessage(
	ctx context.Context,
	episodeID, message string,
	now time.Time,
) ([]*models.ChatKeywordTrigger, error) {
	log.Printf("📋 Starting to match chat message against triggers for episode: %s", episodeID)
	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}

	activeTriggers, err := s.triggersRepo.GetActiveChatTriggersByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active chat triggers: %w", err)
	}

	var matched []*models.ChatKeywordTrigger
	for _, trigger := range activeTriggers {
		if CooldownActive(trigger, now) {
			log.Printf("⏱️ Trigger %s is cooling down, skipping", trigger.ID)
			continue
		}
		if !MatchesMessage(trigger, message) {
			continue
		}

		stamped, err := s.triggersRepo.StampLastTriggered(ctx, trigger.ID)
		if err != nil {
			log.Printf("❌ Failed to stamp trigger %s, skipping: %v", trigger.ID, err)
			continue
		}
		if !stamped {
			log.Printf("❌ Trigger %s vanished before stamping, skipping", trigger.ID)
			continue
		}

		stampedAt := now
		trigger.LastTriggeredAt = &stampedAt
		matched = append(matched, trigger)
	}

	log.Printf("📋 Completed successfully - %d trigger(s) matched", len(matched))
	return matched, nil
}

func (s *ChatTriggersService) SetChatTriggerActive(ctx context.Context, id string, isActive bool) error {
	log.Printf("📋 Starting to set chat trigger %s active=%v", id, isActive)
	if !core.IsValidULID(id) {
		return fmt.Errorf("trigger ID must be a valid ULID")
	}

	updated, err := s.triggersRepo.SetChatTriggerActive(ctx, id, isActive)
	if err != nil {
		return fmt.Errorf("failed to set chat trigger active: %w", err)
	}
	if !updated {
		return fmt.Errorf("chat trigger %s: %w", id, core.ErrNotFound)
	}

	log.Printf("📋 Completed successfully - chat trigger %s active=%v", id, isActive)
	return nil
}

func (s *ChatTriggersService) DeleteChatTrigger(ctx context.Context, id string) error {
	log.Printf("📋 Starting to delete chat trigger: %s", id)
	if !core.IsValidULID(id) {
		return fmt.Errorf("trigger ID must be a valid ULID")
	}

	deleted, err := s.triggersRepo.DeleteChatTrigger(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat trigger: %w", err)
	}
	if !deleted {
		return fmt.Errorf("chat trigger %s: %w", id, core.ErrNotFound)
	}

	log.Printf("📋 Completed successfully - deleted chat trigger %s", id)
	return nil
}
