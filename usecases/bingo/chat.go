package bingo

import (
	"context"
	"fmt"
	"log"
	"time"

	"streambingo/core"
	"streambingo/models"
)

// ProcessChatMessage runs one chat line through the episode's keyword
// triggers and fires the event behind every trigger that matches. Firing
// failures are logged and do not stop the remaining matched triggers.
func (u *BingoUseCase) ProcessChatMessage(ctx context.Context, episodeID, username, message string) error {
	log.Printf("📨 Processing chat message from %s in episode %s", username, episodeID)
	if !core.IsValidULID(episodeID) {
		return fmt.Errorf("episode ID must be a valid ULID")
	}

	matched, err := u.chatTriggersService.MatchMessage(ctx, episodeID, message, time.Now())
	if err != nil {
		return fmt.Errorf("failed to match chat message: %w", err)
	}
	if len(matched) == 0 {
		return nil
	}
	log.Printf("🎯 Chat message matched %d trigger(s)", len(matched))

	for _, trigger := range matched {
		triggerData := models.TriggerData{
			"keyword":    trigger.Keyword,
			"match_type": string(trigger.MatchType),
			"username":   username,
			"message":    message,
		}
		if _, err := u.FireEvent(ctx, episodeID, trigger.EventID, models.FiringSourceChat, triggerData); err != nil {
			log.Printf("❌ Failed to fire event %s for trigger %s: %v", trigger.EventID, trigger.ID, err)
		}
	}

	log.Printf("📋 Completed successfully - processed chat message from %s", username)
	return nil
}
