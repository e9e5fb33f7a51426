package bingo

import (
	"context"
	"fmt"
	"log"

	"streambingo/models"
)

// ProcessEventSubNotification maps a verified Twitch EventSub notification to
// its webhook category and fires every webhook-triggered event definition
// bound to that category on the subscription's episode. Unmapped event types
// still flow through as the unknown category so a misconfigured subscription
// surfaces in logs instead of vanishing.
func (u *BingoUseCase) ProcessEventSubNotification(
	ctx context.Context,
	subscriptionID, eventType string,
	event map[string]any,
) error {
	log.Printf("📨 Processing EventSub notification %s for subscription %s", eventType, subscriptionID)

	maybeSub := u.eventSubService.GetSubscriptionByID(subscriptionID)
	if !maybeSub.IsPresent() {
		return fmt.Errorf("no subscription found for ID: %s", subscriptionID)
	}
	sub := maybeSub.MustGet()

	twitchEvent := u.eventSubService.MapNotification(eventType, event)
	twitchEvent.SubscriptionID = subscriptionID
	if twitchEvent.Category == models.WebhookCategoryUnknown {
		log.Printf("⚠️ EventSub type %s has no category mapping, forwarding as unknown", eventType)
	}

	definitions, err := u.eventsService.GetWebhookEventDefinitions(ctx, sub.EpisodeID, twitchEvent.Category)
	if err != nil {
		return fmt.Errorf("failed to get webhook event definitions: %w", err)
	}
	if len(definitions) == 0 {
		log.Printf("📭 No event definitions bound to category %s in episode %s", twitchEvent.Category, sub.EpisodeID)
		return nil
	}

	for _, definition := range definitions {
		triggerData := models.TriggerData{
			"event_type":     eventType,
			"category":       twitchEvent.Category,
			"amount":         twitchEvent.Amount,
			"username":       twitchEvent.Username,
			"broadcaster_id": twitchEvent.BroadcasterID,
		}
		if _, err := u.FireEvent(ctx, sub.EpisodeID, definition.ID, models.FiringSourceTwitch, triggerData); err != nil {
			log.Printf("❌ Failed to fire event %s for EventSub notification: %v", definition.ID, err)
		}
	}

	log.Printf("📋 Completed successfully - processed EventSub notification %s", eventType)
	return nil
}
