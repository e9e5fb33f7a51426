package eventsub

import (
	"streambingo/models"
)

// eventTypeCategories maps EventSub subscription types onto the trigger
// categories event definitions bind to.
var eventTypeCategories = map[string]string{
	"channel.follow":            models.WebhookCategoryFollow,
	"channel.subscribe":         models.WebhookCategorySubscription,
	"channel.subscription.gift": models.WebhookCategoryGift,
	"channel.cheer":             models.WebhookCategoryCheer,
	"channel.raid":              models.WebhookCategoryRaid,
	"channel.channel_points_custom_reward_redemption.add": models.WebhookCategoryRedemption,
}

// MapNotification reduces a raw EventSub notification to what the trigger
// pipeline needs. Unmapped types resolve to the unknown category and are
// still forwarded downstream, never silently dropped.
func (s *EventSubService) MapNotification(eventType string, event map[string]any) models.TwitchEvent {
	category, ok := eventTypeCategories[eventType]
	if !ok {
		category = models.WebhookCategoryUnknown
	}

	twitchEvent := models.TwitchEvent{
		Type:     eventType,
		Category: category,
		Amount:   1,
	}

	switch category {
	case models.WebhookCategoryCheer:
		twitchEvent.Amount = intField(event, "bits")
	case models.WebhookCategoryGift:
		twitchEvent.Amount = intField(event, "total")
	case models.WebhookCategoryRaid:
		twitchEvent.Amount = intField(event, "viewers")
	}
	if twitchEvent.Amount <= 0 {
		twitchEvent.Amount = 1
	}

	if name := stringField(event, "user_name"); name != "" {
		twitchEvent.Username = name
	} else if name := stringField(event, "from_broadcaster_user_name"); name != "" {
		twitchEvent.Username = name
	}
	if id := stringField(event, "broadcaster_user_id"); id != "" {
		twitchEvent.BroadcasterID = id
	} else if id := stringField(event, "to_broadcaster_user_id"); id != "" {
		twitchEvent.BroadcasterID = id
	}

	return twitchEvent
}

func intField(event map[string]any, key string) int {
	switch v := event[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func stringField(event map[string]any, key string) string {
	if v, ok := event[key].(string); ok {
		return v
	}
	return ""
}
