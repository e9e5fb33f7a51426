package models

import (
	"time"
)

// Webhook event categories an EventSub notification can resolve to.
const (
	WebhookCategoryFollow       = "follow"
	WebhookCategorySubscription = "subscription"
	WebhookCategoryGift         = "gift"
	WebhookCategoryCheer        = "cheer"
	WebhookCategoryRaid         = "raid"
	WebhookCategoryRedemption   = "redemption"
	WebhookCategoryUnknown      = "unknown"
)

// EventSubSubscription is the process-wide record of one Twitch EventSub
// subscription. It lives only in memory: a restart drops all subscriptions
// and they must be recreated through the Twitch client.
type EventSubSubscription struct {
	ID            string    `json:"id"`
	EpisodeID     string    `json:"episode_id"`
	BroadcasterID string    `json:"broadcaster_id"`
	EventType     string    `json:"event_type"`
	Secret        string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// TwitchEvent is a verified EventSub notification reduced to what the trigger
// pipeline needs.
type TwitchEvent struct {
	SubscriptionID string `json:"subscription_id"`
	Type           string `json:"type"`
	Category       string `json:"category"`
	Amount         int    `json:"amount"`
	Username       string `json:"username"`
	BroadcasterID  string `json:"broadcaster_id"`
}
