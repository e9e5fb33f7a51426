package models

import (
	"time"
)

type TriggerType string

const (
	TriggerTypeManual        TriggerType = "manual"
	TriggerTypeChatKeyword   TriggerType = "chat_keyword"
	TriggerTypeTwitchWebhook TriggerType = "twitch_webhook"
)

// EventDefinition is a named occurrence a streamer predefines for an episode.
// Firing it marks every matching square across the episode's active cards.
type EventDefinition struct {
	ID              string      `db:"id"               json:"id"`
	EpisodeID       string      `db:"episode_id"       json:"episode_id"`
	Name            string      `db:"name"             json:"name"`
	Icon            string      `db:"icon"             json:"icon"`
	TriggerType     TriggerType `db:"trigger_type"     json:"trigger_type"`
	WebhookCategory *string     `db:"webhook_category" json:"webhook_category,omitempty"`
	FiredCount      int         `db:"fired_count"      json:"fired_count"`
	FiredAt         *time.Time  `db:"fired_at"         json:"fired_at,omitempty"`
	CreatedAt       time.Time   `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"       json:"updated_at"`
}
