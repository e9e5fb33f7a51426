package models

import (
	"time"
)

type MatchType string

const (
	MatchTypeExact      MatchType = "exact"
	MatchTypeContains   MatchType = "contains"
	MatchTypeStartsWith MatchType = "startswith"
	MatchTypeRegex      MatchType = "regex"
)

// ChatKeywordTrigger binds a chat keyword rule to an event definition.
// LastTriggeredAt backs the cooldown gate: the trigger cannot refire while
// now - LastTriggeredAt < CooldownSeconds.
type ChatKeywordTrigger struct {
	ID              string     `db:"id"                json:"id"`
	EpisodeID       string     `db:"episode_id"        json:"episode_id"`
	EventID         string     `db:"event_id"          json:"event_id"`
	Keyword         string     `db:"keyword"           json:"keyword"`
	MatchType       MatchType  `db:"match_type"        json:"match_type"`
	CaseSensitive   bool       `db:"case_sensitive"    json:"case_sensitive"`
	CooldownSeconds int        `db:"cooldown_seconds"  json:"cooldown_seconds"`
	LastTriggeredAt *time.Time `db:"last_triggered_at" json:"last_triggered_at,omitempty"`
	IsActive        bool       `db:"is_active"         json:"is_active"`
	CreatedAt       time.Time  `db:"created_at"        json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"        json:"updated_at"`
}
