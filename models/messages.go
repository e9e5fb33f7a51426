package models

import (
	"github.com/shopspring/decimal"
)

// Broadcast message types
const (
	MessageTypeEventFired  = "event:fired"
	MessageTypeCardUpdated = "card:updated"
)

// Room control message types (inbound from viewers)
const (
	MessageTypeEpisodeJoin  = "episode:join"
	MessageTypeEpisodeLeave = "episode:leave"
)

type BroadcastMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// EventFiredPayload goes to every viewer in the episode room.
type EventFiredPayload struct {
	EpisodeID     string      `json:"episode_id"`
	EventID       string      `json:"event_id"`
	EventName     string      `json:"event_name"`
	TriggeredBy   string      `json:"triggered_by"`
	CardsAffected int         `json:"cards_affected"`
	SourceInfo    TriggerData `json:"source_info,omitempty"`
}

// CardUpdatedPayload goes only to the card's holder, so one player's grid
// contents never leak to another subscriber.
type CardUpdatedPayload struct {
	CardID        string          `json:"card_id"`
	MarkedSquares int             `json:"marked_squares"`
	Patterns      PatternList     `json:"patterns"`
	Rarity        decimal.Decimal `json:"rarity"`
	TriggeredBy   string          `json:"triggered_by"`
}

// EpisodeRoomPayload is the payload of episode:join / episode:leave control
// messages sent by connected viewers.
type EpisodeRoomPayload struct {
	EpisodeID string `json:"episode_id"`
}
