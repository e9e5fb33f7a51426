package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type FiringSource string

const (
	FiringSourceManual FiringSource = "manual"
	FiringSourceChat   FiringSource = "chat"
	FiringSourceTwitch FiringSource = "twitch"
)

// TriggerData is the snapshot of whatever stimulus caused a firing, stored as
// JSONB on the audit record.
type TriggerData map[string]any

func (d TriggerData) Value() (driver.Value, error) {
	if d == nil {
		d = TriggerData{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trigger data: %w", err)
	}
	return data, nil
}

func (d *TriggerData) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("cannot scan trigger data from %T", src)
	}
}

// FiredEvent is the append-only audit record of one firing. Exactly one row
// is written per inbound stimulus, regardless of how many cards it touched.
type FiredEvent struct {
	ID            string       `db:"id"             json:"id"`
	EpisodeID     string       `db:"episode_id"     json:"episode_id"`
	EventID       string       `db:"event_id"       json:"event_id"`
	Source        FiringSource `db:"source"         json:"source"`
	CardsAffected int          `db:"cards_affected" json:"cards_affected"`
	TriggerData   TriggerData  `db:"trigger_data"   json:"trigger_data"`
	CreatedAt     time.Time    `db:"created_at"     json:"created_at"`
}
