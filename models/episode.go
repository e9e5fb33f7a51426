package models

import (
	"time"
)

type EpisodeStatus string

const (
	EpisodeStatusDraft EpisodeStatus = "draft"
	EpisodeStatusLive  EpisodeStatus = "live"
	EpisodeStatusEnded EpisodeStatus = "ended"
)

type Episode struct {
	ID         string        `db:"id"          json:"id"`
	StreamerID string        `db:"streamer_id" json:"streamer_id"`
	Title      string        `db:"title"       json:"title"`
	Status     EpisodeStatus `db:"status"      json:"status"`
	GridSize   int           `db:"grid_size"   json:"grid_size"`
	ChatSecret string        `db:"chat_secret" json:"-"`
	CreatedAt  time.Time     `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"  json:"updated_at"`
}
