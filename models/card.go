package models

import (
	"time"
)

type CardStatus string

const (
	CardStatusActive  CardStatus = "active"
	CardStatusFruited CardStatus = "fruited"
	CardStatusEnded   CardStatus = "ended"
)

// Card is one participant's grid for one episode. Only active cards are
// mutable; fruited and ended cards are frozen.
type Card struct {
	ID            string      `db:"id"             json:"id"`
	EpisodeID     string      `db:"episode_id"     json:"episode_id"`
	HolderID      string      `db:"holder_id"      json:"holder_id"`
	Grid          Grid        `db:"grid"           json:"grid"`
	MarkedSquares int         `db:"marked_squares" json:"marked_squares"`
	Patterns      PatternList `db:"patterns"       json:"patterns"`
	Status        CardStatus  `db:"status"         json:"status"`
	CreatedAt     time.Time   `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"     json:"updated_at"`
}
