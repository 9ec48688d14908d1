package models

import "time"

// GameStats tracks star totals per (user, game). BestStars is a running
// maximum and never decreases; the presence of a row doubles as "has this
// user ever played this game".
type GameStats struct {
	UserID    string
	GameID    string
	LastStars int
	BestStars int
	UpdatedAt time.Time
}

// Save is an opaque per-(user, game) save blob owned by the game client
type Save struct {
	UserID    string
	GameID    string
	Payload   []byte
	UpdatedAt time.Time
}
