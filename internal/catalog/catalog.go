// Package catalog holds the static description of every game in the
// product: identifier, title and the star ceiling used for exit-test gating.
package catalog

// Game describes one entry in the catalog
type Game struct {
	GameID   string `json:"game_id"`
	Title    string `json:"title"`
	MaxStars int    `json:"max_stars"`
}

// DefaultMaxStars applies to games without an explicit star ceiling
const DefaultMaxStars = 36

var games = []Game{
	{GameID: "parabola", Title: "Parabola", MaxStars: 18},
	{GameID: "balancer", Title: "Balancer", MaxStars: 36},
	{GameID: "graph_master", Title: "Graph Master", MaxStars: 36},
	{GameID: "chemical_detective", Title: "Chemical Detective", MaxStars: 36},
	{GameID: "constructor", Title: "Constructor", MaxStars: 36},
}

// Games returns the catalog in display order
func Games() []Game {
	out := make([]Game, len(games))
	copy(out, games)
	return out
}

// Lookup finds a game by id
func Lookup(gameID string) (Game, bool) {
	for _, g := range games {
		if g.GameID == gameID {
			return g, true
		}
	}
	return Game{}, false
}

// Exists reports whether gameID names a catalog game
func Exists(gameID string) bool {
	_, ok := Lookup(gameID)
	return ok
}

// MaxStars returns the attainable star ceiling for a game
func MaxStars(gameID string) int {
	if g, ok := Lookup(gameID); ok {
		return g.MaxStars
	}
	return DefaultMaxStars
}

// ExitThreshold returns the best-stars total required before the exit test
// unlocks: half the game's ceiling, rounded down
func ExitThreshold(gameID string) int {
	return MaxStars(gameID) / 2
}
