package metrics

import (
	"time"

	"uttt/searcher"
)

// AgentConfig identifies one engine configuration under test.
type AgentConfig struct {
	ID          int
	Iterations  int     // Search iterations per move
	Exploration float64 // UCT exploration constant; 0 means the default
}

// MoveMetric records the search behind one played move.
type MoveMetric struct {
	Step   int
	Player string // "X" or "O"
	searcher.SearchMetric
}

// GameMetric records one completed game.
type GameMetric struct {
	StartingAgent int // AgentConfig.ID of the X player
	Result        string
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
}

type GameRecord struct {
	ID     int
	AgentX int // AgentConfig.ID
	AgentO int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}
