package engine

import (
	"context"

	"werewolf/game"
)

type Engine interface {
	// Run plays a game until a side wins or the round limit is reached
	Run(ctx context.Context) (*game.Log, error)
}

// Config is everything that decides the outcome of a game with local agents.
type Config struct {
	Seed      int64
	Players   []string
	MaxRounds int
	MaxTurns  int
}
