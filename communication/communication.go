package communication

import (
	"context"

	"werewolf/game"
)

// Transport is an interface that abstracts how an observation reaches a remote
// decision maker and how its action comes back.
type Transport interface {
	Send(ctx context.Context, obs game.Observation) (game.Action, error)
}

// TransportFunc adapts a plain function to a Transport.
type TransportFunc func(ctx context.Context, obs game.Observation) (game.Action, error)

func (f TransportFunc) Send(ctx context.Context, obs game.Observation) (game.Action, error) {
	return f(ctx, obs)
}
