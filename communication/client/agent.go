package client

import (
	"context"

	"werewolf/communication"
	"werewolf/game"
)

// Agent is a seat played by a remote decision maker. Every call is forwarded
// through the transport unchanged.
type Agent struct {
	name      string
	role      game.Role
	alive     bool
	transport communication.Transport
}

func NewAgent(name string, role game.Role, transport communication.Transport) *Agent {
	return &Agent{
		name:      name,
		role:      role,
		alive:     true,
		transport: transport,
	}
}

func (a *Agent) Name() string { return a.name }

func (a *Agent) Role() game.Role { return a.role }

func (a *Agent) Alive() bool { return a.alive }

func (a *Agent) MarkDead() { a.alive = false }

// UpdateSeerInspection is a no-op: the engine sends the full inspection
// history in every seer observation.
func (a *Agent) UpdateSeerInspection(string, game.Role) {}

func (a *Agent) Speak(ctx context.Context, obs game.Observation) (game.Action, error) {
	return a.transport.Send(ctx, obs)
}

func (a *Agent) Vote(ctx context.Context, obs game.Observation) (game.Action, error) {
	return a.transport.Send(ctx, obs)
}

func (a *Agent) NightPower(ctx context.Context, obs game.Observation) (game.Action, error) {
	return a.transport.Send(ctx, obs)
}
