package agent

import (
	"context"
	"fmt"

	"werewolf/belief"
	"werewolf/communication"
	"werewolf/communication/client"
	"werewolf/game"
)

// Agent is one seat at the table. The engine calls exactly one of Speak, Vote
// or NightPower per decision and repairs whatever comes back.
type Agent interface {
	Name() string
	Role() game.Role
	Alive() bool
	MarkDead()
	UpdateSeerInspection(target string, role game.Role)

	Speak(ctx context.Context, obs game.Observation) (game.Action, error)
	Vote(ctx context.Context, obs game.Observation) (game.Action, error)
	NightPower(ctx context.Context, obs game.Observation) (game.Action, error)
}

type Kind int

const (
	// Heuristic seats run the local baseline agent.
	Heuristic Kind = iota
	// Remote seats forward every observation over a transport.
	Remote
)

func (k Kind) String() string {
	switch k {
	case Heuristic:
		return "heuristic"
	case Remote:
		return "remote"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Spec describes a seat to build.
type Spec struct {
	Kind Kind
	Name string
	Role game.Role
	Seed int64

	// Lexicon is used by heuristic seats. The zero value means the default.
	Lexicon *belief.Lexicon
	// Transport is required by remote seats.
	Transport communication.Transport
}

func New(spec Spec) (Agent, error) {
	switch spec.Kind {
	case Heuristic:
		var options []belief.Option
		if spec.Lexicon != nil {
			options = append(options, belief.WithLexicon(*spec.Lexicon))
		}
		return belief.New(spec.Name, spec.Role, spec.Seed, options...), nil
	case Remote:
		if spec.Transport == nil {
			return nil, fmt.Errorf("%w: remote seat %s has no transport", game.ErrConfig, spec.Name)
		}
		return client.NewAgent(spec.Name, spec.Role, spec.Transport), nil
	}
	return nil, fmt.Errorf("%w: unknown agent kind %s", game.ErrConfig, spec.Kind)
}
