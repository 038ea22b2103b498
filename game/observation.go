package game

import (
	"fmt"
	"slices"
)

// SeerCheck is one past inspection made by the seer.
type SeerCheck struct {
	Target string `json:"target"`
	Role   Role   `json:"role"`
}

// Private is the role-scoped part of an observation. Werewolves see their pack,
// the seer sees its inspection history and everyone else gets an empty object.
type Private struct {
	Wolves     []string    `json:"wolves,omitempty"`
	SeerChecks []SeerCheck `json:"seer_checks,omitempty"`
}

// Observation is the snapshot of the game visible to one agent at one decision point.
// It is built fresh for every call and never shared with the engine.
type Observation struct {
	Round            int      `json:"round"`
	Phase            Phase    `json:"phase"`
	Role             Role     `json:"role"`
	Name             string   `json:"name"`
	Seed             int64    `json:"seed"`
	RemainingPlayers []string `json:"remaining_players"`
	Graveyard        []string `json:"graveyard"`
	PublicDebate     []string `json:"public_debate"`
	Private          Private  `json:"private"`
}

// BuildObservation copies every slice so the caller's state cannot be reached
// through the returned value.
func BuildObservation(obs Observation) Observation {
	obs.RemainingPlayers = cloneOrEmpty(obs.RemainingPlayers)
	obs.Graveyard = cloneOrEmpty(obs.Graveyard)
	obs.PublicDebate = cloneOrEmpty(obs.PublicDebate)
	obs.Private = Private{
		Wolves:     slices.Clone(obs.Private.Wolves),
		SeerChecks: slices.Clone(obs.Private.SeerChecks),
	}
	return obs
}

func cloneOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

// DebateLine formats one transcript entry the way observations carry it.
func DebateLine(speaker, utterance string) string {
	return speaker + ":" + utterance
}

// ValidateObservation checks the fields an agent needs to act on a payload
// received over the wire.
func ValidateObservation(obs Observation) error {
	switch obs.Phase {
	case PhaseDay, PhaseDayVote, PhaseNight:
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidObservation, obs.Phase)
	}
	if _, ok := ParseRole(string(obs.Role)); !ok {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidObservation, obs.Role)
	}
	if obs.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidObservation)
	}
	if obs.Round < 0 {
		return fmt.Errorf("%w: negative round %d", ErrInvalidObservation, obs.Round)
	}
	if len(obs.RemainingPlayers) == 0 {
		return fmt.Errorf("%w: remaining_players is empty", ErrInvalidObservation)
	}
	return nil
}
