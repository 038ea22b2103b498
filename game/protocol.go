package game

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks an action against the phase table:
//
//	day       speak with non-empty content
//	day_vote  vote with a target in alive
//	night     night_power with a target in alive
//	noop      only during night
func Validate(a Action, phase Phase, alive []string) error {
	if !a.Type.known() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAction, a.Type)
	}
	if a.Type == ActionNoop {
		if phase == PhaseNight {
			return nil
		}
		return fmt.Errorf("%w: noop only allowed at night", ErrInvalidAction)
	}
	switch phase {
	case PhaseDay:
		if a.Type != ActionSpeak || a.Content == "" {
			return fmt.Errorf("%w: day requires speak with content", ErrInvalidAction)
		}
	case PhaseDayVote:
		if a.Type != ActionVote || a.Target == "" {
			return fmt.Errorf("%w: day_vote requires vote with target", ErrInvalidAction)
		}
		if !slices.Contains(alive, a.Target) {
			return fmt.Errorf("%w: vote target %q not in remaining players", ErrInvalidAction, a.Target)
		}
	case PhaseNight:
		if a.Type != ActionNightPower || a.Target == "" {
			return fmt.Errorf("%w: night requires night_power with target", ErrInvalidAction)
		}
		if !slices.Contains(alive, a.Target) {
			return fmt.Errorf("%w: night target %q not in remaining players", ErrInvalidAction, a.Target)
		}
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidAction, phase)
	}
	return nil
}

// NormalizeTarget rewrites a target that matches an alive player case-insensitively
// to the player's canonical spelling. Other actions are returned unchanged.
func NormalizeTarget(a Action, alive []string) Action {
	if a.Target == "" || len(alive) == 0 || slices.Contains(alive, a.Target) {
		return a
	}
	want := strings.ToLower(strings.TrimSpace(a.Target))
	for _, name := range alive {
		if strings.ToLower(name) == want {
			a.Target = name
			return a
		}
	}
	return a
}

// CoerceTarget replaces a target that is not alive with the first alive player
// other than self, or the first alive player when self is the only one left.
func CoerceTarget(a Action, alive []string, self string) Action {
	if len(alive) == 0 || slices.Contains(alive, a.Target) {
		return a
	}
	a.Target = alive[0]
	for _, name := range alive {
		if name != self {
			a.Target = name
			break
		}
	}
	return a
}

// Repair turns any agent output into a legal action for phase. The returned error
// is the original violation, if any; it is informational and never fatal.
//
// Speech cannot be invented, so an invalid day action becomes a speak action
// carrying whatever content the agent sent (possibly empty).
func Repair(a Action, phase Phase, alive []string, self string) (Action, error) {
	a = NormalizeTarget(a, alive)
	violation := Validate(a, phase, alive)
	if violation == nil {
		return a, nil
	}
	switch phase {
	case PhaseDay:
		return Speak(a.Content), violation
	case PhaseDayVote:
		a.Type = ActionVote
	default:
		a.Type = ActionNightPower
	}
	return CoerceTarget(a, alive, self), violation
}
