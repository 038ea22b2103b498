package game

import "strings"

// Role is the hidden identity dealt to a player. It never changes during a game.
type Role string

const (
	Werewolf Role = "Werewolf"
	Seer     Role = "Seer"
	Doctor   Role = "Doctor"
	Villager Role = "Villager"
)

// Roles lists every role in schedule order.
var Roles = []Role{Werewolf, Seer, Doctor, Villager}

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, true
		}
	}
	return "", false
}

// Phase is the part of a round an observation was built for.
type Phase string

const (
	PhaseDay     Phase = "day" // debate
	PhaseDayVote Phase = "day_vote"
	PhaseNight   Phase = "night"
)

// ActionType represents the type of action an agent can return.
type ActionType string

const (
	ActionSpeak      ActionType = "speak"
	ActionVote       ActionType = "vote"
	ActionNightPower ActionType = "night_power"
	ActionNoop       ActionType = "noop"
)

func (t ActionType) known() bool {
	switch t {
	case ActionSpeak, ActionVote, ActionNightPower, ActionNoop:
		return true
	}
	return false
}

// Action represents an agent's answer to an Observation.
type Action struct {
	Type    ActionType `json:"type"`
	Content string     `json:"content,omitempty"`
	Target  string     `json:"target,omitempty"`
}

func Speak(content string) Action {
	return Action{Type: ActionSpeak, Content: content}
}

func Vote(target string) Action {
	return Action{Type: ActionVote, Target: target}
}

func NightPower(target string) Action {
	return Action{Type: ActionNightPower, Target: target}
}
