package game

import (
	"encoding/json"
	"fmt"
)

// Winner is the final outcome of a game.
type Winner string

const (
	VillagersWin  Winner = "Villagers"
	WerewolvesWin Winner = "Werewolves"
	Timeout       Winner = "Timeout"
)

// Utterance is one debate turn. It encodes as [speaker, text].
type Utterance struct {
	Speaker string
	Text    string
}

func (u Utterance) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{u.Speaker, u.Text})
}

func (u *Utterance) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("utterance: want [speaker, text], got %d items", len(pair))
	}
	u.Speaker, u.Text = pair[0], pair[1]
	return nil
}

// Night records the outcome of the night actions. Nil fields are encoded as null.
type Night struct {
	Wolves     *string `json:"wolves"`
	Doctor     *string `json:"doctor"`
	SeerTarget *string `json:"seer_target"`
	SeerReveal *Role   `json:"seer_reveal"`
}

// Round is the log entry for one full round.
type Round struct {
	Round   int         `json:"round"`
	Players []string    `json:"players"`
	Night   *Night      `json:"night"`
	Debate  []Utterance `json:"debate"`
	Votes   Ballots     `json:"votes"`
}

// Log is the complete record of one game, consumed by external scorers.
type Log struct {
	Seed      int64           `json:"seed"`
	Roles     map[string]Role `json:"roles"`
	Rounds    []Round         `json:"rounds"`
	Winner    Winner          `json:"winner"`
	Survivors []string        `json:"survivors"`
}

// Optional returns nil for the empty string.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
