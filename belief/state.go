package belief

import (
	"slices"
	"strings"

	"werewolf/game"
)

// Belief parameters. Changing any of them changes baseline replays.
const (
	DefaultSuspicion = 0.3
	MinSuspicion     = 0.05
	MaxSuspicion     = 0.95
	KnownGoodCeiling = 0.1

	AccusationWeight = 0.08
	DefenseWeight    = 0.05
	SeerClaimPenalty = 0.12
	VisibilityWeight = 0.02
	CoVoteNudge      = 0.05
	CoVoteThreshold  = 2

	// DebateWindow is how many trailing debate lines are re-read per decision.
	DebateWindow = 50
)

// State is what one baseline agent believes about everyone else. It is built
// once per agent and keeps accumulating for the whole game.
type State struct {
	self string

	suspicion   map[string]float64
	accusations map[string]int
	defenses    map[string]int
	speeches    map[string]int
	claims      map[game.Role][]string

	knownWolf string
	knownGood map[string]bool

	coVotes   map[[2]string]int
	lastVotes map[string]string
}

func newState(self string) *State {
	return &State{
		self:        self,
		suspicion:   map[string]float64{},
		accusations: map[string]int{},
		defenses:    map[string]int{},
		speeches:    map[string]int{},
		claims:      map[game.Role][]string{},
		knownGood:   map[string]bool{},
		coVotes:     map[[2]string]int{},
		lastVotes:   map[string]string{},
	}
}

// Suspicion is the current score for player.
func (s *State) Suspicion(player string) float64 {
	if v, ok := s.suspicion[player]; ok {
		return v
	}
	return DefaultSuspicion
}

// Claimants returns the players who claimed role, in claim order.
func (s *State) Claimants(role game.Role) []string {
	return slices.Clone(s.claims[role])
}

// Accusations counts how often player was accused.
func (s *State) Accusations(player string) int {
	return s.accusations[player]
}

// LastVote is the most recent vote seen from voter.
func (s *State) LastVote(voter string) string {
	return s.lastVotes[voter]
}

func (s *State) ensure(players []string) {
	for _, p := range players {
		if p == s.self {
			continue
		}
		if _, ok := s.suspicion[p]; !ok {
			s.suspicion[p] = DefaultSuspicion
		}
		if _, ok := s.accusations[p]; !ok {
			s.accusations[p] = 0
		}
		if _, ok := s.defenses[p]; !ok {
			s.defenses[p] = 0
		}
		if _, ok := s.speeches[p]; !ok {
			s.speeches[p] = 0
		}
	}
}

// analyze re-reads the tail of the debate and recomputes every alive player's score.
// Counts are cumulative across calls.
func (s *State) analyze(debate, alive []string, lex Lexicon) {
	s.ensure(alive)
	if len(debate) > DebateWindow {
		debate = debate[len(debate)-DebateWindow:]
	}
	for _, line := range debate {
		speaker, speech, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		speaker = strings.TrimSpace(speaker)
		speech = strings.ToLower(speech)
		if _, known := s.speeches[speaker]; speaker != "" && known {
			s.speeches[speaker]++
		}

		if speaker != "" {
			for _, role := range game.Roles {
				if lex.claims(role, speech) && !slices.Contains(s.claims[role], speaker) {
					s.claims[role] = append(s.claims[role], speaker)
				}
			}
		}

		for _, target := range alive {
			if target == speaker || !lex.mentions(speech, target) {
				continue
			}
			if lex.accuses(speech) {
				s.accusations[target]++
			}
			if lex.defends(speech) {
				s.defenses[target]++
			}
		}
	}

	seerClaims := s.claims[game.Seer]
	for _, p := range alive {
		if p == s.self {
			continue
		}
		score := s.Suspicion(p)
		score += AccusationWeight * float64(s.accusations[p])
		score -= DefenseWeight * float64(s.defenses[p])
		if len(seerClaims) > 1 && slices.Contains(seerClaims, p) {
			score += SeerClaimPenalty
		}
		if s.knownGood[p] {
			score = min(score, KnownGoodCeiling)
		}
		if p == s.knownWolf {
			score = MaxSuspicion
		}
		s.suspicion[p] = clamp(score)
	}
}

// observeVotes records the round's votes so far and raises suspicion on pairs
// of other voters that keep landing on the same target.
func (s *State) observeVotes(current game.Ballots) {
	for _, b := range current {
		if b.Voter != s.self {
			s.lastVotes[b.Voter] = b.Target
		}
	}
	for i := 0; i < len(current); i++ {
		for j := i + 1; j < len(current); j++ {
			v1, v2 := current[i], current[j]
			if v1.Voter == s.self || v2.Voter == s.self || v1.Voter == v2.Voter {
				continue
			}
			if v1.Target == "" || v1.Target != v2.Target {
				continue
			}
			key := [2]string{v1.Voter, v2.Voter}
			if key[1] < key[0] {
				key[0], key[1] = key[1], key[0]
			}
			s.coVotes[key]++
			if s.coVotes[key] < CoVoteThreshold {
				continue
			}
			for _, voter := range key {
				if v, ok := s.suspicion[voter]; ok {
					s.suspicion[voter] = min(MaxSuspicion, v+CoVoteNudge)
				}
			}
		}
	}
}

func (s *State) learn(target string, role game.Role) {
	if role == game.Werewolf {
		s.knownWolf = target
		s.suspicion[target] = MaxSuspicion
		return
	}
	s.knownGood[target] = true
}

func (s *State) others(alive []string) []string {
	out := make([]string, 0, len(alive))
	for _, p := range alive {
		if p != s.self {
			out = append(out, p)
		}
	}
	return out
}

// mostSuspicious is the arg-max of suspicion over alive players other than self.
// The first player in alive order wins ties.
func (s *State) mostSuspicious(alive []string) string {
	s.ensure(alive)
	return argBest(s.others(alive), s.Suspicion, func(a, b float64) bool { return a > b })
}

// leastSuspicious is the arg-min counterpart of mostSuspicious.
func (s *State) leastSuspicious(alive []string) string {
	s.ensure(alive)
	return argBest(s.others(alive), s.Suspicion, func(a, b float64) bool { return a < b })
}

func argBest(candidates []string, score func(string) float64, better func(a, b float64) bool) string {
	best := ""
	bestScore := 0.0
	for i, p := range candidates {
		v := score(p)
		if i == 0 || better(v, bestScore) {
			best, bestScore = p, v
		}
	}
	return best
}

func clamp(v float64) float64 {
	return max(MinSuspicion, min(MaxSuspicion, v))
}
