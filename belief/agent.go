// Package belief implements the heuristic baseline player. It reads the public
// debate, keeps a suspicion score per player and acts from fixed role policies,
// without any network access.
package belief

import (
	"context"
	"hash/fnv"
	"slices"
	"strings"

	"werewolf/game"
)

type Option func(a *Agent)

// WithLexicon replaces the default phrase sets.
func WithLexicon(lex Lexicon) Option {
	return func(a *Agent) {
		a.lexicon = lex
	}
}

// Agent is the baseline player for one seat.
type Agent struct {
	name    string
	role    game.Role
	alive   bool
	rng     *game.Stream
	lexicon Lexicon
	state   *State
	pack    []string
}

// New returns a baseline agent. Its private stream is derived from the game seed
// and the seat name so two seats never share phrasing choices.
func New(name string, role game.Role, seed int64, options ...Option) *Agent {
	a := &Agent{
		name:    name,
		role:    role,
		alive:   true,
		rng:     game.NewStream(seed + int64(nameOffset(name))),
		lexicon: DefaultLexicon(),
		state:   newState(name),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func nameOffset(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32() % 1000
}

func (a *Agent) Name() string { return a.name }

func (a *Agent) Role() game.Role { return a.role }

func (a *Agent) Alive() bool { return a.alive }

// Beliefs exposes the agent's belief state for inspection.
func (a *Agent) Beliefs() *State { return a.state }

func (a *Agent) MarkDead() { a.alive = false }

// Suspicion is shorthand for Beliefs().Suspicion.
func (a *Agent) Suspicion(player string) float64 {
	return a.state.Suspicion(player)
}

// UpdateSeerInspection feeds a seer result back into the beliefs.
func (a *Agent) UpdateSeerInspection(target string, role game.Role) {
	a.state.learn(target, role)
}

func (a *Agent) Speak(_ context.Context, obs game.Observation) (game.Action, error) {
	a.observePrivate(obs)
	return game.Speak(a.speak(obs.PublicDebate, obs.RemainingPlayers)), nil
}

func (a *Agent) Vote(ctx context.Context, obs game.Observation) (game.Action, error) {
	return a.VoteWithBallots(ctx, obs, nil)
}

// VoteWithBallots votes after reading the ballots already cast this round.
// Pairs of voters that land on the same target twice become more suspicious.
func (a *Agent) VoteWithBallots(_ context.Context, obs game.Observation, current game.Ballots) (game.Action, error) {
	a.observePrivate(obs)
	return game.Vote(a.vote(obs.RemainingPlayers, obs.PublicDebate, current)), nil
}

func (a *Agent) NightPower(_ context.Context, obs game.Observation) (game.Action, error) {
	a.observePrivate(obs)
	return game.NightPower(a.nightPower(obs.RemainingPlayers, obs.Private.Wolves)), nil
}

func (a *Agent) observePrivate(obs game.Observation) {
	if a.role != game.Werewolf || len(obs.Private.Wolves) == 0 {
		return
	}
	a.pack = a.pack[:0]
	for _, w := range obs.Private.Wolves {
		if w != a.name {
			a.pack = append(a.pack, w)
		}
	}
}

func (a *Agent) speak(debate, alive []string) string {
	if !a.alive {
		return ""
	}
	used := utterances(debate)
	a.state.analyze(debate, alive, a.lexicon)
	target := a.state.mostSuspicious(alive)
	if target == "" {
		target = fallbackTarget
	}

	switch a.role {
	case game.Werewolf:
		return a.pickUnique(render(deflectLines, target), used)
	case game.Seer:
		if a.state.knownWolf != "" {
			return a.pickUnique(render(revealLines, a.state.knownWolf), used)
		}
		if len(a.state.knownGood) > 0 {
			good := make([]string, 0, len(a.state.knownGood))
			for p := range a.state.knownGood {
				good = append(good, p)
			}
			slices.Sort(good)
			trusted := game.Choice(a.rng, good)
			return a.pickUnique(render(vouchLines, trusted), used)
		}
		return a.pickUnique(render(hedgeLines, target), used)
	case game.Doctor:
		return a.pickUnique(render(probeLines, target), used)
	default:
		return a.pickUnique(stallLines, used)
	}
}

// vote picks a day-vote target. current, when given, is the round's votes so far.
func (a *Agent) vote(alive, debate []string, current game.Ballots) string {
	candidates := a.state.others(alive)
	if len(candidates) == 0 {
		return ""
	}
	if len(debate) > 0 {
		a.state.analyze(debate, alive, a.lexicon)
	}
	if len(current) > 0 {
		a.state.observeVotes(current)
	}

	if a.role == game.Werewolf {
		// Stay off pack-mates so the pack does not vote as a visible block.
		pool := make([]string, 0, len(candidates))
		for _, p := range candidates {
			if p != a.state.knownWolf && !slices.Contains(a.pack, p) {
				pool = append(pool, p)
			}
		}
		if len(pool) == 0 {
			pool = candidates
		}
		return argBest(pool, a.state.Suspicion, func(x, y float64) bool { return x < y })
	}

	target := a.state.mostSuspicious(alive)
	if slices.Contains(candidates, target) {
		return target
	}
	return game.Choice(a.rng, candidates)
}

func (a *Agent) nightPower(alive, wolves []string) string {
	if !a.alive {
		return ""
	}
	a.state.ensure(alive)

	switch a.role {
	case game.Werewolf:
		var pool []string
		for _, p := range alive {
			if !slices.Contains(wolves, p) {
				pool = append(pool, p)
			}
		}
		// Low suspicion and a lot of talking makes a victim the village will miss.
		score := func(p string) float64 {
			return a.state.Suspicion(p) - VisibilityWeight*float64(a.state.speeches[p])
		}
		return argBest(pool, score, func(x, y float64) bool { return x < y })
	case game.Doctor:
		if len(alive) == 0 {
			return ""
		}
		if a.state.accusations[a.name] >= 2 {
			return a.name
		}
		var claimants []string
		for _, p := range a.state.claims[game.Seer] {
			if slices.Contains(alive, p) {
				claimants = append(claimants, p)
			}
		}
		if len(claimants) == 1 {
			return claimants[0]
		}
		if target := a.state.leastSuspicious(alive); target != "" {
			return target
		}
		return game.Choice(a.rng, alive)
	case game.Seer:
		var choices []string
		for _, p := range a.state.others(alive) {
			if !a.state.knownGood[p] && p != a.state.knownWolf {
				choices = append(choices, p)
			}
		}
		if len(choices) == 0 {
			choices = a.state.others(alive)
		}
		return argBest(choices, a.state.Suspicion, func(x, y float64) bool { return x > y })
	}
	return ""
}

// pickUnique prefers a line nobody has said yet this round.
func (a *Agent) pickUnique(candidates []string, used map[string]bool) string {
	var fresh []string
	for _, c := range candidates {
		if !used[c] {
			fresh = append(fresh, c)
		}
	}
	if len(fresh) == 0 {
		fresh = candidates
	}
	return game.Choice(a.rng, fresh)
}

func utterances(debate []string) map[string]bool {
	used := map[string]bool{}
	for _, line := range debate {
		_, speech, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if speech = strings.TrimSpace(speech); speech != "" {
			used[speech] = true
		}
	}
	return used
}
