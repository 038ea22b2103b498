package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"werewolf/agent"
	"werewolf/belief"
	"werewolf/communication"
	"werewolf/experiments/metrics"
	"werewolf/game"
)

// Game is one self-contained game. It owns the shared stream and the alive set;
// agents only ever see copies.
type Game struct {
	cfg Config
	rng *game.Stream

	roles  map[string]game.Role
	agents map[string]agent.Agent
	alive  map[string]bool
	round  int

	// seerChecks is the seer's inspection history, replayed in its private payload.
	seerChecks []game.SeerCheck

	transport   communication.Transport
	remoteSeats map[string]bool
	remoteRoles map[string]bool
	lexicon     *belief.Lexicon
	collector   metrics.Collector
	metric      metrics.GameMetric
}

var _ Engine = (*Game)(nil)

// New deals roles from the game's own stream and seats one agent per player.
func New(cfg Config, options ...Option) (*Game, error) {
	if err := game.CheckRoster(cfg.Players); err != nil {
		return nil, err
	}
	if cfg.MaxRounds <= 0 {
		return nil, fmt.Errorf("%w: max rounds must be positive, got %d", game.ErrConfig, cfg.MaxRounds)
	}
	if cfg.MaxTurns <= 0 {
		return nil, fmt.Errorf("%w: max turns must be positive, got %d", game.ErrConfig, cfg.MaxTurns)
	}

	g := &Game{
		cfg:       Config{Seed: cfg.Seed, Players: slices.Clone(cfg.Players), MaxRounds: cfg.MaxRounds, MaxTurns: cfg.MaxTurns},
		rng:       game.NewStream(cfg.Seed),
		agents:    make(map[string]agent.Agent, len(cfg.Players)),
		alive:     make(map[string]bool, len(cfg.Players)),
		collector: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(g)
	}

	roles, err := game.AssignRolesFrom(g.cfg.Players, g.rng)
	if err != nil {
		return nil, err
	}
	g.roles = roles

	for _, name := range g.cfg.Players {
		spec := agent.Spec{
			Kind:    agent.Heuristic,
			Name:    name,
			Role:    roles[name],
			Seed:    cfg.Seed,
			Lexicon: g.lexicon,
		}
		if g.isRemote(name) {
			spec.Kind = agent.Remote
			spec.Transport = g.transport
		}
		a, err := agent.New(spec)
		if err != nil {
			return nil, err
		}
		g.agents[name] = a
		g.alive[name] = true
	}
	return g, nil
}

func (g *Game) isRemote(name string) bool {
	if g.transport == nil {
		return false
	}
	if len(g.remoteSeats) == 0 && len(g.remoteRoles) == 0 {
		return true
	}
	return g.remoteSeats[name] || g.remoteRoles[strings.ToLower(string(g.roles[name]))]
}

// Roles returns a copy of the dealt roles.
func (g *Game) Roles() map[string]game.Role {
	roles := make(map[string]game.Role, len(g.roles))
	for name, role := range g.roles {
		roles[name] = role
	}
	return roles
}

// Run plays rounds of night, debate and vote until a side wins or the round
// limit is reached. A transport error aborts the game and is returned as is.
func (g *Game) Run(ctx context.Context) (*game.Log, error) {
	g.collector.Start(g.cfg.Seed)
	record := &game.Log{
		Seed:   g.cfg.Seed,
		Roles:  g.Roles(),
		Rounds: []game.Round{},
	}

	log.Debug().Msgf("game %d: roles %v", g.cfg.Seed, g.roles)

	for g.round = 0; g.round < g.cfg.MaxRounds; g.round++ {
		round := game.Round{
			Round:   g.round,
			Players: g.alivePlayers(),
			Debate:  []game.Utterance{},
		}

		night, err := g.night(ctx)
		if err != nil {
			return nil, fmt.Errorf("round %d night: %w", g.round, err)
		}
		round.Night = night
		if winner := g.winner(); winner != "" {
			return g.finish(record, round, winner), nil
		}

		debate, err := g.debate(ctx)
		if err != nil {
			return nil, fmt.Errorf("round %d debate: %w", g.round, err)
		}
		round.Debate = debate

		votes, err := g.vote(ctx, debate)
		if err != nil {
			return nil, fmt.Errorf("round %d vote: %w", g.round, err)
		}
		round.Votes = votes

		if winner := g.winner(); winner != "" {
			return g.finish(record, round, winner), nil
		}
		record.Rounds = append(record.Rounds, round)
		g.collector.AddRound()
	}

	record.Winner = game.Timeout
	record.Survivors = g.alivePlayers()
	g.complete(record)
	return record, nil
}

func (g *Game) finish(record *game.Log, round game.Round, winner game.Winner) *game.Log {
	record.Rounds = append(record.Rounds, round)
	g.collector.AddRound()
	record.Winner = winner
	record.Survivors = g.alivePlayers()
	g.complete(record)
	return record
}

func (g *Game) complete(record *game.Log) {
	g.metric = g.collector.Complete(string(record.Winner))
	log.Info().Msgf("game %d finished: %s after %d rounds, survivors %v", g.cfg.Seed, record.Winner, len(record.Rounds), record.Survivors)
	log.Debug().Msgf("game %d took %s with %d repairs", g.cfg.Seed, g.metric.Duration, g.metric.Repairs)
}

// Metric is what the collector reported when the game finished. It is zero
// before Run returns.
func (g *Game) Metric() metrics.GameMetric {
	return g.metric
}

func (g *Game) night(ctx context.Context) (*game.Night, error) {
	alive := g.alivePlayers()
	wolves := g.livingWolves()
	graveyard := g.graveyard()
	night := &game.Night{}

	var victim string
	if len(wolves) > 0 {
		controller := slices.Min(wolves)
		obs := g.observe(controller, game.PhaseNight, alive, graveyard, nil)
		action, err := g.agents[controller].NightPower(ctx, obs)
		if err != nil {
			return nil, fmt.Errorf("werewolf %s: %w", controller, err)
		}
		victim = game.NormalizeTarget(action, alive).Target
		if !slices.Contains(alive, victim) || g.roles[victim] == game.Werewolf {
			var choices []string
			for _, p := range alive {
				if g.roles[p] != game.Werewolf {
					choices = append(choices, p)
				}
			}
			log.Warn().Str("seat", controller).Msgf("unusable wolf target %q, drawing a victim", action.Target)
			victim = game.Choice(g.rng, choices)
			g.collector.AddFallback()
		}
		night.Wolves = game.Optional(victim)
	}

	var protected string
	if doctor := g.firstAlive(alive, game.Doctor); doctor != "" {
		action, err := g.act(ctx, doctor, game.PhaseNight, alive, graveyard, nil)
		if err != nil {
			return nil, err
		}
		protected = action.Target
		night.Doctor = game.Optional(protected)
	}

	if seer := g.firstAlive(alive, game.Seer); seer != "" {
		action, err := g.act(ctx, seer, game.PhaseNight, alive, graveyard, nil)
		if err != nil {
			return nil, err
		}
		if target := action.Target; target != "" {
			reveal := g.roles[target]
			g.agents[seer].UpdateSeerInspection(target, reveal)
			g.seerChecks = append(g.seerChecks, game.SeerCheck{Target: target, Role: reveal})
			night.SeerTarget = game.Optional(target)
			night.SeerReveal = &reveal
		}
	}

	if victim != "" && victim != protected {
		g.kill(victim)
		log.Debug().Msgf("game %d round %d: %s killed at night", g.cfg.Seed, g.round, victim)
	}
	return night, nil
}

func (g *Game) debate(ctx context.Context) ([]game.Utterance, error) {
	alive := g.alivePlayers()
	graveyard := g.graveyard()
	speakers := game.Sample(g.rng, alive, min(g.cfg.MaxTurns, len(alive)))

	debate := []game.Utterance{}
	var transcript []string
	for _, speaker := range speakers {
		action, err := g.act(ctx, speaker, game.PhaseDay, alive, graveyard, transcript)
		if err != nil {
			return nil, err
		}
		debate = append(debate, game.Utterance{Speaker: speaker, Text: action.Content})
		transcript = append(transcript, game.DebateLine(speaker, action.Content))
	}
	return debate, nil
}

func (g *Game) vote(ctx context.Context, debate []game.Utterance) (game.Ballots, error) {
	alive := g.alivePlayers()
	graveyard := g.graveyard()
	transcript := make([]string, len(debate))
	for i, u := range debate {
		transcript[i] = game.DebateLine(u.Speaker, u.Text)
	}

	ballots := make(game.Ballots, 0, len(alive))
	for _, voter := range alive {
		obs := g.observe(voter, game.PhaseDayVote, alive, graveyard, transcript)
		action, err := g.agents[voter].Vote(ctx, obs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", voter, err)
		}
		target := ""
		if action.Type != game.ActionNoop && strings.TrimSpace(action.Target) != "" {
			target = g.repair(voter, action, game.PhaseDayVote, alive).Target
		}
		ballots = append(ballots, game.Ballot{Voter: voter, Target: target})
	}

	if chosen := game.MajorityVote(ballots, g.rng); chosen != "" {
		g.kill(chosen)
		log.Debug().Msgf("game %d round %d: %s voted out", g.cfg.Seed, g.round, chosen)
	}
	return ballots, nil
}

// act asks seat for a phase action and repairs it.
func (g *Game) act(ctx context.Context, seat string, phase game.Phase, alive, graveyard, transcript []string) (game.Action, error) {
	obs := g.observe(seat, phase, alive, graveyard, transcript)
	a := g.agents[seat]

	var action game.Action
	var err error
	switch phase {
	case game.PhaseDay:
		action, err = a.Speak(ctx, obs)
	case game.PhaseDayVote:
		action, err = a.Vote(ctx, obs)
	default:
		action, err = a.NightPower(ctx, obs)
	}
	if err != nil {
		return game.Action{}, fmt.Errorf("%s: %w", seat, err)
	}
	return g.repair(seat, action, phase, alive), nil
}

func (g *Game) repair(seat string, action game.Action, phase game.Phase, alive []string) game.Action {
	repaired, violation := game.Repair(action, phase, alive, seat)
	if violation != nil {
		g.collector.AddRepair()
		log.Debug().Str("seat", seat).Str("phase", string(phase)).Err(violation).Msg("repaired agent action")
	}
	return repaired
}

func (g *Game) observe(seat string, phase game.Phase, alive, graveyard, transcript []string) game.Observation {
	return game.BuildObservation(game.Observation{
		Round:            g.round,
		Phase:            phase,
		Role:             g.roles[seat],
		Name:             seat,
		Seed:             g.cfg.Seed,
		RemainingPlayers: alive,
		Graveyard:        graveyard,
		PublicDebate:     transcript,
		Private:          g.private(seat),
	})
}

func (g *Game) private(seat string) game.Private {
	switch g.roles[seat] {
	case game.Werewolf:
		return game.Private{Wolves: g.livingWolves()}
	case game.Seer:
		return game.Private{SeerChecks: g.seerChecks}
	}
	return game.Private{}
}

func (g *Game) winner() game.Winner {
	wolves := len(g.livingWolves())
	others := len(g.alivePlayers()) - wolves
	switch {
	case wolves == 0:
		return game.VillagersWin
	case wolves >= others:
		return game.WerewolvesWin
	}
	return ""
}

func (g *Game) kill(name string) {
	g.alive[name] = false
	g.agents[name].MarkDead()
}

// alivePlayers lists living players in roster order.
func (g *Game) alivePlayers() []string {
	out := []string{}
	for _, name := range g.cfg.Players {
		if g.alive[name] {
			out = append(out, name)
		}
	}
	return out
}

func (g *Game) graveyard() []string {
	out := []string{}
	for _, name := range g.cfg.Players {
		if !g.alive[name] {
			out = append(out, name)
		}
	}
	return out
}

func (g *Game) livingWolves() []string {
	var out []string
	for _, name := range g.alivePlayers() {
		if g.roles[name] == game.Werewolf {
			out = append(out, name)
		}
	}
	return out
}

func (g *Game) firstAlive(alive []string, role game.Role) string {
	for _, name := range alive {
		if g.roles[name] == role {
			return name
		}
	}
	return ""
}
