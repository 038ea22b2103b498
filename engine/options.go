package engine

import (
	"strings"

	"werewolf/belief"
	"werewolf/communication"
	"werewolf/experiments/metrics"
	"werewolf/game"
)

type Option func(g *Game)

// WithTransport seats remote agents behind transport. With neither seats nor
// roles given every seat is remote, otherwise only the listed seats and the
// holders of the listed roles are.
func WithTransport(transport communication.Transport, seats []string, roles []game.Role) Option {
	return func(g *Game) {
		g.transport = transport
		g.remoteSeats = map[string]bool{}
		for _, s := range seats {
			g.remoteSeats[s] = true
		}
		g.remoteRoles = map[string]bool{}
		for _, r := range roles {
			g.remoteRoles[strings.ToLower(string(r))] = true
		}
	}
}

// WithLexicon sets the phrase sets of every baseline seat.
func WithLexicon(lex belief.Lexicon) Option {
	return func(g *Game) {
		g.lexicon = &lex
	}
}

// WithMetrics reports the game to c.
func WithMetrics(c metrics.Collector) Option {
	return func(g *Game) {
		g.collector = c
	}
}
