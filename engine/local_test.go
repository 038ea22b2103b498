package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"werewolf/communication"
	"werewolf/communication/client"
	"werewolf/experiments/metrics"
	"werewolf/game"
)

var players = []string{"Derek", "Scott", "Jacob", "Isaac", "Hayley", "David", "Tyler", "Ginger"}

func defaultConfig(seed int64) Config {
	return Config{Seed: seed, Players: players, MaxRounds: 10, MaxTurns: 8}
}

func play(t *testing.T, cfg Config, options ...Option) *game.Log {
	t.Helper()
	g, err := New(cfg, options...)
	require.NoError(t, err)
	record, err := g.Run(context.Background())
	require.NoError(t, err)
	return record
}

func TestNewRejectsBadConfig(t *testing.T) {
	cases := map[string]Config{
		"too few players":  {Seed: 1, Players: players[:3], MaxRounds: 10, MaxTurns: 8},
		"duplicate player": {Seed: 1, Players: []string{"A", "B", "C", "A"}, MaxRounds: 10, MaxTurns: 8},
		"no rounds":        {Seed: 1, Players: players, MaxRounds: 0, MaxTurns: 8},
		"no turns":         {Seed: 1, Players: players, MaxRounds: 10, MaxTurns: 0},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(cfg)
			require.ErrorIs(t, err, game.ErrConfig)
		})
	}
}

func TestRoleShuffleIsFirstDraw(t *testing.T) {
	for _, seed := range []int64{1, 123, 20206} {
		g, err := New(defaultConfig(seed))
		require.NoError(t, err)
		want, err := game.AssignRoles(players, seed)
		require.NoError(t, err)
		require.Equal(t, want, g.Roles(), "seed %d", seed)
	}
}

func TestRunEndToEnd(t *testing.T) {
	record := play(t, defaultConfig(123))

	require.Contains(t, []game.Winner{game.VillagersWin, game.WerewolvesWin, game.Timeout}, record.Winner)
	require.NotEmpty(t, record.Rounds)
	require.LessOrEqual(t, len(record.Rounds), 10)
	require.Len(t, record.Roles, len(players))
	for _, s := range record.Survivors {
		require.Contains(t, players, s)
	}

	for i, round := range record.Rounds {
		require.Equal(t, i, round.Round)
		require.NotNil(t, round.Night)

		speakers := map[string]bool{}
		for _, u := range round.Debate {
			require.Contains(t, round.Players, u.Speaker)
			require.False(t, speakers[u.Speaker], "%s spoke twice in round %d", u.Speaker, i)
			speakers[u.Speaker] = true
		}
		require.LessOrEqual(t, len(round.Debate), 8)

		for _, b := range round.Votes {
			require.Contains(t, round.Players, b.Voter)
			if b.Target != "" {
				require.Contains(t, round.Players, b.Target)
			}
		}
		if i > 0 {
			prev := record.Rounds[i-1].Players
			for _, p := range round.Players {
				require.Contains(t, prev, p, "alive set only shrinks")
			}
		}
	}

	wolves := 0
	for _, s := range record.Survivors {
		if record.Roles[s] == game.Werewolf {
			wolves++
		}
	}
	switch record.Winner {
	case game.VillagersWin:
		require.Zero(t, wolves)
	case game.WerewolvesWin:
		require.GreaterOrEqual(t, wolves, len(record.Survivors)-wolves)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	for _, seed := range []int64{7, 123, 1000, 1001} {
		first, err := json.Marshal(play(t, defaultConfig(seed)))
		require.NoError(t, err)
		second, err := json.Marshal(play(t, defaultConfig(seed)))
		require.NoError(t, err)
		require.JSONEq(t, string(first), string(second), "seed %d", seed)
	}
}

func TestTransportErrorAbortsGame(t *testing.T) {
	transport := communication.TransportFunc(func(context.Context, game.Observation) (game.Action, error) {
		return game.Action{}, fmt.Errorf("%w: connection refused", client.ErrTransport)
	})
	g, err := New(defaultConfig(123), WithTransport(transport, []string{"Derek"}, nil))
	require.NoError(t, err)

	record, err := g.Run(context.Background())
	require.ErrorIs(t, err, client.ErrTransport)
	require.Nil(t, record)
	require.Contains(t, err.Error(), "Derek")
}

func TestRemoteNoiseIsRepaired(t *testing.T) {
	transport := communication.TransportFunc(func(context.Context, game.Observation) (game.Action, error) {
		return game.Action{Type: "dance"}, nil
	})
	g, err := New(defaultConfig(123), WithTransport(transport, nil, nil), WithMetrics(metrics.NewCollector()))
	require.NoError(t, err)
	record, err := g.Run(context.Background())
	require.NoError(t, err)

	for _, round := range record.Rounds {
		for _, u := range round.Debate {
			require.Empty(t, u.Text)
		}
		for _, b := range round.Votes {
			require.Empty(t, b.Target, "a vote without a target abstains")
		}
	}

	m := g.Metric()
	require.Equal(t, len(record.Rounds), m.Rounds)
	require.Positive(t, m.Repairs)
	require.Positive(t, m.Fallbacks, "every wolf choice is unusable")
}

func TestRemoteSeatsByRole(t *testing.T) {
	var seen []game.Observation
	nights := 0
	transport := communication.TransportFunc(func(_ context.Context, obs game.Observation) (game.Action, error) {
		seen = append(seen, obs)
		switch obs.Phase {
		case game.PhaseNight:
			require.Len(t, obs.Private.SeerChecks, nights, "the seer sees every earlier inspection")
			nights++
			for _, p := range obs.RemainingPlayers {
				if p != obs.Name {
					return game.NightPower(p), nil
				}
			}
		case game.PhaseDayVote:
			return game.Action{Type: game.ActionNoop}, nil
		}
		return game.Speak("I have nothing to add."), nil
	})

	record := play(t, defaultConfig(123), WithTransport(transport, nil, []game.Role{game.Seer}))

	require.NotEmpty(t, seen)
	for _, obs := range seen {
		require.Equal(t, game.Seer, obs.Role)
		require.Equal(t, game.Seer, record.Roles[obs.Name])
		require.Empty(t, obs.Private.Wolves)
	}
	for _, round := range record.Rounds {
		for _, b := range round.Votes {
			if record.Roles[b.Voter] == game.Seer {
				require.Empty(t, b.Target, "noop votes abstain")
			}
		}
		if round.Night.SeerTarget != nil {
			require.Equal(t, record.Roles[*round.Night.SeerTarget], *round.Night.SeerReveal)
		}
	}
}

func TestWolvesSeeTheirPack(t *testing.T) {
	var packs [][]string
	transport := communication.TransportFunc(func(_ context.Context, obs game.Observation) (game.Action, error) {
		packs = append(packs, obs.Private.Wolves)
		return game.Speak("quiet night"), nil
	})
	record := play(t, defaultConfig(123), WithTransport(transport, nil, []game.Role{game.Werewolf}))

	var wolves []string
	for _, p := range players {
		if record.Roles[p] == game.Werewolf {
			wolves = append(wolves, p)
		}
	}
	require.NotEmpty(t, packs)
	for _, pack := range packs {
		require.NotEmpty(t, pack)
		for _, w := range pack {
			require.True(t, slices.Contains(wolves, w))
		}
	}
}

func TestNightRules(t *testing.T) {
	noop := game.Action{Type: game.ActionNoop}

	t.Run("doctor saves the wolves' victim until the round limit", func(t *testing.T) {
		var victim string
		transport := communication.TransportFunc(func(_ context.Context, obs game.Observation) (game.Action, error) {
			switch obs.Phase {
			case game.PhaseNight:
				switch obs.Role {
				case game.Werewolf:
					for _, p := range obs.RemainingPlayers {
						if !slices.Contains(obs.Private.Wolves, p) {
							victim = p
							return game.NightPower(p), nil
						}
					}
				case game.Doctor:
					return game.NightPower(victim), nil
				}
				return noop, nil
			case game.PhaseDayVote:
				return noop, nil
			}
			return game.Speak("nothing yet"), nil
		})
		cfg := defaultConfig(123)
		cfg.MaxRounds = 3
		record := play(t, cfg, WithTransport(transport, nil, nil))

		require.Equal(t, game.Timeout, record.Winner)
		require.Len(t, record.Rounds, 3)
		require.Equal(t, players, record.Survivors)
		for _, round := range record.Rounds {
			require.NotNil(t, round.Night.Wolves)
			require.Equal(t, round.Night.Wolves, round.Night.Doctor)
			require.Equal(t, players, round.Players)
		}
	})

	t.Run("a wolf aiming at its pack kills a drawn villager and nights can end the game", func(t *testing.T) {
		transport := communication.TransportFunc(func(_ context.Context, obs game.Observation) (game.Action, error) {
			switch obs.Phase {
			case game.PhaseNight:
				if obs.Role == game.Werewolf {
					for _, w := range obs.Private.Wolves {
						if w != obs.Name {
							return game.NightPower(w), nil
						}
					}
				}
				return noop, nil
			case game.PhaseDayVote:
				return noop, nil
			}
			return game.Speak("nothing yet"), nil
		})
		g, err := New(defaultConfig(123), WithTransport(transport, nil, nil), WithMetrics(metrics.NewCollector()))
		require.NoError(t, err)
		record, err := g.Run(context.Background())
		require.NoError(t, err)

		// Six non-wolves fall one per night; the fourth night leaves two against two.
		require.Equal(t, game.WerewolvesWin, record.Winner)
		require.Len(t, record.Rounds, 4)
		for i, round := range record.Rounds {
			require.NotNil(t, round.Night.Wolves)
			victim := *round.Night.Wolves
			require.Contains(t, round.Players, victim)
			require.NotEqual(t, game.Werewolf, record.Roles[victim])
			require.Nil(t, round.Night.Doctor)
			if i+1 < len(record.Rounds) {
				require.NotContains(t, record.Rounds[i+1].Players, victim)
			}
		}

		last := record.Rounds[len(record.Rounds)-1]
		require.Empty(t, last.Debate)
		require.Empty(t, last.Votes)
		require.NotContains(t, record.Survivors, *last.Night.Wolves)
		require.Len(t, record.Survivors, 4)

		m := g.Metric()
		require.Equal(t, 4, m.Fallbacks)
		require.Equal(t, 4, m.Rounds)
		require.Equal(t, string(game.WerewolvesWin), m.Winner)
		require.Equal(t, int64(123), m.Seed)
	})
}
