package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"werewolf/game"
	"werewolf/meta"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, meta.NUM_GAMES, cfg.NumGames)
	require.Equal(t, int64(meta.SHUFFLE_SEED), cfg.ShuffleSeed)
	require.Equal(t, int64(meta.SEED_START), cfg.SeedStart)
	require.Equal(t, meta.MAX_ROUNDS, cfg.MaxRounds)
	require.Equal(t, meta.MAX_TURNS, cfg.MaxTurns)
	require.Equal(t, meta.PLAYERS, cfg.Players)
	require.Equal(t, meta.A2A_TIMEOUT, cfg.AgentTimeout)
	require.Equal(t, meta.BRIDGE_ADDR, cfg.BridgeAddr)
	require.Equal(t, "info", cfg.LogLevel)
	require.Nil(t, cfg.Lexicon())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NUM_GAMES", "12")
	t.Setenv("SEEDS", "5,6,7")
	t.Setenv("PLAYERS", "A,B,C,D")
	t.Setenv("A2A_TIMEOUT", "2s")
	t.Setenv("A2A_ROLES", "seer,Werewolf")
	t.Setenv("WORD_BOUNDARY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 12, cfg.NumGames)
	require.Equal(t, []int64{5, 6, 7}, cfg.Seeds)
	require.Equal(t, []string{"A", "B", "C", "D"}, cfg.Players)
	require.Equal(t, 2*time.Second, cfg.AgentTimeout)

	roles, err := cfg.Roles()
	require.NoError(t, err)
	require.Equal(t, []game.Role{game.Seer, game.Werewolf}, roles)

	lex := cfg.Lexicon()
	require.NotNil(t, lex)
	require.True(t, lex.WordBoundary)
}

func TestLoadErrors(t *testing.T) {
	t.Run("malformed values", func(t *testing.T) {
		t.Setenv("NUM_GAMES", "many")
		_, err := Load()
		require.ErrorContains(t, err, "parse env:")
	})

	t.Run("zero games", func(t *testing.T) {
		t.Setenv("NUM_GAMES", "0")
		_, err := Load()
		require.ErrorIs(t, err, game.ErrConfig)
	})

	t.Run("short roster", func(t *testing.T) {
		t.Setenv("PLAYERS", "A,B,C")
		_, err := Load()
		require.ErrorIs(t, err, game.ErrConfig)
	})

	t.Run("unknown remote role", func(t *testing.T) {
		t.Setenv("A2A_ROLES", "mayor")
		_, err := Load()
		require.ErrorIs(t, err, game.ErrConfig)
	})
}
