package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	alive := []string{"Derek", "Scott", "Jacob"}

	t.Run("speak during day_vote is rejected", func(t *testing.T) {
		err := Validate(Action{Type: ActionSpeak}, PhaseDayVote, alive)
		require.Error(t, err)
		require.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("day requires non-empty content", func(t *testing.T) {
		require.Error(t, Validate(Speak(""), PhaseDay, alive))
		require.NoError(t, Validate(Speak("hello"), PhaseDay, alive))
	})

	t.Run("vote target must be alive", func(t *testing.T) {
		require.NoError(t, Validate(Vote("Scott"), PhaseDayVote, alive))
		require.Error(t, Validate(Vote("Ginger"), PhaseDayVote, alive))
		require.Error(t, Validate(Vote(""), PhaseDayVote, alive))
	})

	t.Run("night requires night_power with alive target", func(t *testing.T) {
		require.NoError(t, Validate(NightPower("Jacob"), PhaseNight, alive))
		require.Error(t, Validate(NightPower("Ginger"), PhaseNight, alive))
		require.Error(t, Validate(Vote("Jacob"), PhaseNight, alive))
	})

	t.Run("noop is only legal at night", func(t *testing.T) {
		noop := Action{Type: ActionNoop}
		require.NoError(t, Validate(noop, PhaseNight, alive))
		require.Error(t, Validate(noop, PhaseDay, alive))
		require.Error(t, Validate(noop, PhaseDayVote, alive))
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		require.Error(t, Validate(Action{Type: "dance", Target: "Scott"}, PhaseNight, alive))
	})
}

func TestNormalizeTarget(t *testing.T) {
	alive := []string{"Derek", "Scott"}

	t.Run("rewrites case-insensitive match", func(t *testing.T) {
		got := NormalizeTarget(Action{Type: ActionVote, Target: "derek"}, alive)
		require.Equal(t, "Derek", got.Target)
	})

	t.Run("trims whitespace before matching", func(t *testing.T) {
		got := NormalizeTarget(Action{Type: ActionVote, Target: "  SCOTT "}, alive)
		require.Equal(t, "Scott", got.Target)
	})

	t.Run("leaves unknown targets unchanged", func(t *testing.T) {
		got := NormalizeTarget(Action{Type: ActionVote, Target: "Ginger"}, alive)
		require.Equal(t, "Ginger", got.Target)
	})

	t.Run("keeps content and type", func(t *testing.T) {
		got := NormalizeTarget(Action{Type: ActionNightPower, Content: "x", Target: "scott"}, alive)
		require.Equal(t, Action{Type: ActionNightPower, Content: "x", Target: "Scott"}, got)
	})
}

func TestCoerceTarget(t *testing.T) {
	t.Run("falls back to first alive player other than self", func(t *testing.T) {
		got := CoerceTarget(Vote("Nobody"), []string{"Derek", "Scott"}, "Derek")
		require.Equal(t, "Scott", got.Target)
	})

	t.Run("falls back to self when alone", func(t *testing.T) {
		got := CoerceTarget(Vote("Nobody"), []string{"Derek"}, "Derek")
		require.Equal(t, "Derek", got.Target)
	})

	t.Run("keeps legal target", func(t *testing.T) {
		got := CoerceTarget(Vote("Derek"), []string{"Derek", "Scott"}, "Scott")
		require.Equal(t, "Derek", got.Target)
	})
}

func TestRepair(t *testing.T) {
	alive := []string{"Derek", "Scott", "Jacob"}

	t.Run("valid action passes through", func(t *testing.T) {
		got, violation := Repair(Vote("jacob"), PhaseDayVote, alive, "Derek")
		require.NoError(t, violation)
		require.Equal(t, Vote("Jacob"), got)
	})

	t.Run("wrong type at vote is coerced into a legal vote", func(t *testing.T) {
		got, violation := Repair(Action{Type: ActionSpeak, Content: "hm"}, PhaseDayVote, alive, "Derek")
		require.ErrorIs(t, violation, ErrInvalidAction)
		require.Equal(t, ActionVote, got.Type)
		require.Equal(t, "Scott", got.Target)
		require.NoError(t, Validate(got, PhaseDayVote, alive))
	})

	t.Run("unknown night target is coerced", func(t *testing.T) {
		got, violation := Repair(NightPower("Ghost"), PhaseNight, alive, "Scott")
		require.Error(t, violation)
		require.Equal(t, NightPower("Derek"), got)
	})

	t.Run("empty speech is kept as empty speech", func(t *testing.T) {
		got, violation := Repair(Action{Type: ActionVote, Target: "Derek"}, PhaseDay, alive, "Scott")
		require.Error(t, violation)
		require.Equal(t, Speak(""), got)
	})
}
