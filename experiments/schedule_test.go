package experiments

import (
	"testing"

	"github.com/stretchr/testify/require"

	"werewolf/game"
)

func countRoles(schedule []game.Role) map[game.Role]int {
	counts := map[game.Role]int{}
	for _, r := range schedule {
		counts[r]++
	}
	return counts
}

func TestParseRoleWeights(t *testing.T) {
	t.Run("expands weights in role order", func(t *testing.T) {
		schedule, err := ParseRoleWeights("villager=1, Seer=2,doctor=0,werewolf=1", 4)
		require.NoError(t, err)
		require.Equal(t, []game.Role{game.Werewolf, game.Seer, game.Seer, game.Villager}, schedule)
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		schedule, err := ParseRoleWeights("  ", 12)
		require.NoError(t, err)
		require.Empty(t, schedule)
	})

	cases := map[string]string{
		"total mismatch": "werewolf=3,seer=3",
		"unknown role":   "werewolf=3,seer=3,doctor=3,mayor=3",
		"missing count":  "werewolf",
		"negative count": "werewolf=-1,seer=13",
		"not a number":   "werewolf=x,seer=12",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRoleWeights(text, 12)
			require.ErrorIs(t, err, game.ErrConfig)
		})
	}
}

func TestRoleSchedule(t *testing.T) {
	t.Run("forty games split evenly", func(t *testing.T) {
		schedule, err := RoleSchedule(40, "")
		require.NoError(t, err)
		require.Len(t, schedule, 40)
		for _, role := range game.Roles {
			require.Equal(t, 10, countRoles(schedule)[role])
		}
	})

	t.Run("twelve games split evenly", func(t *testing.T) {
		schedule, err := RoleSchedule(12, "")
		require.NoError(t, err)
		for _, role := range game.Roles {
			require.Equal(t, 3, countRoles(schedule)[role])
		}
	})

	t.Run("other counts cycle through roles", func(t *testing.T) {
		schedule, err := RoleSchedule(6, "")
		require.NoError(t, err)
		require.Equal(t, []game.Role{game.Werewolf, game.Seer, game.Doctor, game.Villager, game.Werewolf, game.Seer}, schedule)
	})

	t.Run("weights take precedence", func(t *testing.T) {
		schedule, err := RoleSchedule(2, "seer=2")
		require.NoError(t, err)
		require.Equal(t, []game.Role{game.Seer, game.Seer}, schedule)
	})

	t.Run("zero games is a configuration error", func(t *testing.T) {
		_, err := RoleSchedule(0, "")
		require.ErrorIs(t, err, game.ErrConfig)
	})
}

func TestShuffleSchedule(t *testing.T) {
	first, err := RoleSchedule(40, "")
	require.NoError(t, err)
	second, err := RoleSchedule(40, "")
	require.NoError(t, err)

	ShuffleSchedule(first, 20206)
	ShuffleSchedule(second, 20206)
	require.Equal(t, first, second)
	require.Equal(t, 10, countRoles(first)[game.Doctor])
}

func TestSeeds(t *testing.T) {
	seeds, err := Seeds(nil, 3, 1000)
	require.NoError(t, err)
	require.Equal(t, []int64{1000, 1001, 1002}, seeds)

	seeds, err = Seeds([]int64{5, 9, 2, 7}, 2, 1000)
	require.NoError(t, err)
	require.Equal(t, []int64{5, 9}, seeds)

	_, err = Seeds([]int64{5}, 2, 1000)
	require.ErrorIs(t, err, game.ErrConfig)
}

func TestPickSeat(t *testing.T) {
	roles := map[string]game.Role{
		"Scott": game.Werewolf,
		"Derek": game.Werewolf,
		"Jacob": game.Seer,
		"Isaac": game.Doctor,
	}

	seat, err := PickSeat(roles, game.Werewolf, 20206, 1000)
	require.NoError(t, err)
	require.Contains(t, []string{"Derek", "Scott"}, seat)

	again, err := PickSeat(roles, game.Werewolf, 20206, 1000)
	require.NoError(t, err)
	require.Equal(t, seat, again)

	seat, err = PickSeat(roles, game.Seer, 20206, 1000)
	require.NoError(t, err)
	require.Equal(t, "Jacob", seat)

	_, err = PickSeat(roles, game.Villager, 20206, 1000)
	require.ErrorIs(t, err, game.ErrConfig)
}
