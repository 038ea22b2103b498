package experiments

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"werewolf/game"
)

// seatStreamStride spreads the per-game seat streams of one shuffle seed apart.
const seatStreamStride = 1000003

// ParseRoleWeights turns "werewolf=3,seer=3,..." into a schedule listing each
// role as many times as weighted, in role order. The weights must add up to
// total. An empty text yields an empty schedule.
func ParseRoleWeights(text string, total int) ([]game.Role, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	weights := map[game.Role]int{}
	for _, part := range strings.Split(text, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		name, count, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: invalid role weight %q", game.ErrConfig, part)
		}
		role, ok := game.ParseRole(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q in role weights", game.ErrConfig, strings.TrimSpace(name))
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid count for %s: %v", game.ErrConfig, role, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: negative count for %s", game.ErrConfig, role)
		}
		weights[role] = n
	}

	sum := 0
	for _, n := range weights {
		sum += n
	}
	if sum != total {
		return nil, fmt.Errorf("%w: role weights total %d, want %d games", game.ErrConfig, sum, total)
	}

	var schedule []game.Role
	for _, role := range game.Roles {
		for i := 0; i < weights[role]; i++ {
			schedule = append(schedule, role)
		}
	}
	return schedule, nil
}

// RoleSchedule decides which role the evaluated seat plays in each game, before
// shuffling. Without weights 40 and 12 games split evenly across roles and any
// other count cycles through them.
func RoleSchedule(total int, weights string) ([]game.Role, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: need at least one game, got %d", game.ErrConfig, total)
	}
	schedule, err := ParseRoleWeights(weights, total)
	if err != nil || len(schedule) > 0 {
		return schedule, err
	}

	switch total {
	case 40, 12:
		per := total / len(game.Roles)
		for _, role := range game.Roles {
			for i := 0; i < per; i++ {
				schedule = append(schedule, role)
			}
		}
	default:
		for i := 0; i < total; i++ {
			schedule = append(schedule, game.Roles[i%len(game.Roles)])
		}
	}
	return schedule, nil
}

// ShuffleSchedule shuffles schedule in place with a stream seeded by shuffleSeed.
func ShuffleSchedule(schedule []game.Role, shuffleSeed int64) {
	rng := game.NewStream(shuffleSeed)
	rng.Shuffle(len(schedule), func(i, j int) {
		schedule[i], schedule[j] = schedule[j], schedule[i]
	})
}

// Seeds returns count game seeds: the head of explicit when given, otherwise
// consecutive seeds from start.
func Seeds(explicit []int64, count int, start int64) ([]int64, error) {
	if len(explicit) > 0 {
		if len(explicit) < count {
			return nil, fmt.Errorf("%w: %d seeds for %d games", game.ErrConfig, len(explicit), count)
		}
		return slices.Clone(explicit[:count]), nil
	}
	seeds := make([]int64, count)
	for i := range seeds {
		seeds[i] = start + int64(i)
	}
	return seeds, nil
}

// PickSeat chooses the evaluated seat among the holders of role, sorted by name,
// with a stream derived from the run's shuffle seed and the game seed.
func PickSeat(roles map[string]game.Role, role game.Role, shuffleSeed, seed int64) (string, error) {
	var holders []string
	for name, r := range roles {
		if r == role {
			holders = append(holders, name)
		}
	}
	if len(holders) == 0 {
		return "", fmt.Errorf("%w: no seat holds %s", game.ErrConfig, role)
	}
	slices.Sort(holders)
	return game.Choice(game.NewStream(shuffleSeed*seatStreamStride+seed), holders), nil
}
