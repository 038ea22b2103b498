package game

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/rand"
)

// MinPlayers is the smallest roster that holds every role once plus a second wolf.
const MinPlayers = 4

// Stream is the seeded random source a game consumes.
//
// A game owns exactly one Stream and draws from it in a fixed order:
//
//  1. the role shuffle,
//  2. then per round: the wolf target fallback (only when the controller's choice is
//     unusable), the debate speaker sample, and the vote tie-break (only on a tie).
//
// Replays depend on this order. Anything else random (agent phrasing, for example)
// must use its own Stream.
type Stream = rand.Rand

// NewStream returns a PCG-backed stream for seed.
func NewStream(seed int64) *Stream {
	return rand.New(rand.NewSource(uint64(seed)))
}

// AssignRoles deals roles for players from a fresh stream seeded with seed.
// It equals the first draw a game with the same seed makes on its own stream.
func AssignRoles(players []string, seed int64) (map[string]Role, error) {
	return AssignRolesFrom(players, NewStream(seed))
}

// AssignRolesFrom shuffles a copy of players with rng and deals two werewolves,
// a seer, a doctor and villagers for the rest, in shuffled order.
func AssignRolesFrom(players []string, rng *Stream) (map[string]Role, error) {
	if err := CheckRoster(players); err != nil {
		return nil, err
	}
	names := slices.Clone(players)
	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})

	roles := make(map[string]Role, len(names))
	for i, name := range names {
		switch {
		case i < 2:
			roles[name] = Werewolf
		case i == 2:
			roles[name] = Seer
		case i == 3:
			roles[name] = Doctor
		default:
			roles[name] = Villager
		}
	}
	return roles, nil
}

// CheckRoster rejects rosters a game cannot be dealt from.
func CheckRoster(players []string) error {
	if len(players) < MinPlayers {
		return fmt.Errorf("%w: need at least %d players, got %d", ErrConfig, MinPlayers, len(players))
	}
	seen := make(map[string]bool, len(players))
	for _, name := range players {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: blank player name", ErrConfig)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate player %q", ErrConfig, name)
		}
		seen[name] = true
	}
	return nil
}

// Sample draws k distinct elements of pool in draw order (partial Fisher-Yates).
// pool is not modified.
func Sample(rng *Stream, pool []string, k int) []string {
	k = min(k, len(pool))
	if k <= 0 {
		return []string{}
	}
	work := slices.Clone(pool)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:k]
}

// Choice picks one element of pool uniformly, or "" for an empty pool
// without consuming rng.
func Choice(rng *Stream, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}
