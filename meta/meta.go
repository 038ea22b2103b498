// meta/meta.go
package meta

import "time"

// MAX_ROUNDS caps the number of night/day rounds before a game times out.
const MAX_ROUNDS = 10

// MAX_TURNS caps the number of speakers per debate.
const MAX_TURNS = 8

// NUM_GAMES is the default length of a benchmark run.
const NUM_GAMES = 40

// SEED_START is the seed of the first benchmark game.
const SEED_START = 1000

// SHUFFLE_SEED seeds the role schedule and seat picks of a benchmark run.
const SHUFFLE_SEED = 20206

// A2A_TIMEOUT bounds a single remote agent call.
const A2A_TIMEOUT = 30 * time.Second

// BRIDGE_ADDR is where the observation bridge listens.
const BRIDGE_ADDR = ":8080"

// PLAYERS is the default roster.
var PLAYERS = []string{"Derek", "Scott", "Jacob", "Isaac", "Hayley", "David", "Tyler", "Ginger"}
