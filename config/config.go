package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"werewolf/belief"
	"werewolf/game"
)

// Config is the run configuration read from the environment.
type Config struct {
	NumGames    int     `env:"NUM_GAMES" envDefault:"40"`
	ShuffleSeed int64   `env:"SHUFFLE_SEED" envDefault:"20206"`
	SeedStart   int64   `env:"SEED_START" envDefault:"1000"`
	Seeds       []int64 `env:"SEEDS" envSeparator:","`
	RoleWeights string  `env:"ROLE_WEIGHTS"`

	MaxRounds int      `env:"MAX_ROUNDS" envDefault:"10"`
	MaxTurns  int      `env:"MAX_TURNS" envDefault:"8"`
	Players   []string `env:"PLAYERS" envSeparator:"," envDefault:"Derek,Scott,Jacob,Isaac,Hayley,David,Tyler,Ginger"`

	AgentURL     string        `env:"PURPLE_AGENT_URL"`
	AgentTimeout time.Duration `env:"A2A_TIMEOUT" envDefault:"30s"`
	AgentSeats   []string      `env:"A2A_SEATS" envSeparator:","`
	AgentRoles   []string      `env:"A2A_ROLES" envSeparator:","`

	// WordBoundary switches player mentions to real word-boundary matching.
	WordBoundary bool `env:"WORD_BOUNDARY"`

	ResultsDB  string `env:"RESULTS_DB"`
	ResultsDir string `env:"RESULTS_DIR" envDefault:"results"`
	BridgeAddr string `env:"BRIDGE_ADDR" envDefault:":8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no game could start with.
func (c Config) Validate() error {
	if c.NumGames <= 0 {
		return fmt.Errorf("%w: NUM_GAMES must be positive, got %d", game.ErrConfig, c.NumGames)
	}
	if c.MaxRounds <= 0 {
		return fmt.Errorf("%w: MAX_ROUNDS must be positive, got %d", game.ErrConfig, c.MaxRounds)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("%w: MAX_TURNS must be positive, got %d", game.ErrConfig, c.MaxTurns)
	}
	if err := game.CheckRoster(c.Players); err != nil {
		return err
	}
	_, err := c.Roles()
	return err
}

// Roles parses AgentRoles.
func (c Config) Roles() ([]game.Role, error) {
	roles := make([]game.Role, 0, len(c.AgentRoles))
	for _, name := range c.AgentRoles {
		role, ok := game.ParseRole(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q in A2A_ROLES", game.ErrConfig, name)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// Lexicon returns the phrase sets for baseline agents, or nil for the defaults.
func (c Config) Lexicon() *belief.Lexicon {
	if !c.WordBoundary {
		return nil
	}
	lex := belief.DefaultLexicon()
	lex.WordBoundary = true
	return &lex
}
