package experiments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"werewolf/belief"
	"werewolf/communication"
	"werewolf/engine"
	"werewolf/experiments/metrics"
	"werewolf/game"
	"werewolf/utils"
)

// Options configures one benchmark run of an evaluated seat against baseline agents.
type Options struct {
	NumGames    int
	ShuffleSeed int64
	SeedStart   int64
	Seeds       []int64
	RoleWeights string
	MaxRounds   int
	MaxTurns    int
	Players     []string

	// Transport plays the evaluated seat. Without one every seat is a baseline agent.
	Transport communication.Transport
	Lexicon   *belief.Lexicon

	// OnGame is called after every finished game.
	OnGame func(ctx context.Context, result GameResult) error
}

// GameResult is the outcome of one benchmark game from the evaluated seat's side.
type GameResult struct {
	RunID    string
	Index    int
	Seed     int64
	Seat     string
	Role     game.Role
	Won      bool
	Survived bool
	Log      *game.Log
	Metric   metrics.GameMetric
}

type Performance struct {
	GamesWon      int     `json:"games_won"`
	GamesSurvived int     `json:"games_survived"`
	TotalGames    int     `json:"total_games"`
	WinRate       float64 `json:"win_rate"`
	SurvivalRate  float64 `json:"survival_rate"`
}

// Report aggregates a run.
type Report struct {
	RunID          string         `json:"run_id"`
	Status         string         `json:"status"`
	NumGames       int            `json:"num_games"`
	GamesCompleted int            `json:"games_completed"`
	ShuffleSeed    int64          `json:"shuffle_seed"`
	Performance    Performance    `json:"performance_metrics"`
	RolesPlayed    map[string]int `json:"roles_played"`
	AvgRounds      float64        `json:"avg_rounds"`
	Repairs        int            `json:"repairs"`
	StartTime      time.Time      `json:"start_time"`
	Duration       time.Duration  `json:"duration"`

	Games []GameResult `json:"-"`
}

// Run plays the scheduled games one after another. A configuration problem is
// reported before the first game; a transport error stops the run.
func Run(ctx context.Context, opts Options) (*Report, error) {
	seeds, err := Seeds(opts.Seeds, opts.NumGames, opts.SeedStart)
	if err != nil {
		return nil, err
	}
	schedule, err := RoleSchedule(opts.NumGames, opts.RoleWeights)
	if err != nil {
		return nil, err
	}
	if err := game.CheckRoster(opts.Players); err != nil {
		return nil, err
	}
	ShuffleSchedule(schedule, opts.ShuffleSeed)

	report := &Report{
		RunID:       uuid.NewString(),
		Status:      "complete",
		NumGames:    opts.NumGames,
		ShuffleSeed: opts.ShuffleSeed,
		RolesPlayed: map[string]int{},
		StartTime:   time.Now(),
	}
	for _, role := range game.Roles {
		report.RolesPlayed[strings.ToLower(string(role))] = 0
	}

	log.Info().Msgf("starting benchmark run %s with %d games...", report.RunID, opts.NumGames)

	totalRounds := 0
	for i, role := range schedule {
		result, err := runGame(ctx, opts, i, seeds[i], role)
		if err != nil {
			return nil, fmt.Errorf("game %d (seed %d): %w", i, seeds[i], err)
		}

		result.RunID = report.RunID
		report.Games = append(report.Games, result)
		report.GamesCompleted++
		report.RolesPlayed[strings.ToLower(string(result.Role))]++
		report.Repairs += result.Metric.Repairs
		totalRounds += len(result.Log.Rounds)
		if result.Won {
			report.Performance.GamesWon++
		}
		if result.Survived {
			report.Performance.GamesSurvived++
		}

		log.Info().Msgf("completed game %d of %d: seat %s as %s, winner %s", i+1, opts.NumGames, result.Seat, result.Role, result.Log.Winner)

		if opts.OnGame != nil {
			if err := opts.OnGame(ctx, result); err != nil {
				return nil, fmt.Errorf("failed to record game %d: %w", i, err)
			}
		}
	}

	p := &report.Performance
	p.TotalGames = opts.NumGames
	p.WinRate = utils.Ratio(p.GamesWon, opts.NumGames)
	p.SurvivalRate = utils.Ratio(p.GamesSurvived, opts.NumGames)
	report.AvgRounds = utils.Ratio(totalRounds, report.GamesCompleted)
	report.Duration = time.Since(report.StartTime)

	log.Info().Msgf("completed benchmark run %s: won %d, survived %d of %d", report.RunID, p.GamesWon, p.GamesSurvived, opts.NumGames)
	return report, nil
}

// runGame executes a single game with the evaluated seat in the scheduled role
func runGame(ctx context.Context, opts Options, index int, seed int64, role game.Role) (GameResult, error) {
	roles, err := game.AssignRoles(opts.Players, seed)
	if err != nil {
		return GameResult{}, err
	}
	seat, err := PickSeat(roles, role, opts.ShuffleSeed, seed)
	if err != nil {
		return GameResult{}, err
	}

	options := []engine.Option{engine.WithMetrics(metrics.NewCollector())}
	if opts.Transport != nil {
		options = append(options, engine.WithTransport(opts.Transport, []string{seat}, nil))
	}
	if opts.Lexicon != nil {
		options = append(options, engine.WithLexicon(*opts.Lexicon))
	}

	e, err := engine.New(engine.Config{
		Seed:      seed,
		Players:   opts.Players,
		MaxRounds: opts.MaxRounds,
		MaxTurns:  opts.MaxTurns,
	}, options...)
	if err != nil {
		return GameResult{}, err
	}
	record, err := e.Run(ctx)
	if err != nil {
		return GameResult{}, err
	}

	return GameResult{
		Index:    index,
		Seed:     seed,
		Seat:     seat,
		Role:     roles[seat],
		Won:      won(record.Winner, roles[seat]),
		Survived: utils.FindIndex(record.Survivors, seat) >= 0,
		Log:      record,
		Metric:   e.Metric(),
	}, nil
}

func won(winner game.Winner, role game.Role) bool {
	if role == game.Werewolf {
		return winner == game.WerewolvesWin
	}
	return winner == game.VillagersWin
}
