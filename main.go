package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"werewolf/belief"
	"werewolf/communication"
	"werewolf/communication/client"
	"werewolf/communication/server"
	"werewolf/config"
	"werewolf/engine"
	"werewolf/experiments"
	"werewolf/experiments/metrics"
	"werewolf/storage/sqlite"
)

func main() {
	mode := flag.String("mode", "game", "What to run: game, bench or serve")
	seed := flag.Int64("seed", -1, "Seed of a single game (defaults to SEED_START)")
	out := flag.String("out", "", "Write the game log to this file instead of stdout")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "game":
		if *seed < 0 {
			*seed = cfg.SeedStart
		}
		err = runGame(ctx, cfg, *seed, *out)
	case "bench":
		err = runBenchmark(ctx, cfg)
	case "serve":
		err = serve(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Error().Err(err).Msgf("%s failed", *mode)
		os.Exit(1)
	}
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func transport(cfg config.Config) communication.Transport {
	if cfg.AgentURL == "" {
		return nil
	}
	return client.NewHTTPTransport(cfg.AgentURL, client.WithTimeout(cfg.AgentTimeout))
}

func runGame(ctx context.Context, cfg config.Config, seed int64, out string) error {
	var options []engine.Option
	if t := transport(cfg); t != nil {
		roles, err := cfg.Roles()
		if err != nil {
			return err
		}
		options = append(options, engine.WithTransport(t, cfg.AgentSeats, roles))
	}
	if lex := cfg.Lexicon(); lex != nil {
		options = append(options, engine.WithLexicon(*lex))
	}

	g, err := engine.New(engine.Config{
		Seed:      seed,
		Players:   cfg.Players,
		MaxRounds: cfg.MaxRounds,
		MaxTurns:  cfg.MaxTurns,
	}, options...)
	if err != nil {
		return err
	}
	record, err := g.Run(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode game log: %w", err)
	}
	if out == "" {
		_, err = fmt.Println(string(data))
		return err
	}
	return os.WriteFile(out, data, 0644)
}

func runBenchmark(ctx context.Context, cfg config.Config) error {
	opts := experiments.Options{
		NumGames:    cfg.NumGames,
		ShuffleSeed: cfg.ShuffleSeed,
		SeedStart:   cfg.SeedStart,
		Seeds:       cfg.Seeds,
		RoleWeights: cfg.RoleWeights,
		MaxRounds:   cfg.MaxRounds,
		MaxTurns:    cfg.MaxTurns,
		Players:     cfg.Players,
		Transport:   transport(cfg),
		Lexicon:     cfg.Lexicon(),
	}

	if cfg.ResultsDB != "" {
		store, err := sqlite.Open(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.OnGame = func(ctx context.Context, result experiments.GameResult) error {
			return saveGame(ctx, store, result)
		}
	}

	report, err := experiments.Run(ctx, opts)
	if err != nil {
		return err
	}

	writer, err := metrics.NewWriter(cfg.ResultsDir, report.RunID)
	if err != nil {
		return err
	}
	if err := experiments.WriteResults(writer, report); err != nil {
		return err
	}
	log.Info().Msgf("stored results in %s", writer.Dir())

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Println(string(data))
	return err
}

func saveGame(ctx context.Context, store *sqlite.Store, result experiments.GameResult) error {
	logJSON, err := json.Marshal(result.Log)
	if err != nil {
		return fmt.Errorf("failed to encode game log: %w", err)
	}
	return store.SaveGame(ctx, sqlite.GameSummary{
		RunID:     result.RunID,
		GameIndex: result.Index,
		Seed:      result.Seed,
		Seat:      result.Seat,
		Role:      string(result.Role),
		Winner:    string(result.Log.Winner),
		Won:       result.Won,
		Survived:  result.Survived,
		Rounds:    result.Metric.Rounds,
		Repairs:   result.Metric.Repairs,
		LogJSON:   logJSON,
		StartedAt: result.Metric.StartTime,
		Duration:  result.Metric.Duration,
	})
}

func serve(ctx context.Context, cfg config.Config) error {
	var options []belief.Option
	if lex := cfg.Lexicon(); lex != nil {
		options = append(options, belief.WithLexicon(*lex))
	}
	err := server.NewBridge(cfg.BridgeAddr, options...).Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
