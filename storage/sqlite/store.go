// Package sqlite provides a SQLite-backed store of benchmark game results.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"werewolf/storage/sqlite/migrations"
)

var (
	// ErrAlreadyExists is returned when a game of a run is saved twice.
	ErrAlreadyExists = errors.New("game already stored")
	// ErrNotFound is returned when no stored game matches.
	ErrNotFound = errors.New("game not found")
)

const migrationTable = "schema_migrations"

// GameSummary is one stored benchmark game.
type GameSummary struct {
	RunID     string
	GameIndex int
	Seed      int64
	Seat      string
	Role      string
	Winner    string
	Won       bool
	Survived  bool
	Rounds    int
	Repairs   int
	LogJSON   []byte
	StartedAt time.Time
	Duration  time.Duration
}

// Store persists benchmark results in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite results store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveGame inserts one game result.
func (s *Store) SaveGame(ctx context.Context, game GameSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	runID := strings.TrimSpace(game.RunID)
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	if game.GameIndex < 0 {
		return fmt.Errorf("game index must not be negative")
	}
	startedAt := game.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO games (
		   run_id,
		   game_index,
		   seed,
		   seat,
		   role,
		   winner,
		   won,
		   survived,
		   rounds,
		   repairs,
		   log_json,
		   started_at,
		   duration_ms
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		game.GameIndex,
		game.Seed,
		game.Seat,
		game.Role,
		game.Winner,
		game.Won,
		game.Survived,
		game.Rounds,
		game.Repairs,
		string(game.LogJSON),
		toMillis(startedAt),
		game.Duration.Milliseconds(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

const selectGames = `SELECT run_id, game_index, seed, seat, role, winner, won, survived, rounds, repairs, log_json, started_at, duration_ms
	 FROM games`

// GetGame returns one game of a run.
func (s *Store) GetGame(ctx context.Context, runID string, index int) (GameSummary, error) {
	if err := ctx.Err(); err != nil {
		return GameSummary{}, err
	}
	if s == nil || s.sqlDB == nil {
		return GameSummary{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx, selectGames+` WHERE run_id = ? AND game_index = ?`, runID, index)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return GameSummary{}, ErrNotFound
	}
	if err != nil {
		return GameSummary{}, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

// ListGames returns every game of a run ordered by game index.
func (s *Store) ListGames(ctx context.Context, runID string) ([]GameSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, selectGames+` WHERE run_id = ? ORDER BY game_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []GameSummary
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (GameSummary, error) {
	var (
		game       GameSummary
		logJSON    string
		startedAt  int64
		durationMS int64
	)
	if err := row.Scan(
		&game.RunID,
		&game.GameIndex,
		&game.Seed,
		&game.Seat,
		&game.Role,
		&game.Winner,
		&game.Won,
		&game.Survived,
		&game.Rounds,
		&game.Repairs,
		&logJSON,
		&startedAt,
		&durationMS,
	); err != nil {
		return GameSummary{}, err
	}
	game.LogJSON = []byte(logJSON)
	game.StartedAt = fromMillis(startedAt)
	game.Duration = time.Duration(durationMS) * time.Millisecond
	return game, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// applyMigrations executes every embedded migration at most once, in file name order.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);`, migrationTable)
	if _, err := sqlDB.Exec(createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range sqlFiles {
		var found int
		err := sqlDB.QueryRow("SELECT 1 FROM "+migrationTable+" WHERE name = ?", file).Scan(&found)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration %s: %w", file, err)
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := extractUp(string(content))

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration transaction %s: %w", file, err)
		}
		if strings.TrimSpace(upSQL) != "" {
			if _, err := tx.Exec(upSQL); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("exec migration %s: %w", file, err)
			}
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
			file,
			toMillis(time.Now()),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

// extractUp returns the SQL in the -- +migrate Up section.
func extractUp(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	content = content[upIdx+len("-- +migrate Up"):]
	if downIdx := strings.Index(content, "-- +migrate Down"); downIdx != -1 {
		content = content[:downIdx]
	}
	return content
}
