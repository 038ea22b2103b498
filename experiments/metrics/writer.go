package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type GameRecord struct {
	ID       int
	Seat     string
	Role     string
	Won      bool
	Survived bool
	GameMetric
}

// ManifestEntry describes one game of a run for later replay.
type ManifestEntry struct {
	GameIndex   int               `json:"game_index"`
	Seed        int64             `json:"seed"`
	ShuffleSeed int64             `json:"shuffle_seed"`
	AgentSeat   string            `json:"agent_seat"`
	AgentRole   string            `json:"agent_role"`
	Winner      string            `json:"winner"`
	Roles       map[string]string `json:"roles"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name and writes every file of a run below it.
func NewWriter(root, name string) (*Writer, error) {
	baseDir := filepath.Join(root, name)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	header := []string{"id", "seed", "seat", "role", "winner", "won", "survived", "rounds", "repairs", "fallbacks", "start_time", "end_time", "duration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			strconv.FormatInt(record.Seed, 10),
			record.Seat,
			record.Role,
			record.Winner,
			strconv.FormatBool(record.Won),
			strconv.FormatBool(record.Survived),
			strconv.Itoa(record.Rounds),
			strconv.Itoa(record.Repairs),
			strconv.Itoa(record.Fallbacks),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush game records: %w", err)
	}
	return nil
}

func (w *Writer) WriteManifest(entries []ManifestEntry) error {
	return w.WriteJSON("manifest.json", entries)
}

// WriteJSON stores v as indented JSON in the run directory.
func (w *Writer) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(w.baseDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
