package experiments

import (
	"fmt"

	"werewolf/experiments/metrics"
)

// WriteResults stores the report, the per-game records, the manifest and every
// game log below the writer's directory.
func WriteResults(w *metrics.Writer, report *Report) error {
	records := make([]metrics.GameRecord, 0, len(report.Games))
	manifest := make([]metrics.ManifestEntry, 0, len(report.Games))
	for _, g := range report.Games {
		records = append(records, metrics.GameRecord{
			ID:         g.Index,
			Seat:       g.Seat,
			Role:       string(g.Role),
			Won:        g.Won,
			Survived:   g.Survived,
			GameMetric: g.Metric,
		})

		roles := make(map[string]string, len(g.Log.Roles))
		for name, role := range g.Log.Roles {
			roles[name] = string(role)
		}
		manifest = append(manifest, metrics.ManifestEntry{
			GameIndex:   g.Index,
			Seed:        g.Seed,
			ShuffleSeed: report.ShuffleSeed,
			AgentSeat:   g.Seat,
			AgentRole:   string(g.Role),
			Winner:      string(g.Log.Winner),
			Roles:       roles,
		})

		if err := w.WriteJSON(fmt.Sprintf("game_%03d.json", g.Index), g.Log); err != nil {
			return err
		}
	}

	if err := w.WriteGameRecords(records); err != nil {
		return err
	}
	if err := w.WriteManifest(manifest); err != nil {
		return err
	}
	return w.WriteJSON("report.json", report)
}
