package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/fitr/internal/progress"
	"github.com/sadopc/fitr/internal/store"
)

// MeasurementsToCSV writes the measurement history, oldest first.
func MeasurementsToCSV(measurements []progress.Measurement, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Weight (kg)", "Chest (cm)", "Waist (cm)", "Arms (cm)", "Body Fat (%)"}); err != nil {
		return err
	}

	for _, m := range measurements {
		row := []string{
			m.Date.String(),
			formatFloat(m.Weight),
			formatFloat(m.Chest),
			formatFloat(m.Waist),
			formatFloat(m.Arms),
			formatFloat(m.BodyFatPercent),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WorkoutsToCSV writes one row per interval session.
func WorkoutsToCSV(workouts []store.WorkoutSession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Status", "Start", "End", "Work (s)", "Rest (s)", "Rounds", "Target Rounds", "Duration"}); err != nil {
		return err
	}

	for _, s := range workouts {
		endStr := ""
		if s.CompletedAt != nil {
			endStr = s.CompletedAt.Local().Format(time.RFC3339)
		}
		row := []string{
			strconv.FormatInt(s.ID, 10),
			s.Status,
			s.StartedAt.Local().Format(time.RFC3339),
			endStr,
			strconv.Itoa(s.WorkDuration),
			strconv.Itoa(s.RestDuration),
			strconv.Itoa(s.CompletedRounds),
			strconv.Itoa(s.TargetRounds),
			formatDuration(workoutSeconds(s)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// workoutSeconds is the time spent in finished rounds.
func workoutSeconds(s store.WorkoutSession) int64 {
	return int64((s.WorkDuration + s.RestDuration) * s.CompletedRounds)
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
