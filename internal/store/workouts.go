package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) StartWorkout(workDuration, restDuration, targetRounds int) (*WorkoutSession, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO workout_sessions (work_duration, rest_duration, target_rounds, status, started_at)
		 VALUES (?, ?, ?, 'running', ?)`,
		workDuration, restDuration, targetRounds, now,
	)
	if err != nil {
		return nil, fmt.Errorf("start workout: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetWorkout(id)
}

const workoutColumns = `id, work_duration, rest_duration, target_rounds, completed_rounds, status, started_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (*WorkoutSession, error) {
	w := &WorkoutSession{}
	var startedAt string
	var completedAt sql.NullString
	if err := row.Scan(&w.ID, &w.WorkDuration, &w.RestDuration, &w.TargetRounds, &w.CompletedRounds, &w.Status, &startedAt, &completedAt); err != nil {
		return nil, err
	}
	w.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		w.CompletedAt = &t
	}
	return w, nil
}

func (s *Store) GetWorkout(id int64) (*WorkoutSession, error) {
	w, err := scanWorkout(s.db.QueryRow(
		`SELECT `+workoutColumns+` FROM workout_sessions WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("get workout %d: %w", id, err)
	}
	return w, nil
}

// AdvanceWorkoutRound records one more finished round, never past the target.
func (s *Store) AdvanceWorkoutRound(id int64) error {
	_, err := s.db.Exec(
		`UPDATE workout_sessions SET completed_rounds = MIN(completed_rounds + 1, target_rounds)
		 WHERE id = ? AND status = 'running'`, id,
	)
	return err
}

func (s *Store) CompleteWorkout(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE workout_sessions SET status = 'completed', completed_at = ?, completed_rounds = target_rounds WHERE id = ?`,
		now, id,
	)
	return err
}

func (s *Store) CancelWorkout(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE workout_sessions SET status = 'cancelled', completed_at = ? WHERE id = ? AND status = 'running'`,
		now, id,
	)
	return err
}

// CancelRunningWorkouts closes sessions left running by a crash or a quit.
func (s *Store) CancelRunningWorkouts() (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE workout_sessions SET status = 'cancelled', completed_at = ? WHERE status = 'running'`, now,
	)
	if err != nil {
		return 0, fmt.Errorf("cancel running workouts: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) ListWorkouts(f WorkoutFilter) ([]WorkoutSession, error) {
	query := `SELECT ` + workoutColumns + ` FROM workout_sessions WHERE 1=1`
	var args []any

	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.From != nil {
		query += ` AND started_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND started_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY started_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []WorkoutSession
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

func (s *Store) GetWorkoutStats(from, to time.Time) (completed int, totalWork int64, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(work_duration * completed_rounds), 0)
		FROM workout_sessions
		WHERE status = 'completed'
		  AND started_at >= ? AND started_at < ?`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&completed, &totalWork)
	return
}

// GetDailyWorkoutCounts groups completed sessions by UTC day.
func (s *Store) GetDailyWorkoutCounts(from, to time.Time) ([]DailyWorkouts, error) {
	rows, err := s.db.Query(`
		SELECT date(started_at) AS day, COUNT(*),
		       COALESCE(SUM((work_duration + rest_duration) * completed_rounds), 0)
		FROM workout_sessions
		WHERE status = 'completed'
		  AND started_at >= ? AND started_at < ?
		GROUP BY day
		ORDER BY day`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily workouts: %w", err)
	}
	defer rows.Close()

	var days []DailyWorkouts
	for rows.Next() {
		var d DailyWorkouts
		if err := rows.Scan(&d.Date, &d.Completed, &d.TotalSeconds); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
