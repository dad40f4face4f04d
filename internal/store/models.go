package store

import "time"

// Workout session statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// WorkoutSession is one run of the interval timer.
type WorkoutSession struct {
	ID              int64
	WorkDuration    int // seconds
	RestDuration    int // seconds
	TargetRounds    int
	CompletedRounds int
	Status          string // running, completed, cancelled
	StartedAt       time.Time
	CompletedAt     *time.Time
}

type Setting struct {
	Key   string
	Value string
}

// WorkoutFilter is used to filter workout sessions in queries.
type WorkoutFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// DailyWorkouts is the number of finished sessions on one day.
type DailyWorkouts struct {
	Date         string
	Completed    int
	TotalSeconds int64
}
