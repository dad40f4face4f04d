package progress

import "sort"

const (
	MaxWaterMl      = 2000
	MaxSteps        = 10000
	ChallengeLength = 30
)

// Challenge names seeded into every fresh state.
const (
	ChallengeAbs     = "abs"
	ChallengeSteps   = "steps"
	ChallengeFatLoss = "fatloss"
)

var defaultChallenges = []string{ChallengeAbs, ChallengeSteps, ChallengeFatLoss}

// Measurement is one body-measurement entry. Lengths are in cm, weight in kg.
type Measurement struct {
	Date           Date    `json:"date" yaml:"date"`
	Weight         float64 `json:"weight" yaml:"weight"`
	Chest          float64 `json:"chest" yaml:"chest"`
	Waist          float64 `json:"waist" yaml:"waist"`
	Arms           float64 `json:"arms" yaml:"arms"`
	BodyFatPercent float64 `json:"bodyfat" yaml:"bodyfat"`
}

// State is everything that survives a restart.
type State struct {
	WaterIntakeMl     int            `json:"water_intake_ml" yaml:"water_intake_ml"`
	StepCount         int            `json:"step_count" yaml:"step_count"`
	StreakCount       int            `json:"streak_count" yaml:"streak_count"`
	LastWorkoutDate   *Date          `json:"last_workout_date,omitempty" yaml:"last_workout_date,omitempty"`
	Measurements      []Measurement  `json:"measurements" yaml:"measurements"`
	ChallengeProgress map[string]int `json:"challenge_progress" yaml:"challenge_progress"`
}

// DefaultState is the state of a first launch.
func DefaultState() State {
	challenges := make(map[string]int, len(defaultChallenges))
	for _, name := range defaultChallenges {
		challenges[name] = 0
	}
	return State{
		Measurements:      []Measurement{},
		ChallengeProgress: challenges,
	}
}

// Clone returns a deep copy so callers can't mutate tracker internals.
func (s State) Clone() State {
	out := s
	if s.LastWorkoutDate != nil {
		d := *s.LastWorkoutDate
		out.LastWorkoutDate = &d
	}
	out.Measurements = append([]Measurement(nil), s.Measurements...)
	if out.Measurements == nil {
		out.Measurements = []Measurement{}
	}
	out.ChallengeProgress = make(map[string]int, len(s.ChallengeProgress))
	for k, v := range s.ChallengeProgress {
		out.ChallengeProgress[k] = v
	}
	return out
}

// ChallengeNames lists the challenges in display order: defaults first,
// then any extra names carried by an older snapshot.
func (s State) ChallengeNames() []string {
	names := make([]string, 0, len(s.ChallengeProgress))
	seen := make(map[string]bool, len(s.ChallengeProgress))
	for _, name := range defaultChallenges {
		if _, ok := s.ChallengeProgress[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range s.ChallengeProgress {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
