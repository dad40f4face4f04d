package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// SnapshotKey is the fixed key the whole State is stored under.
const SnapshotKey = "fitnessAppData"

var (
	ErrUnknownChallenge = errors.New("unknown challenge")
	ErrWeightRequired   = errors.New("weight is required")
)

// Persister stores the serialized snapshot. Implemented by store.Store.
type Persister interface {
	LoadSnapshot(key string) ([]byte, error)
	SaveSnapshot(key string, data []byte) error
}

// Tracker owns the tracked progress and writes it back after every change.
// It is not safe for concurrent use; the UI event loop serializes calls.
type Tracker struct {
	persister Persister
	state     State
	now       func() time.Time
	logger    *log.Entry
}

type Option func(*Tracker)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker returns a tracker holding DefaultState. Call Restore to load
// the persisted snapshot.
func NewTracker(p Persister, opts ...Option) *Tracker {
	t := &Tracker{
		persister: p,
		state:     DefaultState(),
		now:       time.Now,
		logger:    log.WithField("component", "tracker"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns a copy of the current state.
func (t *Tracker) State() State {
	return t.state.Clone()
}

func (t *Tracker) today() Date {
	return DateOf(t.now().Local())
}

// Restore loads the snapshot over the defaults. Fields missing from the
// snapshot keep their default, unknown fields are ignored, and an absent or
// unreadable snapshot leaves the defaults in place.
func (t *Tracker) Restore() {
	t.state = DefaultState()
	if t.persister == nil {
		return
	}

	data, err := t.persister.LoadSnapshot(SnapshotKey)
	if err != nil {
		t.logger.Debugf("no snapshot restored: %s", err)
		return
	}

	st, err := DecodeSnapshot(data)
	if err != nil {
		t.logger.Warnf("ignoring unreadable snapshot: %s", err)
		return
	}
	t.state = st
	t.logger.Debugf("snapshot restored: streak=%d measurements=%d", st.StreakCount, len(st.Measurements))
}

// browserSnapshot is the camelCase layout written by the browser version
// of the app. Measurements share their keys with the current layout.
type browserSnapshot struct {
	WaterIntake     *int           `json:"waterIntake"`
	Steps           *int           `json:"steps"`
	Streak          *int           `json:"streak"`
	LastWorkoutDate *Date          `json:"lastWorkoutDate"`
	Challenges      map[string]int `json:"challenges"`
}

func (b browserSnapshot) applyTo(st *State) {
	if b.WaterIntake != nil {
		st.WaterIntakeMl = *b.WaterIntake
	}
	if b.Steps != nil {
		st.StepCount = *b.Steps
	}
	if b.Streak != nil {
		st.StreakCount = *b.Streak
	}
	if b.LastWorkoutDate != nil {
		st.LastWorkoutDate = b.LastWorkoutDate
	}
	for name, days := range b.Challenges {
		st.ChallengeProgress[name] = days
	}
}

// DecodeSnapshot merges an encoded snapshot over DefaultState. Browser-era
// keys are read first so current keys win when both are present.
func DecodeSnapshot(data []byte) (State, error) {
	st := DefaultState()

	var legacy browserSnapshot
	if err := json.Unmarshal(data, &legacy); err != nil {
		return DefaultState(), fmt.Errorf("decode snapshot: %w", err)
	}
	legacy.applyTo(&st)

	if err := json.Unmarshal(data, &st); err != nil {
		return DefaultState(), fmt.Errorf("decode snapshot: %w", err)
	}

	defaults := DefaultState()
	if st.ChallengeProgress == nil {
		st.ChallengeProgress = defaults.ChallengeProgress
	}
	if st.Measurements == nil {
		st.Measurements = defaults.Measurements
	}
	if st.LastWorkoutDate != nil && st.LastWorkoutDate.IsZero() {
		st.LastWorkoutDate = nil
	}

	st.WaterIntakeMl = clamp(st.WaterIntakeMl, 0, MaxWaterMl)
	st.StepCount = clamp(st.StepCount, 0, MaxSteps)
	if st.StreakCount < 0 {
		st.StreakCount = 0
	}
	for name, days := range st.ChallengeProgress {
		st.ChallengeProgress[name] = clamp(days, 0, ChallengeLength)
	}
	return st, nil
}

// EncodeSnapshot serializes a State the way Persist stores it.
func EncodeSnapshot(st State) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Persist writes the whole state under SnapshotKey, replacing what was there.
func (t *Tracker) Persist() error {
	if t.persister == nil {
		return nil
	}
	data, err := EncodeSnapshot(t.state)
	if err != nil {
		return err
	}
	if err := t.persister.SaveSnapshot(SnapshotKey, data); err != nil {
		t.logger.Errorf("save snapshot: %s", err)
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// RecordWorkoutCompletion credits today's workout. The streak moves at most
// once per calendar day; it reports whether this call gave the credit.
func (t *Tracker) RecordWorkoutCompletion() (bool, error) {
	today := t.today()
	if t.state.LastWorkoutDate != nil && t.state.LastWorkoutDate.Equal(today) {
		return false, nil
	}
	t.state.StreakCount++
	t.state.LastWorkoutDate = &today
	t.logger.Infof("streak credited for %s: %d", today, t.state.StreakCount)
	return true, t.Persist()
}

// CheckStreakDecay resets the streak when more than one day separates today
// from the last workout. A gap of exactly one day (yesterday) keeps it.
// The last workout date itself is left alone.
func (t *Tracker) CheckStreakDecay() (bool, error) {
	last := t.state.LastWorkoutDate
	if last == nil {
		return false, nil
	}
	gap := DaysBetween(t.today(), *last)
	if gap <= 1 || t.state.StreakCount == 0 {
		return false, nil
	}
	t.logger.Infof("streak of %d lost: last workout %s, %d days ago", t.state.StreakCount, last, gap)
	t.state.StreakCount = 0
	return true, t.Persist()
}

// AddWater adds ml to today's intake, capped at MaxWaterMl.
func (t *Tracker) AddWater(ml int) error {
	// bound the delta first so huge inputs can't overflow the sum
	ml = clamp(ml, -MaxWaterMl, MaxWaterMl)
	t.state.WaterIntakeMl = clamp(t.state.WaterIntakeMl+ml, 0, MaxWaterMl)
	return t.Persist()
}

func (t *Tracker) ResetWater() error {
	t.state.WaterIntakeMl = 0
	return t.Persist()
}

// AddSteps adds n steps, capped at MaxSteps.
func (t *Tracker) AddSteps(n int) error {
	n = clamp(n, -MaxSteps, MaxSteps)
	t.state.StepCount = clamp(t.state.StepCount+n, 0, MaxSteps)
	return t.Persist()
}

// AddMeasurement appends m to the history. A zero date means today.
func (t *Tracker) AddMeasurement(m Measurement) error {
	if m.Weight <= 0 {
		return ErrWeightRequired
	}
	if m.Date.IsZero() {
		m.Date = t.today()
	}
	t.state.Measurements = append(t.state.Measurements, m)
	return t.Persist()
}

// RecentMeasurements returns up to n entries, newest first.
func (t *Tracker) RecentMeasurements(n int) []Measurement {
	all := t.state.Measurements
	if n <= 0 || n > len(all) {
		n = len(all)
	}
	out := make([]Measurement, 0, n)
	for i := len(all) - 1; i >= len(all)-n; i-- {
		out = append(out, all[i])
	}
	return out
}

// ChallengeMark is the outcome of MarkChallengeDay.
type ChallengeMark struct {
	Name           string
	Days           int
	Completed      bool
	StreakCredited bool
}

// MarkChallengeDay records one more day on a challenge and counts as a
// workout for the streak. Days stop at ChallengeLength.
func (t *Tracker) MarkChallengeDay(name string) (ChallengeMark, error) {
	days, ok := t.state.ChallengeProgress[name]
	if !ok {
		return ChallengeMark{Name: name}, fmt.Errorf("%w: %q", ErrUnknownChallenge, name)
	}

	days = clamp(days+1, 0, ChallengeLength)
	t.state.ChallengeProgress[name] = days
	mark := ChallengeMark{
		Name:      name,
		Days:      days,
		Completed: days == ChallengeLength,
	}

	credited, err := t.RecordWorkoutCompletion()
	mark.StreakCredited = credited
	if err != nil {
		return mark, err
	}
	if !credited {
		// streak path didn't persist the challenge change
		if err := t.Persist(); err != nil {
			return mark, err
		}
	}
	return mark, nil
}
