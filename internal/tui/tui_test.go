package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/fitr/internal/progress"
	"github.com/sadopc/fitr/internal/store"
	"github.com/sadopc/fitr/internal/timer"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local)

func newTestTracker(t *testing.T, s *store.Store) *progress.Tracker {
	t.Helper()
	tr := progress.NewTracker(s, progress.WithClock(func() time.Time { return testNow }))
	tr.Restore()
	return tr
}

func keyPress(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// runCmd executes a single (non-batch) command and returns its message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

// runToCompletion feeds current-session ticks until the timer goes idle.
func runToCompletion(t *testing.T, tm timerModel) timerModel {
	t.Helper()
	for i := 0; i < 1000 && tm.running(); i++ {
		tm, _ = tm.update(intervalTickMsg{id: tm.tickID})
	}
	if tm.running() {
		t.Fatal("session never completed")
	}
	return tm
}

// ============================================================
// Interval timer model
// ============================================================

func TestTimerInit(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))

	if tm.running() {
		t.Fatal("timer should start idle")
	}
	want := timer.Config{Work: 20, Rest: 10, Rounds: 8}
	if tm.lastCfg != want {
		t.Fatalf("expected default config %+v, got %+v", want, tm.lastCfg)
	}
}

func TestTimerLoadsSettings(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("timer_work", "45")
	s.SetSetting("timer_rest", "15")
	s.SetSetting("timer_rounds", "3")

	tm := newTimerModel(s, newTestTracker(t, s))
	want := timer.Config{Work: 45, Rest: 15, Rounds: 3}
	if tm.lastCfg != want {
		t.Fatalf("expected %+v, got %+v", want, tm.lastCfg)
	}
}

func TestTimerBadSettingsFallBack(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("timer_work", "fast")
	s.SetSetting("timer_rounds", "0")

	tm := newTimerModel(s, newTestTracker(t, s))
	if tm.lastCfg.Work != timer.DefaultWork || tm.lastCfg.Rounds != timer.DefaultRounds {
		t.Fatalf("expected defaults for bad settings, got %+v", tm.lastCfg)
	}
}

func TestTimerStart(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))

	tm, cmd := tm.start(timer.Config{Work: 5, Rest: 3, Rounds: 2})
	if cmd == nil {
		t.Fatal("start should schedule a tick")
	}
	if !tm.running() {
		t.Fatal("timer should be running after start")
	}
	if tm.session.Phase() != timer.PhaseWork || tm.session.Remaining() != 5 || tm.session.Round() != 1 {
		t.Fatalf("unexpected initial session: %s %d round %d", tm.session.Phase(), tm.session.Remaining(), tm.session.Round())
	}
	if tm.workoutID == 0 {
		t.Fatal("workout ID should be set")
	}

	w, err := s.GetWorkout(tm.workoutID)
	if err != nil {
		t.Fatal(err)
	}
	if w.Status != store.StatusRunning || w.WorkDuration != 5 || w.RestDuration != 3 || w.TargetRounds != 2 {
		t.Fatalf("unexpected workout row: %+v", w)
	}
}

func TestTimerStartNormalizesConfig(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))

	tm, _ = tm.start(timer.Config{Work: -1, Rest: 0, Rounds: 0})
	if tm.session.Config() != timer.DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", tm.session.Config())
	}
}

func TestTimerTickCountsDown(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))
	tm, _ = tm.start(timer.Config{Work: 5, Rest: 3, Rounds: 2})

	tm, cmd := tm.update(intervalTickMsg{id: tm.tickID})
	if cmd == nil {
		t.Fatal("tick should reschedule")
	}
	if tm.session.Remaining() != 4 {
		t.Fatalf("expected 4 remaining, got %d", tm.session.Remaining())
	}
}

func TestTimerStaleTickIgnored(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))

	tm, _ = tm.start(timer.Config{Work: 5, Rest: 3, Rounds: 2})
	oldID := tm.tickID
	firstWorkout := tm.workoutID

	// Restart while running: the old tick stream must die.
	tm, _ = tm.start(timer.Config{Work: 9, Rest: 3, Rounds: 2})
	if tm.tickID == oldID {
		t.Fatal("restart should change the tick id")
	}

	tm, cmd := tm.update(intervalTickMsg{id: oldID})
	if cmd != nil {
		t.Fatal("stale tick should not reschedule")
	}
	if tm.session.Remaining() != 9 {
		t.Fatalf("stale tick decremented the new session: %d", tm.session.Remaining())
	}

	// One current tick moves exactly one second.
	tm, _ = tm.update(intervalTickMsg{id: tm.tickID})
	if tm.session.Remaining() != 8 {
		t.Fatalf("expected 8 remaining, got %d", tm.session.Remaining())
	}

	w, _ := s.GetWorkout(firstWorkout)
	if w.Status != store.StatusCancelled {
		t.Fatalf("replaced workout should be cancelled, got %s", w.Status)
	}
}

func TestTimerStop(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))
	tm, _ = tm.start(timer.Config{Work: 5, Rest: 3, Rounds: 2})
	id := tm.workoutID
	tickID := tm.tickID

	tm, cmd := tm.stop()
	if tm.running() {
		t.Fatal("timer should be idle after stop")
	}
	if msg, ok := runCmd(t, cmd).(statusMsg); !ok || msg.text != "Workout stopped" {
		t.Fatalf("unexpected stop message: %#v", msg)
	}

	// Pending tick from the stopped session is dropped.
	tm, cmd = tm.update(intervalTickMsg{id: tickID})
	if cmd != nil || tm.running() {
		t.Fatal("tick after stop should be ignored")
	}

	w, _ := s.GetWorkout(id)
	if w.Status != store.StatusCancelled {
		t.Fatalf("DB status should be cancelled, got %s", w.Status)
	}
}

func TestTimerStopWhenIdle(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))

	tm, cmd := tm.stop()
	if cmd != nil {
		t.Fatal("stop on idle timer should be a no-op")
	}
	if tm.running() {
		t.Fatal("timer should still be idle")
	}
}

func TestTimerCueOnPhaseChange(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))
	tm, _ = tm.start(timer.Config{Work: 1, Rest: 1, Rounds: 2})

	tm, _ = tm.update(intervalTickMsg{id: tm.tickID}) // 1 -> 0
	tm, cmd := tm.update(intervalTickMsg{id: tm.tickID})
	if tm.session.Phase() != timer.PhaseRest {
		t.Fatalf("expected REST after work boundary, got %s", tm.session.Phase())
	}
	batch, ok := runCmd(t, cmd).(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("expected tick + cue, got %#v", batch)
	}
}

func TestTimerAdvancesWorkoutRounds(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))
	tm, _ = tm.start(timer.Config{Work: 1, Rest: 1, Rounds: 3})
	id := tm.workoutID

	// Through round 1 into round 2 WORK.
	for i := 0; i < 4; i++ {
		tm, _ = tm.update(intervalTickMsg{id: tm.tickID})
	}
	if tm.session.Round() != 2 {
		t.Fatalf("expected round 2, got %d", tm.session.Round())
	}
	w, _ := s.GetWorkout(id)
	if w.CompletedRounds != 1 {
		t.Fatalf("expected 1 completed round in DB, got %d", w.CompletedRounds)
	}
}

func TestTimerFullSessionRecordsWorkoutAndStreak(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	tm := newTimerModel(s, tr)

	tm, _ = tm.start(timer.Config{Work: 2, Rest: 1, Rounds: 2})
	id := tm.workoutID

	ticks := 0
	for tm.running() && ticks < 100 {
		tm, _ = tm.update(intervalTickMsg{id: tm.tickID})
		ticks++
	}
	// (W+1 + R+1) per round
	if ticks != (2+1+1+1)*2 {
		t.Fatalf("expected 10 ticks to completion, got %d", ticks)
	}
	if !tm.finished {
		t.Fatal("timer should report a finished session")
	}

	w, _ := s.GetWorkout(id)
	if w.Status != store.StatusCompleted || w.CompletedRounds != 2 {
		t.Fatalf("workout not completed in DB: %+v", w)
	}

	st := tr.State()
	if st.StreakCount != 1 {
		t.Fatalf("expected streak 1, got %d", st.StreakCount)
	}
	if st.LastWorkoutDate == nil || st.LastWorkoutDate.String() != "2024-03-10" {
		t.Fatalf("unexpected last workout date: %v", st.LastWorkoutDate)
	}

	// Persisted through the store.
	data, err := s.LoadSnapshot(progress.SnapshotKey)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := progress.DecodeSnapshot(data)
	if err != nil || restored.StreakCount != 1 {
		t.Fatalf("snapshot not persisted: %v %+v", err, restored)
	}
}

func TestTimerSecondSessionSameDayNoExtraStreak(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	tm := newTimerModel(s, tr)

	tm, _ = tm.start(timer.Config{Work: 1, Rest: 1, Rounds: 1})
	tm = runToCompletion(t, tm)
	tm, _ = tm.start(timer.Config{Work: 1, Rest: 1, Rounds: 1})
	tm = runToCompletion(t, tm)

	if got := tr.State().StreakCount; got != 1 {
		t.Fatalf("expected streak 1 after two sessions today, got %d", got)
	}
	completed, _, _ := s.GetWorkoutStats(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if completed != 2 {
		t.Fatalf("expected 2 completed workouts, got %d", completed)
	}
}

func TestTimerTickAfterCompletionIgnored(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))
	tm, _ = tm.start(timer.Config{Work: 1, Rest: 1, Rounds: 1})
	lastID := tm.tickID
	tm = runToCompletion(t, tm)

	tm, cmd := tm.update(intervalTickMsg{id: lastID})
	if cmd != nil || tm.running() {
		t.Fatal("ticks after completion should be ignored")
	}
}

func TestTimerFormPrefill(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("timer_rounds", "4")
	tm := newTimerModel(s, newTestTracker(t, s))

	tm, _ = tm.update(keyPress("s"))
	if !tm.formActive {
		t.Fatal("s should open the start form")
	}
	if *tm.formWork != "20" || *tm.formRest != "10" || *tm.formRounds != "4" {
		t.Fatalf("form not prefilled: %s/%s/%s", *tm.formWork, *tm.formRest, *tm.formRounds)
	}

	tm, _ = tm.update(tea.KeyMsg{Type: tea.KeyEsc})
	if tm.formActive {
		t.Fatal("esc should close the form")
	}
}

func TestTimerQuickStart(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))

	tm, _ = tm.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !tm.running() {
		t.Fatal("enter should quick start with the last config")
	}
	if tm.session.Config() != tm.lastCfg {
		t.Fatal("quick start should use the last config")
	}
}

func TestTimerSyncSettings(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))

	s.SetSetting("timer_work", "30")
	tm.syncSettings()
	if tm.lastCfg.Work != 30 {
		t.Fatalf("idle timer should pick up new settings, got %d", tm.lastCfg.Work)
	}

	tm, _ = tm.start(timer.Config{Work: 7, Rest: 7, Rounds: 1})
	s.SetSetting("timer_work", "40")
	tm.syncSettings()
	if tm.lastCfg.Work != 7 {
		t.Fatal("running timer should keep its config")
	}
}

func TestTimerViewStates(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestTracker(t, s))
	tm.setSize(100, 30)

	if !strings.Contains(tm.view(), "00:20") {
		t.Fatal("idle view should show the work duration")
	}

	tm, _ = tm.start(timer.Config{Work: 5, Rest: 3, Rounds: 2})
	if !strings.Contains(tm.view(), "Round 1/2") {
		t.Fatal("running view should show the round label")
	}
	if tm.footerIndicator() == "" {
		t.Fatal("running timer should have a footer indicator")
	}

	tm = runToCompletion(t, tm)
	out := tm.view()
	if !strings.Contains(out, "Ready") || !strings.Contains(out, "00:05") {
		t.Fatal("finished view should return to the ready display")
	}
	if !strings.Contains(out, "Last session complete: 2 rounds") {
		t.Fatal("finished view should note the completed session")
	}
	if tm.footerIndicator() != "" {
		t.Fatal("idle timer should have no footer indicator")
	}
}

// ============================================================
// Dashboard model
// ============================================================

func TestDashboardAddWater(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	d := newDashboardModel(s, tr)

	d, cmd := d.update(keyPress("w"))
	if tr.State().WaterIntakeMl != 250 {
		t.Fatalf("expected 250 ml, got %d", tr.State().WaterIntakeMl)
	}
	if msg := runCmd(t, cmd).(statusMsg); !strings.Contains(msg.text, "250/2000") {
		t.Fatalf("unexpected status: %q", msg.text)
	}
}

func TestDashboardWaterClamps(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("water_serving", "1500")
	tr := newTestTracker(t, s)
	d := newDashboardModel(s, tr)

	d, _ = d.update(keyPress("w"))
	d, _ = d.update(keyPress("w"))
	if got := tr.State().WaterIntakeMl; got != progress.MaxWaterMl {
		t.Fatalf("expected water clamped at %d, got %d", progress.MaxWaterMl, got)
	}
}

func TestDashboardResetWater(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	d := newDashboardModel(s, tr)

	d, _ = d.update(keyPress("w"))
	d, _ = d.update(keyPress("W"))
	if got := tr.State().WaterIntakeMl; got != 0 {
		t.Fatalf("expected water reset, got %d", got)
	}
}

func TestDashboardSubmitSteps(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	d := newDashboardModel(s, tr)

	d, _ = d.update(keyPress("t"))
	if !d.formActive || d.formKind != formSteps {
		t.Fatal("t should open the steps form")
	}
	d.closeForm()

	*d.formSteps = " 1200 "
	d, _ = d.submitSteps()
	if got := tr.State().StepCount; got != 1200 {
		t.Fatalf("expected 1200 steps, got %d", got)
	}
}

func TestDashboardSubmitCalories(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s, newTestTracker(t, s))

	*d.formActivity = "running"
	*d.formMinutes = "30"
	d, cmd := d.submitCalories()
	if !strings.Contains(d.lastCalories, "330 kcal") {
		t.Fatalf("unexpected calorie line: %q", d.lastCalories)
	}
	if msg := runCmd(t, cmd).(statusMsg); msg.isError {
		t.Fatalf("unexpected error: %q", msg.text)
	}
}

func TestDashboardSubmitCaloriesInvalid(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s, newTestTracker(t, s))

	*d.formActivity = "juggling"
	*d.formMinutes = "30"
	d, cmd := d.submitCalories()
	if d.lastCalories != "" {
		t.Fatal("invalid input should not set an estimate")
	}
	if msg := runCmd(t, cmd).(statusMsg); !msg.isError {
		t.Fatal("invalid input should report an error")
	}
}

func TestDashboardLoadData(t *testing.T) {
	s := newTestStore(t)
	w, _ := s.StartWorkout(20, 10, 2)
	s.CompleteWorkout(w.ID)

	d := newDashboardModel(s, newTestTracker(t, s))
	msg := runCmd(t, d.loadData()).(dashboardDataMsg)
	if msg.todayWorkouts != 1 || msg.weekWorkouts != 1 {
		t.Fatalf("unexpected counts: %+v", msg)
	}
	if msg.todayWorkSecs != 40 {
		t.Fatalf("expected 40 work seconds, got %d", msg.todayWorkSecs)
	}
}

func TestDashboardViewShowsBadges(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	tr.RecordWorkoutCompletion()
	d := newDashboardModel(s, tr)
	d.setSize(120, 40)

	out := d.view()
	if !strings.Contains(out, "First Step") || !strings.Contains(out, "1/6") {
		t.Fatal("dashboard should list badges with the unlocked count")
	}
	if !strings.Contains(out, "1 day streak") {
		t.Fatal("dashboard should show the streak")
	}
}

// ============================================================
// Progress model
// ============================================================

func TestProgressSaveMeasurement(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	p := newProgressModel(s, tr)

	*p.formDate = "1/2/2024"
	*p.formWeight = "70.5"
	*p.formWaist = "82"
	p, cmd := p.saveMeasurement()
	if msg := runCmd(t, cmd).(statusMsg); msg.isError {
		t.Fatalf("unexpected error: %q", msg.text)
	}

	ms := tr.State().Measurements
	if len(ms) != 1 {
		t.Fatalf("expected 1 measurement, got %d", len(ms))
	}
	if ms[0].Date.String() != "2024-01-02" || ms[0].Weight != 70.5 || ms[0].Waist != 82 {
		t.Fatalf("unexpected measurement: %+v", ms[0])
	}
}

func TestProgressSaveMeasurementDefaultsToToday(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	p := newProgressModel(s, tr)

	*p.formWeight = "71"
	p, _ = p.saveMeasurement()
	if got := tr.State().Measurements[0].Date.String(); got != "2024-03-10" {
		t.Fatalf("expected today's date, got %q", got)
	}
}

func TestProgressSaveMeasurementRequiresWeight(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	p := newProgressModel(s, tr)

	p, cmd := p.saveMeasurement()
	if msg := runCmd(t, cmd).(statusMsg); !msg.isError {
		t.Fatal("missing weight should be an error")
	}
	if len(tr.State().Measurements) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestProgressFormPrefillsLastWeight(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	tr.AddMeasurement(progress.Measurement{Weight: 68.2})
	p := newProgressModel(s, tr)

	p, _ = p.update(keyPress("n"))
	if !p.formActive {
		t.Fatal("n should open the measurement form")
	}
	if *p.formWeight != "68.2" {
		t.Fatalf("expected last weight prefilled, got %q", *p.formWeight)
	}
}

func TestMeasurementValidators(t *testing.T) {
	if requiredWeight("") == nil || requiredWeight("0") == nil || requiredWeight("x") == nil {
		t.Fatal("weight must be positive")
	}
	if requiredWeight("70") != nil {
		t.Fatal("70 is a valid weight")
	}
	if optionalFloat("") != nil || optionalFloat("12.5") != nil {
		t.Fatal("blank and numbers are valid optional values")
	}
	if optionalFloat("-1") == nil || optionalFloat("abc") == nil {
		t.Fatal("negative and non-numeric values are invalid")
	}
	if optionalDate("") != nil || optionalDate("2024-01-31") != nil || optionalDate("Mon Jan 01 2024") != nil {
		t.Fatal("blank, ISO and legacy dates are valid")
	}
	if optionalDate("31/31/2024") == nil {
		t.Fatal("garbage date should be rejected")
	}
}

func TestProgressChartsAndView(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	p := newProgressModel(s, tr)
	p.setSize(100, 40)

	if !strings.Contains(p.view(), "No measurements") {
		t.Fatal("empty progress view should say there is nothing yet")
	}

	tr.AddMeasurement(progress.Measurement{Weight: 70})
	tr.AddMeasurement(progress.Measurement{Weight: 69})

	w, _ := s.StartWorkout(20, 10, 8)
	s.CompleteWorkout(w.ID)
	msg := runCmd(t, p.refresh()).(progressDataMsg)
	if len(msg.daily) != 1 || msg.daily[0].Completed != 1 {
		t.Fatalf("unexpected daily counts: %+v", msg.daily)
	}

	p, _ = p.update(msg)
	out := p.view()
	if out == "" || !strings.Contains(out, "2 measurements") {
		t.Fatal("progress view should count measurements")
	}
}

// ============================================================
// Challenges model
// ============================================================

func TestChallengesMarkDay(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	c := newChallengesModel(tr)

	// Default order: abs, steps, fatloss
	c, _ = c.update(keyPress("j"))
	if c.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", c.cursor)
	}
	c, cmd := c.update(keyPress("m"))
	if cmd == nil {
		t.Fatal("marking should report a status")
	}

	st := tr.State()
	if st.ChallengeProgress[progress.ChallengeSteps] != 1 {
		t.Fatalf("expected steps day 1, got %v", st.ChallengeProgress)
	}
	if st.StreakCount != 1 {
		t.Fatalf("marking a day should credit the streak, got %d", st.StreakCount)
	}

	// A second mark the same day advances the challenge but not the streak.
	c, _ = c.update(tea.KeyMsg{Type: tea.KeyEnter})
	st = tr.State()
	if st.ChallengeProgress[progress.ChallengeSteps] != 2 || st.StreakCount != 1 {
		t.Fatalf("unexpected state after second mark: %+v", st)
	}
}

func TestChallengesCursorBounds(t *testing.T) {
	s := newTestStore(t)
	c := newChallengesModel(newTestTracker(t, s))

	c, _ = c.update(keyPress("k"))
	if c.cursor != 0 {
		t.Fatal("cursor should not go above the first challenge")
	}
	for i := 0; i < 10; i++ {
		c, _ = c.update(keyPress("j"))
	}
	if c.cursor != 2 {
		t.Fatalf("cursor should stop at the last challenge, got %d", c.cursor)
	}
}

func TestChallengesUnknownName(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	c := newChallengesModel(tr)

	c, cmd := c.markDay("marathon")
	if msg := runCmd(t, cmd).(statusMsg); !msg.isError {
		t.Fatal("unknown challenge should be an error")
	}
	if tr.State().StreakCount != 0 {
		t.Fatal("unknown challenge must not touch the streak")
	}
}

func TestChallengeTitle(t *testing.T) {
	if challengeTitle(progress.ChallengeAbs) != "30-Day Abs" {
		t.Fatal("unexpected abs title")
	}
	if challengeTitle("custom") != "custom" {
		t.Fatal("unknown challenges fall back to their name")
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsSave(t *testing.T) {
	s := newTestStore(t)
	sm := newSettingsModel(s)

	sm, _ = sm.showForm()
	if *sm.timerWork != "20" || *sm.waterServing != "250" {
		t.Fatalf("form not prefilled: %s %s", *sm.timerWork, *sm.waterServing)
	}

	*sm.timerWork = "40"
	*sm.timerRounds = " 5 "
	*sm.waterServing = "330"
	if err := sm.saveSettings(); err != nil {
		t.Fatal(err)
	}

	if v, _ := s.GetSetting("timer_work"); v != "40" {
		t.Fatalf("timer_work = %q", v)
	}
	if v, _ := s.GetSetting("timer_rounds"); v != "5" {
		t.Fatalf("timer_rounds = %q", v)
	}
	if v, _ := s.GetSetting("water_serving"); v != "330" {
		t.Fatalf("water_serving = %q", v)
	}
}

func TestSettingsShowsLastSaved(t *testing.T) {
	s := newTestStore(t)
	sm := newSettingsModel(s)
	sm.setSize(100, 30)

	msg := runCmd(t, sm.refresh()).(settingsDataMsg)
	if !msg.savedAt.IsZero() {
		t.Fatal("nothing saved yet")
	}
	sm, _ = sm.update(msg)
	if !strings.Contains(sm.view(), "last saved: never") {
		t.Fatal("settings should say progress was never saved")
	}

	tr := newTestTracker(t, s)
	if err := tr.AddWater(250); err != nil {
		t.Fatal(err)
	}
	msg = runCmd(t, sm.refresh()).(settingsDataMsg)
	if msg.savedAt.IsZero() {
		t.Fatal("saving progress should record a timestamp")
	}
	sm, _ = sm.update(msg)
	if !strings.Contains(sm.view(), msg.savedAt.Local().Format("2006-01-02 15:04")) {
		t.Fatal("settings should show when progress was last saved")
	}
}

func TestDashboardHugeWaterServingCaps(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("water_serving", "9223372036854775807")
	tr := newTestTracker(t, s)
	d := newDashboardModel(s, tr)

	d, _ = d.update(keyPress("w"))
	if got := tr.State().WaterIntakeMl; got != progress.MaxWaterMl {
		t.Fatalf("expected water capped at %d, got %d", progress.MaxWaterMl, got)
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"timer_work", "20", "20 s"},
		{"timer_rest", "10", "10 s"},
		{"timer_rounds", "8", "8 rounds"},
		{"water_serving", "250", "250 ml"},
		{"timer_work", "abc", "abc"},
		{"unknown", "value", "value"},
	}
	for _, tt := range tests {
		got := formatSettingValue(tt.key, tt.value)
		if got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}

func TestPositiveInt(t *testing.T) {
	for _, ok := range []string{"1", " 25 ", "10000"} {
		if positiveInt(ok) != nil {
			t.Errorf("positiveInt(%q) should pass", ok)
		}
	}
	for _, bad := range []string{"", "0", "-3", "2.5", "ten"} {
		if positiveInt(bad) == nil {
			t.Errorf("positiveInt(%q) should fail", bad)
		}
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{time.Minute, "00:01:00"},
		{time.Hour, "01:00:00"},
		{90*time.Minute + 15*time.Second, "01:30:15"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(3661); got != "01:01:01" {
		t.Fatalf("formatSeconds(3661) = %q", got)
	}
}

func TestPercent(t *testing.T) {
	if percent(5000, 10000) != 50 || percent(20000, 10000) != 100 || percent(1, 0) != 0 {
		t.Fatal("unexpected percent results")
	}
}

func TestProgressBar(t *testing.T) {
	if progressBar(1, 2, 0) != "" {
		t.Fatal("zero width bar should be empty")
	}
	if bar := progressBar(5, 10, 10); bar == "" {
		t.Fatal("bar should render")
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	expected := []string{"Dashboard", "Timer", "Progress", "Challenges", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

// ============================================================
// App model
// ============================================================

func newTestApp(t *testing.T) (App, *store.Store, *progress.Tracker) {
	t.Helper()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	app := NewApp(s, tr)
	app.exportDir = t.TempDir()
	return app, s, tr
}

func TestNewApp(t *testing.T) {
	app, _, _ := newTestApp(t)

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	app, _, _ := newTestApp(t)

	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app, _, _ := newTestApp(t)
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = m.(App)

	// Test all views render without panic
	views := []viewState{viewDashboard, viewTimer, viewProgress, viewChallenges, viewSettings}
	for _, v := range views {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabCycles(t *testing.T) {
	app, _, _ := newTestApp(t)

	for i := 0; i < len(viewNames); i++ {
		m, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
		app = m.(App)
	}
	if app.activeView != viewDashboard {
		t.Fatalf("tab should wrap around, got view %d", app.activeView)
	}
}

func TestAppRoutesTicksFromAnyView(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.timer, _ = app.timer.start(timer.Config{Work: 5, Rest: 3, Rounds: 1})
	app.activeView = viewChallenges

	m, _ := app.Update(intervalTickMsg{id: app.timer.tickID})
	app = m.(App)
	if app.timer.session.Remaining() != 4 {
		t.Fatalf("tick should reach the timer from another view, remaining %d", app.timer.session.Remaining())
	}
}

func TestAppQuitStopsTimer(t *testing.T) {
	app, s, _ := newTestApp(t)
	app.timer, _ = app.timer.start(timer.Config{Work: 5, Rest: 3, Rounds: 1})
	id := app.timer.workoutID

	m, cmd := app.Update(keyPress("q"))
	app = m.(App)
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if app.timer.running() {
		t.Fatal("quitting should stop the timer")
	}
	if w, _ := s.GetWorkout(id); w.Status != store.StatusCancelled {
		t.Fatalf("abandoned workout should be cancelled, got %s", w.Status)
	}
}

func TestAppStatusError(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	m, _ := app.Update(statusMsg{text: "disk full", isError: true})
	app = m.(App)
	if !app.statusError || !strings.Contains(app.renderFooter(), "disk full") {
		t.Fatal("error status should show in the footer")
	}
}

func TestAppExportPicker(t *testing.T) {
	app, _, _ := newTestApp(t)

	m, _ := app.Update(keyPress("e"))
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	for i := 0; i < 10; i++ {
		m, _ = app.Update(keyPress("j"))
		app = m.(App)
	}
	if app.exportCursor != len(exportFormats)-1 {
		t.Fatalf("cursor should stop at the last format, got %d", app.exportCursor)
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = m.(App)
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppExportAllFormats(t *testing.T) {
	app, s, tr := newTestApp(t)
	tr.AddMeasurement(progress.Measurement{Weight: 70})
	w, _ := s.StartWorkout(20, 10, 8)
	s.CompleteWorkout(w.ID)

	for f := range exportFormats {
		msg := runCmd(t, app.doExport(exportFormat(f)))
		done, ok := msg.(exportDoneMsg)
		if !ok {
			t.Fatalf("format %d: expected exportDoneMsg, got %#v", f, msg)
		}
		if filepath.Dir(done.path) != app.exportDir {
			t.Fatalf("format %d: exported outside the export dir: %s", f, done.path)
		}
		if info, err := os.Stat(done.path); err != nil || info.Size() == 0 {
			t.Fatalf("format %d: export file missing or empty: %v", f, err)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app, _, _ := newTestApp(t)
	// Width 0 means not yet sized
	output := app.View()
	if output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.width = 120
	app.height = 40
	app.status = "test status"

	footer := app.renderFooter()
	if !strings.Contains(footer, "test status") {
		t.Fatal("footer should contain status message")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test: render without panicking)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"timerIdle", func() string { return timerIdleStyle.Render("test") }},
		{"workPhase", func() string { return workPhaseStyle.Render("test") }},
		{"restPhase", func() string { return restPhaseStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"water", func() string { return waterStyle.Render("test") }},
		{"badgeUnlocked", func() string { return badgeUnlockedStyle.Render("test") }},
		{"badgeLocked", func() string { return badgeLockedStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		result := s.fn()
		if result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
