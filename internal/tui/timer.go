package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitr/internal/progress"
	"github.com/sadopc/fitr/internal/store"
	"github.com/sadopc/fitr/internal/timer"
	log "github.com/sirupsen/logrus"
)

// intervalTickMsg carries the id of the session that scheduled it. Ticks
// from a stopped or replaced session carry an old id and are dropped.
type intervalTickMsg struct {
	id int
}

func intervalTick(id int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return intervalTickMsg{id: id}
	})
}

// timerModel runs the interval timer and records each run as a workout.
type timerModel struct {
	store   *store.Store
	tracker *progress.Tracker
	logger  *log.Entry
	width   int
	height  int

	session   *timer.Session
	tickID    int
	workoutID int64
	lastCfg   timer.Config
	finished  bool

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formWork   *string
	formRest   *string
	formRounds *string
}

func newTimerModel(s *store.Store, tr *progress.Tracker) timerModel {
	w, r, n := "", "", ""
	t := timerModel{
		store:      s,
		tracker:    tr,
		logger:     log.WithField("component", "timer"),
		formWork:   &w,
		formRest:   &r,
		formRounds: &n,
	}
	t.lastCfg = t.settingsConfig()
	return t
}

// settingsConfig reads the user's default timer setup.
func (t timerModel) settingsConfig() timer.Config {
	return timer.Config{
		Work:   t.store.GetIntSetting("timer_work", timer.DefaultWork),
		Rest:   t.store.GetIntSetting("timer_rest", timer.DefaultRest),
		Rounds: t.store.GetIntSetting("timer_rounds", timer.DefaultRounds),
	}.Normalize()
}

// syncSettings picks up edited defaults while the timer is idle.
func (t *timerModel) syncSettings() {
	if t.running() || t.finished {
		return
	}
	t.lastCfg = t.settingsConfig()
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t timerModel) running() bool { return t.session != nil }

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	// Ticks keep flowing while the restart form is open.
	if msg, ok := msg.(intervalTickMsg); ok {
		return t.tick(msg)
	}

	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Start):
			return t.showForm()
		case key.Matches(msg, keys.Enter):
			if !t.running() {
				return t.start(t.lastCfg)
			}
		case key.Matches(msg, keys.Stop):
			return t.stop()
		}
	}
	return t, nil
}

func (t timerModel) showForm() (timerModel, tea.Cmd) {
	cfg := t.settingsConfig()
	*t.formWork = fmt.Sprint(cfg.Work)
	*t.formRest = fmt.Sprint(cfg.Rest)
	*t.formRounds = fmt.Sprint(cfg.Rounds)

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (seconds)").Value(t.formWork),
			huh.NewInput().Title("Rest (seconds)").Value(t.formRest),
			huh.NewInput().Title("Rounds").Value(t.formRounds).
				Description("Blank or invalid values use the defaults"),
		).Title("Interval Workout"),
	).WithShowHelp(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		t.form = nil
		return t.start(timer.ParseConfig(*t.formWork, *t.formRest, *t.formRounds))
	}

	return t, cmd
}

// start begins a new session, replacing any session already running.
func (t timerModel) start(cfg timer.Config) (timerModel, tea.Cmd) {
	t.discard()

	cfg = cfg.Normalize()
	t.tickID++
	t.session = timer.NewSession(cfg)
	t.lastCfg = cfg
	t.finished = false

	cmds := []tea.Cmd{intervalTick(t.tickID)}
	w, err := t.store.StartWorkout(cfg.Work, cfg.Rest, cfg.Rounds)
	if err != nil {
		t.logger.Errorf("start workout: %v", err)
		cmds = append(cmds, errorCmd("Recording workout", err))
	} else {
		t.workoutID = w.ID
		t.logger.Debugf("workout %d started: %+v", w.ID, cfg)
		cmds = append(cmds, statusCmd(fmt.Sprintf("Go! %d rounds of %ds/%ds", cfg.Rounds, cfg.Work, cfg.Rest)))
	}
	return t, tea.Batch(cmds...)
}

// stop abandons the running session. No-op when idle.
func (t timerModel) stop() (timerModel, tea.Cmd) {
	if !t.running() {
		return t, nil
	}
	t.discard()
	return t, statusCmd("Workout stopped")
}

// discard drops the session and invalidates its pending tick.
func (t *timerModel) discard() {
	if t.session == nil {
		return
	}
	t.tickID++
	t.session = nil
	if t.workoutID > 0 {
		if err := t.store.CancelWorkout(t.workoutID); err != nil {
			t.logger.Errorf("cancel workout %d: %v", t.workoutID, err)
		}
	}
	t.workoutID = 0
}

func (t timerModel) tick(msg intervalTickMsg) (timerModel, tea.Cmd) {
	if msg.id != t.tickID || t.session == nil {
		return t, nil
	}

	sig := t.session.Tick()
	if sig.Has(timer.SignalComplete) {
		return t.complete()
	}

	cmds := []tea.Cmd{intervalTick(t.tickID)}
	if sig.Has(timer.SignalCue) {
		// Back in WORK means a round just finished.
		if t.session.Phase() == timer.PhaseWork && t.workoutID > 0 {
			if err := t.store.AdvanceWorkoutRound(t.workoutID); err != nil {
				t.logger.Warnf("advance workout %d: %v", t.workoutID, err)
			}
		}
		cmds = append(cmds, statusCmd(t.session.Label()+"! \a"))
	}
	return t, tea.Batch(cmds...)
}

func (t timerModel) complete() (timerModel, tea.Cmd) {
	rounds := t.session.TotalRounds()
	t.tickID++
	t.session = nil
	t.finished = true

	if t.workoutID > 0 {
		if err := t.store.CompleteWorkout(t.workoutID); err != nil {
			t.logger.Errorf("complete workout %d: %v", t.workoutID, err)
		}
	}
	t.workoutID = 0

	changed := func() tea.Msg { return trackerChangedMsg{} }
	credited, err := t.tracker.RecordWorkoutCompletion()
	if err != nil {
		return t, tea.Batch(errorCmd("Saving streak", err), changed)
	}

	text := fmt.Sprintf("Workout complete! %d rounds done \a", rounds)
	if credited {
		text += fmt.Sprintf("  Streak: %d", t.tracker.State().StreakCount)
	}
	return t, tea.Batch(statusCmd(text), changed)
}

func (t timerModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Interval Timer"), "", t.form.View()),
		)
	}

	title := titleStyle.Render("Interval Timer")

	var timeDisplay, phaseLabel, indicator, controls string
	switch {
	case t.session != nil:
		style := workPhaseStyle
		if t.session.Phase() == timer.PhaseRest {
			style = restPhaseStyle
		}
		timeDisplay = style.Width(w - 6).Render(t.session.Clock())
		phaseLabel = style.Render(t.session.Label())
		indicator = t.renderRounds()
		controls = mutedStyle.Render("x: stop  s: restart")
	case t.finished:
		timeDisplay = timerIdleStyle.Width(w - 6).Render(timer.FormatClock(t.lastCfg.Work))
		phaseLabel = mutedStyle.Render("Ready")
		indicator = lipgloss.JoinVertical(lipgloss.Center,
			successStyle.Render(fmt.Sprintf("Last session complete: %d rounds", t.lastCfg.Rounds)),
			t.renderSummary(),
		)
		controls = mutedStyle.Render("s: new workout  enter: repeat")
	default:
		timeDisplay = timerIdleStyle.Width(w - 6).Render(timer.FormatClock(t.lastCfg.Work))
		phaseLabel = mutedStyle.Render("Ready")
		indicator = t.renderSummary()
		controls = mutedStyle.Render("s: configure & start  enter: quick start")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
	)

	panel := panelStyle
	if t.running() {
		panel = activePanelStyle
	}
	return panel.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (t timerModel) renderSummary() string {
	c := t.lastCfg
	return mutedStyle.Render(fmt.Sprintf("%ds work / %ds rest × %d rounds  (%s total)",
		c.Work, c.Rest, c.Rounds, timer.FormatClock(c.TotalSeconds())))
}

func (t timerModel) renderRounds() string {
	total := t.session.TotalRounds()
	round := t.session.Round()
	parts := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		switch {
		case i < round:
			parts = append(parts, successStyle.Render("●"))
		case i == round && t.session.Phase() == timer.PhaseWork:
			parts = append(parts, accentStyle.Render("◐"))
		case i == round:
			parts = append(parts, successStyle.Render("◑"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", round, total))
	return strings.Join(parts, " ") + counter
}

// footerIndicator is the compact timer state shown on every view.
func (t timerModel) footerIndicator() string {
	if t.session == nil {
		return ""
	}
	text := fmt.Sprintf(" ● %s %s %d/%d", t.session.Phase(), t.session.Clock(), t.session.Round(), t.session.TotalRounds())
	if t.session.Phase() == timer.PhaseRest {
		return successStyle.Render(text)
	}
	return accentStyle.Render(text)
}
