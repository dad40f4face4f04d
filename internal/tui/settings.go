package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitr/internal/progress"
	"github.com/sadopc/fitr/internal/store"
	"github.com/sadopc/fitr/internal/timer"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	savedAt    time.Time // zero until progress is first saved
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	timerWork    *string
	timerRest    *string
	timerRounds  *string
	waterServing *string
}

func newSettingsModel(s *store.Store) settingsModel {
	tw, tr, tn, ws := "", "", "", ""
	return settingsModel{
		store:        s,
		timerWork:    &tw,
		timerRest:    &tr,
		timerRounds:  &tn,
		waterServing: &ws,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	savedAt  time.Time
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		savedAt, _ := s.store.SnapshotUpdatedAt(progress.SnapshotKey)
		return settingsDataMsg{settings: settings, savedAt: savedAt}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		s.savedAt = msg.savedAt
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.timerWork = strconv.Itoa(s.store.GetIntSetting("timer_work", timer.DefaultWork))
	*s.timerRest = strconv.Itoa(s.store.GetIntSetting("timer_rest", timer.DefaultRest))
	*s.timerRounds = strconv.Itoa(s.store.GetIntSetting("timer_rounds", timer.DefaultRounds))
	*s.waterServing = strconv.Itoa(s.store.GetIntSetting("water_serving", defaultWaterServing))

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (seconds)").Value(s.timerWork).Validate(positiveInt),
			huh.NewInput().Title("Rest (seconds)").Value(s.timerRest).Validate(positiveInt),
			huh.NewInput().Title("Rounds").Value(s.timerRounds).Validate(positiveInt),
		).Title("Interval Timer"),
		huh.NewGroup(
			huh.NewInput().Title("Water serving (ml)").Value(s.waterServing).Validate(positiveInt),
		).Title("Tracking"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, errorCmd("Saving settings", err)
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved"))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := []struct{ key, value string }{
		{"timer_work", *s.timerWork},
		{"timer_rest", *s.timerRest},
		{"timer_rounds", *s.timerRounds},
		{"water_serving", *s.waterServing},
	}
	for _, v := range values {
		if err := s.store.SetSetting(v.key, strings.TrimSpace(v.value)); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  Progress last saved: "+formatSavedAt(s.savedAt)))
	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSavedAt(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatSettingValue(k, v string) string {
	switch k {
	case "timer_work", "timer_rest":
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d s", secs)
		}
	case "timer_rounds":
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d rounds", n)
		}
	case "water_serving":
		if ml, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d ml", ml)
		}
	}
	return v
}
