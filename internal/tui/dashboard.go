package tui

import (
	"errors"
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
)

const defaultWaterServing = 250

type dashboardForm int

const (
	formNone dashboardForm = iota
	formSteps
	formCalories
)

type dashboardModel struct {
	store   *store.Store
	tracker *progress.Tracker
	width   int
	height  int

	todayWorkouts int
	todayWorkSecs int64
	weekWorkouts  int
	lastCalories  string

	formActive bool
	formKind   dashboardForm
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formSteps    *string
	formActivity *string
	formMinutes  *string
}

func newDashboardModel(s *store.Store, tr *progress.Tracker) dashboardModel {
	steps, activity, minutes := "", "", ""
	return dashboardModel{
		store:        s,
		tracker:      tr,
		formSteps:    &steps,
		formActivity: &activity,
		formMinutes:  &minutes,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	todayWorkouts int
	todayWorkSecs int64
	weekWorkouts  int
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)
		today, secs, _ := d.store.GetWorkoutStats(dayStart, dayEnd)
		week, _, _ := d.store.GetWorkoutStats(dayStart.AddDate(0, 0, -6), dayEnd)

		return dashboardDataMsg{
			todayWorkouts: today,
			todayWorkSecs: secs,
			weekWorkouts:  week,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.todayWorkouts = msg.todayWorkouts
		d.todayWorkSecs = msg.todayWorkSecs
		d.weekWorkouts = msg.weekWorkouts
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Water):
			return d.addWater()
		case key.Matches(msg, keys.ResetWater):
			if err := d.tracker.ResetWater(); err != nil {
				return d, errorCmd("Saving water", err)
			}
			return d, statusCmd("Water intake reset")
		case key.Matches(msg, keys.Steps):
			return d.showStepsForm()
		case key.Matches(msg, keys.Calories):
			return d.showCaloriesForm()
		}
	}
	return d, nil
}

func (d dashboardModel) addWater() (dashboardModel, tea.Cmd) {
	serving := d.store.GetIntSetting("water_serving", defaultWaterServing)
	if err := d.tracker.AddWater(serving); err != nil {
		return d, errorCmd("Saving water", err)
	}
	ml := d.tracker.State().WaterIntakeMl
	text := fmt.Sprintf("+%d ml water (%d/%d ml)", serving, ml, progress.MaxWaterMl)
	if ml >= progress.MaxWaterMl {
		text += "  Daily goal reached!"
	}
	return d, statusCmd(text)
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number")
	}
	return nil
}

func (d dashboardModel) showStepsForm() (dashboardModel, tea.Cmd) {
	*d.formSteps = ""
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Steps walked").Value(d.formSteps).Validate(positiveInt),
		).Title("Add Steps"),
	).WithShowHelp(true).WithShowErrors(true)
	d.formKind = formSteps
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showCaloriesForm() (dashboardModel, tea.Cmd) {
	activities := progress.Activities()
	if *d.formActivity == "" && len(activities) > 0 {
		*d.formActivity = activities[0]
	}
	*d.formMinutes = ""

	options := make([]huh.Option[string], 0, len(activities))
	for _, a := range activities {
		options = append(options, huh.NewOption(strings.ToUpper(a[:1])+a[1:], a))
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Activity").Options(options...).Value(d.formActivity),
			huh.NewInput().Title("Duration (minutes)").Value(d.formMinutes).Validate(positiveInt),
		).Title("Calorie Estimate"),
	).WithShowHelp(true).WithShowErrors(true)
	d.formKind = formCalories
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.closeForm()
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		kind := d.formKind
		d.closeForm()
		switch kind {
		case formSteps:
			return d.submitSteps()
		case formCalories:
			return d.submitCalories()
		}
	}
	return d, cmd
}

func (d *dashboardModel) closeForm() {
	d.formActive = false
	d.formKind = formNone
	d.form = nil
}

func (d dashboardModel) submitSteps() (dashboardModel, tea.Cmd) {
	n, _ := strconv.Atoi(strings.TrimSpace(*d.formSteps))
	if err := d.tracker.AddSteps(n); err != nil {
		return d, errorCmd("Saving steps", err)
	}
	steps := d.tracker.State().StepCount
	return d, statusCmd(fmt.Sprintf("+%d steps (%d/%d)", n, steps, progress.MaxSteps))
}

func (d dashboardModel) submitCalories() (dashboardModel, tea.Cmd) {
	minutes, _ := strconv.Atoi(strings.TrimSpace(*d.formMinutes))
	kcal, err := progress.EstimateCalories(*d.formActivity, minutes)
	if err != nil {
		return d, errorCmd("Calories", err)
	}
	d.lastCalories = fmt.Sprintf("%s for %d min ≈ %d kcal", *d.formActivity, minutes, kcal)
	return d, statusCmd("Burned about " + strconv.Itoa(kcal) + " kcal")
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		return activePanelStyle.Width(contentWidth).Render(d.form.View())
	}

	st := d.tracker.State()

	half := contentWidth/2 - 1
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderWaterPanel(st, half),
		d.renderStepsPanel(st, contentWidth-half),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		d.renderStreakPanel(st, contentWidth),
		d.renderBadgesPanel(st, contentWidth),
	)
}

func (d dashboardModel) renderWaterPanel(st progress.State, w int) string {
	title := titleStyle.Render("Water")
	amount := waterStyle.Render(fmt.Sprintf("%d / %d ml", st.WaterIntakeMl, progress.MaxWaterMl))
	bar := progressBar(st.WaterIntakeMl, progress.MaxWaterMl, max(w-10, 4))
	hint := mutedStyle.Render("w: +serving  W: reset")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, amount, bar, hint))
}

func (d dashboardModel) renderStepsPanel(st progress.State, w int) string {
	title := titleStyle.Render("Steps")
	amount := highlightStyle.Render(fmt.Sprintf("%d / %d  (%d%%)", st.StepCount, progress.MaxSteps, percent(st.StepCount, progress.MaxSteps)))
	bar := progressBar(st.StepCount, progress.MaxSteps, max(w-10, 4))
	hint := mutedStyle.Render("t: add steps  c: calories")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, amount, bar, hint))
}

func (d dashboardModel) renderStreakPanel(st progress.State, w int) string {
	streak := accentStyle.Bold(true).Render(fmt.Sprintf("🔥 %d day streak", st.StreakCount))

	last := mutedStyle.Render("No workouts yet")
	if st.LastWorkoutDate != nil {
		last = mutedStyle.Render("Last workout: " + st.LastWorkoutDate.String())
	}

	workouts := fmt.Sprintf("Today: %d workouts (%s work)   Last 7 days: %d",
		d.todayWorkouts, formatSeconds(d.todayWorkSecs), d.weekWorkouts)

	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Bottom, streak, "   ", last),
		workouts,
	}
	if d.lastCalories != "" {
		rows = append(rows, warningStyle.Render("Calories: "+d.lastCalories))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderBadgesPanel(st progress.State, w int) string {
	badges := progress.Badges(st)
	title := titleStyle.Render(fmt.Sprintf("Badges  %d/%d", progress.UnlockedCount(badges), len(badges)))

	rows := []string{title}
	for _, b := range badges {
		if b.Unlocked {
			rows = append(rows, badgeUnlockedStyle.Render(fmt.Sprintf("  %s %-20s", b.Icon, b.Name))+
				mutedStyle.Render(b.Description))
		} else {
			rows = append(rows, badgeLockedStyle.Render(fmt.Sprintf("  🔒 %-20s%s", b.Name, b.Description)))
		}
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
