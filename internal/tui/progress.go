package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitr/internal/progress"
	"github.com/sadopc/fitr/internal/store"
)

const (
	chartDays         = 7
	chartMeasurements = 7
	tableMeasurements = 8
)

type progressModel struct {
	store   *store.Store
	tracker *progress.Tracker
	width   int
	height  int

	daily        []store.DailyWorkouts
	weightChart  barchart.Model
	sessionChart barchart.Model

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formDate    *string
	formWeight  *string
	formChest   *string
	formWaist   *string
	formArms    *string
	formBodyFat *string
}

func newProgressModel(s *store.Store, tr *progress.Tracker) progressModel {
	date, weight, chest, waist, arms, fat := "", "", "", "", "", ""
	return progressModel{
		store:        s,
		tracker:      tr,
		weightChart:  barchart.New(40, 10),
		sessionChart: barchart.New(40, 10),
		formDate:     &date,
		formWeight:   &weight,
		formChest:    &chest,
		formWaist:    &waist,
		formArms:     &arms,
		formBodyFat:  &fat,
	}
}

func (p *progressModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type progressDataMsg struct {
	daily []store.DailyWorkouts
}

func (p progressModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := sessionRange()
		daily, _ := p.store.GetDailyWorkoutCounts(from, to)
		return progressDataMsg{daily: daily}
	}
}

// sessionRange covers the last chartDays UTC days, today included.
func sessionRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1)
	return end.AddDate(0, 0, -chartDays), end
}

func (p progressModel) update(msg tea.Msg) (progressModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case progressDataMsg:
		p.daily = msg.daily
		p.buildCharts()
		return p, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.New) {
			return p.showForm()
		}
	}
	return p, nil
}

func (p progressModel) showForm() (progressModel, tea.Cmd) {
	for _, v := range []*string{p.formDate, p.formWeight, p.formChest, p.formWaist, p.formArms, p.formBodyFat} {
		*v = ""
	}
	if recent := p.tracker.RecentMeasurements(1); len(recent) > 0 {
		*p.formWeight = strconv.FormatFloat(recent[0].Weight, 'f', -1, 64)
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD, blank for today").
				Value(p.formDate).Validate(optionalDate),
			huh.NewInput().Title("Weight (kg)").Value(p.formWeight).Validate(requiredWeight),
			huh.NewInput().Title("Chest (cm)").Value(p.formChest).Validate(optionalFloat),
			huh.NewInput().Title("Waist (cm)").Value(p.formWaist).Validate(optionalFloat),
			huh.NewInput().Title("Arms (cm)").Value(p.formArms).Validate(optionalFloat),
			huh.NewInput().Title("Body fat (%)").Value(p.formBodyFat).Validate(optionalFloat),
		).Title("New Measurement"),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p progressModel) updateForm(msg tea.Msg) (progressModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		return p.saveMeasurement()
	}
	return p, cmd
}

func (p progressModel) saveMeasurement() (progressModel, tea.Cmd) {
	m := progress.Measurement{
		Weight:         parseFloat(*p.formWeight),
		Chest:          parseFloat(*p.formChest),
		Waist:          parseFloat(*p.formWaist),
		Arms:           parseFloat(*p.formArms),
		BodyFatPercent: parseFloat(*p.formBodyFat),
	}
	if s := strings.TrimSpace(*p.formDate); s != "" {
		m.Date, _ = progress.ParseDate(s)
	}

	if err := p.tracker.AddMeasurement(m); err != nil {
		return p, errorCmd("Saving measurement", err)
	}
	p.buildCharts()
	return p, statusCmd(fmt.Sprintf("Measurement saved: %s kg", strconv.FormatFloat(m.Weight, 'f', -1, 64)))
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func requiredWeight(s string) error {
	if parseFloat(s) <= 0 {
		return progress.ErrWeightRequired
	}
	return nil
}

func optionalFloat(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return errors.New("enter a non-negative number")
	}
	return nil
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := progress.ParseDate(s)
	return err
}

func (p *progressModel) chartSize() (int, int) {
	width := p.width - 8
	if width < 20 {
		width = 20
	}
	height := 8
	if p.height > 36 {
		height = 12
	}
	return width, height
}

func (p *progressModel) buildCharts() {
	width, height := p.chartSize()

	// Weight, oldest to newest.
	p.weightChart = barchart.New(width, height)
	recent := p.tracker.RecentMeasurements(chartMeasurements)
	var weightBars []barchart.BarData
	for i := len(recent) - 1; i >= 0; i-- {
		m := recent[i]
		weightBars = append(weightBars, barchart.BarData{
			Label: fmt.Sprintf("%02d/%02d", int(m.Date.Month), m.Date.Day),
			Values: []barchart.BarValue{{
				Name:  "weight",
				Value: m.Weight,
				Style: lipgloss.NewStyle().Foreground(colorHighlight),
			}},
		})
	}
	if len(weightBars) > 0 {
		p.weightChart.PushAll(weightBars)
		p.weightChart.Draw()
	}

	// Completed sessions per day.
	p.sessionChart = barchart.New(width, height)
	from, to := sessionRange()
	var sessionBars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		value := barchart.BarValue{Name: "sessions", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}
		for _, day := range p.daily {
			if day.Date == dateStr {
				value = barchart.BarValue{
					Name:  "sessions",
					Value: float64(day.Completed),
					Style: lipgloss.NewStyle().Foreground(colorAccent),
				}
			}
		}
		sessionBars = append(sessionBars, barchart.BarData{
			Label:  d.Format("Mon"),
			Values: []barchart.BarValue{value},
		})
	}
	p.sessionChart.PushAll(sessionBars)
	p.sessionChart.Draw()
}

func (p progressModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		return activePanelStyle.Width(w).Render(p.form.View())
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Progress"), "  ",
		mutedStyle.Render(fmt.Sprintf("%d measurements", len(p.tracker.State().Measurements))),
	)

	weight := titleStyle.Render("Weight (kg)")
	var weightView string
	if len(p.tracker.RecentMeasurements(1)) == 0 {
		weightView = mutedStyle.Render("  No measurements yet. Press n to add one.")
	} else {
		weightView = p.weightChart.View()
	}

	sessions := titleStyle.Render(fmt.Sprintf("Completed workouts, last %d days", chartDays))

	nav := mutedStyle.Render("  n: new measurement  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			p.renderMeasurementTable(w), "",
			weight, weightView, "",
			sessions, p.sessionChart.View(), "",
			nav,
		),
	)
}

func (p progressModel) renderMeasurementTable(w int) string {
	recent := p.tracker.RecentMeasurements(tableMeasurements)
	if len(recent) == 0 {
		return mutedStyle.Render("  No measurements recorded")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-12s %8s %8s %8s %8s %8s", "Date", "Weight", "Chest", "Waist", "Arms", "Fat %")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 58))),
	}
	for _, m := range recent {
		rows = append(rows, fmt.Sprintf("  %-12s %8s %8s %8s %8s %8s",
			m.Date, cell(m.Weight), cell(m.Chest), cell(m.Waist), cell(m.Arms), cell(m.BodyFatPercent)))
	}
	return strings.Join(rows, "\n")
}

func cell(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
