package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitr/internal/export"
	"github.com/sadopc/fitr/internal/progress"
	"github.com/sadopc/fitr/internal/store"
	log "github.com/sirupsen/logrus"
)

type exportFormat int

const (
	exportMeasurementsCSV exportFormat = iota
	exportWorkoutsCSV
	exportSnapshotJSON
	exportSnapshotYAML
)

var exportFormats = []string{"Measurements (CSV)", "Workouts (CSV)", "Snapshot (JSON)", "Snapshot (YAML)"}

// App is the root Bubble Tea model.
type App struct {
	store   *store.Store
	tracker *progress.Tracker
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	dashboard  dashboardModel
	timer      timerModel
	progress   progressModel
	challenges challengesModel
	settings   settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s *store.Store, tr *progress.Tracker) App {
	h := help.New()
	h.ShowAll = false

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return App{
		store:      s,
		tracker:    tr,
		activeView: viewDashboard,
		exportDir:  home,
		dashboard:  newDashboardModel(s, tr),
		timer:      newTimerModel(s, tr),
		progress:   newProgressModel(s, tr),
		challenges: newChallengesModel(tr),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.progress.refresh(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.timer.setSize(a.width, contentHeight)
		a.progress.setSize(a.width, contentHeight)
		a.challenges.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.progress.buildCharts()
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.timer, _ = a.timer.stop()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewTimer)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewProgress)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewChallenges)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case intervalTickMsg:
		// Ticks reach the timer whichever view is showing.
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, cmd

	case trackerChangedMsg:
		a.progress.buildCharts()
		return a, tea.Batch(a.dashboard.loadData(), a.progress.refresh())

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		if msg.isError {
			log.WithField("component", "tui").Warn(msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	if v == viewTimer {
		a.timer.syncSettings()
	}
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewProgress:
		a.progress, cmd = a.progress.update(msg)
	case viewChallenges:
		a.challenges, cmd = a.challenges.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}

	// Data messages for background views still need to land.
	switch msg.(type) {
	case dashboardDataMsg:
		if a.activeView != viewDashboard {
			a.dashboard, _ = a.dashboard.update(msg)
		}
	case progressDataMsg:
		if a.activeView != viewProgress {
			a.progress, _ = a.progress.update(msg)
		}
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.formActive
	case viewTimer:
		return a.timer.formActive
	case viewProgress:
		return a.progress.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewProgress:
		return a.progress.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewTimer:
		content = a.timer.view()
	case viewProgress:
		content = a.progress.view()
	case viewChallenges:
		content = a.challenges.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("fitr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)
	right := a.timer.footerIndicator() + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormat(a.exportCursor))
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport copies the tracker state up front; the command runs off the
// event loop and must not touch the tracker.
func (a App) doExport(format exportFormat) tea.Cmd {
	st := a.tracker.State()
	s := a.store
	dir := a.exportDir
	dateStr := time.Now().Format("2006-01-02")

	return func() tea.Msg {
		var path string
		var err error
		switch format {
		case exportMeasurementsCSV:
			path = filepath.Join(dir, fmt.Sprintf("fitr-measurements-%s.csv", dateStr))
			err = export.MeasurementsToCSV(st.Measurements, path)
		case exportWorkoutsCSV:
			path = filepath.Join(dir, fmt.Sprintf("fitr-workouts-%s.csv", dateStr))
			var workouts []store.WorkoutSession
			workouts, err = s.ListWorkouts(store.WorkoutFilter{})
			if err == nil {
				err = export.WorkoutsToCSV(workouts, path)
			}
		case exportSnapshotJSON:
			path = filepath.Join(dir, fmt.Sprintf("fitr-snapshot-%s.json", dateStr))
			err = export.SnapshotToJSON(st, path)
		case exportSnapshotYAML:
			path = filepath.Join(dir, fmt.Sprintf("fitr-snapshot-%s.yaml", dateStr))
			err = export.SnapshotToYAML(st, path)
		default:
			err = fmt.Errorf("unknown export format %d", format)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		log.WithField("component", "export").Infof("exported %s", path)
		return exportDoneMsg{path: path}
	}
}
