package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTimer
	viewProgress
	viewChallenges
	viewSettings
)

var viewNames = []string{"Dashboard", "Timer", "Progress", "Challenges", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// trackerChangedMsg tells the app that tracked progress moved, so views
// derived from it can reload.
type trackerChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

// progressBar renders a fixed-width bar filled to value/limit.
func progressBar(value, limit, width int) string {
	if width <= 0 || limit <= 0 {
		return ""
	}
	filled := value * width / limit
	filled = max(0, min(filled, width))
	return successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

func percent(value, limit int) int {
	if limit <= 0 {
		return 0
	}
	return min(100, value*100/limit)
}
