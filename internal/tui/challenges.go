package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitr/internal/progress"
)

var challengeTitles = map[string]string{
	progress.ChallengeAbs:     "30-Day Abs",
	progress.ChallengeSteps:   "30-Day Steps",
	progress.ChallengeFatLoss: "30-Day Fat Loss",
}

func challengeTitle(name string) string {
	if title, ok := challengeTitles[name]; ok {
		return title
	}
	return name
}

type challengesModel struct {
	tracker *progress.Tracker
	width   int
	height  int
	cursor  int
}

func newChallengesModel(tr *progress.Tracker) challengesModel {
	return challengesModel{tracker: tr}
}

func (c *challengesModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c challengesModel) names() []string {
	return c.tracker.State().ChallengeNames()
}

func (c challengesModel) update(msg tea.Msg) (challengesModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	names := c.names()
	switch {
	case key.Matches(km, keys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(km, keys.Down):
		if c.cursor < len(names)-1 {
			c.cursor++
		}
	case key.Matches(km, keys.Mark):
		if c.cursor < len(names) {
			return c.markDay(names[c.cursor])
		}
	}
	return c, nil
}

func (c challengesModel) markDay(name string) (challengesModel, tea.Cmd) {
	mark, err := c.tracker.MarkChallengeDay(name)
	changed := func() tea.Msg { return trackerChangedMsg{} }
	switch {
	case errors.Is(err, progress.ErrUnknownChallenge):
		return c, errorCmd("Challenge", err)
	case err != nil:
		return c, tea.Batch(errorCmd("Saving challenge", err), changed)
	}

	text := fmt.Sprintf("%s: day %d/%d", challengeTitle(name), mark.Days, progress.ChallengeLength)
	if mark.Completed {
		text = fmt.Sprintf("%s complete! All %d days done", challengeTitle(name), progress.ChallengeLength)
	}
	if mark.StreakCredited {
		text += fmt.Sprintf("  Streak: %d", c.tracker.State().StreakCount)
	}
	return c, tea.Batch(statusCmd(text), changed)
}

func (c challengesModel) view() string {
	w := c.width - 4
	st := c.tracker.State()

	rows := []string{titleStyle.Render("Challenges"), ""}
	for i, name := range st.ChallengeNames() {
		days := st.ChallengeProgress[name]
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		status := mutedStyle.Render(fmt.Sprintf("%2d/%d days", days, progress.ChallengeLength))
		if days >= progress.ChallengeLength {
			status = successStyle.Render("✓ completed")
		}

		label := style.Render(fmt.Sprintf("%s%-18s", cursor, challengeTitle(name)))
		bar := progressBar(days, progress.ChallengeLength, max(min(w-50, 30), 10))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, label, " ", bar, "  ", status))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  Marking a day also counts as today's workout."))
	rows = append(rows, mutedStyle.Render("  ↑/↓: select  m/enter: mark day"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
