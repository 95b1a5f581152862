package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chronofocus/chrono/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewPlanner
	viewStats
	viewCategories
	viewSettings
)

var viewNames = []string{"Today", "Planner", "Stats", "Categories", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type tasksLoadedMsg struct {
	date  string
	tasks []store.Task
	stats *store.DayStats
}

type categoriesLoadedMsg struct {
	categories []store.Category
}

type settingsLoadedMsg struct {
	settings *store.Settings
}

type weekLoadedMsg struct {
	weekStart string
	week      *store.WeekStats
	day       *store.DayStats
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh%02dm", mins/60, mins%60)
}

func formatClock(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// statusGlyph maps a task status to its one-cell list marker.
func statusGlyph(s store.TaskStatus) string {
	switch s {
	case store.StatusCompleted:
		return "✓"
	case store.StatusInProgress:
		return "●"
	case store.StatusPaused:
		return "⏸"
	case store.StatusSkipped:
		return "✗"
	default:
		return "○"
	}
}

func statusStyle(s store.TaskStatus) lipgloss.Style {
	switch s {
	case store.StatusCompleted:
		return successStyle
	case store.StatusInProgress:
		return highlightStyle
	case store.StatusPaused:
		return warningStyle
	case store.StatusSkipped:
		return mutedStyle
	default:
		return normalItemStyle
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// weekStartFor returns the start date of the week containing date,
// honoring the user's week-start setting (0 = Sunday).
func weekStartFor(date string, weekStartsOn int) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	offset := (int(d.Weekday()) - weekStartsOn + 7) % 7
	return d.AddDate(0, 0, -offset).Format("2006-01-02")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
