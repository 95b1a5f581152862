package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chronofocus/chrono/internal/store"
)

type statsModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	weekStartsOn int
	weekStart    string
	offset       int // weeks back from the current one (0 = current)

	week *store.WeekStats
	day  *store.DayStats

	chart barchart.Model
}

func newStatsModel(s *store.Store, userID string) statsModel {
	return statsModel{
		store:  s,
		userID: userID,
		chart:  barchart.New(60, 12),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := m.store.GetSettings(m.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		base := weekStartFor(today(), settings.WeekStartsOn)
		start, _ := time.Parse("2006-01-02", base)
		weekStart := start.AddDate(0, 0, -7*m.offset).Format("2006-01-02")

		week, err := m.store.WeekStats(m.userID, weekStart)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		day, err := m.store.DayStats(m.userID, today())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return weekLoadedMsg{weekStart: weekStart, week: week, day: day}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case weekLoadedMsg:
		m.weekStart = msg.weekStart
		m.week = msg.week
		m.day = msg.day
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
			}
			return m, m.refresh()
		}
	}
	return m, nil
}

// buildChart plots completed minutes per day across the loaded week.
func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	if m.week == nil {
		return
	}

	var bars []barchart.BarData
	for _, row := range m.week.DailyCompletion {
		label := row.Date[5:] // MM-DD
		if d, err := time.Parse("2006-01-02", row.Date); err == nil {
			label = d.Format("Mon 02")
		}

		style := lipgloss.NewStyle().Foreground(colorSuccess)
		if row.Minutes == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "completed", Value: float64(row.Minutes), Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	if m.week == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading..."))
	}

	weekEnd := m.weekStart
	if d, err := time.Parse("2006-01-02", m.weekStart); err == nil {
		weekEnd = d.AddDate(0, 0, 6).Format("2006-01-02")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ",
		mutedStyle.Render(fmt.Sprintf("%s — %s", m.weekStart, weekEnd)),
	)

	chartView := m.chart.View()
	weekTable := m.renderWeekSummary()
	dayTable := m.renderDaySummary()
	nav := mutedStyle.Render("  ←/→: change week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", weekTable, "", dayTable, "", nav,
		),
	)
}

func (m statsModel) renderWeekSummary() string {
	wk := m.week

	var rows []string
	rows = append(rows, titleStyle.Render("This week"))
	rows = append(rows, fmt.Sprintf("  %d tasks, %d completed  %s planned / %s actual",
		wk.TotalTasks, wk.Completed,
		formatMinutes(wk.TotalPlannedMinutes), formatMinutes(wk.TotalActualMinutes)))

	if wk.MostProductiveDay != nil {
		rows = append(rows, "  Most productive: "+successStyle.Render(*wk.MostProductiveDay))
	}

	if len(wk.ByCategory) > 0 {
		names := make([]string, 0, len(wk.ByCategory))
		for name := range wk.ByCategory {
			names = append(names, name)
		}
		sort.Strings(names)
		var items []string
		for _, name := range names {
			items = append(items, fmt.Sprintf("%s %d", name, wk.ByCategory[name]))
		}
		rows = append(rows, mutedStyle.Render("  "+strings.Join(items, "  ")))
	}

	return strings.Join(rows, "\n")
}

func (m statsModel) renderDaySummary() string {
	d := m.day
	if d == nil || d.TotalTasks == 0 {
		return mutedStyle.Render("  No tasks today")
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Today"))
	rows = append(rows, fmt.Sprintf("  completion %s  efficiency %s  distractions %d",
		successStyle.Render(fmt.Sprintf("%d%%", d.CompletionRate)),
		highlightStyle.Render(fmt.Sprintf("%d%%", d.EfficiencyRate)),
		d.TotalDistractions))

	names := make([]string, 0, len(d.ByCategory))
	for name := range d.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cs := d.ByCategory[name]
		rows = append(rows, fmt.Sprintf("  %-14s %d tasks  %s planned  %s actual  %d done",
			name, cs.Count, formatMinutes(cs.PlannedMinutes), formatMinutes(cs.ActualMinutes), cs.Completed))
	}

	return strings.Join(rows, "\n")
}
