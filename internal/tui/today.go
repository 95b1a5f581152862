package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/chronofocus/chrono/internal/store"
)

type todayModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	date   string
	tasks  []store.Task
	stats  *store.DayStats
	cursor int
	timer  taskTimer

	formActive bool
	form       *huh.Form
	formType   string // "complete", "skip", "distraction"

	// Form field pointers (survive value copies)
	formNotes  *string
	formRating *string
	formReason *string
}

func newTodayModel(s *store.Store, userID string) todayModel {
	notes, rating, reason := "", "", ""
	return todayModel{
		store:      s,
		userID:     userID,
		date:       today(),
		formNotes:  &notes,
		formRating: &rating,
		formReason: &reason,
	}
}

func (m *todayModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m todayModel) isRunning() bool { return m.timer.running() }
func (m todayModel) isPaused() bool  { return m.timer.pausedState() }

func (m todayModel) loadData() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.store.GetTasksByDay(m.userID, m.date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		stats, err := m.store.DayStats(m.userID, m.date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return tasksLoadedMsg{date: m.date, tasks: tasks, stats: stats}
	}
}

func (m todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.date != m.date {
			return m, nil
		}
		m.tasks = msg.tasks
		m.stats = msg.stats
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		m.timer.track(m.tasks)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Start):
			return m.withSelected(func(t store.Task) (todayModel, tea.Cmd) {
				if _, err := m.store.StartTask(t.ID); err != nil {
					return m, errStatus(err)
				}
				return m, tea.Batch(m.loadData(), statusCmd("Started "+t.Title))
			})
		case key.Matches(msg, keys.Pause):
			return m.withSelected(func(t store.Task) (todayModel, tea.Cmd) {
				if t.Status != store.StatusInProgress {
					return m, nil
				}
				if _, err := m.store.PauseTask(t.ID); err != nil {
					return m, errStatus(err)
				}
				return m, tea.Batch(m.loadData(), statusCmd("Paused "+t.Title))
			})
		case key.Matches(msg, keys.Complete):
			return m.withSelected(func(t store.Task) (todayModel, tea.Cmd) {
				if t.Status.Terminal() {
					return m, statusCmd(t.Title + " is already closed")
				}
				return m.showCompleteForm()
			})
		case key.Matches(msg, keys.Skip):
			return m.withSelected(func(t store.Task) (todayModel, tea.Cmd) {
				if t.Status.Terminal() {
					return m, statusCmd(t.Title + " is already closed")
				}
				return m.showSkipForm()
			})
		case key.Matches(msg, keys.Distraction):
			return m.withSelected(func(t store.Task) (todayModel, tea.Cmd) {
				return m.showDistractionForm()
			})
		}
	}
	return m, nil
}

func (m todayModel) withSelected(fn func(store.Task) (todayModel, tea.Cmd)) (todayModel, tea.Cmd) {
	if len(m.tasks) == 0 || m.cursor >= len(m.tasks) {
		return m, nil
	}
	return fn(m.tasks[m.cursor])
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func (m todayModel) showCompleteForm() (todayModel, tea.Cmd) {
	*m.formNotes = ""
	*m.formRating = ""
	m.formType = "complete"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Completion notes").Value(m.formNotes),
			huh.NewSelect[string]().Title("Rating").
				Options(
					huh.NewOption("none", ""),
					huh.NewOption("★", "1"),
					huh.NewOption("★★", "2"),
					huh.NewOption("★★★", "3"),
					huh.NewOption("★★★★", "4"),
					huh.NewOption("★★★★★", "5"),
				).Value(m.formRating),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m todayModel) showSkipForm() (todayModel, tea.Cmd) {
	*m.formReason = ""
	m.formType = "skip"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Skip reason").Value(m.formReason),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m todayModel) showDistractionForm() (todayModel, tea.Cmd) {
	*m.formNotes = ""
	m.formType = "distraction"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("What distracted you?").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if len(m.tasks) == 0 || m.cursor >= len(m.tasks) {
			return m, nil
		}
		task := m.tasks[m.cursor]

		switch m.formType {
		case "complete":
			var rating *int
			if r := parseRating(*m.formRating); r != 0 {
				rating = &r
			}
			if _, err := m.store.CompleteTask(task.ID, *m.formNotes, rating); err != nil {
				return m, errStatus(err)
			}
			return m, tea.Batch(m.loadData(), statusCmd("Completed "+task.Title))
		case "skip":
			if _, err := m.store.SkipTask(task.ID, *m.formReason); err != nil {
				return m, errStatus(err)
			}
			return m, tea.Batch(m.loadData(), statusCmd("Skipped "+task.Title))
		case "distraction":
			if *m.formNotes != "" {
				if _, err := m.store.AddDistraction(task.ID, *m.formNotes); err != nil {
					return m, errStatus(err)
				}
			}
			return m, m.loadData()
		}
	}

	return m, cmd
}

func parseRating(s string) int {
	switch s {
	case "1", "2", "3", "4", "5":
		return int(s[0] - '0')
	}
	return 0
}

func (m todayModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}

	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Complete Task")
		switch m.formType {
		case "skip":
			title = titleStyle.Render("Skip Task")
		case "distraction":
			title = titleStyle.Render("Log Distraction")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	timerPanel := m.renderTimerPanel(w)
	summaryPanel := m.renderSummaryPanel(w)
	listPanel := m.renderTaskList(w)

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, summaryPanel, listPanel)
}

func (m todayModel) renderTimerPanel(w int) string {
	if m.timer.taskID == "" {
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerStyle.Width(w-6).Render("00:00:00"),
			mutedStyle.Render("■  NOTHING RUNNING"),
			mutedStyle.Render("Press s to start the selected task"),
		)
		return panelStyle.Width(w).Render(content)
	}

	timeStr := formatClock(m.timer.elapsed())
	var timeDisplay, indicator string
	if m.timer.pausedState() {
		timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
		indicator = warningStyle.Render("⏸  PAUSED")
	} else {
		timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
		indicator = successStyle.Render("●  RUNNING")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		highlightStyle.Render(m.timer.title),
	)
	return activePanelStyle.Width(w).Render(content)
}

func (m todayModel) renderSummaryPanel(w int) string {
	title := titleStyle.Render("Today") + "  " + mutedStyle.Render(m.date)
	if m.stats == nil || m.stats.TotalTasks == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No tasks planned")),
		)
	}

	st := m.stats
	line := fmt.Sprintf("  %d tasks  %s done  %s planned / %s actual  %d distractions",
		st.TotalTasks,
		successStyle.Render(fmt.Sprintf("%d%%", st.CompletionRate)),
		formatMinutes(st.TotalPlannedMinutes),
		formatMinutes(st.TotalActualMinutes),
		st.TotalDistractions,
	)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, line))
}

func (m todayModel) renderTaskList(w int) string {
	title := titleStyle.Render("Tasks")
	if len(m.tasks) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				title,
				mutedStyle.Render("Nothing planned. Press 2 for the planner."),
			),
		)
	}

	var rows []string
	rows = append(rows, title)
	for i, t := range m.tasks {
		cursor := "  "
		style := statusStyle(t.Status)
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		glyph := statusStyle(t.Status).Render(statusGlyph(t.Status))
		dur := formatMinutes(t.PlannedDuration)
		if t.ActualDuration != nil {
			dur = formatMinutes(*t.ActualDuration) + mutedStyle.Render("/"+formatMinutes(t.PlannedDuration))
		}
		row := fmt.Sprintf("%s%s %s  %-28s %-10s %s",
			cursor, glyph, t.PlannedStart, style.Render(t.Title), t.Category, dur)
		rows = append(rows, row)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s: start  space: pause  c: complete  x: skip  i: distraction"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
