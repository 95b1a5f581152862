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

	"github.com/chronofocus/chrono/internal/store"
)

type plannerModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	date       string
	tasks      []store.Task
	categories []store.Category
	cursor     int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"
	editingID  string

	// Form field pointers (survive value copies)
	formTitle    *string
	formCategory *string
	formStart    *string
	formDuration *string
	formNotes    *string
}

func newPlannerModel(s *store.Store, userID string) plannerModel {
	title, category, start, duration, notes := "", "", "", "", ""
	return plannerModel{
		store:        s,
		userID:       userID,
		date:         today(),
		formTitle:    &title,
		formCategory: &category,
		formStart:    &start,
		formDuration: &duration,
		formNotes:    &notes,
	}
}

func (m *plannerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m plannerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.store.GetTasksByDay(m.userID, m.date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		cats, err := m.store.GetCategoriesByUser(m.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return plannerDataMsg{date: m.date, tasks: tasks, categories: cats}
	}
}

type plannerDataMsg struct {
	date       string
	tasks      []store.Task
	categories []store.Category
}

func (m plannerModel) shiftDate(days int) (plannerModel, tea.Cmd) {
	d, err := time.Parse("2006-01-02", m.date)
	if err != nil {
		return m, nil
	}
	m.date = d.AddDate(0, 0, days).Format("2006-01-02")
	m.cursor = 0
	return m, m.refresh()
}

func (m plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case plannerDataMsg:
		if msg.date != m.date {
			return m, nil
		}
		m.tasks = msg.tasks
		m.categories = msg.categories
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
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
		case key.Matches(msg, keys.Left):
			return m.shiftDate(-1)
		case key.Matches(msg, keys.Right):
			return m.shiftDate(1)
		case key.Matches(msg, keys.New):
			return m.showTaskForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(m.tasks) > 0 {
				t := m.tasks[m.cursor]
				return m.showTaskForm(&t)
			}
		case key.Matches(msg, keys.Delete):
			if len(m.tasks) > 0 {
				t := m.tasks[m.cursor]
				if err := m.store.DeleteTask(t.ID); err != nil {
					return m, errStatus(err)
				}
				return m, tea.Batch(m.refresh(), statusCmd("Deleted "+t.Title))
			}
		}
	}
	return m, nil
}

func (m plannerModel) showTaskForm(t *store.Task) (plannerModel, tea.Cmd) {
	if t == nil {
		*m.formTitle = ""
		*m.formCategory = ""
		*m.formStart = "09:00"
		*m.formDuration = "30"
		*m.formNotes = ""
		m.formType = "new"
		m.editingID = ""
	} else {
		*m.formTitle = t.Title
		*m.formCategory = t.Category
		*m.formStart = t.PlannedStart
		*m.formDuration = strconv.Itoa(t.PlannedDuration)
		*m.formNotes = t.Notes
		m.formType = "edit"
		m.editingID = t.ID
	}

	catOptions := make([]huh.Option[string], 0, len(m.categories))
	for _, c := range m.categories {
		catOptions = append(catOptions, huh.NewOption(c.Icon+" "+c.Name, c.Name))
	}
	if len(catOptions) == 0 {
		catOptions = append(catOptions, huh.NewOption("uncategorized", ""))
	}
	if *m.formCategory == "" && len(m.categories) > 0 {
		*m.formCategory = m.categories[0].Name
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewInput().Title("Start (HH:MM)").Value(m.formStart),
			huh.NewInput().Title("Duration (min)").Value(m.formDuration),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m plannerModel) updateForm(msg tea.Msg) (plannerModel, tea.Cmd) {
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
		if *m.formTitle == "" {
			return m, nil
		}

		duration, err := strconv.Atoi(*m.formDuration)
		if err != nil || duration < 0 {
			duration = 30
		}
		end := plannedEnd(*m.formStart, duration)

		switch m.formType {
		case "new":
			task := &store.Task{
				UserID:          m.userID,
				Date:            m.date,
				Category:        *m.formCategory,
				Title:           *m.formTitle,
				PlannedStart:    *m.formStart,
				PlannedEnd:      end,
				PlannedDuration: duration,
				Notes:           *m.formNotes,
			}
			if err := m.store.CreateTask(task); err != nil {
				return m, errStatus(err)
			}
			return m, tea.Batch(m.refresh(), statusCmd("Planned "+task.Title))
		case "edit":
			patch := store.TaskPatch{
				Title:           m.formTitle,
				Category:        m.formCategory,
				PlannedStart:    m.formStart,
				PlannedEnd:      &end,
				PlannedDuration: &duration,
				Notes:           m.formNotes,
			}
			if _, err := m.store.UpdateTask(m.editingID, patch); err != nil {
				return m, errStatus(err)
			}
			return m, m.refresh()
		}
	}

	return m, cmd
}

// plannedEnd derives the end-of-slot time from start plus duration.
func plannedEnd(start string, duration int) string {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return start
	}
	return t.Add(time.Duration(duration) * time.Minute).Format("15:04")
}

func (m plannerModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		if m.formType == "edit" {
			title = titleStyle.Render("Edit Task")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Planner") + "  " + highlightStyle.Render(m.date)

	if len(m.tasks) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				title,
				"",
				mutedStyle.Render("No tasks on this day. Press n to plan one."),
				"",
				mutedStyle.Render("  ←/→: change day  n: new"),
			),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-2s %-7s %-28s %-12s %-8s", "", "Start", "Title", "Category", "Planned")))

	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		glyph := statusStyle(t.Status).Render(statusGlyph(t.Status))
		row := fmt.Sprintf("%s%s %-7s %-28s %-12s %-8s",
			cursor, glyph, t.PlannedStart, style.Render(t.Title), t.Category, formatMinutes(t.PlannedDuration))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: change day  n: new  e: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
