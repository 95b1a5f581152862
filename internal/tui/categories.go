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

var categoryColors = []string{
	"#3b82f6", "#8b5cf6", "#10b981", "#f59e0b", "#ec4899",
	"#6366f1", "#14b8a6", "#f97316", "#ef4444", "#84cc16",
}

type categoriesModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	categories []store.Category
	cursor     int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"
	editingID  string

	// Form field pointers (survive value copies)
	formName  *string
	formColor *string
	formIcon  *string
}

func newCategoriesModel(s *store.Store, userID string) categoriesModel {
	name, color, icon := "", categoryColors[0], ""
	return categoriesModel{
		store:     s,
		userID:    userID,
		formName:  &name,
		formColor: &color,
		formIcon:  &icon,
	}
}

func (m *categoriesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m categoriesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		cats, err := m.store.GetCategoriesByUser(m.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return categoriesLoadedMsg{categories: cats}
	}
}

func (m categoriesModel) update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.categories = msg.categories
		if m.cursor >= len(m.categories) {
			m.cursor = max(0, len(m.categories)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.categories)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(m.categories) > 0 {
				c := m.categories[m.cursor]
				return m.showForm(&c)
			}
		}
	}
	return m, nil
}

func (m categoriesModel) showForm(c *store.Category) (categoriesModel, tea.Cmd) {
	if c == nil {
		*m.formName = ""
		*m.formColor = categoryColors[0]
		*m.formIcon = ""
		m.formType = "new"
		m.editingID = ""
	} else {
		*m.formName = c.Name
		*m.formColor = c.Color
		*m.formIcon = c.Icon
		m.formType = "edit"
		m.editingID = c.ID
	}

	colorOptions := make([]huh.Option[string], len(categoryColors))
	for i, col := range categoryColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", col), col)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(m.formColor),
			huh.NewInput().Title("Icon").Value(m.formIcon),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m categoriesModel) updateForm(msg tea.Msg) (categoriesModel, tea.Cmd) {
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
		if *m.formName == "" {
			return m, nil
		}

		switch m.formType {
		case "new":
			c := &store.Category{
				UserID: m.userID,
				Name:   *m.formName,
				Color:  *m.formColor,
				Icon:   *m.formIcon,
			}
			if err := m.store.CreateCategory(c); err != nil {
				return m, errStatus(err)
			}
		case "edit":
			patch := store.CategoryPatch{
				Name:  m.formName,
				Color: m.formColor,
				Icon:  m.formIcon,
			}
			if _, err := m.store.UpdateCategory(m.editingID, patch); err != nil {
				return m, errStatus(err)
			}
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m categoriesModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Category")
		if m.formType == "edit" {
			title = titleStyle.Render("Edit Category")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Categories")
	if len(m.categories) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("No categories. Press n to add one.")),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, c := range m.categories {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := fmt.Sprintf("%s %s", c.Icon, c.Name)
		suffix := ""
		if c.IsDefault {
			suffix = mutedStyle.Render("  (default)")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-24s", cursor, colorDot, label))+suffix)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
