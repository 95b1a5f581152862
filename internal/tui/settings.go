package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/chronofocus/chrono/internal/store"
)

type settingsModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	settings   *store.Settings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	timeInterval  *string
	dayStart      *string
	dayEnd        *string
	reminder      *string
	theme         *string
	weekStart     *string
	timeFormat    *string
	notifications *bool
	sound         *bool
}

func newSettingsModel(s *store.Store, userID string) settingsModel {
	ti, ds, de, rm := "", "", "", ""
	th, ws, tf := "", "", ""
	nt, snd := false, false
	return settingsModel{
		store:         s,
		userID:        userID,
		timeInterval:  &ti,
		dayStart:      &ds,
		dayEnd:        &de,
		reminder:      &rm,
		theme:         &th,
		weekStart:     &ws,
		timeFormat:    &tf,
		notifications: &nt,
		sound:         &snd,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := m.store.GetSettings(m.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return settingsLoadedMsg{settings: settings}
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsLoadedMsg:
		m.settings = msg.settings
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			if m.settings != nil {
				return m.showForm()
			}
		}
	}
	return m, nil
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	st := m.settings
	*m.timeInterval = strconv.Itoa(st.TimeInterval)
	*m.dayStart = strconv.Itoa(st.DayStartHour)
	*m.dayEnd = strconv.Itoa(st.DayEndHour)
	*m.reminder = strconv.Itoa(st.ReminderMinutes)
	*m.theme = st.Theme
	*m.weekStart = strconv.Itoa(st.WeekStartsOn)
	*m.timeFormat = st.TimeFormat
	*m.notifications = st.NotificationsEnabled
	*m.sound = st.SoundEnabled

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Planner slot (min)").Value(m.timeInterval),
			huh.NewInput().Title("Day starts (hour)").Value(m.dayStart),
			huh.NewInput().Title("Day ends (hour)").Value(m.dayEnd),
			huh.NewInput().Title("Reminder lead (min)").Value(m.reminder),
		).Title("Planning"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).Value(m.theme),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Sunday", "0"),
					huh.NewOption("Monday", "1"),
				).Value(m.weekStart),
			huh.NewSelect[string]().Title("Time format").
				Options(
					huh.NewOption("24h", "24h"),
					huh.NewOption("12h", "12h"),
				).Value(m.timeFormat),
			huh.NewConfirm().Title("Notifications").Value(m.notifications),
			huh.NewConfirm().Title("Sound").Value(m.sound),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
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
		if err := m.saveSettings(); err != nil {
			return m, errStatus(err)
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m settingsModel) saveSettings() error {
	patch := store.SettingsPatch{
		Theme:      m.theme,
		TimeFormat: m.timeFormat,
	}
	if v, err := strconv.Atoi(*m.timeInterval); err == nil {
		patch.TimeInterval = &v
	}
	if v, err := strconv.Atoi(*m.dayStart); err == nil {
		patch.DayStartHour = &v
	}
	if v, err := strconv.Atoi(*m.dayEnd); err == nil {
		patch.DayEndHour = &v
	}
	if v, err := strconv.Atoi(*m.reminder); err == nil {
		patch.ReminderMinutes = &v
	}
	if v, err := strconv.Atoi(*m.weekStart); err == nil {
		patch.WeekStartsOn = &v
	}
	patch.NotificationsEnabled = m.notifications
	patch.SoundEnabled = m.sound

	_, err := m.store.UpdateSettings(m.userID, patch)
	return err
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", m.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	if m.settings == nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("Loading...")),
		)
	}

	st := m.settings
	weekDay := "Sunday"
	if st.WeekStartsOn == 1 {
		weekDay = "Monday"
	}

	rows := []string{
		title,
		"",
		settingRow("Planner slot", fmt.Sprintf("%d min", st.TimeInterval)),
		settingRow("Day window", fmt.Sprintf("%02d:00 — %02d:00", st.DayStartHour, st.DayEndHour)),
		settingRow("Reminder lead", fmt.Sprintf("%d min", st.ReminderMinutes)),
		settingRow("Theme", st.Theme),
		settingRow("Week starts on", weekDay),
		settingRow("Time format", st.TimeFormat),
		settingRow("Notifications", onOff(st.NotificationsEnabled)),
		settingRow("Sound", onOff(st.SoundEnabled)),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func settingRow(label, value string) string {
	l := lipgloss.NewStyle().Width(24).Render(label)
	return fmt.Sprintf("  %s %s", l, highlightStyle.Render(value))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
