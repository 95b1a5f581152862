package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/chronofocus/chrono/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *store.Store) *store.User {
	t.Helper()
	u := &store.User{Username: "alice", DisplayName: "Alice"}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedTask(t *testing.T, s *store.Store, userID, date, start string) *store.Task {
	t.Helper()
	task := &store.Task{
		UserID:          userID,
		Date:            date,
		Category:        "Work",
		Title:           "task " + start,
		PlannedStart:    start,
		PlannedDuration: 30,
	}
	if err := s.CreateTask(task); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

// ============================================================
// Task timer readout
// ============================================================

func TestTimerTracksRunningTask(t *testing.T) {
	startTS := time.Now().Add(-90 * time.Second).UTC().Format(time.RFC3339)
	tasks := []store.Task{
		{ID: "t1", Title: "planned one", Status: store.StatusPlanned},
		{ID: "t2", Title: "running one", Status: store.StatusInProgress, ActualStart: &startTS},
	}

	var timer taskTimer
	timer.track(tasks)

	if !timer.running() {
		t.Fatal("expected running")
	}
	if timer.taskID != "t2" || timer.title != "running one" {
		t.Fatalf("tracked wrong task: %+v", timer)
	}
	if e := timer.elapsed(); e < 85*time.Second || e > 100*time.Second {
		t.Fatalf("unexpected elapsed: %v", e)
	}
}

func TestTimerTracksPausedTask(t *testing.T) {
	startTS := time.Now().UTC().Format(time.RFC3339)
	tasks := []store.Task{
		{ID: "t1", Title: "paused", Status: store.StatusPaused, ActualStart: &startTS},
	}

	var timer taskTimer
	timer.track(tasks)

	if timer.running() {
		t.Fatal("paused task should not report running")
	}
	if !timer.pausedState() {
		t.Fatal("expected paused state")
	}
}

func TestTimerClearsWhenNothingRuns(t *testing.T) {
	startTS := time.Now().UTC().Format(time.RFC3339)
	var timer taskTimer
	timer.track([]store.Task{
		{ID: "t1", Status: store.StatusInProgress, ActualStart: &startTS},
	})
	if timer.taskID == "" {
		t.Fatal("expected tracked task")
	}

	timer.track([]store.Task{
		{ID: "t1", Status: store.StatusCompleted},
	})
	if timer.taskID != "" || timer.running() {
		t.Fatalf("expected cleared timer, got %+v", timer)
	}
}

func TestTimerElapsedWithoutStart(t *testing.T) {
	tasks := []store.Task{
		{ID: "t1", Status: store.StatusInProgress},
	}
	var timer taskTimer
	timer.track(tasks)
	if timer.elapsed() != 0 {
		t.Fatal("no actualStart means zero elapsed")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		mins int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h00m"},
		{95, "1h35m"},
		{600, "10h00m"},
	}
	for _, c := range cases {
		if got := formatMinutes(c.mins); got != c.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", c.mins, got, c.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{61 * time.Second, "00:01:01"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "02:03:04"},
	}
	for _, c := range cases {
		if got := formatClock(c.d); got != c.want {
			t.Errorf("formatClock(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestStatusGlyph(t *testing.T) {
	if statusGlyph(store.StatusCompleted) != "✓" {
		t.Error("completed glyph")
	}
	if statusGlyph(store.StatusInProgress) != "●" {
		t.Error("in-progress glyph")
	}
	if statusGlyph(store.StatusPlanned) != "○" {
		t.Error("planned glyph")
	}
}

func TestWeekStartFor(t *testing.T) {
	// 2025-03-05 is a Wednesday
	if got := weekStartFor("2025-03-05", 0); got != "2025-03-02" {
		t.Errorf("sunday start = %q", got)
	}
	if got := weekStartFor("2025-03-05", 1); got != "2025-03-03" {
		t.Errorf("monday start = %q", got)
	}
	// A date already on the week start maps to itself
	if got := weekStartFor("2025-03-03", 1); got != "2025-03-03" {
		t.Errorf("fixpoint = %q", got)
	}
}

func TestParseRating(t *testing.T) {
	if parseRating("") != 0 {
		t.Error("empty rating")
	}
	if parseRating("3") != 3 {
		t.Error("rating 3")
	}
	if parseRating("9") != 0 {
		t.Error("out of range rating")
	}
}

func TestPlannedEnd(t *testing.T) {
	if got := plannedEnd("09:00", 90); got != "10:30" {
		t.Errorf("plannedEnd = %q", got)
	}
	if got := plannedEnd("junk", 30); got != "junk" {
		t.Errorf("bad input should pass through, got %q", got)
	}
}

// ============================================================
// View wiring
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 views, got %d", len(viewNames))
	}
	if viewNames[viewToday] != "Today" || viewNames[viewSettings] != "Settings" {
		t.Fatalf("unexpected view names: %v", viewNames)
	}
}

// ============================================================
// Today view
// ============================================================

func TestTodayLoadData(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	date := time.Now().Format("2006-01-02")
	seedTask(t, s, u.ID, date, "09:00")

	m := newTodayModel(s, u.ID)
	msg := m.loadData()()

	loaded, ok := msg.(tasksLoadedMsg)
	if !ok {
		t.Fatalf("expected tasksLoadedMsg, got %T", msg)
	}
	if len(loaded.tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(loaded.tasks))
	}
	if loaded.stats == nil || loaded.stats.TotalTasks != 1 {
		t.Fatalf("expected stats, got %+v", loaded.stats)
	}

	m, _ = m.update(loaded)
	if len(m.tasks) != 1 {
		t.Fatal("model did not absorb loaded tasks")
	}
}

func TestTodayTracksRunningTask(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	date := time.Now().Format("2006-01-02")
	task := seedTask(t, s, u.ID, date, "09:00")
	if _, err := s.StartTask(task.ID); err != nil {
		t.Fatal(err)
	}

	m := newTodayModel(s, u.ID)
	msg := m.loadData()()
	m, _ = m.update(msg)

	if !m.isRunning() {
		t.Fatal("expected running readout after start")
	}
}

// ============================================================
// Planner view
// ============================================================

func TestPlannerRefresh(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	date := time.Now().Format("2006-01-02")
	seedTask(t, s, u.ID, date, "09:00")
	seedTask(t, s, u.ID, date, "10:00")

	m := newPlannerModel(s, u.ID)
	msg := m.refresh()()

	loaded, ok := msg.(plannerDataMsg)
	if !ok {
		t.Fatalf("expected plannerDataMsg, got %T", msg)
	}
	if len(loaded.tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(loaded.tasks))
	}
	if len(loaded.categories) == 0 {
		t.Fatal("expected seeded categories")
	}
}

func TestPlannerShiftDate(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	m := newPlannerModel(s, u.ID)
	m.date = "2025-03-05"
	m, _ = m.shiftDate(-1)
	if m.date != "2025-03-04" {
		t.Fatalf("expected previous day, got %s", m.date)
	}
	m, _ = m.shiftDate(2)
	if m.date != "2025-03-06" {
		t.Fatalf("expected two days forward, got %s", m.date)
	}
}

// ============================================================
// Stats view
// ============================================================

func TestStatsRefresh(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	date := time.Now().Format("2006-01-02")
	seedTask(t, s, u.ID, date, "09:00")

	m := newStatsModel(s, u.ID)
	m.setSize(100, 40)
	msg := m.refresh()()

	loaded, ok := msg.(weekLoadedMsg)
	if !ok {
		t.Fatalf("expected weekLoadedMsg, got %T", msg)
	}
	if loaded.week == nil || len(loaded.week.DailyCompletion) != 7 {
		t.Fatalf("expected 7-day week, got %+v", loaded.week)
	}

	m, _ = m.update(loaded)
	if m.week == nil {
		t.Fatal("model did not absorb week stats")
	}
	if m.view() == "" {
		t.Fatal("empty stats view")
	}
}

// ============================================================
// Settings view
// ============================================================

func TestSettingsRefresh(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	m := newSettingsModel(s, u.ID)
	msg := m.refresh()()

	loaded, ok := msg.(settingsLoadedMsg)
	if !ok {
		t.Fatalf("expected settingsLoadedMsg, got %T", msg)
	}
	if loaded.settings.Theme != "dark" {
		t.Fatalf("expected default theme, got %q", loaded.settings.Theme)
	}

	m, _ = m.update(loaded)
	m.setSize(80, 24)
	if m.view() == "" {
		t.Fatal("empty settings view")
	}
}

// ============================================================
// App wiring
// ============================================================

func TestAppInit(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	app := NewApp(s, u)
	if app.activeView != viewToday {
		t.Fatal("app should open on the Today view")
	}
	if cmd := app.Init(); cmd == nil {
		t.Fatal("Init should load data and start the ticker")
	}
}

func TestStatusLineMarksErrors(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	app := NewApp(s, u)
	app.width, app.height = 80, 24

	model, _ := app.Update(statusMsg{text: "something broke", isError: true})
	a := model.(App)
	if !a.statusErr {
		t.Fatal("expected error flag carried into the status line")
	}
	if footer := a.renderFooter(); !strings.Contains(footer, "something broke") {
		t.Fatal("expected status text in footer")
	}

	model, _ = a.Update(statusMsg{text: "all fine"})
	a = model.(App)
	if a.statusErr {
		t.Fatal("plain notice must clear the error flag")
	}
}

func TestExportSurfacesStoreErrors(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	app := NewApp(s, u)
	s.Close()

	msg := app.doExport(0)()
	status, ok := msg.(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg, got %T", msg)
	}
	if !status.isError {
		t.Fatal("export against a closed store must report an error")
	}
}
