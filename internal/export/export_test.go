package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chronofocus/chrono/internal/store"
)

func sampleData() ([]store.Task, []store.Category) {
	dur := 55
	tasks := []store.Task{
		{
			ID:              "t1",
			UserID:          "u1",
			Date:            "2025-03-01",
			Category:        "Work",
			Title:           "write report",
			PlannedStart:    "09:00",
			PlannedEnd:      "10:00",
			PlannedDuration: 60,
			Status:          store.StatusCompleted,
			ActualDuration:  &dur,
			Distractions:    []string{"d1", "d2"},
			Notes:           "quarterly numbers",
		},
		{
			ID:              "t2",
			UserID:          "u1",
			Date:            "2025-03-01",
			Category:        "Study",
			Title:           "read chapter",
			PlannedStart:    "11:00",
			PlannedEnd:      "11:30",
			PlannedDuration: 30,
			Status:          store.StatusPlanned,
			Distractions:    []string{},
		},
	}
	categories := []store.Category{
		{Name: "Work", Icon: "💼"},
		{Name: "Study", Icon: "📚"},
	}
	return tasks, categories
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	tasks, categories := sampleData()
	path := filepath.Join(t.TempDir(), "tasks.csv")

	if err := ToCSV(tasks, categories, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}
	if records[0][0] != "Date" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if !strings.Contains(records[1][2], "Work") {
		t.Fatalf("expected category name in row, got %q", records[1][2])
	}
	if records[1][6] != "55" {
		t.Fatalf("expected actual minutes 55, got %q", records[1][6])
	}
	// Planned task has no actual duration
	if records[2][6] != "" {
		t.Fatalf("expected empty actual for planned task, got %q", records[2][6])
	}
	if records[1][8] != "2" {
		t.Fatalf("expected 2 distractions, got %q", records[1][8])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSONRoundTrip(t *testing.T) {
	tasks, categories := sampleData()
	snap := &store.Snapshot{
		Meta:       store.SnapshotMeta{ExportDate: "2025-03-01T12:00:00Z", Version: 1, App: "chrono"},
		User:       &store.User{ID: "u1", Username: "alice"},
		Tasks:      tasks,
		Categories: categories,
	}
	path := filepath.Join(t.TempDir(), "backup.json")

	size, err := ToJSON(snap, path)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if size == 0 {
		t.Fatal("expected non-zero size")
	}

	got, err := FromJSON(path)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Meta.App != "chrono" || len(got.Tasks) != 2 {
		t.Fatalf("unexpected snapshot: %+v", got.Meta)
	}
	if got.Tasks[0].Title != "write report" {
		t.Fatalf("unexpected task: %+v", got.Tasks[0])
	}
}

func TestToJSONIsIndented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	snap := &store.Snapshot{Meta: store.SnapshotMeta{App: "chrono"}}
	if _, err := ToJSON(snap, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !json.Valid(data) {
		t.Fatal("invalid json written")
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("expected indented output")
	}
}

func TestFromJSONBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.json")
	os.WriteFile(path, []byte("{not json"), 0o644)
	if _, err := FromJSON(path); err == nil {
		t.Fatal("expected error for malformed file")
	}
}

// ============================================================
// Restore
// ============================================================

func TestRestoreMergesSnapshotFile(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	src := &store.User{Username: "alice"}
	if err := s.CreateUser(src); err != nil {
		t.Fatal(err)
	}
	dst := &store.User{Username: "bob"}
	if err := s.CreateUser(dst); err != nil {
		t.Fatal(err)
	}
	task := &store.Task{
		UserID:          src.ID,
		Date:            "2025-03-01",
		Category:        "Work",
		Title:           "write report",
		PlannedStart:    "09:00",
		PlannedDuration: 60,
	}
	if err := s.CreateTask(task); err != nil {
		t.Fatal(err)
	}

	snap, err := s.ExportAllData(src.ID)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "backup.json")
	if _, err := ToJSON(snap, path); err != nil {
		t.Fatal(err)
	}

	if err := Restore(s, path, dst.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	tasks, err := s.GetTasksByDay(dst.ID, "2025-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "write report" {
		t.Fatalf("expected restored task, got %+v", tasks)
	}
	if tasks[0].UserID != dst.ID {
		t.Fatalf("restored task must be rebound to the target profile, got %s", tasks[0].UserID)
	}

	hist, err := s.GetExportHistory(dst.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 || hist[0].Format != "json-restore" {
		t.Fatalf("expected restore recorded in history, got %+v", hist)
	}
}

func TestRestoreRejectsMalformedFile(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	u := &store.User{Username: "alice"}
	if err := s.CreateUser(u); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "junk.json")
	os.WriteFile(path, []byte("{not json"), 0o644)
	if err := Restore(s, path, u.ID); err == nil {
		t.Fatal("expected error for malformed backup")
	}

	hist, _ := s.GetExportHistory(u.ID)
	if len(hist) != 0 {
		t.Fatalf("failed restore must not be recorded, got %+v", hist)
	}
}
