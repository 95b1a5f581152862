package store

import (
	"errors"
	"testing"
)

// ============================================================
// Export snapshot
// ============================================================

func TestExportAllDataStripsHash(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "alice")
	s.UpdateUser(u.ID, UserPatch{PasswordHash: strptr("secret-hash")})
	seedTask(t, s, u.ID, "2025-03-01", "09:00", 60)

	snap, err := s.ExportAllData(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Meta.App != appTag || snap.Meta.Version != currentVersion || snap.Meta.ExportDate == "" {
		t.Fatalf("unexpected meta: %+v", snap.Meta)
	}
	if snap.User.PasswordHash != "" {
		t.Fatal("password hash must be stripped from the snapshot")
	}
	if len(snap.Days) != 1 || len(snap.Tasks) != 1 {
		t.Fatalf("expected 1 day and 1 task, got %d/%d", len(snap.Days), len(snap.Tasks))
	}
	if len(snap.Categories) != len(DefaultCategories) {
		t.Fatalf("expected seeded categories in snapshot, got %d", len(snap.Categories))
	}
	if snap.Settings == nil || snap.Settings.UserID != u.ID {
		t.Fatalf("expected settings in snapshot, got %+v", snap.Settings)
	}

	// Export must not mutate the stored profile
	stored, _ := s.GetUser(u.ID)
	if stored.PasswordHash != "secret-hash" {
		t.Fatal("export mutated the stored record")
	}
}

// ============================================================
// Import
// ============================================================

func TestImportDataRejectsForeignSnapshot(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "alice")

	err := s.ImportData(&Snapshot{Meta: SnapshotMeta{App: "other-app"}}, u.ID)
	if !errors.Is(err, ErrImportFormat) {
		t.Fatalf("expected ErrImportFormat, got %v", err)
	}
	err = s.ImportData(nil, u.ID)
	if !errors.Is(err, ErrImportFormat) {
		t.Fatalf("expected ErrImportFormat for nil snapshot, got %v", err)
	}
}

func TestImportRoundTrip(t *testing.T) {
	s := newTestStore(t)
	src := seedUser(t, s, "alice")
	dst := seedUser(t, s, "bob")

	task := seedTask(t, s, src.ID, "2025-03-01", "09:00", 60)
	rating := 5
	s.CompleteTask(task.ID, "done well", &rating)
	s.CreateCategory(&Category{UserID: src.ID, Name: "Deep Work", Color: "#111111", Icon: "🧠"})

	snap, err := s.ExportAllData(src.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ImportData(snap, dst.ID); err != nil {
		t.Fatal(err)
	}

	srcTasks, _ := s.GetTasksByDay(src.ID, "2025-03-01")
	dstTasks, _ := s.GetTasksByDay(dst.ID, "2025-03-01")
	if len(dstTasks) != 1 {
		t.Fatalf("expected 1 imported task, got %d", len(dstTasks))
	}
	want, got := srcTasks[0], dstTasks[0]

	if got.ID == want.ID || got.UserID != dst.ID || got.DayID == want.DayID {
		t.Fatalf("identity fields must be rebound: %+v", got)
	}
	if got.Title != want.Title || got.Category != want.Category ||
		got.PlannedStart != want.PlannedStart || got.PlannedDuration != want.PlannedDuration ||
		got.Status != want.Status || got.CompletionNotes != want.CompletionNotes {
		t.Fatalf("task fields must survive the round trip:\nwant %+v\ngot  %+v", want, got)
	}
	if got.Rating == nil || *got.Rating != 5 {
		t.Fatalf("expected rating to survive, got %v", got.Rating)
	}

	day, err := s.GetDay(got.DayID)
	if err != nil {
		t.Fatal(err)
	}
	if day.UserID != dst.ID || day.Date != "2025-03-01" {
		t.Fatalf("task day reference must point at the imported day: %+v", day)
	}
}

func TestImportSkipsDefaultCategories(t *testing.T) {
	s := newTestStore(t)
	src := seedUser(t, s, "alice")
	dst := seedUser(t, s, "bob")
	s.CreateCategory(&Category{UserID: src.ID, Name: "Deep Work", Color: "#111111", Icon: "🧠"})

	snap, _ := s.ExportAllData(src.ID)
	if err := s.ImportData(snap, dst.ID); err != nil {
		t.Fatal(err)
	}

	cats, _ := s.GetCategoriesByUser(dst.ID)
	if len(cats) != len(DefaultCategories)+1 {
		t.Fatalf("expected defaults plus one custom, got %d", len(cats))
	}
}

func TestImportIsAdditive(t *testing.T) {
	s := newTestStore(t)
	src := seedUser(t, s, "alice")
	dst := seedUser(t, s, "bob")
	seedTask(t, s, src.ID, "2025-03-01", "09:00", 60)

	snap, _ := s.ExportAllData(src.ID)
	if err := s.ImportData(snap, dst.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.ImportData(snap, dst.ID); err != nil {
		t.Fatal(err)
	}

	tasks, _ := s.GetTasksByDay(dst.ID, "2025-03-01")
	if len(tasks) != 2 {
		t.Fatalf("expected duplicated tasks after double import, got %d", len(tasks))
	}
	// Both imports fold into the one existing day for that date
	days, _ := s.GetDaysByRange(dst.ID, "2025-03-01", "2025-03-01")
	if len(days) != 1 {
		t.Fatalf("expected a single day record, got %d", len(days))
	}
}

func strptr(s string) *string { return &s }
