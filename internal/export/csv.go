package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/chronofocus/chrono/internal/store"
)

// ToCSV writes a task table for spreadsheet use. Categories resolve the
// icon shown next to the category name.
func ToCSV(tasks []store.Task, categories []store.Category, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	icons := make(map[string]string, len(categories))
	for _, c := range categories {
		icons[c.Name] = c.Icon
	}

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	header := []string{
		"Date", "Title", "Category", "Planned Start", "Planned End",
		"Planned (min)", "Actual (min)", "Status", "Distractions", "Notes",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, t := range tasks {
		category := t.Category
		if icon := icons[t.Category]; icon != "" {
			category = icon + " " + t.Category
		}
		actual := ""
		if t.ActualDuration != nil {
			actual = fmt.Sprintf("%d", *t.ActualDuration)
		}

		row := []string{
			t.Date,
			t.Title,
			category,
			t.PlannedStart,
			t.PlannedEnd,
			fmt.Sprintf("%d", t.PlannedDuration),
			actual,
			string(t.Status),
			fmt.Sprintf("%d", len(t.Distractions)),
			t.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
