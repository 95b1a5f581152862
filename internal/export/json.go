package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chronofocus/chrono/internal/store"
)

// ToJSON writes a full backup snapshot, pretty-printed so the file stays
// inspectable by hand. It returns the byte size written, for the export
// history record.
func ToJSON(snap *store.Snapshot, path string) (int, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write json file: %w", err)
	}
	return len(data), nil
}

// FromJSON reads a snapshot file back for import.
func FromJSON(path string) (*store.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrImportFormat, err)
	}
	return &snap, nil
}

// Restore reads a snapshot file and merges it into the user's data,
// recording the restore in the export history.
func Restore(s *store.Store, path, userID string) error {
	snap, err := FromJSON(path)
	if err != nil {
		return err
	}
	if err := s.ImportData(snap, userID); err != nil {
		return err
	}
	return s.LogExport(&store.ExportRecord{
		UserID:   userID,
		Format:   "json-restore",
		Filename: filepath.Base(path),
	})
}
