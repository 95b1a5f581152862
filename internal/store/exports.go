package store

import "sort"

// LogExport appends an export-history record. History is append-only;
// there is no update or delete path.
func (s *Store) LogExport(rec *ExportRecord) error {
	if rec.Date == "" {
		rec.Date = nowStamp()
	}
	return s.Add("exports", rec)
}

// GetExportHistory returns the user's export records, newest first.
func (s *Store) GetExportHistory(userID string) ([]ExportRecord, error) {
	var recs []ExportRecord
	if err := s.GetByIndex("exports", "userId", Key(userID), &recs); err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Date > recs[j].Date
	})
	return recs, nil
}
