package store

import (
	"errors"
	"fmt"
)

// appTag marks snapshots as ours. Import rejects anything else.
const appTag = "chrono"

// SnapshotMeta describes a backup snapshot.
type SnapshotMeta struct {
	ExportDate string `json:"exportDate"`
	Version    int    `json:"version"`
	App        string `json:"app"`
}

// Snapshot is a full per-user backup: the profile plus every owned
// record, wrapped with metadata.
type Snapshot struct {
	Meta         SnapshotMeta   `json:"meta"`
	User         *User          `json:"user"`
	Days         []Day          `json:"days"`
	Tasks        []Task         `json:"tasks"`
	Categories   []Category     `json:"categories"`
	Settings     *Settings      `json:"settings"`
	Distractions []Distraction  `json:"distractions"`
}

// ExportAllData assembles a snapshot of everything the user owns. The
// password hash is stripped from the embedded profile. Read-only.
func (s *Store) ExportAllData(userID string) (*Snapshot, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	var days []Day
	if err := s.GetByIndex("days", "userId", Key(userID), &days); err != nil {
		return nil, err
	}
	var tasks []Task
	if err := s.GetByIndex("tasks", "userId", Key(userID), &tasks); err != nil {
		return nil, err
	}
	var cats []Category
	if err := s.GetByIndex("categories", "userId", Key(userID), &cats); err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}
	var distractions []Distraction
	if err := s.GetByIndex("distractions", "userId", Key(userID), &distractions); err != nil {
		return nil, err
	}

	return &Snapshot{
		Meta: SnapshotMeta{
			ExportDate: nowStamp(),
			Version:    currentVersion,
			App:        appTag,
		},
		User:         user,
		Days:         days,
		Tasks:        tasks,
		Categories:   cats,
		Settings:     settings,
		Distractions: distractions,
	}, nil
}

// ImportData restores a snapshot into targetUserID's data. Every day and
// task gets a fresh id and is rebound to the target user, with task day
// references remapped to the freshly created days. Only non-default
// categories are imported; defaults are seeded at user creation. The
// import is additive, never replacing existing records, and runs in one
// transaction. Standalone distraction records are not restored; the
// per-task distraction lists carry through unchanged.
func (s *Store) ImportData(snap *Snapshot, targetUserID string) error {
	if snap == nil || snap.Meta.App != appTag {
		return fmt.Errorf("%w: unrecognized snapshot", ErrImportFormat)
	}

	return s.Transact(func(tx *Store) error {
		dayIDs := make(map[string]string, len(snap.Days))
		for _, day := range snap.Days {
			oldID := day.ID
			day.ID = ""
			day.UserID = targetUserID
			err := tx.Add("days", &day)
			if errors.Is(err, ErrConstraint) {
				// The target already anchors that date; fold the
				// imported day into the existing one.
				existing, ferr := tx.GetOrCreateDay(targetUserID, day.Date)
				if ferr != nil {
					return ferr
				}
				dayIDs[oldID] = existing.ID
				continue
			}
			if err != nil {
				return err
			}
			dayIDs[oldID] = day.ID
		}
		for _, task := range snap.Tasks {
			task.ID = ""
			task.UserID = targetUserID
			if mapped, ok := dayIDs[task.DayID]; ok {
				task.DayID = mapped
			}
			if err := tx.Add("tasks", &task); err != nil {
				return err
			}
		}
		for _, cat := range snap.Categories {
			if cat.IsDefault {
				continue
			}
			cat.ID = ""
			cat.UserID = targetUserID
			if err := tx.Add("categories", &cat); err != nil {
				return err
			}
		}
		return nil
	})
}
