package store

import (
	"fmt"
	"sort"
)

// AddDistraction records an interruption against a task. The distraction
// row and the id appended to the task's embedded list are written in one
// transaction.
func (s *Store) AddDistraction(taskID, description string) (*Distraction, error) {
	t, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	d := &Distraction{
		TaskID:      taskID,
		UserID:      t.UserID,
		Description: description,
		Timestamp:   nowStamp(),
	}
	err = s.Transact(func(tx *Store) error {
		if err := tx.Add("distractions", d); err != nil {
			return err
		}
		t.Distractions = append(t.Distractions, d.ID)
		return tx.Update("tasks", t)
	})
	if err != nil {
		return nil, fmt.Errorf("add distraction: %w", err)
	}
	return d, nil
}

// GetDistractionsByTask returns a task's distractions, oldest first.
func (s *Store) GetDistractionsByTask(taskID string) ([]Distraction, error) {
	var ds []Distraction
	if err := s.GetByIndex("distractions", "taskId", Key(taskID), &ds); err != nil {
		return nil, err
	}
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Timestamp < ds[j].Timestamp
	})
	return ds, nil
}
