package store

import (
	"fmt"
	"sort"
	"time"
)

// CreateTask inserts a new task in the planned state. The owning day is
// materialized first when the caller did not supply one.
func (s *Store) CreateTask(t *Task) error {
	if t.UserID == "" || t.Date == "" {
		return fmt.Errorf("%w: task requires userId and date", ErrValidation)
	}
	if t.DayID == "" {
		day, err := s.GetOrCreateDay(t.UserID, t.Date)
		if err != nil {
			return err
		}
		t.DayID = day.ID
	}
	if t.Status == "" {
		t.Status = StatusPlanned
	}
	t.ActualStart = nil
	t.ActualEnd = nil
	t.ActualDuration = nil
	if t.Distractions == nil {
		t.Distractions = []string{}
	}
	return s.Add("tasks", t)
}

func (s *Store) GetTask(id string) (*Task, error) {
	var t Task
	found, err := s.Get("tasks", id, &t)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return &t, nil
}

// GetTasksByDay returns the user's tasks on one date, ascending by
// planned start time.
func (s *Store) GetTasksByDay(userID, date string) ([]Task, error) {
	var tasks []Task
	if err := s.GetByIndex("tasks", "userDate", Key(userID, date), &tasks); err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].PlannedStart < tasks[j].PlannedStart
	})
	return tasks, nil
}

// GetTasksByDateRange returns the user's tasks with
// startDate <= date <= endDate, ascending by date then planned start.
func (s *Store) GetTasksByDateRange(userID, startDate, endDate string) ([]Task, error) {
	var tasks []Task
	err := s.GetByIndexRange("tasks", "userDate", Key(userID, startDate), Key(userID, endDate), &tasks)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Date != tasks[j].Date {
			return tasks[i].Date < tasks[j].Date
		}
		return tasks[i].PlannedStart < tasks[j].PlannedStart
	})
	return tasks, nil
}

func (s *Store) UpdateTask(id string, p TaskPatch) (*Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	p.apply(t)
	if err := s.Update("tasks", t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) DeleteTask(id string) error {
	return s.Remove("tasks", id)
}

// UpdateTaskStatus moves a task to status, applying the lifecycle entry
// effects. Transitions out of a terminal state are rejected; the
// controller itself stays a pure effect function.
func (s *Store) UpdateTaskStatus(id string, status TaskStatus) (*Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	if t.Status.Terminal() && status != t.Status {
		return nil, fmt.Errorf("%w: task %s is %s", ErrValidation, id, t.Status)
	}
	applyTransition(t, status, time.Now())
	if err := s.Update("tasks", t); err != nil {
		return nil, err
	}
	return t, nil
}

// StartTask begins executing a task. At most one task per day may run:
// any other in-progress task of the same user and date is paused first.
func (s *Store) StartTask(id string) (*Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	siblings, err := s.GetTasksByDay(t.UserID, t.Date)
	if err != nil {
		return nil, err
	}
	for _, sib := range siblings {
		if sib.ID != t.ID && sib.Status == StatusInProgress {
			if _, err := s.UpdateTaskStatus(sib.ID, StatusPaused); err != nil {
				return nil, err
			}
		}
	}
	return s.UpdateTaskStatus(id, StatusInProgress)
}

func (s *Store) PauseTask(id string) (*Task, error) {
	return s.UpdateTaskStatus(id, StatusPaused)
}

// CompleteTask finishes a task, optionally recording a rating and
// completion notes alongside the derived duration.
func (s *Store) CompleteTask(id string, completionNotes string, rating *int) (*Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	if t.Status.Terminal() {
		return nil, fmt.Errorf("%w: task %s is %s", ErrValidation, id, t.Status)
	}
	applyTransition(t, StatusCompleted, time.Now())
	t.CompletionNotes = completionNotes
	if rating != nil {
		t.Rating = rating
	}
	if err := s.Update("tasks", t); err != nil {
		return nil, err
	}
	return t, nil
}

// SkipTask marks a task skipped; actualDuration is forced to zero even
// when time was already spent on it.
func (s *Store) SkipTask(id string, reason string) (*Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	if t.Status.Terminal() {
		return nil, fmt.Errorf("%w: task %s is %s", ErrValidation, id, t.Status)
	}
	applyTransition(t, StatusSkipped, time.Now())
	t.SkipReason = reason
	if err := s.Update("tasks", t); err != nil {
		return nil, err
	}
	return t, nil
}
