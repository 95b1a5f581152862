package tui

import (
	"time"

	"github.com/chronofocus/chrono/internal/store"
)

// taskTimer is a display-side readout over the running task. Durations
// recorded in the store derive from lifecycle timestamps alone; this
// model only renders how long the task has been going.
type taskTimer struct {
	taskID string
	title  string
	status store.TaskStatus
	start  time.Time
	valid  bool
}

// track points the readout at the day's in-progress or paused task, or
// clears it when none is running.
func (t *taskTimer) track(tasks []store.Task) {
	for _, task := range tasks {
		if task.Status != store.StatusInProgress && task.Status != store.StatusPaused {
			continue
		}
		t.taskID = task.ID
		t.title = task.Title
		t.status = task.Status
		t.valid = false
		if task.ActualStart != nil {
			if start, err := time.Parse(time.RFC3339, *task.ActualStart); err == nil {
				t.start = start
				t.valid = true
			}
		}
		return
	}
	*t = taskTimer{}
}

func (t taskTimer) running() bool {
	return t.taskID != "" && t.status == store.StatusInProgress
}

func (t taskTimer) pausedState() bool {
	return t.taskID != "" && t.status == store.StatusPaused
}

// elapsed is the wall time since the task first started. Pauses are not
// subtracted; the recorded duration comes from the store, not from here.
func (t taskTimer) elapsed() time.Duration {
	if !t.valid {
		return 0
	}
	return time.Since(t.start)
}
