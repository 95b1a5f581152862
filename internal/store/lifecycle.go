package store

import (
	"math"
	"time"
)

// The lifecycle controller computes the entry effects of a status
// transition. It is a pure effect function: it does not judge whether
// the transition is legal. The guard lives in UpdateTaskStatus.

// applyTransition mutates t with the entry effects of moving to status
// at the given instant.
//
//   - in-progress: actualStart is set once, on first entry.
//   - completed:   actualEnd is set; actualDuration derives from
//     actualStart when present (minutes, half-rounded).
//   - skipped:     actualEnd is set and actualDuration forced to 0,
//     regardless of any elapsed time.
//   - paused:      no timestamp effect.
func applyTransition(t *Task, status TaskStatus, at time.Time) {
	ts := at.UTC().Format(time.RFC3339)
	t.Status = status

	switch status {
	case StatusInProgress:
		if t.ActualStart == nil {
			t.ActualStart = &ts
		}
	case StatusCompleted:
		t.ActualEnd = &ts
		if t.ActualStart != nil {
			if start, err := time.Parse(time.RFC3339, *t.ActualStart); err == nil {
				mins := int(math.Round(at.Sub(start).Minutes()))
				t.ActualDuration = &mins
			}
		}
	case StatusSkipped:
		t.ActualEnd = &ts
		zero := 0
		t.ActualDuration = &zero
	case StatusPaused:
		// Applied without additional data; accepted as-is.
	}
}
