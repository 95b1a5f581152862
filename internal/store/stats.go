package store

import (
	"fmt"
	"math"
	"time"
)

// DayStats aggregates one user's tasks on one date.
type DayStats struct {
	TotalTasks          int                       `json:"totalTasks"`
	Completed           int                       `json:"completed"`
	Skipped             int                       `json:"skipped"`
	InProgress          int                       `json:"inProgress"`
	Planned             int                       `json:"planned"`
	Paused              int                       `json:"paused"`
	TotalPlannedMinutes int                       `json:"totalPlannedMinutes"`
	TotalActualMinutes  int                       `json:"totalActualMinutes"`
	TotalDistractions   int                       `json:"totalDistractions"`
	CompletionRate      int                       `json:"completionRate"`
	EfficiencyRate      int                       `json:"efficiencyRate"`
	ByCategory          map[string]*CategoryStats `json:"byCategory"`
}

// CategoryStats is the per-category slice of a day's aggregation.
type CategoryStats struct {
	Count          int `json:"count"`
	PlannedMinutes int `json:"plannedMinutes"`
	ActualMinutes  int `json:"actualMinutes"`
	Completed      int `json:"completed"`
}

// WeekStats aggregates one user's tasks across seven consecutive dates.
type WeekStats struct {
	TotalTasks          int               `json:"totalTasks"`
	Completed           int               `json:"completed"`
	TotalPlannedMinutes int               `json:"totalPlannedMinutes"`
	TotalActualMinutes  int               `json:"totalActualMinutes"`
	MostProductiveDay   *string           `json:"mostProductiveDay"`
	MostProductiveHour  *int              `json:"mostProductiveHour"`
	ByCategory          map[string]int    `json:"byCategory"`
	DailyCompletion     []DailyCompletion `json:"dailyCompletion"`
}

// DailyCompletion is one day's row inside a weekly aggregation.
type DailyCompletion struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Minutes   int    `json:"minutes"`
	Rate      int    `json:"rate"`
}

func roundRate(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// DayStats computes per-status counts, minute sums, distraction totals
// and a per-category breakdown for (userID, date).
func (s *Store) DayStats(userID, date string) (*DayStats, error) {
	tasks, err := s.GetTasksByDay(userID, date)
	if err != nil {
		return nil, err
	}

	stats := &DayStats{
		TotalTasks: len(tasks),
		ByCategory: map[string]*CategoryStats{},
	}
	for _, t := range tasks {
		switch t.Status {
		case StatusCompleted:
			stats.Completed++
		case StatusSkipped:
			stats.Skipped++
		case StatusInProgress:
			stats.InProgress++
		case StatusPlanned:
			stats.Planned++
		case StatusPaused:
			stats.Paused++
		}
		stats.TotalPlannedMinutes += t.PlannedDuration
		if t.ActualDuration != nil {
			stats.TotalActualMinutes += *t.ActualDuration
		}
		stats.TotalDistractions += len(t.Distractions)

		cs := stats.ByCategory[t.Category]
		if cs == nil {
			cs = &CategoryStats{}
			stats.ByCategory[t.Category] = cs
		}
		cs.Count++
		cs.PlannedMinutes += t.PlannedDuration
		if t.ActualDuration != nil {
			cs.ActualMinutes += *t.ActualDuration
		}
		if t.Status == StatusCompleted {
			cs.Completed++
		}
	}

	stats.CompletionRate = roundRate(stats.Completed, stats.TotalTasks)
	stats.EfficiencyRate = roundRate(stats.TotalActualMinutes, stats.TotalPlannedMinutes)
	return stats, nil
}

// WeekStats computes weekly totals, per-day completion rows and the most
// productive day for the seven dates starting at weekStart. The most
// productive day is the one with the strictly greatest completed actual
// minutes; a tie keeps the earliest date. It stays nil when no completed
// minutes were logged at all. The most productive hour is not derived.
func (s *Store) WeekStats(userID, weekStart string) (*WeekStats, error) {
	start, err := time.Parse("2006-01-02", weekStart)
	if err != nil {
		return nil, fmt.Errorf("%w: week start %q: %v", ErrValidation, weekStart, err)
	}

	dates := make([]string, 7)
	daily := make(map[string]*DailyCompletion, 7)
	for i := range dates {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		dates[i] = d
		daily[d] = &DailyCompletion{Date: d}
	}

	tasks, err := s.GetTasksByDateRange(userID, dates[0], dates[6])
	if err != nil {
		return nil, err
	}

	stats := &WeekStats{ByCategory: map[string]int{}}
	for _, t := range tasks {
		stats.TotalTasks++
		stats.TotalPlannedMinutes += t.PlannedDuration
		if t.ActualDuration != nil {
			stats.TotalActualMinutes += *t.ActualDuration
		}
		if row := daily[t.Date]; row != nil {
			row.Total++
			if t.Status == StatusCompleted {
				row.Completed++
				if t.ActualDuration != nil {
					row.Minutes += *t.ActualDuration
				}
				stats.Completed++
			}
		}
		stats.ByCategory[t.Category]++
	}

	maxMinutes := 0
	for _, d := range dates {
		row := daily[d]
		row.Rate = roundRate(row.Completed, row.Total)
		stats.DailyCompletion = append(stats.DailyCompletion, *row)
		if row.Minutes > maxMinutes {
			maxMinutes = row.Minutes
			date := d
			stats.MostProductiveDay = &date
		}
	}
	return stats, nil
}
