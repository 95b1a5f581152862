package store

import (
	"errors"
	"fmt"
)

// GetOrCreateDay returns the day anchoring (userID, date), materializing
// it on first reference. The userDate unique index backstops the
// get-before-create: if a concurrent create slips in between, the
// constraint failure resolves to returning the existing record.
func (s *Store) GetOrCreateDay(userID, date string) (*Day, error) {
	var days []Day
	if err := s.GetByIndex("days", "userDate", Key(userID, date), &days); err != nil {
		return nil, err
	}
	if len(days) > 0 {
		return &days[0], nil
	}

	day := &Day{
		UserID: userID,
		Date:   date,
		Goals:  []string{},
	}
	err := s.Add("days", day)
	if errors.Is(err, ErrConstraint) {
		if err := s.GetByIndex("days", "userDate", Key(userID, date), &days); err != nil {
			return nil, err
		}
		if len(days) > 0 {
			return &days[0], nil
		}
	}
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (s *Store) GetDay(id string) (*Day, error) {
	var d Day
	found, err := s.Get("days", id, &d)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("day %s: %w", id, ErrNotFound)
	}
	return &d, nil
}

// GetDaysByRange returns the user's days with startDate <= date <= endDate,
// ascending by date.
func (s *Store) GetDaysByRange(userID, startDate, endDate string) ([]Day, error) {
	var days []Day
	err := s.GetByIndexRange("days", "userDate", Key(userID, startDate), Key(userID, endDate), &days)
	if err != nil {
		return nil, err
	}
	return days, nil
}

func (s *Store) UpdateDay(id string, p DayPatch) (*Day, error) {
	d, err := s.GetDay(id)
	if err != nil {
		return nil, err
	}
	p.apply(d)
	if err := s.Update("days", d); err != nil {
		return nil, err
	}
	return d, nil
}
