package store

// GetSettings returns the user's settings, falling back to the defaults
// when no record has been written yet. A missing record is not an error.
func (s *Store) GetSettings(userID string) (*Settings, error) {
	var st Settings
	found, err := s.Get("settings", userID, &st)
	if err != nil {
		return nil, err
	}
	if !found {
		st = DefaultSettings(userID)
	}
	return &st, nil
}

// UpdateSettings merges the patch over the current (or default) settings
// and writes the result back, creating the record if absent.
func (s *Store) UpdateSettings(userID string, p SettingsPatch) (*Settings, error) {
	st, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}
	p.apply(st)
	if err := s.Update("settings", st); err != nil {
		return nil, err
	}
	return st, nil
}
