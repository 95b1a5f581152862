package store

import (
	"fmt"
	"strings"
)

// CreateUser inserts the user together with its seeded default settings
// and default categories. The three writes span one transaction, so a
// failure leaves no partial profile behind.
func (s *Store) CreateUser(u *User) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if u.LastLogin == "" {
		u.LastLogin = nowStamp()
	}

	return s.Transact(func(tx *Store) error {
		if err := tx.Add("users", u); err != nil {
			return err
		}

		settings := DefaultSettings(u.ID)
		if err := tx.Add("settings", &settings); err != nil {
			return err
		}

		for _, seed := range DefaultCategories {
			cat := seed
			cat.UserID = u.ID
			cat.IsDefault = true
			if err := tx.Add("categories", &cat); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetUser(id string) (*User, error) {
	var u User
	found, err := s.Get("users", id, &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return &u, nil
}

// GetUserByUsername resolves a case-folded username, or (nil, nil) when
// no such profile exists.
func (s *Store) GetUserByUsername(username string) (*User, error) {
	var users []User
	err := s.GetByIndex("users", "username", Key(strings.ToLower(strings.TrimSpace(username))), &users)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (s *Store) UpdateUser(id string, p UserPatch) (*User, error) {
	u, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	p.apply(u)
	if err := s.Update("users", u); err != nil {
		return nil, err
	}
	return u, nil
}

// TouchLastLogin stamps the user's lastLogin with the current time.
func (s *Store) TouchLastLogin(id string) error {
	u, err := s.GetUser(id)
	if err != nil {
		return err
	}
	u.LastLogin = nowStamp()
	return s.Update("users", u)
}

func (s *Store) ListUsers() ([]User, error) {
	var users []User
	if err := s.GetAll("users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) DeleteUser(id string) error {
	return s.Remove("users", id)
}
