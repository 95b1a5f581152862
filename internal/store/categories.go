package store

import "fmt"

// CreateCategory inserts a user-defined category. Seeded defaults come
// from CreateUser; anything added here is user-authored.
func (s *Store) CreateCategory(c *Category) error {
	if c.UserID == "" || c.Name == "" {
		return fmt.Errorf("%w: category requires userId and name", ErrValidation)
	}
	c.IsDefault = false
	return s.Add("categories", c)
}

func (s *Store) GetCategory(id string) (*Category, error) {
	var c Category
	found, err := s.Get("categories", id, &c)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return &c, nil
}

func (s *Store) GetCategoriesByUser(userID string) ([]Category, error) {
	var cats []Category
	if err := s.GetByIndex("categories", "userId", Key(userID), &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *Store) UpdateCategory(id string, p CategoryPatch) (*Category, error) {
	c, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	p.apply(c)
	if err := s.Update("categories", c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) DeleteCategory(id string) error {
	return s.Remove("categories", id)
}
