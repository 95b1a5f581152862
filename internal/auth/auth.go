// Package auth manages local profiles on top of the store: registration,
// password verification and profile edits. Passwords are optional; a
// profile without one logs in by name alone.
package auth

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/chronofocus/chrono/internal/store"
)

// AvatarColors is the palette a new profile draws from when no color is
// chosen.
var AvatarColors = []string{
	"#3b82f6", "#8b5cf6", "#10b981", "#f59e0b", "#ec4899",
	"#6366f1", "#14b8a6", "#f97316", "#ef4444", "#84cc16",
}

var (
	ErrUsernameTaken    = errors.New("username already in use")
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordRequired = errors.New("password required")
	ErrWrongPassword    = errors.New("wrong password")
)

// Profile is the public summary of a stored user, safe to list without
// exposing the password hash.
type Profile struct {
	ID          string
	Username    string
	DisplayName string
	AvatarColor string
	HasPassword bool
	LastLogin   string
}

// RegisterOptions carries the optional fields of a new profile.
type RegisterOptions struct {
	DisplayName       string
	Email             string
	AvatarColor       string
	Password          string
	EncryptionEnabled bool
}

// Register creates a new profile with its seeded settings and categories.
func Register(s *store.Store, username string, opts RegisterOptions) (*store.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < 3 {
		return nil, fmt.Errorf("%w: username needs at least 3 characters", store.ErrValidation)
	}

	existing, err := s.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	u := &store.User{
		Username:          username,
		DisplayName:       opts.DisplayName,
		Email:             opts.Email,
		AvatarColor:       opts.AvatarColor,
		EncryptionEnabled: opts.EncryptionEnabled,
	}
	if u.DisplayName == "" {
		u.DisplayName = username
	}
	if u.AvatarColor == "" {
		u.AvatarColor = AvatarColors[rand.Intn(len(AvatarColors))]
	}
	if opts.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
		u.HasPassword = true
	}

	if err := s.CreateUser(u); err != nil {
		if errors.Is(err, store.ErrConstraint) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// Login resolves a profile by name, checks the password when one is set
// and stamps lastLogin.
func Login(s *store.Store, username, password string) (*store.User, error) {
	u, err := s.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if u.HasPassword {
		if password == "" {
			return nil, ErrPasswordRequired
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return nil, ErrWrongPassword
		}
	}

	if err := s.TouchLastLogin(u.ID); err != nil {
		return nil, err
	}
	return s.GetUser(u.ID)
}

// VerifyPassword checks a password against the stored hash. Profiles
// without a password always verify.
func VerifyPassword(u *store.User, password string) bool {
	if !u.HasPassword {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ProfileUpdate carries profile edits. A set NewPassword re-hashes.
type ProfileUpdate struct {
	DisplayName *string
	Email       *string
	AvatarColor *string
	NewPassword *string
}

// UpdateProfile applies profile edits to the stored user.
func UpdateProfile(s *store.Store, userID string, upd ProfileUpdate) (*store.User, error) {
	patch := store.UserPatch{
		DisplayName: upd.DisplayName,
		Email:       upd.Email,
		AvatarColor: upd.AvatarColor,
	}
	if upd.NewPassword != nil && *upd.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		yes := true
		patch.PasswordHash = &h
		patch.HasPassword = &yes
	}
	return s.UpdateUser(userID, patch)
}

// ListProfiles returns every stored profile as a hash-free summary.
func ListProfiles(s *store.Store) ([]Profile, error) {
	users, err := s.ListUsers()
	if err != nil {
		return nil, err
	}
	profiles := make([]Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, Profile{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			AvatarColor: u.AvatarColor,
			HasPassword: u.HasPassword,
			LastLogin:   u.LastLogin,
		})
	}
	return profiles, nil
}

// DeleteAccount removes the profile record. Owned data stays behind; the
// store never cascades deletes.
func DeleteAccount(s *store.Store, userID string) error {
	return s.DeleteUser(userID)
}
