package auth

import (
	"errors"
	"testing"

	"github.com/chronofocus/chrono/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRegisterDefaults(t *testing.T) {
	s := newTestStore(t)
	u, err := Register(s, "  Alice ", RegisterOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if u.Username != "alice" {
		t.Fatalf("expected folded username, got %q", u.Username)
	}
	if u.DisplayName != "alice" {
		t.Fatalf("expected display name fallback, got %q", u.DisplayName)
	}
	if u.AvatarColor == "" {
		t.Fatal("expected an avatar color assigned")
	}
	if u.HasPassword || u.PasswordHash != "" {
		t.Fatal("password-less profile should carry no hash")
	}
}

func TestRegisterShortUsername(t *testing.T) {
	s := newTestStore(t)
	_, err := Register(s, "ab", RegisterOptions{})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	s := newTestStore(t)
	if _, err := Register(s, "alice", RegisterOptions{}); err != nil {
		t.Fatal(err)
	}
	_, err := Register(s, "ALICE", RegisterOptions{})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLoginWithPassword(t *testing.T) {
	s := newTestStore(t)
	if _, err := Register(s, "alice", RegisterOptions{Password: "hunter22"}); err != nil {
		t.Fatal(err)
	}

	if _, err := Login(s, "alice", ""); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if _, err := Login(s, "alice", "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}

	u, err := Login(s, "alice", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if u.LastLogin == "" {
		t.Fatal("expected lastLogin stamped")
	}
}

func TestLoginWithoutPassword(t *testing.T) {
	s := newTestStore(t)
	if _, err := Register(s, "alice", RegisterOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := Login(s, "alice", ""); err != nil {
		t.Fatal(err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	s := newTestStore(t)
	_, err := Login(s, "ghost", "")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfilePasswordChange(t *testing.T) {
	s := newTestStore(t)
	u, err := Register(s, "alice", RegisterOptions{})
	if err != nil {
		t.Fatal(err)
	}

	pw := "new-secret"
	updated, err := UpdateProfile(s, u.ID, ProfileUpdate{NewPassword: &pw})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.HasPassword {
		t.Fatal("expected hasPassword after password change")
	}
	if !VerifyPassword(updated, "new-secret") {
		t.Fatal("new password should verify")
	}
	if VerifyPassword(updated, "other") {
		t.Fatal("wrong password should not verify")
	}
}

func TestListProfilesStripsHashes(t *testing.T) {
	s := newTestStore(t)
	Register(s, "alice", RegisterOptions{Password: "hunter22"})
	Register(s, "bob", RegisterOptions{})

	profiles, err := ListProfiles(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	for _, p := range profiles {
		if p.ID == "" || p.Username == "" {
			t.Fatalf("incomplete profile: %+v", p)
		}
	}
}

func TestDeleteAccount(t *testing.T) {
	s := newTestStore(t)
	u, _ := Register(s, "alice", RegisterOptions{})
	if err := DeleteAccount(s, u.ID); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetUserByUsername("alice")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected profile removed")
	}
}
