package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chronofocus/chrono/internal/auth"
	"github.com/chronofocus/chrono/internal/export"
	"github.com/chronofocus/chrono/internal/store"
	"github.com/chronofocus/chrono/internal/tui"
)

func main() {
	var (
		dbPath   = flag.String("db", "", "database path (default ~/.config/chrono/chrono.db)")
		username = flag.String("user", "", "profile to open (created on first use)")
		restore  = flag.String("restore", "", "merge a JSON backup into the profile, then exit")
	)
	flag.Parse()

	if *dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		*dbPath = p
	}

	s, err := store.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	user, err := openProfile(s, *username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *restore != "" {
		if err := export.Restore(s, *restore, user.ID); err != nil {
			fmt.Fprintf(os.Stderr, "error restoring backup: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("restored %s into profile %s\n", *restore, user.Username)
		return
	}

	app := tui.NewApp(s, user)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openProfile resolves the profile to run under. Without -user it reuses
// the only existing profile, or creates a default one on first launch.
func openProfile(s *store.Store, username string) (*store.User, error) {
	if username == "" {
		profiles, err := auth.ListProfiles(s)
		if err != nil {
			return nil, err
		}
		switch len(profiles) {
		case 0:
			username = "default"
		case 1:
			username = profiles[0].Username
		default:
			return nil, fmt.Errorf("multiple profiles found, pick one with -user")
		}
	}

	if u, err := s.GetUserByUsername(username); err != nil {
		return nil, err
	} else if u != nil {
		return auth.Login(s, username, "")
	}
	return auth.Register(s, username, auth.RegisterOptions{})
}
