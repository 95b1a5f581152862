package store

// Timestamps are stored as RFC 3339 strings, calendar dates as
// "YYYY-MM-DD" and times of day as zero-padded "HH:MM", so index
// lookups and range scans order correctly as plain strings.

type User struct {
	ID                string `json:"id,omitempty"`
	Username          string `json:"username"`
	DisplayName       string `json:"displayName"`
	Email             string `json:"email"`
	AvatarColor       string `json:"avatarColor"`
	PasswordHash      string `json:"passwordHash,omitempty"`
	HasPassword       bool   `json:"hasPassword"`
	EncryptionEnabled bool   `json:"encryptionEnabled"`
	LastLogin         string `json:"lastLogin,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// Day anchors all tasks of one user on one calendar date. Created
// lazily on first reference, never deleted by normal flow.
type Day struct {
	ID          string   `json:"id,omitempty"`
	UserID      string   `json:"userId"`
	Date        string   `json:"date"`
	Notes       string   `json:"notes"`
	Mood        *string  `json:"mood"`
	EnergyLevel *int     `json:"energyLevel"`
	Goals       []string `json:"goals"`
	Summary     *string  `json:"summary"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

type TaskStatus string

const (
	StatusPlanned    TaskStatus = "planned"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
	StatusSkipped    TaskStatus = "skipped"
	StatusPaused     TaskStatus = "paused"
)

// Terminal reports whether no further transitions are allowed out of s.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped
}

type Task struct {
	ID              string     `json:"id,omitempty"`
	UserID          string     `json:"userId"`
	DayID           string     `json:"dayId"`
	Date            string     `json:"date"`
	Category        string     `json:"category"`
	Title           string     `json:"title"`
	PlannedStart    string     `json:"plannedStart"`
	PlannedEnd      string     `json:"plannedEnd"`
	PlannedDuration int        `json:"plannedDuration"` // minutes
	Status          TaskStatus `json:"status"`
	ActualStart     *string    `json:"actualStart"`
	ActualEnd       *string    `json:"actualEnd"`
	// ActualDuration is derived by the lifecycle transition effects,
	// never supplied by callers directly.
	ActualDuration  *int     `json:"actualDuration"`
	Distractions    []string `json:"distractions"` // ordered distraction ids
	Notes           string   `json:"notes"`
	Rating          *int     `json:"rating"`
	CompletionNotes string   `json:"completionNotes"`
	SkipReason      string   `json:"skipReason,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
}

type Category struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	IsDefault bool   `json:"isDefault"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Settings is keyed by userId: exactly one record per user.
type Settings struct {
	UserID               string  `json:"userId"`
	TimeInterval         int     `json:"timeInterval"` // planner slot size, minutes
	DayStartHour         int     `json:"dayStartHour"`
	DayEndHour           int     `json:"dayEndHour"`
	NotificationsEnabled bool    `json:"notificationsEnabled"`
	SoundEnabled         bool    `json:"soundEnabled"`
	SoundVolume          float64 `json:"soundVolume"`
	ReminderMinutes      int     `json:"reminderMinutes"`
	Theme                string  `json:"theme"`
	WeekStartsOn         int     `json:"weekStartsOn"` // 0 = Sunday
	DateFormat           string  `json:"dateFormat"`
	TimeFormat           string  `json:"timeFormat"`
	CreatedAt            string  `json:"createdAt,omitempty"`
	UpdatedAt            string  `json:"updatedAt,omitempty"`
}

type Distraction struct {
	ID          string `json:"id,omitempty"`
	TaskID      string `json:"taskId"`
	UserID      string `json:"userId"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// ExportRecord is an append-only audit entry, never mutated.
type ExportRecord struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"userId"`
	Format    string `json:"format"`
	Date      string `json:"date"`
	DataSize  int    `json:"dataSize,omitempty"`
	DateRange string `json:"dateRange,omitempty"`
	Filename  string `json:"filename,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// --- Patch types ---
// Updates merge explicit patches instead of free-form field maps. A nil
// field leaves the stored value untouched.

type UserPatch struct {
	DisplayName       *string
	Email             *string
	AvatarColor       *string
	PasswordHash      *string
	HasPassword       *bool
	EncryptionEnabled *bool
}

func (p UserPatch) apply(u *User) {
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.AvatarColor != nil {
		u.AvatarColor = *p.AvatarColor
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.HasPassword != nil {
		u.HasPassword = *p.HasPassword
	}
	if p.EncryptionEnabled != nil {
		u.EncryptionEnabled = *p.EncryptionEnabled
	}
}

type DayPatch struct {
	Notes       *string
	Mood        *string
	EnergyLevel *int
	Goals       *[]string
	Summary     *string
}

func (p DayPatch) apply(d *Day) {
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	if p.Mood != nil {
		d.Mood = p.Mood
	}
	if p.EnergyLevel != nil {
		d.EnergyLevel = p.EnergyLevel
	}
	if p.Goals != nil {
		d.Goals = *p.Goals
	}
	if p.Summary != nil {
		d.Summary = p.Summary
	}
}

type TaskPatch struct {
	Category        *string
	Title           *string
	PlannedStart    *string
	PlannedEnd      *string
	PlannedDuration *int
	Notes           *string
	Rating          *int
	CompletionNotes *string
}

func (p TaskPatch) apply(t *Task) {
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.PlannedStart != nil {
		t.PlannedStart = *p.PlannedStart
	}
	if p.PlannedEnd != nil {
		t.PlannedEnd = *p.PlannedEnd
	}
	if p.PlannedDuration != nil {
		t.PlannedDuration = *p.PlannedDuration
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Rating != nil {
		t.Rating = p.Rating
	}
	if p.CompletionNotes != nil {
		t.CompletionNotes = *p.CompletionNotes
	}
}

type CategoryPatch struct {
	Name  *string
	Color *string
	Icon  *string
}

func (p CategoryPatch) apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
}

type SettingsPatch struct {
	TimeInterval         *int
	DayStartHour         *int
	DayEndHour           *int
	NotificationsEnabled *bool
	SoundEnabled         *bool
	SoundVolume          *float64
	ReminderMinutes      *int
	Theme                *string
	WeekStartsOn         *int
	DateFormat           *string
	TimeFormat           *string
}

func (p SettingsPatch) apply(s *Settings) {
	if p.TimeInterval != nil {
		s.TimeInterval = *p.TimeInterval
	}
	if p.DayStartHour != nil {
		s.DayStartHour = *p.DayStartHour
	}
	if p.DayEndHour != nil {
		s.DayEndHour = *p.DayEndHour
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.SoundVolume != nil {
		s.SoundVolume = *p.SoundVolume
	}
	if p.ReminderMinutes != nil {
		s.ReminderMinutes = *p.ReminderMinutes
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.WeekStartsOn != nil {
		s.WeekStartsOn = *p.WeekStartsOn
	}
	if p.DateFormat != nil {
		s.DateFormat = *p.DateFormat
	}
	if p.TimeFormat != nil {
		s.TimeFormat = *p.TimeFormat
	}
}
