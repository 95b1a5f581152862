package store

import (
	"fmt"
	"strings"
)

// indexDef declares a secondary index over one or more key paths.
// Key paths name fields inside the stored JSON document.
type indexDef struct {
	Name     string
	KeyPaths []string
	Unique   bool
}

// collectionDef declares a collection: its primary key path and its
// secondary indexes. Every indexed key path becomes a real column so
// SQLite can enforce uniqueness and serve ordered lookups.
type collectionDef struct {
	Name    string
	KeyPath string
	Indexes []indexDef
}

// collectionOrder fixes DDL and iteration order.
var collectionOrder = []string{
	"users", "days", "tasks", "categories", "settings", "exports", "distractions",
}

var collections = map[string]collectionDef{
	"users": {
		Name:    "users",
		KeyPath: "id",
		Indexes: []indexDef{
			{Name: "username", KeyPaths: []string{"username"}, Unique: true},
			{Name: "email", KeyPaths: []string{"email"}},
		},
	},
	"days": {
		Name:    "days",
		KeyPath: "id",
		Indexes: []indexDef{
			{Name: "userId", KeyPaths: []string{"userId"}},
			{Name: "date", KeyPaths: []string{"date"}},
			{Name: "userDate", KeyPaths: []string{"userId", "date"}, Unique: true},
		},
	},
	"tasks": {
		Name:    "tasks",
		KeyPath: "id",
		Indexes: []indexDef{
			{Name: "dayId", KeyPaths: []string{"dayId"}},
			{Name: "userId", KeyPaths: []string{"userId"}},
			{Name: "date", KeyPaths: []string{"date"}},
			{Name: "category", KeyPaths: []string{"category"}},
			{Name: "status", KeyPaths: []string{"status"}},
			{Name: "userDate", KeyPaths: []string{"userId", "date"}},
		},
	},
	"categories": {
		Name:    "categories",
		KeyPath: "id",
		Indexes: []indexDef{
			{Name: "userId", KeyPaths: []string{"userId"}},
			{Name: "color", KeyPaths: []string{"color"}},
		},
	},
	"settings": {
		Name:    "settings",
		KeyPath: "userId",
		Indexes: []indexDef{
			{Name: "notificationsEnabled", KeyPaths: []string{"notificationsEnabled"}},
		},
	},
	"exports": {
		Name:    "exports",
		KeyPath: "id",
		Indexes: []indexDef{
			{Name: "userId", KeyPaths: []string{"userId"}},
			{Name: "date", KeyPaths: []string{"date"}},
			{Name: "format", KeyPaths: []string{"format"}},
		},
	},
	"distractions": {
		Name:    "distractions",
		KeyPath: "id",
		Indexes: []indexDef{
			{Name: "taskId", KeyPaths: []string{"taskId"}},
			{Name: "userId", KeyPaths: []string{"userId"}},
			{Name: "timestamp", KeyPaths: []string{"timestamp"}},
		},
	},
}

// indexedColumns returns the distinct non-key columns of a collection,
// in declaration order.
func (c collectionDef) indexedColumns() []string {
	seen := map[string]bool{c.KeyPath: true}
	var cols []string
	for _, idx := range c.Indexes {
		for _, kp := range idx.KeyPaths {
			if seen[kp] {
				continue
			}
			seen[kp] = true
			cols = append(cols, kp)
		}
	}
	return cols
}

func (c collectionDef) index(name string) (indexDef, bool) {
	for _, idx := range c.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return indexDef{}, false
}

// ddl renders the CREATE TABLE and CREATE INDEX statements for a collection.
func (c collectionDef) ddl() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %q (\n", c.Name)
	fmt.Fprintf(&b, "\t%q TEXT PRIMARY KEY,\n", c.KeyPath)
	b.WriteString("\t\"data\" TEXT NOT NULL")
	for _, col := range c.indexedColumns() {
		fmt.Fprintf(&b, ",\n\t%q TEXT", col)
	}
	b.WriteString("\n);\n")

	for _, idx := range c.Indexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		quoted := make([]string, len(idx.KeyPaths))
		for i, kp := range idx.KeyPaths {
			quoted[i] = fmt.Sprintf("%q", kp)
		}
		fmt.Fprintf(&b, "CREATE %sINDEX IF NOT EXISTS %q ON %q (%s);\n",
			unique, "idx_"+c.Name+"_"+idx.Name, c.Name, strings.Join(quoted, ", "))
	}
	return b.String()
}

// DefaultCategories is the category set seeded for every new user.
// Seeded records are marked isDefault and are immutable by convention.
var DefaultCategories = []Category{
	{Name: "Work", Color: "#3b82f6", Icon: "💼"},
	{Name: "Study", Color: "#8b5cf6", Icon: "📚"},
	{Name: "Exercise", Color: "#10b981", Icon: "🏃"},
	{Name: "Personal", Color: "#f59e0b", Icon: "✨"},
	{Name: "Leisure", Color: "#ec4899", Icon: "🎮"},
	{Name: "Rest", Color: "#6366f1", Icon: "😴"},
	{Name: "Health", Color: "#14b8a6", Icon: "❤️"},
	{Name: "Social", Color: "#f97316", Icon: "👥"},
}

// DefaultSettings returns the settings record a user starts with.
func DefaultSettings(userID string) Settings {
	return Settings{
		UserID:               userID,
		TimeInterval:         30,
		DayStartHour:         6,
		DayEndHour:           23,
		NotificationsEnabled: true,
		SoundEnabled:         true,
		SoundVolume:          0.3,
		ReminderMinutes:      5,
		Theme:                "dark",
		WeekStartsOn:         0,
		DateFormat:           "DD/MM/YYYY",
		TimeFormat:           "24h",
	}
}
