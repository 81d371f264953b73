package entity

import "time"

// Kind tags a summary entry or time block. Idle and Future are synthesized by
// the stats package and never persisted; only KindActivity rows carry a real
// activity id.
type Kind int

const (
	KindActivity Kind = iota
	KindIdle
	KindFuture
)

// Display identities for synthesized and unresolvable entries.
const (
	IdleName  = "Idle"
	IdleColor = "#9ca3af"

	FutureName  = "Remaining"
	FutureColor = "#e5e7eb"

	UnknownName  = "Unknown"
	UnknownColor = "#999"
)

// MaxActivities caps the catalog size.
const MaxActivities = 15

// Activity is a user-defined activity category.
type Activity struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	Icon      string    `db:"icon" json:"icon"`
	Order     int       `db:"sort_order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ActivityRecord is one recorded interval. End is nil while the interval is
// still open; Date is the local calendar day (YYYY-MM-DD) Start falls on.
type ActivityRecord struct {
	ID         string     `json:"id"`
	ActivityID string     `json:"activity_id"`
	Start      time.Time  `json:"start_time"`
	End        *time.Time `json:"end_time"`
	Date       string     `json:"date"`
}

// Open reports whether the record has not been closed yet.
func (r ActivityRecord) Open() bool { return r.End == nil }

// EndOr returns the record end, or fallback for an open record.
func (r ActivityRecord) EndOr(fallback time.Time) time.Time {
	if r.End == nil {
		return fallback
	}
	return *r.End
}

// Ongoing is the at most one in-progress activity.
type Ongoing struct {
	ActivityID string    `json:"activity_id"`
	Start      time.Time `json:"start_time"`
}

// SummaryEntry is one line of an aggregated breakdown. Minutes over one call
// sum to the covered duration and Percent to 100 when anything elapsed.
type SummaryEntry struct {
	Kind       Kind    `json:"kind"`
	ActivityID string  `json:"activity_id,omitempty"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Minutes    float64 `json:"minutes"`
	Percent    float64 `json:"percent"`
}

// TimeBlock is one segment of a day's 1440-minute partition.
type TimeBlock struct {
	Kind       Kind    `json:"kind"`
	ActivityID string  `json:"activity_id,omitempty"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	StartMin   float64 `json:"start_min"`
	EndMin     float64 `json:"end_min"`
	Minutes    float64 `json:"minutes"`
}

// ThemeConfig is the user theme.
type ThemeConfig struct {
	PrimaryColor string `json:"primary_color"`
	DarkMode     bool   `json:"dark_mode"`
}

// Settings is the persisted application settings blob.
type Settings struct {
	Theme         ThemeConfig `json:"theme"`
	MaxActivities int         `json:"max_activities"`
}

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings() Settings {
	return Settings{
		Theme:         ThemeConfig{PrimaryColor: "#6366f1", DarkMode: false},
		MaxActivities: MaxActivities,
	}
}

// DefaultActivities is the preset catalog seeded on first run.
func DefaultActivities() []Activity {
	return []Activity{
		{Name: "Study", Color: "#6366f1", Icon: "📚", Order: 0},
		{Name: "Research", Color: "#8b5cf6", Icon: "🔬", Order: 1},
		{Name: "Exercise", Color: "#10b981", Icon: "🏃", Order: 2},
		{Name: "Work", Color: "#f59e0b", Icon: "💼", Order: 3},
		{Name: "Reading", Color: "#3b82f6", Icon: "📖", Order: 4},
		{Name: "Break", Color: "#ec4899", Icon: "☕", Order: 5},
	}
}
