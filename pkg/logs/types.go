package logs

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Mood is the affect marker attached to a coding session.
type Mood string

const (
	MoodHappy      Mood = "😊"
	MoodNeutral    Mood = "😐"
	MoodFrustrated Mood = "😫"
)

// Moods lists every recognized mood in display order.
var Moods = []Mood{MoodHappy, MoodNeutral, MoodFrustrated}

var moodAliases = map[string]Mood{
	"happy":      MoodHappy,
	"neutral":    MoodNeutral,
	"frustrated": MoodFrustrated,
}

// Valid reports whether m is one of the recognized moods.
func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMood accepts a mood symbol or its name. The empty string means no mood.
func ParseMood(s string) (Mood, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if m := Mood(s); m.Valid() {
		return m, nil
	}
	if m, ok := moodAliases[strings.ToLower(s)]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMood, s)
}

// Log is a single journal entry describing a coding session.
type Log struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	Mood      Mood      `json:"mood,omitempty"`
	TimeSpent *int      `json:"time_spent"`
	CreatedAt time.Time `json:"created_at"`
	Tags      []string  `json:"tags"`
}

// Minutes returns the time spent on the session, treating an absent value as zero.
func (l Log) Minutes() int {
	if l.TimeSpent == nil {
		return 0
	}
	return *l.TimeSpent
}

// Tag is a free-form label shared by any number of logs.
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// CreateLogParams carries a new log submission. Date defaults to the creation time.
type CreateLogParams struct {
	Title     string
	Content   string
	Date      *time.Time
	Mood      Mood
	TimeSpent *int
	Tags      []string
}

// Stats aggregates the whole journal.
type Stats struct {
	TotalLogs     int64    `json:"total_logs"`
	TotalTime     int64    `json:"total_time"`
	AvgTimePerLog float64  `json:"avg_time_per_log"`
	TopTags       []string `json:"top_tags"`
}

// logRow mirrors the logs table.
type logRow struct {
	ID        int64          `db:"id"`
	Title     string         `db:"title"`
	Content   string         `db:"content"`
	Date      string         `db:"date"`
	Mood      sql.NullString `db:"mood"`
	TimeSpent sql.NullInt64  `db:"time_spent"`
	CreatedAt string         `db:"created_at"`
}

// logTagRow is one (log, tag name) pair from the join table.
type logTagRow struct {
	LogID int64  `db:"log_id"`
	Name  string `db:"name"`
}
