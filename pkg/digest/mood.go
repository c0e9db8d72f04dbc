package digest

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/unowned-ai/devlog/pkg/logs"
)

// MoodEntry counts how often each mood accompanied a tag.
type MoodEntry struct {
	Tag    string
	Counts map[logs.Mood]int
}

// String renders the entry as "tag: mood: n, mood: n", listing only moods that occurred.
func (e MoodEntry) String() string {
	pairs := lo.FilterMap(logs.Moods, func(m logs.Mood, _ int) (string, bool) {
		n := e.Counts[m]
		return fmt.Sprintf("%s: %d", m, n), n > 0
	})
	return fmt.Sprintf("%s: %s", e.Tag, strings.Join(pairs, ", "))
}

// BuildMood tallies moods per tag, keeping tags in the order they were first seen.
// Logs without a recognized mood, and moody logs without tags, contribute nothing.
func BuildMood(records []logs.Log) []MoodEntry {
	var entries []MoodEntry
	index := make(map[string]int)

	for _, l := range records {
		if !l.Mood.Valid() {
			continue
		}
		for _, tag := range l.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(entries)
				index[tag] = i
				entries = append(entries, MoodEntry{Tag: tag, Counts: make(map[logs.Mood]int)})
			}
			entries[i].Counts[l.Mood]++
		}
	}
	return entries
}

// FormatMood joins entries into newline separated digest lines.
func FormatMood(entries []MoodEntry) string {
	return strings.Join(lo.Map(entries, func(e MoodEntry, _ int) string { return e.String() }), "\n")
}

// Mood builds and formats the tag to mood frequency digest.
func Mood(records []logs.Log) string {
	return FormatMood(BuildMood(records))
}
