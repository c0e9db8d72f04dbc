// Package digest turns raw logs into the short text summaries embedded in insight prompts.
//
// Every function here is pure: malformed records are skipped, never reported.
package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/unowned-ai/devlog/pkg/logs"
)

const dayLayout = "2006-01-02"

// NoTags replaces the tag list of a day on which no log carried a tag.
const NoTags = "no tags"

// DailyEntry summarizes all logs dated on one calendar day.
type DailyEntry struct {
	Date         time.Time
	Count        int
	TotalMinutes int
	Tags         []string
}

// AvgMinutes is the mean time spent per log that day.
func (e DailyEntry) AvgMinutes() float64 {
	if e.Count == 0 {
		return 0
	}
	return float64(e.TotalMinutes) / float64(e.Count)
}

// Hours is the total time spent that day in hours.
func (e DailyEntry) Hours() float64 {
	return float64(e.TotalMinutes) / 60
}

// String renders the entry as a single digest line.
func (e DailyEntry) String() string {
	tags := NoTags
	if len(e.Tags) > 0 {
		tags = strings.Join(e.Tags, ", ")
	}
	return fmt.Sprintf("Date: %s: %d entries, %.1fh spent on: %s", e.Date.Format(dayLayout), e.Count, e.Hours(), tags)
}

// BuildDaily groups logs by UTC calendar day, ascending. Logs without a date are skipped.
func BuildDaily(records []logs.Log) []DailyEntry {
	byDay := make(map[string]*DailyEntry)
	tagSets := make(map[string]map[string]struct{})

	for _, l := range records {
		if l.Date.IsZero() {
			continue
		}
		day := l.Date.UTC()
		key := day.Format(dayLayout)

		entry, ok := byDay[key]
		if !ok {
			entry = &DailyEntry{Date: time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)}
			byDay[key] = entry
			tagSets[key] = make(map[string]struct{})
		}
		entry.Count++
		entry.TotalMinutes += l.Minutes()
		for _, tag := range l.Tags {
			tagSets[key][tag] = struct{}{}
		}
	}

	keys := lo.Keys(byDay)
	sort.Strings(keys)

	return lo.Map(keys, func(key string, _ int) DailyEntry {
		entry := *byDay[key]
		entry.Tags = lo.Keys(tagSets[key])
		sort.Strings(entry.Tags)
		return entry
	})
}

// FormatDaily joins entries into newline separated digest lines.
func FormatDaily(entries []DailyEntry) string {
	return strings.Join(lo.Map(entries, func(e DailyEntry, _ int) string { return e.String() }), "\n")
}

// Daily builds and formats the day-bucketed activity digest.
func Daily(records []logs.Log) string {
	return FormatDaily(BuildDaily(records))
}
