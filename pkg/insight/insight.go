// Package insight asks a hosted chat-completion model for short coaching text
// derived from a digest of recent logs.
package insight

import (
	"context"
	"log/slog"
)

// Fallback sentences returned when the completion call fails.
const (
	SuggestionFallback = "I'm having trouble analyzing your recent activities. Please try again later."
	MoodFallback       = "Unable to analyze mood patterns at the moment. Please try again later."
)

// Operation names, also used as metric labels.
const (
	OpLearningSuggestion = "learning_suggestion"
	OpMoodInsight        = "mood_insight"
)

// Advisor produces insight text from digests. Implementations never fail outward:
// every failure is carried inside the returned Result.
type Advisor interface {
	LearningSuggestion(ctx context.Context, digest string) Result
	MoodInsight(ctx context.Context, digest string) Result
}

// Result is the outcome of one insight request: either Text, or Err plus the
// operation's Fallback sentence.
type Result struct {
	Op       string
	Text     string
	Err      error
	Fallback string
}

// Ok reports whether the request produced text.
func (r Result) Ok() bool {
	return r.Err == nil
}

// Or returns the text to show the user, logging the failure when there was one.
func (r Result) Or() string {
	if r.Err == nil {
		return r.Text
	}
	slog.Error("insight request failed, using fallback",
		slog.String("operation", r.Op),
		slog.String("error", r.Err.Error()))
	return r.Fallback
}

func success(op, text string) Result {
	return Result{Op: op, Text: text}
}

func failure(op string, err error) Result {
	fallback := SuggestionFallback
	if op == OpMoodInsight {
		fallback = MoodFallback
	}
	return Result{Op: op, Err: err, Fallback: fallback}
}
