package insight

import "context"

const (
	CannedSuggestion  = "Keep up the great work! Focus on practicing consistent coding habits."
	CannedMoodInsight = "Your mood patterns show positive engagement during focused coding sessions."
)

// Canned answers without calling out. It stands in for Client when live calls are disabled.
type Canned struct{}

func (Canned) LearningSuggestion(context.Context, string) Result {
	return observe(success(OpLearningSuggestion, CannedSuggestion))
}

func (Canned) MoodInsight(context.Context, string) Result {
	return observe(success(OpMoodInsight, CannedMoodInsight))
}
