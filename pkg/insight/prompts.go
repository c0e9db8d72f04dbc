package insight

import "fmt"

const (
	suggestionSystemPrompt = "You are a helpful developer mentor."
	moodSystemPrompt       = "You are a supportive developer mentor."

	suggestionMaxTokens = 150
	moodMaxTokens       = 100
)

const suggestionPromptTemplate = `As a developer mentor, analyze these recent coding activities and provide a brief, specific suggestion for what to focus on next:

Recent Activity Summary:
%s

Provide a short, specific suggestion focusing on:
1. Any skill gaps or areas needing attention
2. What to learn or practice next
3. A specific, actionable next step

Keep the response under 100 words and friendly but professional.`

const moodPromptTemplate = `Analyze these coding session moods and provide a brief, constructive insight:

Mood Summary:
%s

Provide a short, encouraging observation about:
1. Any patterns between activities and mood
2. A positive suggestion for maintaining good mood while coding

Keep it brief, supportive, and actionable.`

// SuggestionPrompt embeds a daily digest in the learning suggestion instructions.
func SuggestionPrompt(digest string) string {
	return fmt.Sprintf(suggestionPromptTemplate, digest)
}

// MoodPrompt embeds a mood digest in the mood insight instructions.
func MoodPrompt(digest string) string {
	return fmt.Sprintf(moodPromptTemplate, digest)
}
