// Package suggest wires the log store, digests and the insight advisor into the two
// coaching operations.
package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/unowned-ai/devlog/pkg/digest"
	"github.com/unowned-ai/devlog/pkg/insight"
	"github.com/unowned-ai/devlog/pkg/logs"
)

const (
	// RecentLimit is how many of the newest logs feed a digest.
	RecentLimit = 50
	// RecentWindow bounds the logs considered for a learning suggestion.
	RecentWindow = 7 * 24 * time.Hour
)

// Onboarding messages returned when there is nothing to analyze.
const (
	NoActivityMessage = "Start logging your coding activities to get personalized suggestions!"
	NoMoodMessage     = "Start logging your moods during coding sessions to get insights!"
)

// Lister is the read side of the log store used here.
type Lister interface {
	ListLogs(ctx context.Context, skip, limit int) ([]logs.Log, error)
}

type Suggestion struct {
	Suggestion string `json:"suggestion"`
}

type MoodInsight struct {
	Insight string `json:"insight"`
}

// Service is read-only: only store failures are returned.
type Service struct {
	store   Lister
	advisor insight.Advisor
	now     func() time.Time
}

func New(store Lister, advisor insight.Advisor) *Service {
	return &Service{store: store, advisor: advisor, now: time.Now}
}

// GetSuggestion asks for a learning suggestion based on the past week of logs.
func (s *Service) GetSuggestion(ctx context.Context) (Suggestion, error) {
	recent, err := s.store.ListLogs(ctx, 0, RecentLimit)
	if err != nil {
		return Suggestion{}, fmt.Errorf("failed to load recent logs: %w", err)
	}

	cutoff := s.now().Add(-RecentWindow)
	recent = lo.Filter(recent, func(l logs.Log, _ int) bool {
		return !l.Date.IsZero() && !l.Date.Before(cutoff)
	})
	if len(recent) == 0 {
		return Suggestion{Suggestion: NoActivityMessage}, nil
	}

	res := s.advisor.LearningSuggestion(ctx, digest.Daily(recent))
	return Suggestion{Suggestion: res.Or()}, nil
}

// GetMoodInsight asks for an observation about moods across the newest logs.
func (s *Service) GetMoodInsight(ctx context.Context) (MoodInsight, error) {
	recent, err := s.store.ListLogs(ctx, 0, RecentLimit)
	if err != nil {
		return MoodInsight{}, fmt.Errorf("failed to load recent logs: %w", err)
	}
	if len(recent) == 0 {
		return MoodInsight{Insight: NoMoodMessage}, nil
	}

	res := s.advisor.MoodInsight(ctx, digest.Mood(recent))
	return MoodInsight{Insight: res.Or()}, nil
}
