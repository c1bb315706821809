// Package leaderboard provides leaderboard and ranking services.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/homequest/chorequest/internal/scoring"
	"github.com/homequest/chorequest/internal/service/stats"
	"github.com/homequest/chorequest/pkg/logger"
)

// Supported ranking metrics.
const (
	MetricEarnedPoints    = "earned_points"
	MetricEfficiencyScore = "efficiency_score"
	MetricCurrentStreak   = "current_streak"
	MetricCompletedChores = "completed_chores"
	MetricLevel           = "level"
)

// ErrUnknownMetric is returned for a metric name that cannot be ranked on.
var ErrUnknownMetric = errors.New("unknown leaderboard metric")

// StatsProvider supplies household statistics.
type StatsProvider interface {
	HouseholdStats(ctx context.Context, householdID string) ([]scoring.UserStats, error)
}

// Entry represents a single entry in a leaderboard.
type Entry struct {
	Rank            int     `json:"rank"`
	UserID          string  `json:"user_id"`
	UserName        string  `json:"user_name"`
	EarnedPoints    int     `json:"earned_points"`
	Level           int     `json:"level"`
	LevelName       string  `json:"level_name"`
	EfficiencyScore float64 `json:"efficiency_score"`
	CurrentStreak   int     `json:"current_streak"`
	CompletedChores int     `json:"completed_chores"`
	IsFormerMember  bool    `json:"is_former_member"`
}

// Service handles leaderboard generation.
type Service struct {
	stats StatsProvider
	log   *logger.Logger
}

// NewService creates a new leaderboard service backed by the stats service.
func NewService(statsService *stats.Service, log *logger.Logger) *Service {
	return NewServiceWithInterfaces(statsService, log)
}

// NewServiceWithInterfaces creates a new leaderboard service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(provider StatsProvider, log *logger.Logger) *Service {
	return &Service{
		stats: provider,
		log:   log,
	}
}

// ValidMetric reports whether metric can be ranked on. The empty string
// selects the default.
func ValidMetric(metric string) bool {
	switch metric {
	case "", MetricEarnedPoints, MetricEfficiencyScore, MetricCurrentStreak, MetricCompletedChores, MetricLevel:
		return true
	}
	return false
}

// GetLeaderboard ranks the household by metric. A positive limit truncates
// the result after ranks are assigned.
func (s *Service) GetLeaderboard(ctx context.Context, householdID, metric string, limit int) ([]Entry, error) {
	if !ValidMetric(metric) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}

	userStats, err := s.stats.HouseholdStats(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to get household stats: %w", err)
	}

	entries := make([]Entry, 0, len(userStats))
	for _, st := range userStats {
		entries = append(entries, Entry{
			UserID:          st.UserID,
			UserName:        st.UserName,
			EarnedPoints:    st.EarnedPoints,
			Level:           st.CurrentLevel.Level,
			LevelName:       st.CurrentLevel.Name,
			EfficiencyScore: st.EfficiencyScore,
			CurrentStreak:   st.CurrentStreak,
			CompletedChores: st.CompletedChores,
			IsFormerMember:  st.IsFormerMember,
		})
	}

	sortLeaderboard(entries, metric)

	for i := range entries {
		entries[i].Rank = i + 1
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	s.log.Debug().
		Str("household", householdID).
		Str("metric", metric).
		Int("entries", len(entries)).
		Msg("Leaderboard generated")

	return entries, nil
}

// sortLeaderboard sorts entries by metric, highest first. Ties fall back to
// user name and then user id so the order is stable across calls.
func sortLeaderboard(entries []Entry, metric string) {
	var less func(a, b Entry) bool
	switch metric {
	case MetricEfficiencyScore:
		less = func(a, b Entry) bool { return a.EfficiencyScore > b.EfficiencyScore }
	case MetricCurrentStreak:
		less = func(a, b Entry) bool { return a.CurrentStreak > b.CurrentStreak }
	case MetricCompletedChores:
		less = func(a, b Entry) bool { return a.CompletedChores > b.CompletedChores }
	case MetricLevel:
		less = func(a, b Entry) bool {
			if a.Level != b.Level {
				return a.Level > b.Level
			}
			return a.EarnedPoints > b.EarnedPoints
		}
	default:
		less = func(a, b Entry) bool { return a.EarnedPoints > b.EarnedPoints }
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		if a.UserName != b.UserName {
			return a.UserName < b.UserName
		}
		return a.UserID < b.UserID
	})
}

// GetUserRank returns the rank of a user for a specific metric.
func (s *Service) GetUserRank(ctx context.Context, householdID, userID, metric string) (int, error) {
	leaderboard, err := s.GetLeaderboard(ctx, householdID, metric, 0)
	if err != nil {
		return 0, err
	}

	for _, entry := range leaderboard {
		if entry.UserID == userID {
			return entry.Rank, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", stats.ErrUserNotFound, userID)
}
