package leaderboard

import (
	"context"
	"errors"
	"testing"

	"github.com/homequest/chorequest/internal/scoring"
	"github.com/homequest/chorequest/internal/service/stats"
	"github.com/homequest/chorequest/pkg/logger"
)

// Mock stats provider for testing
type mockStatsProvider struct {
	stats map[string][]scoring.UserStats
	err   error
}

func (m *mockStatsProvider) HouseholdStats(_ context.Context, householdID string) ([]scoring.UserStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats[householdID], nil
}

func userStats(id, name string, earned, level int, efficiency float64, streak, completed int) scoring.UserStats {
	return scoring.UserStats{
		UserID:          id,
		UserName:        name,
		EarnedPoints:    earned,
		CurrentLevel:    scoring.Level{Level: level, Name: "L"},
		EfficiencyScore: efficiency,
		CurrentStreak:   streak,
		CompletedChores: completed,
	}
}

// Test setup helper
func setupTestService() (*Service, *mockStatsProvider) {
	provider := &mockStatsProvider{
		stats: map[string][]scoring.UserStats{
			"home": {
				userStats("alice", "Alice", 120, 3, 64.5, 2, 12),
				userStats("bob", "Bob", 300, 5, 40.0, 0, 20),
				userStats("carol", "Carol", 80, 4, 91.25, 5, 9),
			},
		},
	}
	return NewServiceWithInterfaces(provider, logger.Nop()), provider
}

func TestGetLeaderboardDefaultMetric(t *testing.T) {
	service, _ := setupTestService()

	leaderboard, err := service.GetLeaderboard(context.Background(), "home", "", 0)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}

	if len(leaderboard) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(leaderboard))
	}

	// Bob leads on earned points
	if leaderboard[0].UserID != "bob" {
		t.Errorf("Expected bob at rank 1, got %s", leaderboard[0].UserID)
	}
	for i, entry := range leaderboard {
		if entry.Rank != i+1 {
			t.Errorf("Expected rank %d, got %d", i+1, entry.Rank)
		}
	}
}

func TestGetLeaderboardMetrics(t *testing.T) {
	service, _ := setupTestService()

	tests := []struct {
		metric string
		want   []string
	}{
		{MetricEarnedPoints, []string{"bob", "alice", "carol"}},
		{MetricEfficiencyScore, []string{"carol", "alice", "bob"}},
		{MetricCurrentStreak, []string{"carol", "alice", "bob"}},
		{MetricCompletedChores, []string{"bob", "alice", "carol"}},
		{MetricLevel, []string{"bob", "carol", "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			leaderboard, err := service.GetLeaderboard(context.Background(), "home", tt.metric, 0)
			if err != nil {
				t.Fatalf("GetLeaderboard failed: %v", err)
			}
			for i, id := range tt.want {
				if leaderboard[i].UserID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, leaderboard[i].UserID)
				}
			}
		})
	}
}

func TestGetLeaderboardTiesBrokenByName(t *testing.T) {
	service, provider := setupTestService()
	provider.stats["tied"] = []scoring.UserStats{
		userStats("z", "Zoe", 50, 2, 0, 0, 0),
		userStats("m", "Max", 50, 2, 0, 0, 0),
		userStats("a2", "Ann", 50, 2, 0, 0, 0),
		userStats("a1", "Ann", 50, 2, 0, 0, 0),
	}

	leaderboard, err := service.GetLeaderboard(context.Background(), "tied", MetricEarnedPoints, 0)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}

	want := []string{"a1", "a2", "m", "z"}
	for i, id := range want {
		if leaderboard[i].UserID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, leaderboard[i].UserID)
		}
	}
}

func TestGetLeaderboardLimit(t *testing.T) {
	service, _ := setupTestService()

	leaderboard, err := service.GetLeaderboard(context.Background(), "home", MetricEarnedPoints, 2)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}

	if len(leaderboard) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(leaderboard))
	}
}

func TestGetLeaderboardUnknownMetric(t *testing.T) {
	service, _ := setupTestService()

	_, err := service.GetLeaderboard(context.Background(), "home", "karma", 0)
	if !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("Expected ErrUnknownMetric, got %v", err)
	}
}

func TestGetLeaderboardEmptyHousehold(t *testing.T) {
	service, _ := setupTestService()

	leaderboard, err := service.GetLeaderboard(context.Background(), "nobody", "", 10)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(leaderboard) != 0 {
		t.Errorf("Expected empty leaderboard, got %d entries", len(leaderboard))
	}
}

func TestGetLeaderboardProviderError(t *testing.T) {
	service, provider := setupTestService()
	provider.err = errors.New("redis down")

	if _, err := service.GetLeaderboard(context.Background(), "home", "", 0); err == nil {
		t.Error("Expected error when stats provider fails")
	}
}

func TestGetUserRank(t *testing.T) {
	service, _ := setupTestService()

	rank, err := service.GetUserRank(context.Background(), "home", "carol", MetricEfficiencyScore)
	if err != nil {
		t.Fatalf("GetUserRank failed: %v", err)
	}
	if rank != 1 {
		t.Errorf("Expected carol at rank 1, got %d", rank)
	}

	_, err = service.GetUserRank(context.Background(), "home", "dave", "")
	if !errors.Is(err, stats.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
