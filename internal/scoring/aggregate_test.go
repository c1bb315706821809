package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homequest/chorequest/internal/models"
)

func statsFor(t *testing.T, stats []UserStats, id string) UserStats {
	t.Helper()
	for _, s := range stats {
		if s.UserID == id {
			return s
		}
	}
	t.Fatalf("no stats for %q", id)
	return UserStats{}
}

func householdExample() Input {
	early := done(chore("easy", models.DifficultyEasy, 5), "alex", testNow)
	early.DueDate = timePtr(testNow.Add(time.Hour))
	early.FinalPoints = intPtr(7)

	late := done(chore("hard", models.DifficultyHard, 15), "alex", testNow)
	late.DueDate = timePtr(testNow.AddDate(0, 0, -1))
	late.FinalPoints = intPtr(13)

	pending := chore("medium", models.DifficultyMedium, 10)

	return Input{
		Chores:  []models.Chore{early, late, pending},
		Members: []models.Member{member("alex")},
		Now:     testNow,
	}
}

func TestAggregateSingleMemberExample(t *testing.T) {
	stats := CanonicalConfig().Aggregate(householdExample())
	require.Len(t, stats, 1)

	s := stats[0]
	assert.Equal(t, 3, s.TotalChores)
	assert.Equal(t, 2, s.CompletedChores)
	assert.Equal(t, 30, s.TotalPoints)
	assert.Equal(t, 20, s.EarnedPoints)
	assert.Equal(t, 1, s.CurrentLevel.Level)
	assert.Equal(t, 20, s.CurrentLevelPoints)
	assert.Equal(t, 5, s.PointsToNextLevel)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Nil(t, s.LevelPersistenceInfo)
}

func TestAggregateIsIdempotentAndPure(t *testing.T) {
	in := householdExample()
	in.Members = append(in.Members, member("sam"))
	in.Deductions = map[string]int{"alex": 3}

	before := make([]models.Chore, len(in.Chores))
	copy(before, in.Chores)

	cfg := CanonicalConfig()
	first := cfg.Aggregate(in)
	second := cfg.Aggregate(in)

	assert.Equal(t, first, second)
	assert.Equal(t, before, in.Chores)
	assert.Equal(t, map[string]int{"alex": 3}, in.Deductions)
}

func TestAggregateConservation(t *testing.T) {
	in := householdExample()
	in.Members = []models.Member{member("alex"), member("sam"), member("kim")}
	in.Chores = append(in.Chores, done(chore("x", models.DifficultyEasy, 5), "former", testNow))

	total := 0
	for _, s := range CanonicalConfig().Aggregate(in) {
		total += s.TotalChores
	}
	assert.Equal(t, len(in.Chores), total)
}

func TestAggregateResetPreservation(t *testing.T) {
	reset := chore("r", models.DifficultyMedium, 10)
	reset.FinalPoints = intPtr(15)
	reset.CompletedBy = strPtr("alex")

	stats := CanonicalConfig().Aggregate(Input{
		Chores:  []models.Chore{reset},
		Members: []models.Member{member("alex")},
		Now:     testNow,
	})

	require.Len(t, stats, 1)
	assert.Equal(t, 15, stats[0].EarnedPoints)
	assert.Equal(t, 0, stats[0].CompletedChores)
}

func TestAggregateDeductionFloor(t *testing.T) {
	in := householdExample()
	in.Deductions = map[string]int{"alex": 500}

	s := CanonicalConfig().Aggregate(in)[0]
	assert.Equal(t, 0, s.EarnedPoints)
	assert.Equal(t, 20, s.LifetimePoints)
	assert.Equal(t, 500, s.PointsDeducted)
	assert.Equal(t, 1, s.CurrentLevel.Level)
}

func TestAggregateLevelPersistence(t *testing.T) {
	in := householdExample()
	in.Persistence = map[string]PersistenceEntry{
		"alex": {Level: 3, ExpiresAt: testNow.AddDate(0, 0, 10), PointsAtRedemption: 100},
	}

	s := CanonicalConfig().Aggregate(in)[0]
	assert.Equal(t, 3, s.CurrentLevel.Level)
	assert.Equal(t, 25, s.CurrentLevelPoints)
	assert.Equal(t, 50, s.PointsToNextLevel)
	assert.Equal(t, 1, s.CalculatedLevel)
	require.NotNil(t, s.LevelPersistenceInfo)
	assert.Equal(t, 3, s.LevelPersistenceInfo.PersistedLevel)
	assert.Equal(t, 1, s.LevelPersistenceInfo.CalculatedLevel)
}

func TestAggregateExpiredPersistenceIgnored(t *testing.T) {
	in := householdExample()
	in.Persistence = map[string]PersistenceEntry{
		"alex": {Level: 3, ExpiresAt: testNow.Add(-time.Second), PointsAtRedemption: 100},
	}

	s := CanonicalConfig().Aggregate(in)[0]
	assert.Equal(t, 1, s.CurrentLevel.Level)
	assert.Nil(t, s.LevelPersistenceInfo)
}

func TestAggregateDemoUsersBypassPersistence(t *testing.T) {
	in := householdExample()
	for i := range in.Chores {
		if in.Chores[i].CompletedBy != nil {
			in.Chores[i].CompletedBy = strPtr("demo-alex")
		}
	}
	in.Members = []models.Member{member("demo-alex")}
	in.Persistence = map[string]PersistenceEntry{
		"demo-alex": {Level: 5, ExpiresAt: testNow.AddDate(0, 0, 10), PointsAtRedemption: 400},
	}

	s := CanonicalConfig().Aggregate(in)[0]
	assert.Equal(t, 1, s.CurrentLevel.Level)
	assert.Nil(t, s.LevelPersistenceInfo)
}

func TestAggregateFormerMember(t *testing.T) {
	stats := CanonicalConfig().Aggregate(Input{
		Chores: []models.Chore{
			done(chore("a", models.DifficultyHard, 15), "moved-out", testNow),
			chore("b", models.DifficultyEasy, 5),
		},
		Members: []models.Member{member("x"), member("y")},
		Now:     testNow,
	})

	require.Len(t, stats, 3)
	former := statsFor(t, stats, "moved-out")
	assert.True(t, former.IsFormerMember)
	assert.Equal(t, "moved-out", former.UserName)
	assert.Equal(t, 15, former.EarnedPoints)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, CanonicalConfig().Aggregate(Input{Now: testNow}))

	stats := CanonicalConfig().Aggregate(Input{Members: []models.Member{member("a")}, Now: testNow})
	require.Len(t, stats, 1)
	assert.Equal(t, 0, stats[0].EarnedPoints)
	assert.Equal(t, 0.0, stats[0].EfficiencyScore)
	assert.Equal(t, 1, stats[0].CurrentLevel.Level)
}

func TestAggregateAddsCarriedPoints(t *testing.T) {
	in := householdExample()
	in.Members = append(in.Members, member("sam"))
	in.Carried = map[string]int{"alex": 15, "sam": 10}
	in.Deductions = map[string]int{"sam": 4}

	stats := CanonicalConfig().Aggregate(in)

	alex := statsFor(t, stats, "alex")
	assert.Equal(t, 35, alex.LifetimePoints)
	assert.Equal(t, 35, alex.EarnedPoints)
	assert.Equal(t, 2, alex.CurrentLevel.Level)

	sam := statsFor(t, stats, "sam")
	assert.Equal(t, 10, sam.LifetimePoints)
	assert.Equal(t, 6, sam.EarnedPoints)
	assert.Equal(t, 0, sam.CompletedChores)
}
