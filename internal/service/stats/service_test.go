package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homequest/chorequest/internal/ledger"
	"github.com/homequest/chorequest/internal/models"
	"github.com/homequest/chorequest/internal/scoring"
	"github.com/homequest/chorequest/pkg/logger"
	"github.com/homequest/chorequest/test/mocks"
)

const household = "home"

var now = time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

type fixture struct {
	svc         *Service
	chores      *mocks.MockChoreRepository
	deductions  *ledger.Deductions
	persistence *ledger.Persistence
	cache       *mocks.MockCache
}

func completed(id, by string, points, final int) models.Chore {
	at := now.Add(-time.Hour)
	return models.Chore{
		ID: id, HouseholdID: household, Title: id, Difficulty: models.DifficultyMedium,
		Category: models.CategoryDaily, Points: points, Completed: true,
		CompletedAt: &at, CompletedBy: &by, FinalPoints: &final,
	}
}

func newFixture(t *testing.T, chores ...models.Chore) fixture {
	t.Helper()
	return newFixtureIn(t, time.UTC, chores...)
}

func newFixtureIn(t *testing.T, loc *time.Location, chores ...models.Chore) fixture {
	t.Helper()

	cache := mocks.NewMockCache()
	choreRepo := mocks.NewMockChoreRepository(chores...)
	memberRepo := mocks.NewMockMemberRepository(
		models.Member{ID: "alex", HouseholdID: household, Name: "Alex", IsActive: true},
		models.Member{ID: "sam", HouseholdID: household, Name: "Sam", IsActive: true},
	)
	deductions := ledger.NewDeductions(cache, logger.Nop())
	persistence := ledger.NewPersistence(cache, logger.Nop())

	svc := NewServiceWithInterfaces(scoring.CanonicalConfig(), loc, choreRepo, memberRepo, deductions, persistence, logger.Nop())
	svc.now = func() time.Time { return now }

	return fixture{svc: svc, chores: choreRepo, deductions: deductions, persistence: persistence, cache: cache}
}

func TestHouseholdStats(t *testing.T) {
	f := newFixture(t,
		completed("c1", "alex", 10, 15),
		completed("c2", "alex", 15, 13),
		completed("c3", "sam", 5, 7),
		completed("c4", "moved-out", 10, 10),
	)

	stats, err := f.svc.HouseholdStats(context.Background(), household)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "alex", stats[0].UserID)
	assert.Equal(t, 28, stats[0].EarnedPoints)
	assert.Equal(t, 2, stats[0].CurrentLevel.Level)
	assert.Equal(t, "moved-out", stats[2].UserID)
	assert.True(t, stats[2].IsFormerMember)
}

func TestHouseholdStatsAppliesDeductions(t *testing.T) {
	f := newFixture(t, completed("c1", "alex", 10, 15))
	_, err := f.deductions.UpdateUserPoints(context.Background(), household, "alex", 40)
	require.NoError(t, err)

	st, err := f.svc.UserStats(context.Background(), household, "alex")
	require.NoError(t, err)
	assert.Equal(t, 0, st.EarnedPoints)
	assert.Equal(t, 15, st.LifetimePoints)
}

func TestHouseholdStatsKeepsPersistedLevel(t *testing.T) {
	f := newFixture(t, completed("c1", "alex", 10, 30))
	_, err := f.persistence.SetLevelPersistence(context.Background(), household, "alex", 3, 80, 30)
	require.NoError(t, err)
	_, err = f.deductions.UpdateUserPoints(context.Background(), household, "alex", 20)
	require.NoError(t, err)

	st, err := f.svc.UserStats(context.Background(), household, "alex")
	require.NoError(t, err)
	assert.Equal(t, 10, st.EarnedPoints)
	assert.Equal(t, 3, st.CurrentLevel.Level)
	require.NotNil(t, st.LevelPersistenceInfo)
	assert.Equal(t, 1, st.LevelPersistenceInfo.CalculatedLevel)
}

func TestHouseholdStatsClearsOutgrownPersistence(t *testing.T) {
	f := newFixture(t, completed("c1", "alex", 100, 200))
	_, err := f.persistence.SetLevelPersistence(context.Background(), household, "alex", 2, 30, 30)
	require.NoError(t, err)

	st, err := f.svc.UserStats(context.Background(), household, "alex")
	require.NoError(t, err)
	assert.Equal(t, 4, st.CurrentLevel.Level)
	assert.Nil(t, st.LevelPersistenceInfo)

	entry, err := f.persistence.Get(context.Background(), household, "alex")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestHouseholdStatsStreakUsesHouseholdTimezone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	// 08:00 in Tokyo is 23:00 the previous day in UTC.
	doneAt := time.Date(2025, 3, 14, 8, 0, 0, 0, tokyo)
	by := "alex"
	chore := models.Chore{
		ID: "c1", HouseholdID: household, Title: "dishes", Difficulty: models.DifficultyEasy,
		Category: models.CategoryDaily, Points: 5, Completed: true,
		CompletedAt: &doneAt, CompletedBy: &by,
	}

	f := newFixtureIn(t, tokyo, chore)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 14, 1, 0, 0, 0, time.UTC) }

	st, err := f.svc.UserStats(context.Background(), household, "alex")
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentStreak)

	utc := newFixture(t, chore)
	utc.svc.now = f.svc.now
	st, err = utc.svc.UserStats(context.Background(), household, "alex")
	require.NoError(t, err)
	assert.Equal(t, 0, st.CurrentStreak)
}

func TestHouseholdStatsIgnoresOtherHouseholdLedger(t *testing.T) {
	f := newFixture(t, completed("c1", "alex", 10, 15))
	_, err := f.deductions.UpdateUserPoints(context.Background(), "cabin", "alex", 15)
	require.NoError(t, err)

	st, err := f.svc.UserStats(context.Background(), household, "alex")
	require.NoError(t, err)
	assert.Equal(t, 15, st.EarnedPoints)
}

func TestHouseholdStatsIncludesCarriedPoints(t *testing.T) {
	f := newFixture(t, completed("c1", "alex", 10, 15))

	members := mocks.NewMockMemberRepository(
		models.Member{ID: "alex", HouseholdID: household, Name: "Alex", IsActive: true, CarriedPoints: 20},
		models.Member{ID: "sam", HouseholdID: household, Name: "Sam", IsActive: true},
		models.Member{ID: "kim", HouseholdID: household, Name: "Kim", IsActive: false, CarriedPoints: 30},
	)
	f.svc.members = members

	stats, err := f.svc.HouseholdStats(context.Background(), household)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	alex := stats[0]
	assert.Equal(t, "alex", alex.UserID)
	assert.Equal(t, 35, alex.LifetimePoints)
	assert.Equal(t, 35, alex.EarnedPoints)
}

func TestUserStatsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UserStats(context.Background(), household, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestHouseholdStatsRepositoryError(t *testing.T) {
	f := newFixture(t)
	f.chores.Err = errors.New("db down")

	_, err := f.svc.HouseholdStats(context.Background(), household)
	assert.Error(t, err)
}

func TestCandidateIDs(t *testing.T) {
	by := "former"
	empty := ""
	ids := candidateIDs(
		[]models.Chore{{CompletedBy: &by}, {CompletedBy: &empty}, {CompletedBy: &by}},
		[]models.Member{{ID: "a"}, {ID: "b"}},
	)
	assert.Equal(t, []string{"a", "b", "former"}, ids)
}
