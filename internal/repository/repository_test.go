package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/homequest/chorequest/internal/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	wrapped := &DB{db}
	if err := wrapped.AutoMigrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { _ = wrapped.Close() })
	return wrapped
}

func newChore(household, id string, created time.Time) *models.Chore {
	return &models.Chore{
		ID:          id,
		HouseholdID: household,
		Title:       "Chore " + id,
		Difficulty:  models.DifficultyMedium,
		Category:    models.CategoryDaily,
		Priority:    models.PriorityLow,
		Points:      10,
		CreatedAt:   created,
	}
}

func TestChoreRepositoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChoreRepository(db)
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(newChore("home", "b", base.Add(time.Minute))))
	require.NoError(t, repo.Create(newChore("home", "a", base)))
	require.NoError(t, repo.Create(newChore("other", "c", base)))

	chores, err := repo.ListByHousehold("home")
	require.NoError(t, err)
	require.Len(t, chores, 2)
	assert.Equal(t, "a", chores[0].ID)
	assert.Equal(t, "b", chores[1].ID)

	got, err := repo.GetByID("home", "a")
	require.NoError(t, err)

	completedAt := base.Add(time.Hour)
	by := "m1"
	final := 15
	got.Completed = true
	got.CompletedAt = &completedAt
	got.CompletedBy = &by
	got.FinalPoints = &final
	require.NoError(t, repo.Update(got))

	got, err = repo.GetByID("home", "a")
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.FinalPoints)
	assert.Equal(t, 15, *got.FinalPoints)
	assert.Equal(t, "m1", *got.CompletedBy)

	_, err = repo.GetByID("other", "a")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, repo.Delete("home", "b"))
	err = repo.Delete("home", "b")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestChoreRepositoryUpdateMany(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChoreRepository(db)
	now := time.Now()

	require.NoError(t, repo.Create(newChore("home", "a", now)))
	require.NoError(t, repo.Create(newChore("home", "b", now)))

	chores, err := repo.ListByHousehold("home")
	require.NoError(t, err)
	for i := range chores {
		chores[i].Points = 20
	}
	require.NoError(t, repo.UpdateMany(chores))
	require.NoError(t, repo.UpdateMany(nil))

	chores, err = repo.ListByHousehold("home")
	require.NoError(t, err)
	for _, c := range chores {
		assert.Equal(t, 20, c.Points)
	}
}

func TestChoreRepositoryUpdateWithCarryover(t *testing.T) {
	db := setupTestDB(t)
	chores := NewChoreRepository(db)
	members := NewMemberRepository(db)

	require.NoError(t, members.Create(&models.Member{ID: "m1", HouseholdID: "home", Name: "Alex", IsActive: true}))
	require.NoError(t, members.Create(&models.Member{ID: "m1-cabin", HouseholdID: "cabin", Name: "Alex", IsActive: true}))
	require.NoError(t, chores.Create(newChore("home", "a", time.Now())))

	chore, err := chores.GetByID("home", "a")
	require.NoError(t, err)
	chore.Points = 25
	require.NoError(t, chores.UpdateWithCarryover(chore, "m1", 15))
	require.NoError(t, chores.UpdateWithCarryover(chore, "m1", 5))

	m, err := members.GetByID("home", "m1")
	require.NoError(t, err)
	assert.Equal(t, 20, m.CarriedPoints)

	other, err := members.GetByID("cabin", "m1-cabin")
	require.NoError(t, err)
	assert.Zero(t, other.CarriedPoints)

	chore, err = chores.GetByID("home", "a")
	require.NoError(t, err)
	assert.Equal(t, 25, chore.Points)
}

func TestListHouseholds(t *testing.T) {
	db := setupTestDB(t)
	chores := NewChoreRepository(db)
	members := NewMemberRepository(db)

	require.NoError(t, chores.Create(newChore("beta", "c1", time.Now())))
	require.NoError(t, members.Create(&models.Member{ID: "m1", HouseholdID: "alpha", Name: "Alex", IsActive: true}))
	require.NoError(t, members.Create(&models.Member{ID: "m2", HouseholdID: "beta", Name: "Sam", IsActive: true}))

	ids, err := chores.ListHouseholds()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, ids)
}

func TestMemberRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemberRepository(db)
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(&models.Member{ID: "m2", HouseholdID: "home", Name: "Sam", JoinedAt: joined.Add(time.Hour), IsActive: true}))
	require.NoError(t, repo.Create(&models.Member{ID: "m1", HouseholdID: "home", Name: "Alex", Role: models.RoleAdmin, JoinedAt: joined, IsActive: true}))
	gone := &models.Member{ID: "m3", HouseholdID: "home", Name: "Kim", JoinedAt: joined, IsActive: true}
	require.NoError(t, repo.Create(gone))
	gone.IsActive = false
	require.NoError(t, repo.Update(gone))

	active, err := repo.ListByHousehold("home", false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "m1", active[0].ID)
	assert.Equal(t, "m2", active[1].ID)

	all, err := repo.ListByHousehold("home", true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	m, err := repo.GetByID("home", "m1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, m.Role)
}

func TestResetRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResetRepository(db)

	state, err := repo.Get("home")
	require.NoError(t, err)
	assert.Nil(t, state)

	first := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(&models.ResetState{HouseholdID: "home", LastReset: first, ResetCount: 2}))
	require.NoError(t, repo.Save(&models.ResetState{HouseholdID: "home", LastReset: first.AddDate(0, 0, 1), ResetCount: 1}))

	state, err = repo.Get("home")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.LastReset.Equal(first.AddDate(0, 0, 1)))
	assert.Equal(t, 1, state.ResetCount)
}
