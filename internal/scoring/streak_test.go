package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/homequest/chorequest/internal/models"
)

func completedOnDays(offsets ...int) []models.Chore {
	var out []models.Chore
	for i, off := range offsets {
		out = append(out, done(chore(string(rune('a'+i)), models.DifficultyEasy, 5), "u", testNow.AddDate(0, 0, -off)))
	}
	return out
}

func TestCalculateStreaksEmpty(t *testing.T) {
	assert.Equal(t, StreakResult{}, CalculateStreaks(nil, testNow))
}

func TestCalculateStreaks(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    StreakResult
	}{
		{
			name:    "today only",
			offsets: []int{0},
			want:    StreakResult{CurrentStreak: 1, LongestStreak: 1, TotalStreaks: 1, AverageStreakLength: 1},
		},
		{
			name:    "three days ending today",
			offsets: []int{0, 1, 2},
			want:    StreakResult{CurrentStreak: 3, LongestStreak: 3, TotalStreaks: 1, AverageStreakLength: 3},
		},
		{
			name:    "nothing today",
			offsets: []int{1, 2},
			want:    StreakResult{CurrentStreak: 0, LongestStreak: 2, TotalStreaks: 1, AverageStreakLength: 2},
		},
		{
			name:    "gap splits runs",
			offsets: []int{0, 1, 5, 6, 7, 8},
			want:    StreakResult{CurrentStreak: 2, LongestStreak: 4, TotalStreaks: 2, AverageStreakLength: 3},
		},
		{
			name:    "same day counted once",
			offsets: []int{0, 0, 0, 1},
			want:    StreakResult{CurrentStreak: 2, LongestStreak: 2, TotalStreaks: 1, AverageStreakLength: 2},
		},
		{
			name:    "three isolated days",
			offsets: []int{0, 2, 4},
			want:    StreakResult{CurrentStreak: 1, LongestStreak: 1, TotalStreaks: 3, AverageStreakLength: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStreaks(completedOnDays(tt.offsets...), testNow))
		})
	}
}

func TestCalculateStreaksUsesDayGranularity(t *testing.T) {
	late := done(chore("a", models.DifficultyEasy, 5), "u", time.Date(2025, 3, 13, 23, 59, 0, 0, time.UTC))
	early := done(chore("b", models.DifficultyEasy, 5), "u", time.Date(2025, 3, 14, 0, 1, 0, 0, time.UTC))

	res := CalculateStreaks([]models.Chore{late, early}, testNow)
	assert.Equal(t, 2, res.CurrentStreak)
	assert.Equal(t, 2, res.LongestStreak)
}

func TestCalculateStreaksIgnoresMissingTimestamps(t *testing.T) {
	c := chore("a", models.DifficultyEasy, 5)
	c.Completed = true

	assert.Equal(t, StreakResult{}, CalculateStreaks([]models.Chore{c}, testNow))
}
