package scoring

import (
	"sort"
	"time"

	"github.com/homequest/chorequest/internal/models"
)

// StreakResult summarises consecutive-day completion runs.
type StreakResult struct {
	CurrentStreak       int     `json:"current_streak"`
	LongestStreak       int     `json:"longest_streak"`
	TotalStreaks        int     `json:"total_streaks"`
	AverageStreakLength float64 `json:"average_streak_length"`
}

// CalculateStreaks works on distinct completion days, taken as midnight in
// now's location. The current streak counts back from today and is zero
// unless something was completed today.
func CalculateStreaks(completed []models.Chore, now time.Time) StreakResult {
	days := completionDays(completed, now.Location())
	if len(days) == 0 {
		return StreakResult{}
	}

	var res StreakResult

	seen := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		seen[d] = struct{}{}
	}
	for day := StartOfDay(now); ; day = day.AddDate(0, 0, -1) {
		if _, ok := seen[day]; !ok {
			break
		}
		res.CurrentStreak++
	}

	run := 1
	res.TotalStreaks = 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			run++
			continue
		}
		res.LongestStreak = max(res.LongestStreak, run)
		res.TotalStreaks++
		run = 1
	}
	res.LongestStreak = max(res.LongestStreak, run)
	res.AverageStreakLength = round2(float64(len(days)) / float64(res.TotalStreaks))

	return res
}

// completionDays returns the distinct completion days, newest first.
func completionDays(chores []models.Chore, loc *time.Location) []time.Time {
	set := make(map[time.Time]struct{})
	for _, c := range chores {
		if c.CompletedAt == nil {
			continue
		}
		set[StartOfDay(c.CompletedAt.In(loc))] = struct{}{}
	}

	days := make([]time.Time, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}
