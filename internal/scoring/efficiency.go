package scoring

import (
	"math"

	"github.com/homequest/chorequest/internal/models"
)

// EfficiencyScore blends five sub-metrics into a 0-100 score:
// completion rate, timeliness, difficulty mix, streak consistency and
// points efficiency. A sub-metric with nothing to measure contributes 0.
func (c Config) EfficiencyScore(userChores, completed []models.Chore, longestStreak int) float64 {
	if len(userChores) == 0 {
		return 0
	}

	w := c.Weights
	score := float64(len(completed)) / float64(len(userChores)) * w.Completion
	score += c.timelinessScore(completed)
	score += c.difficultyScore(completed)

	if len(completed) > 0 {
		score += math.Min(1, float64(longestStreak)/float64(len(completed))) * w.Streak
	}

	var lifetime, potential int
	for i := range userChores {
		ch := &userChores[i]
		potential += ch.Points
		if ch.Completed || ch.FinalPoints != nil {
			lifetime += ch.EarnedPoints()
		}
	}
	if potential > 0 {
		score += math.Min(1, float64(lifetime)/float64(potential)) * w.Points
	}

	return round2(math.Max(0, math.Min(100, score)))
}

// timelinessScore averages how early each dated completion was, capped at
// plus or minus one, and maps [-1, 1] onto [0, weight].
func (c Config) timelinessScore(completed []models.Chore) float64 {
	var sum float64
	var n int
	for _, ch := range completed {
		if ch.DueDate == nil || ch.CompletedAt == nil {
			continue
		}
		days := ch.DueDate.Sub(*ch.CompletedAt).Hours() / 24
		ratio := days / c.TimelinessCapDays
		if ratio > 0 {
			sum += math.Min(1, ratio)
		} else {
			sum += math.Max(-1, ratio)
		}
		n++
	}
	if n == 0 {
		return 0
	}
	return (sum/float64(n) + 1) * c.Weights.Timeliness / 2
}

// difficultyScore is the mean difficulty weight of completed chores,
// normalised by the heaviest weight.
func (c Config) difficultyScore(completed []models.Chore) float64 {
	top := c.maxDifficultyWeight()
	if len(completed) == 0 || top == 0 {
		return 0
	}
	var sum float64
	for _, ch := range completed {
		sum += c.DifficultyWeights[ch.Difficulty]
	}
	return sum / float64(len(completed)) / top * c.Weights.Difficulty
}
