package scoring

import (
	"fmt"
	"time"

	"github.com/homequest/chorequest/internal/models"
)

// BasePoints is the conventional point value for a difficulty.
func BasePoints(d models.Difficulty) int {
	switch d {
	case models.DifficultyEasy:
		return 5
	case models.DifficultyHard:
		return 15
	default:
		return 10
	}
}

// CompletionPoints returns the points awarded for completing c at
// completedAt and a message describing any bonus or penalty. Finishing on
// or before the due date pays 1.5x, finishing late pays 0.9x, both rounded
// down.
func CompletionPoints(c models.Chore, completedAt time.Time) (int, string) {
	if c.DueDate == nil {
		return c.Points, ""
	}
	if !completedAt.After(*c.DueDate) {
		final := c.Points * 3 / 2
		return final, fmt.Sprintf("Early bird bonus! +%d points", final-c.Points)
	}
	final := c.Points * 9 / 10
	return final, fmt.Sprintf("Late penalty: -%d points", c.Points-final)
}

// DefaultDueDate returns the due date a new chore of the given category gets
// when created at from.
func DefaultDueDate(category models.Category, from time.Time) time.Time {
	switch category {
	case models.CategoryWeekly:
		return from.AddDate(0, 0, 7)
	case models.CategoryMonthly:
		return from.AddDate(0, 1, 0)
	case models.CategorySeasonal:
		return from.AddDate(0, 3, 0)
	default:
		return EndOfDay(from)
	}
}
