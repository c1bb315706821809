package scoring

import (
	"time"

	"github.com/homequest/chorequest/internal/models"
)

var testNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

func member(id string) models.Member {
	return models.Member{ID: id, Name: "Member " + id, IsActive: true}
}

func chore(id string, d models.Difficulty, points int) models.Chore {
	return models.Chore{ID: id, Title: "chore " + id, Difficulty: d, Category: models.CategoryDaily, Points: points}
}

func done(c models.Chore, by string, at time.Time) models.Chore {
	c.Completed = true
	c.CompletedBy = strPtr(by)
	c.CompletedAt = timePtr(at)
	return c
}
