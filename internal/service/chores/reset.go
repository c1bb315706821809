package chores

import (
	"time"

	"github.com/homequest/chorequest/internal/models"
	"github.com/homequest/chorequest/internal/scoring"
)

// ResetResult is the outcome of applying the daily reset.
type ResetResult struct {
	// Chores is the full chore list after the reset.
	Chores []models.Chore
	// Changed lists the ids of chores that were returned to incomplete.
	Changed []string
	// LastReset is the reset timestamp to persist for the next call.
	LastReset time.Time
	// Applied is false when the reset already ran today.
	Applied bool
}

// ApplyMidnightReset returns completed daily chores to incomplete once per
// calendar day. lastReset is the zero time when the reset never ran.
//
// A reset chore loses its completion time and bonus message and is due at
// the end of today. FinalPoints and CompletedBy are kept so lifetime points
// and attribution survive the cycle. The input slice is not modified.
func ApplyMidnightReset(now, lastReset time.Time, chores []models.Chore) ResetResult {
	midnight := scoring.StartOfDay(now)

	out := make([]models.Chore, len(chores))
	copy(out, chores)

	if !lastReset.IsZero() && !lastReset.Before(midnight) {
		return ResetResult{Chores: out, LastReset: lastReset}
	}

	res := ResetResult{Chores: out, LastReset: now, Applied: true}
	due := scoring.EndOfDay(now)
	for i := range out {
		c := &out[i]
		if c.Category != models.CategoryDaily || !c.Completed {
			continue
		}
		if c.CompletedAt != nil && !c.CompletedAt.Before(midnight) {
			continue
		}

		c.Completed = false
		c.CompletedAt = nil
		c.BonusMessage = nil
		c.DueDate = &due
		res.Changed = append(res.Changed, c.ID)
	}
	return res
}
