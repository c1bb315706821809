package scheduler

import (
	"github.com/homequest/chorequest/internal/notify"
	"github.com/homequest/chorequest/internal/service/leaderboard"
)

// buildDigestEntries transforms leaderboard entries into digest lines.
// Members without any earned points are left out.
func buildDigestEntries(entries []leaderboard.Entry) []notify.DigestEntry {
	digest := make([]notify.DigestEntry, 0, len(entries))

	for _, e := range entries {
		if e.EarnedPoints == 0 {
			continue
		}

		name := e.UserName
		if name == "" {
			name = e.UserID
		}

		digest = append(digest, notify.DigestEntry{
			Rank:         e.Rank,
			UserName:     name,
			EarnedPoints: e.EarnedPoints,
			LevelName:    e.LevelName,
			Streak:       e.CurrentStreak,
		})
	}

	return digest
}
