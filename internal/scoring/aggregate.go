package scoring

import (
	"time"

	"github.com/homequest/chorequest/internal/models"
)

// Input is a snapshot of everything the aggregator needs. Carried holds
// points from overwritten recurring cycles, keyed by user id.
type Input struct {
	Chores      []models.Chore
	Members     []models.Member
	Deductions  map[string]int
	Carried     map[string]int
	Persistence map[string]PersistenceEntry
	Now         time.Time
}

// UserStats is the derived scoreboard for one member.
type UserStats struct {
	UserID               string                `json:"user_id"`
	UserName             string                `json:"user_name"`
	TotalChores          int                   `json:"total_chores"`
	CompletedChores      int                   `json:"completed_chores"`
	TotalPoints          int                   `json:"total_points"`
	LifetimePoints       int                   `json:"lifetime_points"`
	PointsDeducted       int                   `json:"points_deducted"`
	EarnedPoints         int                   `json:"earned_points"`
	CurrentStreak        int                   `json:"current_streak"`
	LongestStreak        int                   `json:"longest_streak"`
	TotalStreaks         int                   `json:"total_streaks"`
	AverageStreakLength  float64               `json:"average_streak_length"`
	CurrentLevel         Level                 `json:"current_level"`
	CalculatedLevel      int                   `json:"calculated_level"`
	CurrentLevelPoints   int                   `json:"current_level_points"`
	PointsToNextLevel    int                   `json:"points_to_next_level"`
	EfficiencyScore      float64               `json:"efficiency_score"`
	IsFormerMember       bool                  `json:"is_former_member"`
	LevelPersistenceInfo *LevelPersistenceInfo `json:"level_persistence_info,omitempty"`
}

// Aggregate computes UserStats for every member and for every former member
// that still has completions attributed to them. Output follows the
// distribution's bucket order. Inputs are never modified.
func (c Config) Aggregate(in Input) []UserStats {
	dist := Distribute(in.Chores, in.Members)

	current := make(map[string]struct{}, len(in.Members))
	for _, m := range in.Members {
		current[m.ID] = struct{}{}
	}

	out := make([]UserStats, 0, len(dist.Order))
	for _, id := range dist.Order {
		_, isCurrent := current[id]
		out = append(out, c.userStats(dist.Members[id], dist.Buckets[id], !isCurrent, in))
	}
	return out
}

func (c Config) userStats(member models.Member, owned []models.Chore, former bool, in Input) UserStats {
	st := UserStats{
		UserID:         member.ID,
		UserName:       member.Name,
		TotalChores:    len(owned),
		IsFormerMember: former,
	}

	var completed []models.Chore
	var base, reset int
	for i := range owned {
		ch := &owned[i]
		st.TotalPoints += ch.Points
		switch {
		case ch.Completed:
			completed = append(completed, *ch)
			base += ch.EarnedPoints()
		case ch.FinalPoints != nil:
			reset += *ch.FinalPoints
		}
	}
	st.CompletedChores = len(completed)

	st.LifetimePoints = base + reset + in.Carried[member.ID]
	st.PointsDeducted = in.Deductions[member.ID]
	st.EarnedPoints = max(0, st.LifetimePoints-st.PointsDeducted)

	streaks := CalculateStreaks(completed, in.Now)
	st.CurrentStreak = streaks.CurrentStreak
	st.LongestStreak = streaks.LongestStreak
	st.TotalStreaks = streaks.TotalStreaks
	st.AverageStreakLength = streaks.AverageStreakLength
	st.EfficiencyScore = c.EfficiencyScore(owned, completed, streaks.LongestStreak)

	progress := c.ResolveLevel(st.EarnedPoints)
	st.CalculatedLevel = progress.Level.Level
	if entry, ok := in.Persistence[member.ID]; ok && entry.Active(in.Now) && !c.IsDemoUser(member.ID) {
		progress, st.LevelPersistenceInfo = c.applyPersistence(entry, progress)
	}
	st.CurrentLevel = progress.Level
	st.CurrentLevelPoints = progress.CurrentLevelPoints
	st.PointsToNextLevel = progress.PointsToNextLevel

	return st
}
