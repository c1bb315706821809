// Package scoring turns chore records into per-member points, levels,
// streaks and efficiency scores. Everything here is a pure function of its
// inputs.
package scoring

import (
	"fmt"
)

// Level is one row of a level table.
type Level struct {
	Level          int      `yaml:"level" json:"level"`
	Name           string   `yaml:"name" json:"name"`
	PointsRequired int      `yaml:"points_required" json:"points_required"`
	Color          string   `yaml:"color" json:"color"`
	Icon           string   `yaml:"icon" json:"icon"`
	Rewards        []string `yaml:"rewards" json:"rewards"`
}

var canonicalLevels = []Level{
	{Level: 1, Name: "Rookie Helper", PointsRequired: 0, Color: "#9CA3AF", Icon: "sprout", Rewards: []string{"Basic avatar"}},
	{Level: 2, Name: "Tidy Apprentice", PointsRequired: 25, Color: "#34D399", Icon: "broom", Rewards: []string{"Green theme"}},
	{Level: 3, Name: "Chore Champion", PointsRequired: 75, Color: "#10B981", Icon: "sparkles", Rewards: []string{"Custom avatar frame"}},
	{Level: 4, Name: "Household Hero", PointsRequired: 150, Color: "#3B82F6", Icon: "shield", Rewards: []string{"Blue theme", "Profile badge"}},
	{Level: 5, Name: "Cleaning Captain", PointsRequired: 300, Color: "#6366F1", Icon: "anchor", Rewards: []string{"Animated avatar"}},
	{Level: 6, Name: "Order Keeper", PointsRequired: 500, Color: "#8B5CF6", Icon: "key", Rewards: []string{"Purple theme"}},
	{Level: 7, Name: "Home Guardian", PointsRequired: 1000, Color: "#EC4899", Icon: "castle", Rewards: []string{"Custom title"}},
	{Level: 8, Name: "Domestic Master", PointsRequired: 2000, Color: "#F59E0B", Icon: "crown", Rewards: []string{"Gold theme"}},
	{Level: 9, Name: "Chore Legend", PointsRequired: 3500, Color: "#EF4444", Icon: "flame", Rewards: []string{"Legendary frame"}},
	{Level: 10, Name: "Household Deity", PointsRequired: 5000, Color: "#FACC15", Icon: "star", Rewards: []string{"All customizations"}},
}

var legacyLevels = []Level{
	{Level: 1, Name: "Beginner", PointsRequired: 0, Color: "#9CA3AF", Icon: "sprout"},
	{Level: 2, Name: "Helper", PointsRequired: 100, Color: "#34D399", Icon: "broom"},
	{Level: 3, Name: "Contributor", PointsRequired: 250, Color: "#10B981", Icon: "sparkles"},
	{Level: 4, Name: "Achiever", PointsRequired: 450, Color: "#3B82F6", Icon: "shield"},
	{Level: 5, Name: "Expert", PointsRequired: 700, Color: "#6366F1", Icon: "anchor"},
	{Level: 6, Name: "Master", PointsRequired: 1000, Color: "#8B5CF6", Icon: "key"},
	{Level: 7, Name: "Champion", PointsRequired: 1350, Color: "#EC4899", Icon: "castle"},
	{Level: 8, Name: "Hero", PointsRequired: 1750, Color: "#F59E0B", Icon: "crown"},
	{Level: 9, Name: "Legend", PointsRequired: 2200, Color: "#EF4444", Icon: "flame"},
	{Level: 10, Name: "Mythic", PointsRequired: 2700, Color: "#FACC15", Icon: "star"},
}

// CanonicalLevels returns a copy of the level table used by the live stats pipeline.
func CanonicalLevels() []Level {
	return cloneLevels(canonicalLevels)
}

// LegacyLevels returns a copy of the older level table.
func LegacyLevels() []Level {
	return cloneLevels(legacyLevels)
}

func cloneLevels(src []Level) []Level {
	out := make([]Level, len(src))
	for i, l := range src {
		out[i] = l
		out[i].Rewards = append([]string(nil), l.Rewards...)
	}
	return out
}

// ValidateLevels checks that a level table starts at level 1 with zero
// points, has strictly increasing level numbers and non-decreasing thresholds.
func ValidateLevels(levels []Level) error {
	if len(levels) == 0 {
		return fmt.Errorf("level table is empty")
	}
	if levels[0].Level != 1 || levels[0].PointsRequired != 0 {
		return fmt.Errorf("first level must be level 1 requiring 0 points, got level %d requiring %d",
			levels[0].Level, levels[0].PointsRequired)
	}
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if cur.Level <= prev.Level {
			return fmt.Errorf("level numbers must increase: %d follows %d", cur.Level, prev.Level)
		}
		if cur.PointsRequired < prev.PointsRequired {
			return fmt.Errorf("level %d requires %d points, less than level %d (%d)",
				cur.Level, cur.PointsRequired, prev.Level, prev.PointsRequired)
		}
	}
	return nil
}

// LevelProgress is where a point total sits in a level table.
type LevelProgress struct {
	Level              Level  `json:"level"`
	NextLevel          *Level `json:"next_level,omitempty"`
	CurrentLevelPoints int    `json:"current_level_points"`
	PointsToNextLevel  int    `json:"points_to_next_level"`
}

// ResolveLevel finds the highest level whose threshold is met by points and
// the progress toward the next one. At the top level PointsToNextLevel is 0.
func (c Config) ResolveLevel(points int) LevelProgress {
	idx := 0
	for i := len(c.Levels) - 1; i >= 0; i-- {
		if c.Levels[i].PointsRequired <= points {
			idx = i
			break
		}
	}
	return c.progressAt(idx, points)
}

// progressAt measures points against the level at idx.
func (c Config) progressAt(idx, points int) LevelProgress {
	if len(c.Levels) == 0 {
		return LevelProgress{}
	}

	cur := c.Levels[idx]
	p := LevelProgress{
		Level:              cur,
		CurrentLevelPoints: max(0, points-cur.PointsRequired),
	}
	if idx+1 < len(c.Levels) {
		next := c.Levels[idx+1]
		p.NextLevel = &next
		p.PointsToNextLevel = max(0, next.PointsRequired-points)
	}
	return p
}

// levelIndex returns the table index of a level number, or -1.
func (c Config) levelIndex(level int) int {
	for i, l := range c.Levels {
		if l.Level == level {
			return i
		}
	}
	return -1
}
