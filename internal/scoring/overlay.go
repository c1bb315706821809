package scoring

import (
	"time"
)

// DefaultGracePeriodDays is how long a persisted level lasts by default.
const DefaultGracePeriodDays = 30

// PersistenceEntry freezes a member's displayed level after a redemption.
type PersistenceEntry struct {
	Level              int       `json:"level"`
	ExpiresAt          time.Time `json:"expires_at"`
	PointsAtRedemption int       `json:"points_at_redemption"`
}

// NewPersistenceEntry builds an entry that expires graceDays after now.
// A non-positive graceDays uses DefaultGracePeriodDays.
func NewPersistenceEntry(level, pointsAtRedemption, graceDays int, now time.Time) PersistenceEntry {
	if graceDays <= 0 {
		graceDays = DefaultGracePeriodDays
	}
	return PersistenceEntry{
		Level:              level,
		ExpiresAt:          now.AddDate(0, 0, graceDays),
		PointsAtRedemption: pointsAtRedemption,
	}
}

// Active reports whether the entry still applies at now.
func (e PersistenceEntry) Active(now time.Time) bool {
	return !now.After(e.ExpiresAt)
}

// Stale reports whether the entry should be cleared: it has expired, or the
// freshly calculated level has overtaken the persisted one.
func (e PersistenceEntry) Stale(now time.Time, calculatedLevel int) bool {
	return !e.Active(now) || calculatedLevel > e.Level
}

// LevelPersistenceInfo is attached to UserStats when a persisted level is
// shown instead of the calculated one.
type LevelPersistenceInfo struct {
	PersistedLevel     int       `json:"persisted_level"`
	CalculatedLevel    int       `json:"calculated_level"`
	ExpiresAt          time.Time `json:"expires_at"`
	PointsAtRedemption int       `json:"points_at_redemption"`
}

// applyPersistence substitutes the persisted level and measures progress
// against the redemption-time point total.
func (c Config) applyPersistence(e PersistenceEntry, calculated LevelProgress) (LevelProgress, *LevelPersistenceInfo) {
	idx := c.levelIndex(e.Level)
	var p LevelProgress
	if idx < 0 {
		p = c.ResolveLevel(e.PointsAtRedemption)
	} else {
		p = c.progressAt(idx, e.PointsAtRedemption)
	}

	return p, &LevelPersistenceInfo{
		PersistedLevel:     p.Level.Level,
		CalculatedLevel:    calculated.Level.Level,
		ExpiresAt:          e.ExpiresAt,
		PointsAtRedemption: e.PointsAtRedemption,
	}
}
