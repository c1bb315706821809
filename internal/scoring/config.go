package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/homequest/chorequest/internal/models"
)

// Named scoring profiles.
const (
	CanonicalVersion = "v2-canonical"
	LegacyVersion    = "v1-legacy"
)

// ErrUnknownProfile is returned by ConfigByName for an unrecognised name.
var ErrUnknownProfile = errors.New("unknown scoring profile")

// Weights are the efficiency sub-metric weights. They must sum to 100.
type Weights struct {
	Completion float64 `yaml:"completion" json:"completion"`
	Timeliness float64 `yaml:"timeliness" json:"timeliness"`
	Difficulty float64 `yaml:"difficulty" json:"difficulty"`
	Streak     float64 `yaml:"streak" json:"streak"`
	Points     float64 `yaml:"points" json:"points"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Completion + w.Timeliness + w.Difficulty + w.Streak + w.Points
}

// Config is a versioned scoring profile: level table, efficiency weights
// and the knobs the metrics depend on.
type Config struct {
	Version           string
	Levels            []Level
	Weights           Weights
	DifficultyWeights map[models.Difficulty]float64
	// TimelinessCapDays is the number of days early (or late) at which a
	// completion earns the full timeliness credit (or penalty).
	TimelinessCapDays float64
	// DemoUserPrefix marks synthetic users that never get level persistence.
	DemoUserPrefix string
}

func defaultWeights() Weights {
	return Weights{Completion: 30, Timeliness: 25, Difficulty: 20, Streak: 15, Points: 10}
}

func defaultDifficultyWeights() map[models.Difficulty]float64 {
	return map[models.Difficulty]float64{
		models.DifficultyEasy:   0.5,
		models.DifficultyMedium: 1.0,
		models.DifficultyHard:   1.5,
	}
}

// CanonicalConfig returns the profile used by the primary stats pipeline.
func CanonicalConfig() Config {
	return Config{
		Version:           CanonicalVersion,
		Levels:            CanonicalLevels(),
		Weights:           defaultWeights(),
		DifficultyWeights: defaultDifficultyWeights(),
		TimelinessCapDays: 7,
		DemoUserPrefix:    "demo-",
	}
}

// LegacyConfig returns the profile built on the older level table. The
// efficiency formula is shared with the canonical profile.
func LegacyConfig() Config {
	c := CanonicalConfig()
	c.Version = LegacyVersion
	c.Levels = LegacyLevels()
	return c
}

// ConfigByName selects a built-in profile.
func ConfigByName(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CanonicalVersion, "canonical":
		return CanonicalConfig(), nil
	case LegacyVersion, "legacy":
		return LegacyConfig(), nil
	}
	return Config{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Validate checks the profile is usable by the engine.
func (c Config) Validate() error {
	if err := ValidateLevels(c.Levels); err != nil {
		return err
	}
	if sum := c.Weights.Sum(); math.Abs(sum-100) > 1e-9 {
		return fmt.Errorf("efficiency weights must sum to 100, got %g", sum)
	}
	for name, w := range map[string]float64{
		"completion": c.Weights.Completion,
		"timeliness": c.Weights.Timeliness,
		"difficulty": c.Weights.Difficulty,
		"streak":     c.Weights.Streak,
		"points":     c.Weights.Points,
	} {
		if w < 0 {
			return fmt.Errorf("weight %s must not be negative", name)
		}
	}
	for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		w, ok := c.DifficultyWeights[d]
		if !ok {
			return fmt.Errorf("missing difficulty weight for %s", d)
		}
		if w < 0 {
			return fmt.Errorf("difficulty weight for %s must not be negative", d)
		}
	}
	if c.TimelinessCapDays <= 0 {
		return fmt.Errorf("timeliness cap must be positive, got %g", c.TimelinessCapDays)
	}
	return nil
}

// IsDemoUser reports whether id belongs to a synthetic demo user.
func (c Config) IsDemoUser(id string) bool {
	return c.DemoUserPrefix != "" && strings.HasPrefix(id, c.DemoUserPrefix)
}

func (c Config) maxDifficultyWeight() float64 {
	var m float64
	for _, w := range c.DifficultyWeights {
		m = math.Max(m, w)
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
