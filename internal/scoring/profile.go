package scoring

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/homequest/chorequest/internal/models"
)

// profileFile is the YAML shape of a custom scoring profile. Missing fields
// fall back to the profile named in Base.
type profileFile struct {
	Version           string                        `yaml:"version"`
	Base              string                        `yaml:"base"`
	Levels            []Level                       `yaml:"levels"`
	Weights           *Weights                      `yaml:"weights"`
	DifficultyWeights map[models.Difficulty]float64 `yaml:"difficulty_weights"`
	TimelinessCapDays *float64                      `yaml:"timeliness_cap_days"`
	DemoUserPrefix    *string                       `yaml:"demo_user_prefix"`
}

// LoadConfig reads a YAML scoring profile, layers it over its base profile
// and validates the result.
func LoadConfig(r io.Reader) (Config, error) {
	var pf profileFile
	if err := yaml.NewDecoder(r).Decode(&pf); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("failed to decode scoring profile: %w", err)
	}

	cfg, err := ConfigByName(pf.Base)
	if err != nil {
		return Config{}, err
	}

	if pf.Version != "" {
		cfg.Version = pf.Version
	}
	if len(pf.Levels) > 0 {
		cfg.Levels = pf.Levels
	}
	if pf.Weights != nil {
		cfg.Weights = *pf.Weights
	}
	for d, w := range pf.DifficultyWeights {
		cfg.DifficultyWeights[d] = w
	}
	if pf.TimelinessCapDays != nil {
		cfg.TimelinessCapDays = *pf.TimelinessCapDays
	}
	if pf.DemoUserPrefix != nil {
		cfg.DemoUserPrefix = *pf.DemoUserPrefix
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid scoring profile %q: %w", cfg.Version, err)
	}
	return cfg, nil
}

// LoadConfigFile is LoadConfig for a file on disk.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open scoring profile: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}
