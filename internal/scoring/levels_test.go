package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltInLevelTablesAreValid(t *testing.T) {
	require.NoError(t, ValidateLevels(CanonicalLevels()))
	require.NoError(t, ValidateLevels(LegacyLevels()))

	var thresholds []int
	for _, l := range CanonicalLevels() {
		thresholds = append(thresholds, l.PointsRequired)
	}
	assert.Equal(t, []int{0, 25, 75, 150, 300, 500, 1000, 2000, 3500, 5000}, thresholds)

	thresholds = nil
	for _, l := range LegacyLevels() {
		thresholds = append(thresholds, l.PointsRequired)
	}
	assert.Equal(t, []int{0, 100, 250, 450, 700, 1000, 1350, 1750, 2200, 2700}, thresholds)
}

func TestCanonicalLevelsReturnsCopy(t *testing.T) {
	levels := CanonicalLevels()
	levels[0].PointsRequired = 99
	levels[0].Rewards[0] = "changed"

	fresh := CanonicalLevels()
	assert.Equal(t, 0, fresh[0].PointsRequired)
	assert.NotEqual(t, "changed", fresh[0].Rewards[0])
}

func TestValidateLevels(t *testing.T) {
	tests := []struct {
		name    string
		levels  []Level
		wantErr bool
	}{
		{name: "empty", levels: nil, wantErr: true},
		{name: "first level not zero", levels: []Level{{Level: 1, PointsRequired: 5}}, wantErr: true},
		{name: "first level not one", levels: []Level{{Level: 2, PointsRequired: 0}}, wantErr: true},
		{name: "level numbers repeat", levels: []Level{{Level: 1}, {Level: 1, PointsRequired: 10}}, wantErr: true},
		{name: "threshold decreases", levels: []Level{{Level: 1}, {Level: 2, PointsRequired: 10}, {Level: 3, PointsRequired: 5}}, wantErr: true},
		{name: "equal thresholds allowed", levels: []Level{{Level: 1}, {Level: 2, PointsRequired: 10}, {Level: 3, PointsRequired: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLevels(tt.levels)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveLevel(t *testing.T) {
	cfg := CanonicalConfig()

	tests := []struct {
		points      int
		wantLevel   int
		wantCurrent int
		wantToNext  int
	}{
		{points: 0, wantLevel: 1, wantCurrent: 0, wantToNext: 25},
		{points: 20, wantLevel: 1, wantCurrent: 20, wantToNext: 5},
		{points: 25, wantLevel: 2, wantCurrent: 0, wantToNext: 50},
		{points: 149, wantLevel: 3, wantCurrent: 74, wantToNext: 1},
		{points: 4999, wantLevel: 9, wantCurrent: 1499, wantToNext: 1},
		{points: 5000, wantLevel: 10, wantCurrent: 0, wantToNext: 0},
		{points: 12000, wantLevel: 10, wantCurrent: 7000, wantToNext: 0},
	}

	for _, tt := range tests {
		p := cfg.ResolveLevel(tt.points)
		assert.Equal(t, tt.wantLevel, p.Level.Level, "points=%d", tt.points)
		assert.Equal(t, tt.wantCurrent, p.CurrentLevelPoints, "points=%d", tt.points)
		assert.Equal(t, tt.wantToNext, p.PointsToNextLevel, "points=%d", tt.points)
	}
}

func TestResolveLevelIsMonotonic(t *testing.T) {
	for _, cfg := range []Config{CanonicalConfig(), LegacyConfig()} {
		prev := 0
		for p := 0; p <= 6000; p++ {
			lvl := cfg.ResolveLevel(p).Level.Level
			require.GreaterOrEqual(t, lvl, prev, "%s: points=%d", cfg.Version, p)
			prev = lvl
		}
	}
}

func TestResolveLevelLegacyTable(t *testing.T) {
	p := LegacyConfig().ResolveLevel(300)
	assert.Equal(t, 3, p.Level.Level)
	assert.Equal(t, 50, p.CurrentLevelPoints)
	assert.Equal(t, 150, p.PointsToNextLevel)
}
