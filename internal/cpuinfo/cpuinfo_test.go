package cpuinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "scalar", LevelScalar.String())
	assert.Equal(t, "avx2", LevelAVX2.String())
	assert.Equal(t, "neon", LevelNEON.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestLanes(t *testing.T) {
	assert.Equal(t, max(CurrentWidth()/4, 1), Lanes(4))
	assert.Equal(t, 1, Lanes(0))
	assert.LessOrEqual(t, Lanes(1), MaxLanes)
}

func TestLanesFollowForce(t *testing.T) {
	tests := []struct {
		level Level
		width int
		f64   int
		f32   int
		int8  int
	}{
		{LevelScalar, 0, 1, 1, 1},
		{LevelSSE2, 16, 2, 4, 16},
		{LevelNEON, 16, 2, 4, 16},
		{LevelAVX2, 32, 4, 8, 32},
		{LevelAVX512, 64, 8, 16, 64},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			restore := Force(tt.level)
			defer restore()
			assert.Equal(t, tt.width, CurrentWidth())
			assert.Equal(t, tt.f64, Lanes(8))
			assert.Equal(t, tt.f32, Lanes(4))
			assert.Equal(t, tt.int8, Lanes(1))
		})
	}
}

func TestForce(t *testing.T) {
	before := CurrentLevel()
	restore := Force(LevelScalar)
	assert.Equal(t, LevelScalar, CurrentLevel())
	restore()
	assert.Equal(t, before, CurrentLevel())
}

func TestNoSIMDEnv(t *testing.T) {
	t.Setenv(EnvNoSIMD, "")
	assert.False(t, NoSIMDEnv())
	t.Setenv(EnvNoSIMD, "1")
	assert.True(t, NoSIMDEnv())
	t.Setenv(EnvNoSIMD, "false")
	assert.False(t, NoSIMDEnv())
	t.Setenv(EnvNoSIMD, "yes")
	assert.True(t, NoSIMDEnv())
}

func TestL2CacheSize(t *testing.T) {
	assert.Greater(t, L2CacheSize(), 0)
}
