package leveling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelOf_Boundaries(t *testing.T) {
	require.Equal(t, 0, LevelOf(0))
	require.Equal(t, 0, LevelOf(99))
	require.Equal(t, 1, LevelOf(100))
	require.Equal(t, 1, LevelOf(299))
	require.Equal(t, 2, LevelOf(300))
	require.Equal(t, 19, LevelOf(20999))
	require.Equal(t, 20, LevelOf(21000))
}

func TestLevelOf_CapsAtMaxLevel(t *testing.T) {
	require.Equal(t, MaxLevel(), LevelOf(21000))
	require.Equal(t, MaxLevel(), LevelOf(1_000_000))
	require.Equal(t, MaxLevel(), LevelOf(math.MaxUint64))
}

func TestLevelOf_Monotonic(t *testing.T) {
	prev := LevelOf(0)
	for xp := uint64(1); xp <= 25000; xp++ {
		level := LevelOf(xp)
		require.GreaterOrEqual(t, level, prev, "xp=%d", xp)
		require.LessOrEqual(t, level-prev, 1, "xp=%d", xp)
		prev = level
	}
}
