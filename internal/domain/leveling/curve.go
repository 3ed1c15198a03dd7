package leveling

import "sort"

// thresholds[i] is the minimum total experience required for level i+1. The
// curve is fixed, a user below thresholds[0] is level 0.
var thresholds = []uint64{
	100,   // level 1
	300,   // level 2
	600,   // level 3
	1000,  // level 4
	1500,  // level 5
	2100,  // level 6
	2800,  // level 7
	3600,  // level 8
	4500,  // level 9
	5500,  // level 10
	6600,  // level 11
	7800,  // level 12
	9100,  // level 13
	10500, // level 14
	12000, // level 15
	13600, // level 16
	15300, // level 17
	17100, // level 18
	19000, // level 19
	21000, // level 20
}

// LevelOf maps accumulated experience to a level. It is pure and monotonic
// non-decreasing, experience beyond the last threshold stays at the top level.
func LevelOf(totalXp uint64) int {
	return sort.Search(len(thresholds), func(i int) bool {
		return thresholds[i] > totalXp
	})
}

// MaxLevel returns the highest level the curve can produce.
func MaxLevel() int {
	return len(thresholds)
}
