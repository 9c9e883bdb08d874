package app

import "math"

// ExactMatch reports whether the selected indices equal the correct set
// exactly. Subsets and supersets score as wrong; there is no partial credit.
func ExactMatch(selected, correct []int) bool {
	sel := toSet(selected)
	cor := toSet(correct)
	if len(sel) != len(cor) {
		return false
	}
	for idx := range cor {
		if _, ok := sel[idx]; !ok {
			return false
		}
	}
	return true
}

// SessionScore is the aggregate percentage, rounded to two decimals.
// A zero total yields 0 rather than dividing by zero.
func SessionScore(correctCount, totalQuestions int) float64 {
	if totalQuestions == 0 {
		return 0
	}
	return math.Round(float64(correctCount)/float64(totalQuestions)*10000) / 100
}

func toSet(indices []int) map[int]struct{} {
	set := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		set[idx] = struct{}{}
	}
	return set
}
