package matching

import "github.com/mroshb/value_matcher/pkg/utils"

// Damp lowers a score for a candidate the user skipped before. Other actions leave
// the score alone.
func Damp(score float64, skipped bool, factor float64) float64 {
	if !skipped {
		return score
	}
	return utils.Round1(score * factor)
}
