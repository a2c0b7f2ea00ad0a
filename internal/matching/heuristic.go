package matching

import (
	"math"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/pkg/utils"
)

// HeuristicScore averages 1-|u-c| over the dimensions both profiles carry and scales
// it to [0,100] with one decimal. Profiles with no common dimension score neutral.
func HeuristicScore(user, candidate models.ValueProfile, neutral float64) float64 {
	var sum float64
	n := 0
	for _, key := range user.Keys() {
		c, ok := candidate[key]
		if !ok {
			continue
		}
		sum += 1 - math.Abs(user[key]-c)
		n++
	}

	if n == 0 {
		return neutral
	}
	return utils.Round1(utils.Clamp(sum/float64(n)*100, 0, 100))
}
