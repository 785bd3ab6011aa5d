package conga

// CongaBonus is the deduction awarded for closing with zero leftover
const CongaBonus = 10

// scoreRound computes each player's penalty points for the round from the
// canonical decompositions. Points are a player's own leftover value; the
// closer earns a CongaBonus deduction for a perfect close.
func scoreRound(closer int, decomps [2]Decomposition) [2]int {
	var points [2]int
	for i, d := range decomps {
		points[i] = d.LeftoverValue()
	}

	if points[closer] == 0 {
		points[closer] = -CongaBonus
	}

	return points
}
