package conga

import (
	"sort"

	"conga-server/pkg/deck"
)

// MinMeldSize is the minimum number of cards in a set or run
const MinMeldSize = 3

// Meld is a set (equal rank, distinct suits) or a run (consecutive ranks,
// same suit) of at least three cards
type Meld []deck.Card

// Decomposition partitions a hand into disjoint melds plus leftover cards.
// Every card of the hand appears exactly once, either in a meld or in Leftover.
type Decomposition struct {
	Melds    []Meld    `json:"melds"`
	Leftover deck.Hand `json:"leftover"`
}

// LeftoverValue returns the summed value of the unmelded cards
func (d Decomposition) LeftoverValue() int {
	return d.Leftover.Value()
}

// candidateMeld is a meld over hand indices, tracked as a bitmask
type candidateMeld struct {
	mask  uint16
	cards Meld
	isRun bool
}

// FindBestDecomposition returns the decomposition of the hand that minimizes
// the leftover value. Ties are broken by preferring runs over sets (more
// cards melded in runs wins), then by the canonical meld ordering, so the
// result is deterministic for a given set of cards.
//
// The hand is at most 8 cards, so at most two disjoint melds fit and the
// search space is tiny. Candidate melds are enumerated up front and the
// search walks disjoint combinations with a bounded depth.
func FindBestDecomposition(hand deck.Hand) Decomposition {
	candidates := enumerateMelds(hand)

	var best Decomposition
	bestFound := false

	var walk func(start int, used uint16, chosen []candidateMeld)
	walk = func(start int, used uint16, chosen []candidateMeld) {
		d := buildDecomposition(hand, used, chosen)
		if !bestFound || betterDecomposition(d, best) {
			best = d
			bestFound = true
		}

		for i := start; i < len(candidates); i++ {
			c := candidates[i]
			if used&c.mask != 0 {
				continue
			}

			walk(i+1, used|c.mask, append(chosen, c))
		}
	}

	walk(0, 0, nil)
	return best
}

// CanClose returns true if the hand's best decomposition leaves at most
// threshold points unmelded
func CanClose(hand deck.Hand, threshold int) bool {
	return FindBestDecomposition(hand).LeftoverValue() <= threshold
}

// CompletesMeld returns true if adding card to the hand forms a set or run
// of at least MinMeldSize that contains the card
func CompletesMeld(card deck.Card, hand deck.Hand) bool {
	sameRank := 0
	for _, c := range hand {
		if c.Rank == card.Rank && c.Suit != card.Suit {
			sameRank++
		}
	}

	if sameRank >= MinMeldSize-1 {
		return true
	}

	held := make(map[int]bool, len(hand))
	for _, c := range hand {
		if c.Suit == card.Suit {
			held[c.Rank] = true
		}
	}

	chain := 1
	for r := card.Rank - 1; r >= 1 && held[r]; r-- {
		chain++
	}
	for r := card.Rank + 1; r <= deck.MaxRank && held[r]; r++ {
		chain++
	}

	return chain >= MinMeldSize
}

func enumerateMelds(hand deck.Hand) []candidateMeld {
	candidates := make([]candidateMeld, 0)

	// sets: for each rank, every suit subset of size >= 3
	byRank := make(map[int][]int)
	for i, c := range hand {
		byRank[c.Rank] = append(byRank[c.Rank], i)
	}

	for _, indices := range byRank {
		if len(indices) < MinMeldSize {
			continue
		}

		sort.Slice(indices, func(a, b int) bool {
			return suitOrder(hand[indices[a]].Suit) < suitOrder(hand[indices[b]].Suit)
		})

		for subset := 1; subset < 1<<len(indices); subset++ {
			if popCount(subset) < MinMeldSize {
				continue
			}

			var mask uint16
			cards := make(Meld, 0, len(indices))
			for bit, idx := range indices {
				if subset&(1<<bit) != 0 {
					mask |= 1 << idx
					cards = append(cards, hand[idx])
				}
			}

			candidates = append(candidates, candidateMeld{mask: mask, cards: cards})
		}
	}

	// runs: for each suit, every window of >= 3 consecutive ranks
	bySuit := make(map[deck.Suit][]int)
	for i, c := range hand {
		bySuit[c.Suit] = append(bySuit[c.Suit], i)
	}

	for _, indices := range bySuit {
		sort.Slice(indices, func(a, b int) bool {
			return hand[indices[a]].Rank < hand[indices[b]].Rank
		})

		for start := 0; start < len(indices); start++ {
			end := start
			for end+1 < len(indices) && hand[indices[end+1]].Rank == hand[indices[end]].Rank+1 {
				end++
			}

			// all sub-windows of the maximal consecutive chain
			for a := start; a+MinMeldSize-1 <= end; a++ {
				for b := a + MinMeldSize - 1; b <= end; b++ {
					var mask uint16
					cards := make(Meld, 0, b-a+1)
					for k := a; k <= b; k++ {
						mask |= 1 << indices[k]
						cards = append(cards, hand[indices[k]])
					}

					candidates = append(candidates, candidateMeld{mask: mask, cards: cards, isRun: true})
				}
			}

			start = end
		}
	}

	return candidates
}

func buildDecomposition(hand deck.Hand, used uint16, chosen []candidateMeld) Decomposition {
	melds := make([]Meld, len(chosen))
	for i, c := range chosen {
		melds[i] = c.cards
	}

	sort.Slice(melds, func(a, b int) bool {
		return meldKey(melds[a]) < meldKey(melds[b])
	})

	leftover := make(deck.Hand, 0, len(hand))
	for i, c := range hand {
		if used&(1<<i) == 0 {
			leftover = append(leftover, c)
		}
	}
	sort.Sort(leftover)

	return Decomposition{Melds: melds, Leftover: leftover}
}

// betterDecomposition reports whether a beats b: lower leftover value first,
// then more cards melded in runs, then the smaller canonical key
func betterDecomposition(a, b Decomposition) bool {
	av, bv := a.LeftoverValue(), b.LeftoverValue()
	if av != bv {
		return av < bv
	}

	ar, br := runCardCount(a), runCardCount(b)
	if ar != br {
		return ar > br
	}

	return decompositionKey(a) < decompositionKey(b)
}

func runCardCount(d Decomposition) int {
	count := 0
	for _, m := range d.Melds {
		if isRun(m) {
			count += len(m)
		}
	}

	return count
}

func isRun(m Meld) bool {
	for i := 1; i < len(m); i++ {
		if m[i].Suit != m[0].Suit {
			return false
		}
	}

	return true
}

func meldKey(m Meld) string {
	return deck.CardsToString(m)
}

func decompositionKey(d Decomposition) string {
	key := ""
	for _, m := range d.Melds {
		key += meldKey(m) + "|"
	}

	return key
}

func suitOrder(s deck.Suit) int {
	for i, suit := range deck.Suits {
		if suit == s {
			return i
		}
	}

	return len(deck.Suits)
}

func popCount(v int) int {
	count := 0
	for ; v != 0; v &= v - 1 {
		count++
	}

	return count
}
