package deck

import "errors"

// ErrDuplicateCard is an error when the same card appears twice
var ErrDuplicateCard = errors.New("duplicate card")

// ErrInvalidCard is an error when a card is outside the 40-card deck
var ErrInvalidCard = errors.New("invalid card")

// Hand represents a collection of cards
type Hand []Card

// NewHand builds a hand from the cards, rejecting duplicates and invalid cards
func NewHand(cards []Card) (Hand, error) {
	seen := make(map[Card]bool, len(cards))
	h := make(Hand, 0, len(cards))
	for _, card := range cards {
		if !card.IsValid() {
			return nil, ErrInvalidCard
		}

		if seen[card] {
			return nil, ErrDuplicateCard
		}

		seen[card] = true
		h = append(h, card)
	}

	return h, nil
}

func (h Hand) Len() int {
	return len(h)
}

func (h Hand) Less(i, j int) bool {
	if h[i].Suit != h[j].Suit {
		return h[i].Suit < h[j].Suit
	}

	return h[i].Rank < h[j].Rank
}

func (h Hand) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(card Card) {
	*h = append(*h, card)
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card Card) bool {
	for _, c := range h {
		if c == card {
			return true
		}
	}

	return false
}

// Discard removes the specified card from the hand.
// Returns false if the card is not in the hand.
func (h *Hand) Discard(card Card) bool {
	for i, c := range *h {
		if c == card {
			*h = append((*h)[:i], (*h)[i+1:]...)
			return true
		}
	}

	return false
}

// Value returns the summed scoring value of the hand
func (h Hand) Value() int {
	total := 0
	for _, c := range h {
		total += c.Value()
	}

	return total
}

// SameCards returns true if the other hand holds exactly the same cards,
// in any order. Both hands are assumed duplicate-free.
func (h Hand) SameCards(other Hand) bool {
	if len(h) != len(other) {
		return false
	}

	seen := make(map[Card]bool, len(h))
	for _, c := range h {
		seen[c] = true
	}

	for _, c := range other {
		if !seen[c] {
			return false
		}
	}

	return true
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
