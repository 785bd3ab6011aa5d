package deck

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHand(t *testing.T) {
	a := assert.New(t)

	h, err := NewHand(CardsFromString("1d,2d,3d"))
	a.NoError(err)
	a.Equal(3, h.Len())

	_, err = NewHand(CardsFromString("7s,3d,7s"))
	a.Equal(ErrDuplicateCard, err)

	_, err = NewHand([]Card{{Suit: Denari, Rank: 11}})
	a.Equal(ErrInvalidCard, err)
}

func TestHand_AddAndDiscard(t *testing.T) {
	a := assert.New(t)

	h, _ := NewHand(CardsFromString("1d,2d,3d"))
	h.AddCard(CardFromString("Rs"))
	a.Equal(4, h.Len())
	a.True(h.HasCard(CardFromString("Rs")))

	a.True(h.Discard(CardFromString("2d")))
	a.False(h.HasCard(CardFromString("2d")))
	a.Equal(3, h.Len())

	a.False(h.Discard(CardFromString("2d")))
	a.Equal(3, h.Len())
}

func TestHand_Value(t *testing.T) {
	a := assert.New(t)
	h, _ := NewHand(CardsFromString("1d,7b,Fc,Rs"))
	a.Equal(1+7+8+10, h.Value())
	a.Equal(0, Hand{}.Value())
}

func TestHand_SameCards(t *testing.T) {
	a := assert.New(t)
	h, _ := NewHand(CardsFromString("1d,2d,3d"))

	a.True(h.SameCards(CardsFromString("3d,1d,2d")))
	a.False(h.SameCards(CardsFromString("3d,1d")))
	a.False(h.SameCards(CardsFromString("3d,1d,4d")))
}

func TestHand_Sort(t *testing.T) {
	a := assert.New(t)
	h := Hand(CardsFromString("Rs,1d,7b,2d"))
	sort.Sort(h)
	a.Equal("7b,1d,2d,Rs", h.String())
}

func TestHand_Clone(t *testing.T) {
	a := assert.New(t)
	h, _ := NewHand(CardsFromString("1d,2d"))
	clone := h.Clone()
	clone.AddCard(CardFromString("3d"))
	a.Equal(2, h.Len())
	a.Equal(3, clone.Len())
}
