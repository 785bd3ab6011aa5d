package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Suit represents a card suit of the Italian 40-card deck
type Suit string

// suit constants
const (
	Denari  Suit = "Denari"
	Bastoni Suit = "Bastoni"
	Coppe   Suit = "Coppe"
	Spade   Suit = "Spade"
)

// Suits lists every suit in deck-building order
var Suits = []Suit{Denari, Bastoni, Coppe, Spade}

// face cards. They display as F/C/R but rank numerically for runs and scoring.
const (
	Fante   = 8
	Cavallo = 9
	Re      = 10
)

// MaxRank is the highest rank in the deck
const MaxRank = Re

// Card is an individual playing card.
// It is a comparable value type; equality is (suit, rank).
// The JSON field names are the wire contract with the browser client.
type Card struct {
	Suit Suit `json:"s"`
	Rank int  `json:"v"`
}

func (c Card) String() string {
	var rank string
	switch c.Rank {
	case Fante:
		rank = "F"
	case Cavallo:
		rank = "C"
	case Re:
		rank = "R"
	default:
		rank = strconv.Itoa(c.Rank)
	}

	var suit string
	switch c.Suit {
	case Denari:
		suit = "d"
	case Bastoni:
		suit = "b"
	case Coppe:
		suit = "c"
	case Spade:
		suit = "s"
	default:
		suit = "?"
	}

	return rank + suit
}

// Equal returns true if the cards are equal (matches suit and rank)
func (c Card) Equal(card Card) bool {
	return c == card
}

// Value returns the card's scoring value
func (c Card) Value() int {
	return c.Rank
}

// IsValid returns true if the card belongs to the 40-card deck
func (c Card) IsValid() bool {
	if c.Rank < 1 || c.Rank > MaxRank {
		return false
	}

	switch c.Suit {
	case Denari, Bastoni, Coppe, Spade:
		return true
	}

	return false
}

var cardRx = regexp.MustCompile(`(?i)^([1-9]|10|[fcr])([dbcs])\z`)

// CardFromString returns a Card from the string.
// The string must be in the format of <rank><suit> where rank is 1-10 or
// one of F/C/R and suit is one of d/b/c/s. e.g. "7d" or "Rs".
func CardFromString(s string) Card {
	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	var rank int
	switch strings.ToUpper(match[1]) {
	case "F":
		rank = Fante
	case "C":
		rank = Cavallo
	case "R":
		rank = Re
	default:
		var err error
		rank, err = strconv.Atoi(match[1])
		if err != nil {
			panic(fmt.Sprintf("could not parse card `%s`: %v", s, err))
		}
	}

	var suit Suit
	switch strings.ToLower(match[2]) {
	case "d":
		suit = Denari
	case "b":
		suit = Bastoni
	case "c":
		suit = Coppe
	case "s":
		suit = Spade
	}

	return Card{
		Rank: rank,
		Suit: suit,
	}
}

// CardsFromString will return a slice of cards from a comma-separated string
func CardsFromString(s string) []Card {
	if s == "" {
		return []Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardsToString will convert a slice of cards to a string in the format of 1d,Fb,...
func CardsToString(cards []Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = card.String()
	}

	return strings.Join(c, ",")
}
