package conga

import (
	"io/ioutil"
	"testing"

	"conga-server/pkg/deck"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}

func newStartedGame(t *testing.T, opts Options) *Game {
	t.Helper()

	g := NewGame(testLogger(), opts)
	g.SetSeed(1)

	started, err := g.Ready(0)
	assert.NoError(t, err)
	assert.False(t, started)

	started, err = g.Ready(1)
	assert.NoError(t, err)
	assert.True(t, started)

	return g
}

func TestNewGame_NotStarted(t *testing.T) {
	a := assert.New(t)
	g := NewGame(testLogger(), DefaultOptions())

	a.False(g.Started())
	a.Equal(PhaseNotStarted, g.Phase())

	state := g.StateFor(0)
	a.False(state.GameStarted)
	a.Empty(state.Hand)
	a.Equal(0, state.OppCount)

	_, err := g.DrawDeck(0)
	a.Equal(ErrRoundNotStarted, err)
}

func TestGame_StartRound(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	a.Equal(PhaseAwaitingDraw, g.Phase())
	a.Equal(0, g.Turn())
	a.Equal(7, len(g.players[0].hand))
	a.Equal(7, len(g.players[1].hand))
	a.Equal(25, g.deck.CardsLeft())
	a.Equal(1, len(g.discard))
	a.Equal(40, g.CardCount())

	// hands are disjoint and every card is unique
	seen := make(map[deck.Card]bool)
	all := append(g.players[0].hand.Clone(), g.players[1].hand...)
	all = append(all, g.discard...)
	all = append(all, g.deck.Cards...)
	for _, c := range all {
		a.False(seen[c])
		seen[c] = true
	}
	a.Equal(40, len(seen))
}

func TestGame_DrawDeck(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	// the non-acting player is rejected without mutating state
	_, err := g.DrawDeck(1)
	a.Equal(ErrNotPlayersTurn, err)
	a.Equal(7, len(g.players[1].hand))

	card, err := g.DrawDeck(0)
	a.NoError(err)
	a.True(card.IsValid())
	a.Equal(8, len(g.players[0].hand))
	a.True(g.players[0].hand.HasCard(card))
	a.Equal(24, g.deck.CardsLeft())
	a.Equal(PhaseAwaitingDiscardOrClose, g.Phase())
	a.Equal(40, g.CardCount())

	// second draw in the same turn is rejected
	_, err = g.DrawDeck(0)
	a.Equal(ErrWrongPhase, err)

	// opponent still can't act
	_, err = g.DrawDeck(1)
	a.Equal(ErrNotPlayersTurn, err)
}

func TestGame_DiscardAndRoundTrip(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	drawn, err := g.DrawDeck(0)
	a.NoError(err)

	// discarding a card we don't hold fails
	other := deck.CardFromString("1d")
	if g.players[0].hand.HasCard(other) {
		other = deck.CardFromString("2b")
	}
	if !g.players[0].hand.HasCard(other) {
		a.Equal(ErrCardNotInHand, g.Discard(0, other))
	}

	a.NoError(g.Discard(0, drawn))
	a.Equal(7, len(g.players[0].hand))
	a.Equal(PhaseAwaitingDraw, g.Phase())
	a.Equal(1, g.Turn())

	// the opponent draws the just-discarded card back: bit-identical
	got, err := g.DrawDiscard(1)
	a.NoError(err)
	a.Equal(drawn, got)
	a.True(g.players[1].hand.HasCard(drawn))
	a.Equal(40, g.CardCount())
}

func TestGame_DrawDiscard_Empty(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	g.discard = deck.Hand{}
	_, err := g.DrawDiscard(0)
	a.Equal(ErrEmptyDiscardPile, err)
	a.Equal(PhaseAwaitingDraw, g.Phase())
}

func TestGame_DrawDeck_Replenish(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	// move all but one deck card onto the discard pile
	for g.deck.CardsLeft() > 1 {
		c, err := g.deck.Draw()
		a.NoError(err)
		g.discard.AddCard(c)
	}

	// this draw empties the deck; the discard pile minus its top card
	// gets shuffled back in immediately
	_, err := g.DrawDeck(0)
	a.NoError(err)
	a.Equal(24, g.deck.CardsLeft())
	a.Equal(1, len(g.discard))
	a.Equal(40, g.CardCount())
}

func TestGame_DrawDeck_Exhausted(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	g.deck.Cards = nil
	a.Equal(1, len(g.discard))

	_, err := g.DrawDeck(0)
	a.Equal(ErrDeckExhausted, err)
	a.Equal(PhaseAwaitingDraw, g.Phase())
	a.Equal(7, len(g.players[0].hand))
}

func TestGame_Reorder(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	hand := g.players[0].hand.Clone()
	reversed := make([]deck.Card, 0, len(hand))
	for i := len(hand) - 1; i >= 0; i-- {
		reversed = append(reversed, hand[i])
	}

	// reorder is allowed off-turn and doesn't touch the phase
	a.NoError(g.Reorder(1, g.players[1].hand.Clone()))
	a.Equal(PhaseAwaitingDraw, g.Phase())

	a.NoError(g.Reorder(0, reversed))
	a.Equal(deck.Hand(reversed), g.players[0].hand)

	// idempotent: applying the same permutation again changes nothing
	a.NoError(g.Reorder(0, reversed))
	a.Equal(deck.Hand(reversed), g.players[0].hand)

	// wrong multiset is rejected
	bad := reversed[:6]
	a.Equal(ErrHandMismatch, g.Reorder(0, bad))

	// duplicate cards are rejected before they reach the engine
	dup := append(reversed[:6:6], reversed[0])
	a.Equal(deck.ErrDuplicateCard, g.Reorder(0, dup))
}

func TestGame_RussiaEffect(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	g.players[0].hand, _ = deck.NewHand(deck.CardsFromString("7b,7c,1d,3s,5s,Rd,Cb"))
	g.discard = deck.Hand{deck.CardFromString("7s")}

	card, err := g.DrawDiscard(0)
	a.NoError(err)
	a.Equal(deck.CardFromString("7s"), card)

	a.Equal(EffectRussia, g.StateFor(0).Effect)
	a.Equal(EffectRussia, g.TakeEffect())
	a.Equal("", g.TakeEffect())
	a.Equal("", g.StateFor(0).Effect)
}

func TestGame_DrawDiscard_NoEffect(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	g.players[0].hand, _ = deck.NewHand(deck.CardsFromString("7b,2c,1d,3s,5s,Rd,Cb"))
	g.discard = deck.Hand{deck.CardFromString("7s")}

	_, err := g.DrawDiscard(0)
	a.NoError(err)
	a.Equal("", g.TakeEffect())
}

func TestGame_Close(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	g.players[0].hand, _ = deck.NewHand(deck.CardsFromString("1d,2d,3d,4d,5d,6d,7d,Rs"))
	g.players[1].hand, _ = deck.NewHand(deck.CardsFromString("1s,5b,6c,Rd,Cb,2c,3s"))
	g.turn = 0
	g.phase = PhaseAwaitingDiscardOrClose

	res, err := g.Close(0, deck.CardFromString("Rs"))
	a.NoError(err)
	a.Equal(TypeRoundOver, res.Type)
	a.Equal(0, res.Winner)
	a.Equal(-CongaBonus, res.P0Points)
	a.Equal(36, res.P1Points)
	a.Equal([2]int{-10, 36}, res.TotalScores)
	a.Equal(PhaseRoundClosed, g.Phase())
	a.Equal(0, g.closedBy)

	// both hands are revealed with their decompositions
	a.Equal(7, len(res.HandsAtEnd[0].Cards))
	a.Equal(1, len(res.HandsAtEnd[0].Melds))
	a.Empty(res.HandsAtEnd[0].Leftover)
	a.Equal(7, len(res.HandsAtEnd[1].Cards))
	a.Equal(7, len(res.HandsAtEnd[1].Leftover))

	// no further play until both players ready up
	_, err = g.DrawDeck(0)
	a.Equal(ErrWrongPhase, err)
	_, err = g.DrawDeck(1)
	a.Equal(ErrNotPlayersTurn, err)

	a.NotNil(g.LastResult())
	a.False(g.StateFor(0).GameStarted)
}

func TestGame_Close_Invalid(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	g.players[0].hand, _ = deck.NewHand(deck.CardsFromString("1d,3b,5c,7s,Cd,2b,4s,Rs"))
	g.turn = 0
	g.phase = PhaseAwaitingDiscardOrClose

	_, err := g.Close(0, deck.CardFromString("Rs"))
	a.Equal(ErrInvalidClose, err)

	// a failed close must not mutate anything
	a.Equal(8, len(g.players[0].hand))
	a.Equal(PhaseAwaitingDiscardOrClose, g.Phase())
	a.Equal(0, g.players[0].totalScore)
}

func TestGame_Close_Threshold(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	// leftover after closing is the 4b (value 4), within the default threshold
	g.players[0].hand, _ = deck.NewHand(deck.CardsFromString("1d,2d,3d,7b,7c,7s,4b,Rs"))
	g.players[1].hand, _ = deck.NewHand(deck.CardsFromString("1s,5b,6c,Rd,Cb,2c,3s"))
	g.turn = 0
	g.phase = PhaseAwaitingDiscardOrClose

	res, err := g.Close(0, deck.CardFromString("Rs"))
	a.NoError(err)
	a.Equal(4, res.P0Points)
}

func TestGame_GameOver(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, Options{CloseThreshold: 5, TargetScore: 30})

	g.players[0].hand, _ = deck.NewHand(deck.CardsFromString("1d,2d,3d,4d,5d,6d,7d,Rs"))
	g.players[1].hand, _ = deck.NewHand(deck.CardsFromString("1s,5b,6c,Rd,Cb,2c,3s"))
	g.turn = 0
	g.phase = PhaseAwaitingDiscardOrClose

	res, err := g.Close(0, deck.CardFromString("Rs"))
	a.NoError(err)
	a.Equal(TypeGameOver, res.Type)
	a.Equal(0, res.Winner)
	a.True(g.IsGameOver())

	_, err = g.Ready(0)
	a.Equal(ErrGameIsOver, err)
	_, err = g.DrawDeck(0)
	a.Equal(ErrGameIsOver, err)
}

func TestGame_ReadyNextRound(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	g.players[0].hand, _ = deck.NewHand(deck.CardsFromString("1d,2d,3d,4d,5d,6d,7d,Rs"))
	g.players[1].hand, _ = deck.NewHand(deck.CardsFromString("1s,5b,6c,Rd,Cb,2c,3s"))
	g.turn = 0
	g.phase = PhaseAwaitingDiscardOrClose

	_, err := g.Close(0, deck.CardFromString("Rs"))
	a.NoError(err)

	// ready is rejected mid-round, fine after a close
	started, err := g.Ready(0)
	a.NoError(err)
	a.False(started)

	started, err = g.Ready(1)
	a.NoError(err)
	a.True(started)

	a.Equal(PhaseAwaitingDraw, g.Phase())
	a.Equal(-1, g.closedBy)
	a.Nil(g.LastResult())
	a.Equal(7, len(g.players[0].hand))
	a.Equal(7, len(g.players[1].hand))
	a.Equal(40, g.CardCount())

	// totals carry over, the second round opens with the other seat
	a.Equal([2]int{-10, 36}, g.StateFor(0).Scores)
	a.Equal(1, g.Turn())
}

func TestGame_ReadyMidRound(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	_, err := g.Ready(0)
	a.Equal(ErrRoundNotOver, err)
}

func TestGame_Forfeit(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	res, err := g.Forfeit(0)
	a.NoError(err)
	a.Equal(TypeGameOver, res.Type)
	a.Equal(1, res.Winner)
	a.True(g.IsGameOver())

	_, err = g.Forfeit(1)
	a.Equal(ErrGameIsOver, err)
}

func TestGame_StateFor_HidesOpponentHand(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	state := g.StateFor(0)
	a.True(state.GameStarted)
	a.Equal(0, state.PlayerIdx)
	a.Equal(7, len(state.Hand))
	a.Equal(7, state.OppCount)
	a.Equal(25, state.DeckCount)
	a.NotNil(state.TopDiscard)
	a.Equal(deck.Hand(state.Hand).String(), g.players[0].hand.String())

	state1 := g.StateFor(1)
	a.Equal(1, state1.PlayerIdx)
	a.Equal(deck.Hand(state1.Hand).String(), g.players[1].hand.String())
}

func TestGame_InvalidSeat(t *testing.T) {
	a := assert.New(t)
	g := newStartedGame(t, DefaultOptions())

	_, err := g.DrawDeck(2)
	a.Equal(ErrInvalidSeat, err)
	_, err = g.Ready(-1)
	a.Equal(ErrInvalidSeat, err)
}
